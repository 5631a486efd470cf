package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateUnmarshalObject(t *testing.T) {
	var p Predicate
	require.NoError(t, json.Unmarshal([]byte(`{"min":100,"max":500}`), &p))

	require.NotNil(t, p.Min)
	require.NotNil(t, p.Max)
	assert.Equal(t, 100.0, *p.Min)
	assert.Equal(t, 500.0, *p.Max)
	assert.Nil(t, p.Eq)
}

func TestPredicateUnmarshalList(t *testing.T) {
	var p Predicate
	require.NoError(t, json.Unmarshal([]byte(`["Jan","Feb"]`), &p))

	assert.Equal(t, []Value{Text("Jan"), Text("Feb")}, p.Values)
	assert.Nil(t, p.Eq)
}

func TestPredicateUnmarshalScalar(t *testing.T) {
	var p Predicate
	require.NoError(t, json.Unmarshal([]byte(`1200`), &p))

	require.NotNil(t, p.Eq)
	assert.Equal(t, Number(1200), *p.Eq)
}

func TestPredicateRoundTrip(t *testing.T) {
	min := 10.0
	in := Predicate{Min: &min}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	var out Predicate
	require.NoError(t, json.Unmarshal(data, &out))

	require.NotNil(t, out.Min)
	assert.Equal(t, 10.0, *out.Min)
}

func TestValueJSON(t *testing.T) {
	cases := []struct {
		raw  string
		want Value
	}{
		{`null`, Null()},
		{`3.5`, Number(3.5)},
		{`"abc"`, Text("abc")},
		{`true`, Text("true")},
	}
	for _, c := range cases {
		var v Value
		require.NoError(t, json.Unmarshal([]byte(c.raw), &v), c.raw)
		assert.Equal(t, c.want, v, c.raw)
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "", Null().String())
	assert.Equal(t, "1200", Number(1200).String())
	assert.Equal(t, "0.5", Number(0.5).String())
	assert.Equal(t, "Jan", Text("Jan").String())
}
