package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ColumnKind is the semantic classification of a column, assigned once per
// run by the classifier and threaded through every later stage.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindDate        ColumnKind = "date"
	KindCategorical ColumnKind = "categorical"
	KindText        ColumnKind = "text"
	KindEmpty       ColumnKind = "empty"
)

type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a single table cell: a number, a string or null. The struct is
// comparable, which keeps row deduplication and predicate checks trivial.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

func Null() Value            { return Value{Kind: ValueNull} }
func Number(f float64) Value { return Value{Kind: ValueNumber, Num: f} }
func Text(s string) Value    { return Value{Kind: ValueText, Str: s} }

func (v Value) IsNull() bool { return v.Kind == ValueNull }

// AsNumber reports the numeric interpretation of the cell. Text cells are
// parsed on the fly so membership and coercion checks share one rule.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Num, true
	case ValueText:
		f, err := strconv.ParseFloat(v.Str, 64)
		return f, err == nil
	}
	return 0, false
}

// String renders the cell the way it is written to CSV output: numbers in
// their shortest form, nulls as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueText:
		return v.Str
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueText:
		return json.Marshal(v.Str)
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		*v = Number(t)
	case string:
		*v = Text(t)
	case bool:
		*v = Text(strconv.FormatBool(t))
	default:
		return fmt.Errorf("unsupported cell value: %s", string(data))
	}
	return nil
}

// Column is an ordered sequence of cells plus the semantic kind the
// classifier assigned to it.
type Column struct {
	Name  string
	Kind  ColumnKind
	Cells []Value
}

// Table is an ordered collection of named columns with aligned row order.
// Every column always has the same number of cells.
type Table struct {
	Columns []Column
}

func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

func (t *Table) Cols() int { return len(t.Columns) }

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil when it does not exist.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnsOfKind lists column names of the given kind in table order.
func (t *Table) ColumnsOfKind(kind ColumnKind) []string {
	var names []string
	for _, c := range t.Columns {
		if c.Kind == kind {
			names = append(names, c.Name)
		}
	}
	return names
}

// Row collects the i-th cell of every column.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.Columns))
	for n, c := range t.Columns {
		row[n] = c.Cells[i]
	}
	return row
}

// Clone makes a deep copy so a pipeline stage never aliases the previous
// stage's buffers.
func (t *Table) Clone() *Table {
	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		cells := make([]Value, len(c.Cells))
		copy(cells, c.Cells)
		out.Columns[i] = Column{Name: c.Name, Kind: c.Kind, Cells: cells}
	}
	return out
}

// Select keeps only the rows whose mask entry is true, preserving order.
func (t *Table) Select(mask []bool) *Table {
	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		cells := make([]Value, 0, len(c.Cells))
		for r, keep := range mask {
			if keep {
				cells = append(cells, c.Cells[r])
			}
		}
		out.Columns[i] = Column{Name: c.Name, Kind: c.Kind, Cells: cells}
	}
	return out
}

// Predicate is one column-scoped row filter: an inclusive range, a value
// set, or a single-value equality check.
type Predicate struct {
	Min    *float64
	Max    *float64
	Values []Value
	Eq     *Value
}

// UnmarshalJSON accepts the three wire forms the original system used:
// an object {"min":..,"max":..,"values":[..]}, a bare list, or a scalar.
func (p *Predicate) UnmarshalJSON(data []byte) error {
	var obj struct {
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
		Values []Value  `json:"values"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && (obj.Min != nil || obj.Max != nil || obj.Values != nil) {
		p.Min, p.Max, p.Values = obj.Min, obj.Max, obj.Values
		return nil
	}
	var list []Value
	if err := json.Unmarshal(data, &list); err == nil {
		p.Values = list
		return nil
	}
	var single Value
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("unsupported filter condition: %s", string(data))
	}
	p.Eq = &single
	return nil
}

func (p Predicate) MarshalJSON() ([]byte, error) {
	switch {
	case p.Eq != nil:
		return json.Marshal(*p.Eq)
	case p.Min != nil || p.Max != nil:
		return json.Marshal(struct {
			Min    *float64 `json:"min,omitempty"`
			Max    *float64 `json:"max,omitempty"`
			Values []Value  `json:"values,omitempty"`
		}{p.Min, p.Max, p.Values})
	default:
		return json.Marshal(p.Values)
	}
}

// FilterSpec maps column names to predicates. Predicates combine with
// logical AND; unknown columns are skipped with a warning.
type FilterSpec map[string]Predicate

// Transformation is a named, order-sensitive rewrite of all numeric
// columns at the moment it is applied.
type Transformation string

const (
	Normalize    Transformation = "normalize"
	Standardize  Transformation = "standardize"
	LogTransform Transformation = "log_transform"
)

// SkipNote records a tolerable per-item failure (unknown filter column,
// non-positive log_transform input, a chart kind that could not be built)
// so callers can inspect skip reasons without catching errors.
type SkipNote struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// StageMeta is the audit record appended after each pipeline stage.
type StageMeta struct {
	File              string           `json:"file,omitempty"`
	Rows              int              `json:"rows"`
	Columns           int              `json:"columns"`
	ColumnNames       []string         `json:"column_names,omitempty"`
	Filters           FilterSpec       `json:"filters_applied,omitempty"`
	Transformations   []Transformation `json:"transformations_applied,omitempty"`
	Skipped           []SkipNote       `json:"skipped,omitempty"`
	DuplicatesRemoved int              `json:"duplicates_removed,omitempty"`
	Timestamp         time.Time        `json:"timestamp"`
}

// RunMetadata is the append-only audit trail of one pipeline instance,
// keyed by stage name. It is reset only when a new run is extracted.
type RunMetadata struct {
	RunID  string               `json:"run_id"`
	Stages map[string]StageMeta `json:"stages"`
}

// Series is one named data series inside a chart descriptor. Points carry
// {x,y} pairs; Values is the flat form used by bar and pie charts.
type Series struct {
	Name   string    `json:"name"`
	Points []Point   `json:"data,omitempty"`
	Values []float64 `json:"values,omitempty"`
}

type Point struct {
	X interface{} `json:"x"`
	Y float64     `json:"y"`
}

type Axis struct {
	Title      string   `json:"title,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Theme is the fixed cosmetic styling every descriptor carries.
type Theme struct {
	Mode       string   `json:"mode"`
	Background string   `json:"background"`
	ForeColor  string   `json:"foreColor"`
	Colors     []string `json:"colors"`
	Height     int      `json:"height"`
}

// ChartConfig is a declarative, renderer-agnostic chart description
// derived from the current table. Never mutated after construction.
type ChartConfig struct {
	Kind   string   `json:"kind"`
	Title  string   `json:"title"`
	Series []Series `json:"series"`
	Labels []string `json:"labels,omitempty"`
	XAxis  Axis     `json:"xaxis"`
	YAxis  Axis     `json:"yaxis"`
	Theme  Theme    `json:"theme"`
}

// FlowNode and FlowEdge describe the ETL process graph included in run
// results for the dashboard front end.
type FlowNode struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type FlowEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type FlowData struct {
	Nodes    []FlowNode  `json:"nodes"`
	Edges    []FlowEdge  `json:"edges"`
	Metadata RunMetadata `json:"metadata"`
}

// RunSummary is the compact result header consumed by CLI, web and email.
type RunSummary struct {
	OriginalRows  int `json:"original_rows"`
	ProcessedRows int `json:"processed_rows"`
	Columns       int `json:"columns"`
}

// RunResult is everything a full extract→transform→load cycle produces.
type RunResult struct {
	OutputFiles   map[string]string      `json:"output_files"`
	ChartConfigs  map[string]ChartConfig `json:"chart_configs"`
	ChartSkips    []SkipNote             `json:"chart_skips,omitempty"`
	FlowData      FlowData               `json:"flow_data"`
	Summary       RunSummary             `json:"summary"`
	DashboardPath string                 `json:"dashboard_path,omitempty"`
}
