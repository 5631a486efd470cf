package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronSpec(t *testing.T) {
	tests := []struct {
		name    string
		cadence Cadence
		want    string
		wantErr bool
	}{
		{
			name:    "weekly monday morning",
			cadence: Cadence{Every: "weekly", Day: "monday", At: "08:00"},
			want:    "0 8 * * MON",
		},
		{
			name:    "weekly friday evening",
			cadence: Cadence{Every: "Weekly", Day: "Friday", At: "18:30"},
			want:    "30 18 * * FRI",
		},
		{
			name:    "daily",
			cadence: Cadence{Every: "daily", At: "09:15"},
			want:    "15 9 * * *",
		},
		{
			name:    "monthly mid month",
			cadence: Cadence{Every: "monthly", Day: "15", At: "08:00"},
			want:    "0 8 15 * *",
		},
		{
			name:    "unknown cadence",
			cadence: Cadence{Every: "hourly", At: "08:00"},
			wantErr: true,
		},
		{
			name:    "bad weekday",
			cadence: Cadence{Every: "weekly", Day: "someday", At: "08:00"},
			wantErr: true,
		},
		{
			name:    "bad day of month",
			cadence: Cadence{Every: "monthly", Day: "32", At: "08:00"},
			wantErr: true,
		},
		{
			name:    "bad time",
			cadence: Cadence{Every: "daily", At: "8am"},
			wantErr: true,
		},
		{
			name:    "hour out of range",
			cadence: Cadence{Every: "daily", At: "25:00"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cadence.CronSpec()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRegistersJob(t *testing.T) {
	sched, err := New(Cadence{Every: "weekly", Day: "monday", At: "08:00"}, func() {})
	require.NoError(t, err)
	sched.Start()
	sched.Stop()
}

func TestNewRejectsBadCadence(t *testing.T) {
	_, err := New(Cadence{Every: "never", At: "08:00"}, func() {})
	assert.Error(t, err)
}
