package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/pivolan/etl_reporter/domain/models"
	"github.com/pivolan/etl_reporter/etl"
)

// TemporalStats describes a date column: the covered range, the modal
// sampling frequency and the unusually large gaps.
type TemporalStats struct {
	DateRange DateRange `json:"date_range"`
	Frequency string    `json:"frequency"`
	Gaps      []DateGap `json:"gaps,omitempty"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// DateGap is a stretch between consecutive observations longer than
// twice the median spacing.
type DateGap struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	GapDays   int    `json:"gap_days"`
}

const gapLimit = 5

func analyzeTemporalColumns(t *models.Table, dates []string) map[string]TemporalStats {
	out := make(map[string]TemporalStats, len(dates))
	for _, name := range dates {
		col := t.Column(name)
		parsed := parseDates(col)
		if len(parsed) == 0 {
			continue
		}
		sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })

		start := parsed[0]
		end := parsed[len(parsed)-1]
		out[name] = TemporalStats{
			DateRange: DateRange{
				Start: start.Format("2006-01-02"),
				End:   end.Format("2006-01-02"),
				Days:  int(end.Sub(start).Hours() / 24),
			},
			Frequency: detectFrequency(parsed),
			Gaps:      detectGaps(parsed),
		}
	}
	return out
}

func parseDates(col *models.Column) []time.Time {
	out := make([]time.Time, 0, len(col.Cells))
	for _, v := range col.Cells {
		if v.Kind != models.ValueText {
			continue
		}
		if d, ok := etl.ParseDate(v.Str); ok {
			out = append(out, d)
		}
	}
	return out
}

// dayDiffs returns the day spacing between consecutive sorted dates.
func dayDiffs(sorted []time.Time) []int {
	diffs := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		diffs = append(diffs, int(sorted[i].Sub(sorted[i-1]).Hours()/24))
	}
	return diffs
}

// detectFrequency maps the modal day spacing onto a named cadence. Spacings
// outside the known bands report as custom_N_days.
func detectFrequency(sorted []time.Time) string {
	if len(sorted) < 2 {
		return "insufficient_data"
	}
	diffs := dayDiffs(sorted)

	counts := map[int]int{}
	mode, best := diffs[0], 0
	for _, d := range diffs {
		counts[d]++
		if counts[d] > best || (counts[d] == best && d < mode) {
			mode, best = d, counts[d]
		}
	}

	switch {
	case mode == 0:
		return "single_date"
	case mode == 1:
		return "daily"
	case mode >= 6 && mode <= 8:
		return "weekly"
	case mode >= 28 && mode <= 32:
		return "monthly"
	case mode >= 88 && mode <= 95:
		return "quarterly"
	case mode >= 360 && mode <= 370:
		return "yearly"
	}
	return fmt.Sprintf("custom_%d_days", mode)
}

// detectGaps reports the spacings larger than twice the median, largest
// first, capped at gapLimit.
func detectGaps(sorted []time.Time) []DateGap {
	if len(sorted) < 2 {
		return nil
	}
	diffs := dayDiffs(sorted)

	sortedDiffs := make([]int, len(diffs))
	copy(sortedDiffs, diffs)
	sort.Ints(sortedDiffs)
	median := float64(sortedDiffs[len(sortedDiffs)/2])
	if len(sortedDiffs)%2 == 0 {
		median = float64(sortedDiffs[len(sortedDiffs)/2-1]+sortedDiffs[len(sortedDiffs)/2]) / 2
	}

	var gaps []DateGap
	for i, d := range diffs {
		if float64(d) > median*2 {
			gaps = append(gaps, DateGap{
				StartDate: sorted[i].Format("2006-01-02"),
				EndDate:   sorted[i+1].Format("2006-01-02"),
				GapDays:   d,
			})
		}
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i].GapDays > gaps[j].GapDays })
	if len(gaps) > gapLimit {
		gaps = gaps[:gapLimit]
	}
	return gaps
}
