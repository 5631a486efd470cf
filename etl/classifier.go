package etl

import (
	"regexp"
	"strings"
	"time"

	"github.com/pivolan/etl_reporter/domain/models"
)

// classifierSampleSize caps how many non-null values the date heuristic
// inspects per column.
const classifierSampleSize = 10

// categoricalUniqueLimit and categoricalRatioLimit bound when a non-numeric
// column counts as categorical.
const (
	categoricalUniqueLimit = 20
	categoricalRatioLimit  = 0.5
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),      // 2024-01-31
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`),      // 01/31/2024
	regexp.MustCompile(`^\d{2}-\d{2}-\d{4}`),      // 01-31-2024
	regexp.MustCompile(`^[A-Za-z]{3}\s+\d{4}`),    // Jan 2024
	regexp.MustCompile(`^[A-Za-z]{3}-\d{4}`),      // Jan-2024
}

var dateLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"Jan 2006",
	"Jan-2006",
}

// ParseDate tries the supported layouts against a single value.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ClassifyColumns assigns every column a semantic kind. The decision
// ladder is: empty (all null), numeric (all non-null cells numeric), date
// (sampled values match a date shape and parse), categorical (few unique
// values), text. It never fails; unrecognizable columns fall back to text.
func ClassifyColumns(t *models.Table) {
	for i := range t.Columns {
		t.Columns[i].Kind = classify(&t.Columns[i])
	}
}

func classify(c *models.Column) models.ColumnKind {
	nonNull := make([]models.Value, 0, len(c.Cells))
	for _, v := range c.Cells {
		if !v.IsNull() {
			nonNull = append(nonNull, v)
		}
	}
	if len(nonNull) == 0 {
		return models.KindEmpty
	}

	numeric := true
	for _, v := range nonNull {
		if v.Kind != models.ValueNumber {
			numeric = false
			break
		}
	}
	if numeric {
		return models.KindNumeric
	}

	if isDateColumn(nonNull) {
		return models.KindDate
	}

	unique := make(map[models.Value]struct{}, len(nonNull))
	for _, v := range nonNull {
		unique[v] = struct{}{}
	}
	uniqueCount := len(unique)
	if uniqueCount < categoricalUniqueLimit ||
		float64(uniqueCount)/float64(len(nonNull)) < categoricalRatioLimit {
		return models.KindCategorical
	}

	return models.KindText
}

// isDateColumn samples the first values and accepts the column as a date
// column when any sampled value both matches a date pattern and parses.
func isDateColumn(nonNull []models.Value) bool {
	sample := nonNull
	if len(sample) > classifierSampleSize {
		sample = sample[:classifierSampleSize]
	}
	for _, v := range sample {
		if v.Kind != models.ValueText {
			continue
		}
		s := strings.TrimSpace(v.Str)
		for _, pattern := range datePatterns {
			if pattern.MatchString(s) {
				if _, ok := ParseDate(s); ok {
					return true
				}
				break
			}
		}
	}
	return false
}
