package analyzer

import (
	"math"
	"sort"

	"github.com/pivolan/etl_reporter/domain/models"
)

// CategoricalStats describes a low-cardinality column: its value counts,
// the modal value and the Shannon entropy of the distribution.
type CategoricalStats struct {
	UniqueCount     int              `json:"unique_count"`
	MostCommon      string           `json:"most_common"`
	MostCommonCount int              `json:"most_common_count"`
	Distribution    []CategoryCount  `json:"distribution"`
	Entropy         float64          `json:"entropy"`
}

// CategoryCount is one slice of a categorical distribution, ordered by
// descending count with ties broken alphabetically.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

const distributionLimit = 10

func analyzeCategoricalColumns(t *models.Table, categorical []string) map[string]CategoricalStats {
	out := make(map[string]CategoricalStats, len(categorical))
	for _, name := range categorical {
		col := t.Column(name)
		counts := valueCounts(col)
		if len(counts) == 0 {
			continue
		}
		stats := CategoricalStats{
			UniqueCount:     len(counts),
			MostCommon:      counts[0].Value,
			MostCommonCount: counts[0].Count,
			Entropy:         entropy(counts),
		}
		if len(counts) > distributionLimit {
			counts = counts[:distributionLimit]
		}
		stats.Distribution = counts
		out[name] = stats
	}
	return out
}

func valueCounts(col *models.Column) []CategoryCount {
	byValue := map[string]int{}
	for _, v := range col.Cells {
		if v.IsNull() {
			continue
		}
		byValue[v.String()]++
	}

	counts := make([]CategoryCount, 0, len(byValue))
	for value, count := range byValue {
		counts = append(counts, CategoryCount{Value: value, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
	return counts
}

// entropy is the Shannon entropy of the full distribution in bits. The
// epsilon keeps log2 finite for vanishing probabilities.
func entropy(counts []CategoryCount) float64 {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return 0
	}

	e := 0.0
	for _, c := range counts {
		p := float64(c.Count) / float64(total)
		e -= p * math.Log2(p+1e-10)
	}
	return e
}
