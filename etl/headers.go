package etl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// HeaderAnalysis is the outcome of inspecting the first CSV line: the
// final column names and whether that line was actually data.
type HeaderAnalysis struct {
	Headers        []string
	FirstRowIsData bool
	FirstDataRow   []string
}

var headerDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}\.\d+$`),
}

// AnalyzeHeaders decides whether the first row holds headers or data.
// When most fields look like labels the row is taken as the header line;
// otherwise column_N names are generated and the row is kept as data.
func AnalyzeHeaders(firstRow []string) *HeaderAnalysis {
	if len(firstRow) == 0 {
		return nil
	}

	result := &HeaderAnalysis{
		Headers:        make([]string, len(firstRow)),
		FirstRowIsData: false,
		FirstDataRow:   firstRow,
	}

	headerLikeCount := 0
	for _, field := range firstRow {
		if isLikelyHeader(field) {
			headerLikeCount++
		}
	}

	if float64(headerLikeCount)/float64(len(firstRow)) >= 0.5 {
		for i, header := range firstRow {
			result.Headers[i] = cleanHeaderName(header, i)
		}
	} else {
		result.FirstRowIsData = true
		for i := range firstRow {
			result.Headers[i] = generateColumnName(i)
		}
	}

	result.Headers = DedupHeaders(result.Headers)
	return result
}

// isLikelyHeader reports whether a field reads like a column label rather
// than a data value.
func isLikelyHeader(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return false
	}

	for _, pattern := range headerDatePatterns {
		if pattern.MatchString(text) {
			return false
		}
	}

	letters := 0
	digits := 0
	specials := 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		case unicode.IsSpace(r):
		default:
			specials++
		}
	}

	totalChars := letters + digits + specials
	if totalChars == 0 {
		return false
	}

	// Labels are mostly letters; 30% is enough to allow things like "Q1 2024".
	return letters > 0 && float64(letters)/float64(totalChars) >= 0.3
}

func generateColumnName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}

// cleanHeaderName transliterates and trims a header while preserving its
// case, so filter specs written against the source file keep matching.
func cleanHeaderName(header string, index int) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return generateColumnName(index)
	}
	if !isLikelyHeader(header) {
		return generateColumnName(index)
	}

	cleaned := unidecode.Unidecode(header)
	cleaned = strings.TrimSpace(cleaned)
	cleaned = collapseSpaces(cleaned)
	if cleaned == "" {
		return generateColumnName(index)
	}
	return cleaned
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}

// DedupHeaders appends _N counters to duplicated names, keeping the first
// occurrence untouched.
func DedupHeaders(headers []string) []string {
	seen := make(map[string]int)
	result := make([]string, len(headers))

	for i, header := range headers {
		originalHeader := header
		counter := 1
		for {
			if count, exists := seen[header]; exists {
				header = fmt.Sprintf("%s_%d", originalHeader, counter)
				counter++
			} else {
				seen[header] = count + 1
				break
			}
		}
		result[i] = header
	}

	return result
}
