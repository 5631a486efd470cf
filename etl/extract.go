package etl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/pivolan/etl_reporter/domain/models"
)

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrTooFewColumns = errors.New("could not parse CSV with any common separator: too few columns")
	ErrUndecodable   = errors.New("could not decode file with any supported encoding")
)

// Encoding fallback order mirrors the legacy exporters we receive data
// from: utf-8 first, then the usual Windows single-byte suspects.
var encodingPriority = []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"}

var separatorPriority = []rune{',', ';', '\t', '|'}

// Null tokens commonly left behind by spreadsheet exports.
var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"nan":  true,
}

// ReadCSVFile loads a delimited text file into a classified table. The
// file may be a plain CSV or a .gz/.lz4/.zip archive containing one.
func ReadCSVFile(path string) (*models.Table, error) {
	unpacked, err := unpackArchive(path)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", path, err)
	}
	if unpacked != "" {
		path = unpacked
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	content, encName, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("[extract] decoded %s with %s encoding", path, encName)

	records, sep, err := parseDelimited(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("[extract] parsed %d lines with separator %q", len(records), sep)

	table := buildTable(records)
	ClassifyColumns(table)
	return table, nil
}

// decodeText walks the encoding priority list and returns the first
// successful decoding along with the encoding name.
func decodeText(raw []byte) (string, string, error) {
	for _, name := range encodingPriority {
		switch name {
		case "utf-8":
			if utf8.Valid(raw) {
				return string(raw), name, nil
			}
		case "latin-1", "iso-8859-1":
			decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
			if err == nil {
				return string(decoded), name, nil
			}
		case "cp1252":
			decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
			if err == nil {
				return string(decoded), name, nil
			}
		}
	}
	return "", "", ErrUndecodable
}

// parseDelimited tries each candidate separator and accepts the first one
// that yields more than one column, the way the original loader probed
// comma, semicolon, tab and pipe.
func parseDelimited(content string) ([][]string, rune, error) {
	for _, sep := range separatorPriority {
		r := csv.NewReader(strings.NewReader(content))
		r.Comma = sep
		r.LazyQuotes = true
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		if len(records[0]) > 1 {
			return records, sep, nil
		}
	}
	return nil, 0, ErrTooFewColumns
}

// buildTable assembles the raw rows into typed columns. Header detection
// and duplicate-name handling follow AnalyzeHeaders.
func buildTable(records [][]string) *models.Table {
	analysis := AnalyzeHeaders(records[0])
	dataRows := records[1:]
	if analysis.FirstRowIsData {
		dataRows = records
	}

	width := len(analysis.Headers)
	table := &models.Table{Columns: make([]models.Column, width)}
	for i, name := range analysis.Headers {
		table.Columns[i] = models.Column{
			Name:  name,
			Cells: make([]models.Value, 0, len(dataRows)),
		}
	}

	for _, row := range dataRows {
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			table.Columns[i].Cells = append(table.Columns[i].Cells, parseCell(cell))
		}
	}
	return table
}

// parseCell types a raw field: empty/null tokens become null, anything
// that parses as a float becomes a number, the rest stays text.
func parseCell(raw string) models.Value {
	trimmed := strings.TrimSpace(raw)
	if nullTokens[strings.ToLower(trimmed)] {
		return models.Null()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return models.Number(f)
	}
	return models.Text(trimmed)
}
