package etl

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pivolan/etl_reporter/domain/models"
)

// Output format names accepted by Load.
const (
	FormatExcel = "excel"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// writeOutputs serializes the table in the requested format plus the JSON
// record list and the metadata sidecar every run gets. Paths carry a
// timestamp so repeated runs never collide.
func writeOutputs(t *models.Table, meta models.RunMetadata, outputDir, format string) (map[string]string, error) {
	outputFiles := map[string]string{}
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatExcel:
		path := filepath.Join(outputDir, fmt.Sprintf("processed_data_%s.xlsx", timestamp))
		if err := writeExcel(t, path); err != nil {
			return nil, fmt.Errorf("write excel: %w", err)
		}
		outputFiles[FormatExcel] = path
	case FormatCSV:
		path := filepath.Join(outputDir, fmt.Sprintf("processed_data_%s.csv", timestamp))
		if err := writeCSV(t, path); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
		outputFiles[FormatCSV] = path
	case FormatJSON:
		// JSON records are written unconditionally below.
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	jsonPath := filepath.Join(outputDir, fmt.Sprintf("data_%s.json", timestamp))
	if err := writeRecords(t, jsonPath); err != nil {
		return nil, fmt.Errorf("write json records: %w", err)
	}
	outputFiles[FormatJSON] = jsonPath

	metaPath := filepath.Join(outputDir, fmt.Sprintf("etl_metadata_%s.json", timestamp))
	if err := writeJSONFile(meta, metaPath); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	outputFiles["metadata"] = metaPath

	return outputFiles, nil
}

func writeExcel(t *models.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for r := 0; r < t.Rows(); r++ {
		row := make([]interface{}, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = cellValue(c.Cells[r])
		}
		addr, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writeCSV(t *models.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.ColumnNames()); err != nil {
		return err
	}
	for r := 0; r < t.Rows(); r++ {
		record := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			record[i] = c.Cells[r].String()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeRecords emits one JSON object per row, the shape the chart front
// end consumes.
func writeRecords(t *models.Table, path string) error {
	records := make([]map[string]interface{}, t.Rows())
	for r := 0; r < t.Rows(); r++ {
		row := make(map[string]interface{}, len(t.Columns))
		for _, c := range t.Columns {
			row[c.Name] = cellValue(c.Cells[r])
		}
		records[r] = row
	}
	return writeJSONFile(records, path)
}

func writeJSONFile(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func cellValue(v models.Value) interface{} {
	switch v.Kind {
	case models.ValueNumber:
		return v.Num
	case models.ValueText:
		return v.Str
	}
	return nil
}
