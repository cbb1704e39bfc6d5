// Package ingest parses uploaded CSV and Excel files into raw tables.
package ingest

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"equipstats/domain/tabular"
	"equipstats/internal/errors"

	"github.com/xuri/excelize/v2"
)

// FileType reports the dataset file type for a filename, or "" when the
// extension is not supported.
func FileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "csv"
	case ".xlsx", ".xls":
		return "xlsx"
	}
	return ""
}

// ReadTable parses the upload into a raw table, dispatching on the filename
// extension. The filename is only a format hint; it never influences parsing
// beyond that.
func ReadTable(r io.Reader, filename string) (*tabular.Table, error) {
	switch FileType(filename) {
	case "csv":
		return readCSV(r)
	case "xlsx":
		return readExcel(r)
	default:
		return nil, errors.InvalidInput("unsupported file type: only .csv, .xlsx and .xls are accepted")
	}
}

func readCSV(r io.Reader) (*tabular.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; the table pads them
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.ValidationError("CSV file is empty or corrupted")
	}
	if err != nil {
		return nil, errors.ValidationError("CSV parsing error: "+err.Error())
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	table, err := tabular.NewTable(header)
	if err != nil {
		return nil, errors.Wrap(err, "invalid CSV header")
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ValidationError("CSV parsing error: "+err.Error())
		}
		table.AppendRow(record)
	}

	return table, nil
}

func readExcel(r io.Reader) (*tabular.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.ValidationError("failed to open Excel file: "+err.Error())
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.ValidationError("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.ValidationError("Excel file is empty")
	}

	table, err := tabular.NewTable(rows[0])
	if err != nil {
		return nil, errors.Wrap(err, "invalid Excel header")
	}
	for _, row := range rows[1:] {
		table.AppendRow(row)
	}

	return table, nil
}
