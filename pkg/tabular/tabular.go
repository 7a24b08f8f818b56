// Package tabular reads a single-sheet tabular upload (CSV or XLSX) into
// header-keyed rows.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format identifies the encoding of a tabular payload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	// ErrUnreadable indicates the payload could not be decoded as any supported format.
	ErrUnreadable = errors.New("unreadable tabular file")
	// ErrNoHeader indicates the payload contained no header row.
	ErrNoHeader = errors.New("tabular file has no header row")
)

var zipMagic = []byte("PK\x03\x04")

// Row maps trimmed header names to trimmed cell values.
type Row map[string]string

// Get returns the value for column, or "" when the row has no such cell.
func (r Row) Get(column string) string {
	return r[column]
}

// Table is a parsed sheet: its header row and every non-blank data row.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether name appears in the header row.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Missing returns the names in required that do not appear in the header row,
// preserving the order of required.
func (t *Table) Missing(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// DetectFormat chooses a format from the file extension, falling back to
// content sniffing (XLSX files are zip archives).
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".csv", ".txt":
		return FormatCSV
	}
	if bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// Parse decodes data according to the format detected from filename.
func Parse(filename string, data []byte) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch DetectFormat(filename, data) {
	case FormatXLSX:
		records, err = readXLSX(data)
	default:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	return build(records)
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Display text applies number formats ("12,000"); ranks need the stored value.
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func build(records [][]string) (*Table, error) {
	start := -1
	for i, rec := range records {
		if !blank(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	headers := make([]string, len(records[start]))
	for i, h := range records[start] {
		headers[i] = strings.TrimSpace(h)
	}

	// A repeated header name binds to its first column.
	first := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := first[h]; !ok && h != "" {
			first[h] = i
		}
	}

	t := &Table{Headers: headers, Rows: make([]Row, 0, len(records)-start-1)}
	for _, rec := range records[start+1:] {
		if blank(rec) {
			continue
		}
		row := make(Row, len(first))
		for i, h := range headers {
			if h == "" || first[h] != i {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
