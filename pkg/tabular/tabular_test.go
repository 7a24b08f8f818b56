package tabular_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/JaimeStill/rankwise/pkg/tabular"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     tabular.Format
	}{
		{"xlsx extension", "cutoffs.xlsx", nil, tabular.FormatXLSX},
		{"xlsm extension", "cutoffs.XLSM", nil, tabular.FormatXLSX},
		{"csv extension", "cutoffs.csv", []byte("PK\x03\x04"), tabular.FormatCSV},
		{"unknown extension with zip magic", "upload", []byte("PK\x03\x04rest"), tabular.FormatXLSX},
		{"unknown extension plain text", "upload", []byte("a,b\n1,2"), tabular.FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tabular.DetectFormat(tt.filename, tt.data); got != tt.want {
				t.Errorf("DetectFormat(%q) = %s, want %s", tt.filename, got, tt.want)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	data := []byte("\ufeff Name , City \n\nCOEP,  Pune \n,\nVIT,Vellore,extra\nIIT\n")

	table, err := tabular.Parse("x.csv", data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !slices.Equal(table.Headers, []string{"Name", "City"}) {
		t.Errorf("headers: got %q", table.Headers)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(table.Rows))
	}
	if got := table.Rows[0].Get("City"); got != "Pune" {
		t.Errorf("row 0 city: got %q, want Pune", got)
	}
	if got := table.Rows[1].Get("Name"); got != "VIT" {
		t.Errorf("row 1 name: got %q, want VIT", got)
	}
	if got := table.Rows[2].Get("City"); got != "" {
		t.Errorf("short row city: got %q, want empty", got)
	}
	if got := table.Rows[0].Get("Unknown"); got != "" {
		t.Errorf("unknown column: got %q, want empty", got)
	}
}

func TestParseXLSX(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	wb.SetSheetRow(sheet, "A1", &[]any{"Name", "Rank"})
	wb.SetSheetRow(sheet, "A2", &[]any{"COEP", 1200})
	wb.SetSheetRow(sheet, "A4", &[]any{"VIT", 3400})

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	table, err := tabular.Parse("cutoffs.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(table.Rows))
	}
	if got := table.Rows[0].Get("Rank"); got != "1200" {
		t.Errorf("rank: got %q, want 1200", got)
	}
	if got := table.Rows[1].Get("Name"); got != "VIT" {
		t.Errorf("name: got %q, want VIT", got)
	}
}

func TestParseXLSXReadsStoredNumbers(t *testing.T) {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	wb.SetSheetRow(sheet, "A1", &[]any{"Name", "Opening Rank", "Closing Rank"})
	wb.SetSheetRow(sheet, "A2", &[]any{"COEP", 1500, 12000})

	thousands, err := wb.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		t.Fatalf("NewStyle: %v", err)
	}
	if err := wb.SetCellStyle(sheet, "B2", "C2", thousands); err != nil {
		t.Fatalf("SetCellStyle: %v", err)
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	table, err := tabular.Parse("cutoffs.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(table.Rows))
	}
	if got := table.Rows[0].Get("Opening Rank"); got != "1500" {
		t.Errorf("opening rank: got %q, want 1500", got)
	}
	if got := table.Rows[0].Get("Closing Rank"); got != "12000" {
		t.Errorf("closing rank: got %q, want 12000", got)
	}
}

func TestParseRepeatedHeaderKeepsFirstColumn(t *testing.T) {
	table, err := tabular.Parse("x.csv", []byte("Branch,Quota,Branch\nCSE,AI,Mechanical\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(table.Rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(table.Rows))
	}
	if got := table.Rows[0].Get("Branch"); got != "CSE" {
		t.Errorf("branch: got %q, want CSE", got)
	}
	if got := table.Rows[0].Get("Quota"); got != "AI" {
		t.Errorf("quota: got %q, want AI", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		wantErr  error
	}{
		{"empty", "x.csv", "", tabular.ErrNoHeader},
		{"only blank rows", "x.csv", ",,\n  ,\n", tabular.ErrNoHeader},
		{"bad quoting", "x.csv", "a,b\n\"unterminated,1\n", tabular.ErrUnreadable},
		{"corrupt workbook", "x.xlsx", "PK\x03\x04garbage", tabular.ErrUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tabular.Parse(tt.filename, []byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMissing(t *testing.T) {
	table := &tabular.Table{Headers: []string{"A", "C"}}

	if got := table.Missing([]string{"A", "B", "C", "D"}); !slices.Equal(got, []string{"B", "D"}) {
		t.Errorf("Missing() = %v, want [B D]", got)
	}
	if !table.HasColumn("C") || table.HasColumn("B") {
		t.Error("HasColumn mismatch")
	}
}
