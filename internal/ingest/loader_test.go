package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"

	"github.com/AngelCh415/adreport/internal/models"
)

const sampleCSV = "날짜,캠페인명,클릭수\n2024.05.01,봄 세일,100\n2024.05.02,봄 세일,0\n"

func TestLoadCSVUTF8BOM(t *testing.T) {
	tbl, err := Load("report.csv", strings.NewReader("\ufeff"+sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Columns[0] != "날짜" {
		t.Fatalf("expected BOM stripped from first header, got %q", tbl.Columns[0])
	}
	if len(tbl.Records) != 2 || tbl.Records[0][1] != "봄 세일" {
		t.Fatalf("unexpected records %v", tbl.Records)
	}
}

func TestLoadCSVEUCKR(t *testing.T) {
	enc, err := korean.EUCKR.NewEncoder().String(sampleCSV)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	tbl, err := Load("REPORT.CSV", strings.NewReader(enc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Columns[1] != "캠페인명" || tbl.Records[1][1] != "봄 세일" {
		t.Fatalf("expected decoded Korean text, got %v %v", tbl.Columns, tbl.Records)
	}
}

func TestLoadPadsShortRowsAndSkipsBlankLines(t *testing.T) {
	tbl, err := Load("r.csv", strings.NewReader("a,b,c\n1,2\n,,\n4,5,6\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tbl.Records) != 2 || tbl.Records[0][2] != "" {
		t.Fatalf("unexpected records %v", tbl.Records)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"report.txt": sampleCSV,
		"empty.csv":  "",
		"wide.csv":   "a,b\n1,2,3\n",
		"bad.xlsx":   "not a zip",
	}
	for name, body := range cases {
		_, err := Load(name, strings.NewReader(body))
		var le *models.LoadError
		if !errors.As(err, &le) {
			t.Fatalf("%s: expected LoadError, got %v", name, err)
		}
	}
}

func TestLoadWorkbookRawSerialDates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"일자", "캠페인명", "노출수"},
		{45413, "A", 1000},
		{"2024.05.02", "A", 500},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	tbl, err := Load("report.xlsx", buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Records[0][0] != "45413" {
		t.Fatalf("expected raw serial, got %q", tbl.Records[0][0])
	}
	d, ok := ParseDate(tbl.Records[0][0])
	if !ok || !d.Equal(date(2024, 5, 1)) {
		t.Fatalf("expected serial to resolve to 2024-05-01, got %v", d)
	}
}
