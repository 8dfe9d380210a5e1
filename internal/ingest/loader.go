package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"

	"github.com/AngelCh415/adreport/internal/models"
)

var AllowedExtensions = []string{"csv", "xlsx", "xls"}

type csvEncoding struct {
	name string
	enc  encoding.Encoding
}

// first that decodes and parses wins; x/text's EUC-KR already covers CP949
var csvEncodings = []csvEncoding{
	{"utf-8-sig", unicode.UTF8BOM},
	{"utf-8", unicode.UTF8},
	{"cp949", korean.EUCKR},
	{"euc-kr", korean.EUCKR},
}

func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

func Load(name string, r io.Reader) (models.RawTable, error) {
	ext := Extension(name)
	data, err := io.ReadAll(r)
	if err != nil {
		return models.RawTable{}, &models.LoadError{Name: name, Reason: "read", Err: err}
	}
	switch ext {
	case "csv":
		return LoadCSV(name, data)
	case "xlsx", "xls":
		return LoadWorkbook(name, data)
	default:
		return models.RawTable{}, &models.LoadError{
			Name:   name,
			Reason: fmt.Sprintf("unsupported extension %q, want one of %v", ext, AllowedExtensions),
		}
	}
}

func LoadCSV(name string, data []byte) (models.RawTable, error) {
	var lastErr error
	for _, ce := range csvEncodings {
		text, err := decode(ce.enc, data)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", ce.name, err)
			continue
		}
		t, err := parseCSV(text)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", ce.name, err)
			continue
		}
		t.Name = name
		return t, nil
	}
	return models.RawTable{}, &models.LoadError{Name: name, Reason: "no encoding could read the file", Err: lastErr}
}

func decode(enc encoding.Encoding, data []byte) ([]byte, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(out) || bytes.ContainsRune(out, utf8.RuneError) {
		return nil, fmt.Errorf("invalid byte sequence")
	}
	return out, nil
}

func parseCSV(text []byte) (models.RawTable, error) {
	cr := csv.NewReader(bytes.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return models.RawTable{}, err
	}
	return fromRows(rows)
}

// first sheet only; raw cells, so dates come back as serials
func LoadWorkbook(name string, data []byte) (models.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return models.RawTable{}, &models.LoadError{Name: name, Reason: "open workbook", Err: err}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.RawTable{}, &models.LoadError{Name: name, Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return models.RawTable{}, &models.LoadError{Name: name, Reason: "read sheet " + sheets[0], Err: err}
	}
	t, err := fromRows(rows)
	if err != nil {
		return models.RawTable{}, &models.LoadError{Name: name, Reason: "parse sheet", Err: err}
	}
	t.Name = name
	return t, nil
}

// short rows padded, wide rows rejected
func fromRows(rows [][]string) (models.RawTable, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return models.RawTable{}, fmt.Errorf("empty table")
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	recs := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) > len(header) {
			return models.RawTable{}, fmt.Errorf("line %d: expected %d fields, saw %d", i+2, len(header), len(row))
		}
		rec := make([]string, len(header))
		copy(rec, row)
		recs = append(recs, rec)
	}
	return models.RawTable{Columns: header, Records: recs}, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
