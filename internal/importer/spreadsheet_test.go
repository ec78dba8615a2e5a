package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"tiffinbill/internal/core"
)

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, cell := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", axis, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseSpreadsheetXLSX(t *testing.T) {
	r := buildWorkbook(t, [][]string{
		{"DATE", "QTY", "PRICE", "NOTES"},
		{"1 Jan 2024", "2", "₹160", "extra column ignored"},
		{"2 Jan 2024", "two", "₹80", "bad qty dropped"},
		{"3 Jan 2024", "1", "free", "bad price dropped"},
	})

	items, err := ParseSpreadsheet(r, "bill.xlsx")
	if err != nil {
		t.Fatalf("ParseSpreadsheet: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (bad rows dropped silently)", len(items))
	}
	got := items[0]
	if got.Date != "1 Jan 2024" || got.Qty != 2 || got.Price != 160 {
		t.Errorf("item = %+v, want 1 Jan 2024 / 2 / 160", got)
	}
	if got.ID == "" {
		t.Error("imported item has no id")
	}
}

func TestParseSpreadsheetHeadersAreFoldedAndTrimmed(t *testing.T) {
	r := buildWorkbook(t, [][]string{
		{" Price ", "ignored", "dAtE", "Qty"},
		{"80", "x", "11 Oct 2025", "1"},
	})

	items, err := ParseSpreadsheet(r, "bill.xlsx")
	if err != nil {
		t.Fatalf("ParseSpreadsheet: %v", err)
	}
	if len(items) != 1 || items[0].Price != 80 || items[0].Qty != 1 {
		t.Fatalf("items = %+v", items)
	}
}

func TestParseSpreadsheetEmptyAndInvalid(t *testing.T) {
	t.Run("headers only", func(t *testing.T) {
		r := buildWorkbook(t, [][]string{{"DATE", "QTY", "PRICE"}})
		_, err := ParseSpreadsheet(r, "bill.xlsx")
		if !errors.Is(err, core.ErrEmptySheet) {
			t.Errorf("err = %v, want ErrEmptySheet", err)
		}
	})

	t.Run("no usable rows", func(t *testing.T) {
		r := buildWorkbook(t, [][]string{
			{"FOO", "BAR"},
			{"x", "y"},
		})
		_, err := ParseSpreadsheet(r, "bill.xlsx")
		if !errors.Is(err, core.ErrNoValidItems) {
			t.Errorf("err = %v, want ErrNoValidItems", err)
		}
	})

	t.Run("missing date header drops every row", func(t *testing.T) {
		r := buildWorkbook(t, [][]string{
			{"QTY", "PRICE"},
			{"1", "80"},
			{"2", "160"},
		})
		_, err := ParseSpreadsheet(r, "bill.xlsx")
		if !errors.Is(err, core.ErrNoValidItems) {
			t.Errorf("err = %v, want ErrNoValidItems (rows parse but the DATE header is absent)", err)
		}
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := ParseSpreadsheet(strings.NewReader("this is not a zip"), "bill.xlsx")
		if err == nil {
			t.Error("expected error for garbage input")
		}
	})
}

func TestParseSpreadsheetCSV(t *testing.T) {
	csvData := "date,qty,price\n11/10/25,1,80\nnot-a-date,1.5,\"Rs 1,600.50\"\n"
	items, err := ParseSpreadsheet(strings.NewReader(csvData), "bill.csv")
	if err != nil {
		t.Fatalf("ParseSpreadsheet: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Date != "11 Oct 2025" {
		t.Errorf("native date cell = %q, want re-rendered %q", items[0].Date, "11 Oct 2025")
	}
	if items[1].Date != "not-a-date" {
		t.Errorf("free-form date cell = %q, want kept verbatim", items[1].Date)
	}
	if items[1].Price != 1600.50 {
		t.Errorf("cleaned price = %v, want 1600.50", items[1].Price)
	}
}

func TestNormalizeDateCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"11/10/25", "11 Oct 2025"},
		{"2025-10-11", "11 Oct 2025"},
		{"11 Oct 2025", "11 Oct 2025"},
		{"Diwali week", "Diwali week"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeDateCell(tt.in); got != tt.want {
			t.Errorf("normalizeDateCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
