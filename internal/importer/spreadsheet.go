// Package importer contains the two one-shot adapters that populate the
// item store: a spreadsheet-row adapter and an AI image-extraction
// adapter. Both produce a full replacement list or nothing.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"tiffinbill/internal/core"
)

// Layouts a spreadsheet date cell may carry after formatting. Matching
// any of them marks the cell as a native date, which is then re-rendered
// in the bill's display format.
// Day-first layouts, as spreadsheets in this locale carry them.
var dateCellLayouts = []string{
	"2/1/06",
	"02/01/06",
	"2/1/2006",
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"2-Jan-06",
	"02-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseSpreadsheet reads the first worksheet of an uploaded .xlsx/.xls
// file, or the single table of a .csv, into line items. Rows missing a
// usable value under the date/qty/price headers are dropped silently;
// an empty sheet or zero surviving rows fail without touching anything.
func ParseSpreadsheet(r io.Reader, filename string) ([]core.LineItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	var rows [][]string
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		rows, err = csvRows(data)
	} else {
		rows, err = worksheetRows(data)
	}
	if err != nil {
		return nil, err
	}
	return itemsFromRows(rows)
}

func worksheetRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.ErrEmptySheet
	}
	// First worksheet only; additional sheets are ignored.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func csvRows(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func itemsFromRows(rows [][]string) ([]core.LineItem, error) {
	if len(rows) <= 1 {
		return nil, core.ErrEmptySheet
	}

	headers := rows[0]
	colDate := headerIndex(headers, "date")
	colQty := headerIndex(headers, "qty")
	colPrice := headerIndex(headers, "price")

	// Every row misses a header the sheet does not have, so all rows
	// drop at once.
	if colDate < 0 || colQty < 0 || colPrice < 0 {
		return nil, fmt.Errorf("%w: ensure columns are named DATE, QTY, and PRICE", core.ErrNoValidItems)
	}

	items := make([]core.LineItem, 0, len(rows)-1)
	for _, row := range rows[1:] {
		dateCell := cellAt(row, colDate)
		qtyCell := cellAt(row, colQty)
		priceCell := cellAt(row, colPrice)

		qty, ok := core.ParseQty(qtyCell)
		if !ok {
			continue
		}
		price, ok := core.CleanPrice(priceCell)
		if !ok {
			continue
		}

		items = append(items, core.LineItem{
			ID:    uuid.NewString(),
			Date:  normalizeDateCell(dateCell),
			Qty:   qty,
			Price: price,
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: ensure columns are named DATE, QTY, and PRICE", core.ErrNoValidItems)
	}
	return items, nil
}

// headerIndex locates a column by case-insensitive, whitespace-trimmed
// header match. Column order and surrounding columns are irrelevant.
func headerIndex(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// normalizeDateCell re-renders native date cells as "2 Jan 2006" and
// keeps everything else verbatim. A bare serial number (an unformatted
// Excel date) is converted through the workbook epoch.
func normalizeDateCell(cell string) string {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return cell
	}
	for _, layout := range dateCellLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return core.FormatDisplayDate(t)
		}
	}
	if serial, err := strconv.ParseFloat(trimmed, 64); err == nil && serial > 20000 && serial < 80000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return core.FormatDisplayDate(t)
		}
	}
	return cell
}
