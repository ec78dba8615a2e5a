package core

import (
	"errors"
	"math"
	"time"
)

const (
	// DefaultUnitPrice is the price of a single tiffin used for new rows
	// and as the starting value of the AI import price prompt.
	DefaultUnitPrice = 80.0

	// PlaceholderClient is shown in the "bill to" field after the active
	// client is deleted.
	PlaceholderClient = "Client Name"
)

type (
	// LineItem is one billable row of the invoice. Date is free-form
	// display text; identity is the ID, the other fields are
	// independently editable.
	LineItem struct {
		ID    string
		Date  string
		Qty   float64
		Price float64
	}

	// ExtractedItem is the untrusted output of the vision extraction
	// service. Quantity may be an additive expression like "1+1".
	ExtractedItem struct {
		Date     string `json:"date"`
		Quantity string `json:"quantity"`
	}

	// Totals are the aggregates derived from the current bill state.
	// They are never stored; recompute from scratch on every change.
	Totals struct {
		TotalQty    float64
		Subtotal    float64
		TaxAmount   float64
		TotalAmount float64
		AmountDue   float64
	}
)

var (
	ErrNoValidItems     = errors.New("no valid items")
	ErrEmptySheet       = errors.New("spreadsheet is empty or invalid")
	ErrNoExtractedItems = errors.New("AI could not find any valid items in the image")
	ErrEmptyClientName  = errors.New("client name is empty")
	ErrDuplicateClient  = errors.New("client already exists")
	ErrInvalidUnitPrice = errors.New("unit price must be a positive number")
)

// ComputeTotals derives the bill aggregates from the current items, tax
// percentage and amount already paid.
func ComputeTotals(items []LineItem, taxPercent, amountPaid float64) Totals {
	var t Totals
	for _, it := range items {
		t.TotalQty += it.Qty
		t.Subtotal += it.Price
	}
	t.TaxAmount = t.Subtotal * taxPercent / 100
	t.TotalAmount = t.Subtotal + t.TaxAmount
	t.AmountDue = t.TotalAmount - amountPaid
	return t
}

// IsFinite reports whether f is a usable quantity or price value.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FormatDisplayDate renders a date the way the bill displays row dates,
// e.g. "11 Oct 2025".
func FormatDisplayDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}

// FormatBillDate renders the short header date, e.g. "30/08/26".
func FormatBillDate(t time.Time) string {
	return t.Format("02/01/06")
}

// SeedItems returns the four rows a fresh bill starts with. The id for
// each row is supplied by the caller so this package stays free of id
// generation concerns.
func SeedItems(newID func() string) []LineItem {
	return []LineItem{
		{ID: newID(), Date: "11 Oct 2025", Qty: 1, Price: 80},
		{ID: newID(), Date: "12 Oct 2025", Qty: 2, Price: 160},
		{ID: newID(), Date: "14 Oct 2025", Qty: 1, Price: 80},
		{ID: newID(), Date: "15 Oct 2025", Qty: 1, Price: 80},
	}
}
