// Package invoice holds the in-memory bill state: the ordered line items
// and the editable header fields. All mutation goes through the Store so
// aggregates are always derived from current state.
package invoice

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tiffinbill/internal/core"
)

// Field names accepted by UpdateField.
const (
	FieldDate  = "date"
	FieldQty   = "qty"
	FieldPrice = "price"
)

// Store owns the line items exclusively. Accessors return copies.
type Store struct {
	mu    sync.Mutex
	items []core.LineItem

	billTo     string
	invoiceNo  string
	billDate   string
	amountPaid float64
	taxPercent float64
	logo       string // data URL, in memory only
}

// Snapshot is a consistent read of the whole bill, used by templates and
// the PDF exporter.
type Snapshot struct {
	Items      []core.LineItem
	Totals     core.Totals
	BillTo     string
	InvoiceNo  string
	BillDate   string
	AmountPaid float64
	TaxPercent float64
	Logo       string
}

// New returns a store seeded with the initial four rows and header
// defaults.
func New() *Store {
	return &Store{
		items:     core.SeedItems(uuid.NewString),
		billTo:    "Monu",
		invoiceNo: "#0001",
		billDate:  core.FormatBillDate(time.Now()),
	}
}

// AddItem appends a fresh row dated today with qty 1 at the default unit
// price and returns it.
func (s *Store) AddItem() core.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := core.LineItem{
		ID:    uuid.NewString(),
		Date:  core.FormatDisplayDate(time.Now()),
		Qty:   1,
		Price: core.DefaultUnitPrice,
	}
	s.items = append(s.items, item)
	return item
}

// UpdateField applies an inline edit to one row. Qty and price coerce
// unparsable text to 0; date is stored verbatim. Unknown ids and unknown
// fields are no-ops. Reports whether a row changed.
func (s *Store) UpdateField(id, field, raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		switch field {
		case FieldDate:
			s.items[i].Date = raw
		case FieldQty:
			s.items[i].Qty = core.CoerceNumber(raw)
		case FieldPrice:
			s.items[i].Price = core.CoerceNumber(raw)
		default:
			return false
		}
		return true
	}
	return false
}

// DeleteItem removes the matching row; absent ids are a no-op.
func (s *Store) DeleteItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceAll swaps the entire item list, the contract both import
// adapters rely on. An empty replacement is rejected and the prior list
// stays untouched.
func (s *Store) ReplaceAll(items []core.LineItem) error {
	if len(items) == 0 {
		return core.ErrNoValidItems
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.LineItem(nil), items...)
	return nil
}

// Items returns a copy of the current rows in order.
func (s *Store) Items() []core.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.LineItem(nil), s.items...)
}

// Totals recomputes the aggregates from current state.
func (s *Store) Totals() core.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ComputeTotals(s.items, s.taxPercent, s.amountPaid)
}

// Snapshot returns a consistent copy of items, header fields and totals.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:      append([]core.LineItem(nil), s.items...),
		Totals:     core.ComputeTotals(s.items, s.taxPercent, s.amountPaid),
		BillTo:     s.billTo,
		InvoiceNo:  s.invoiceNo,
		BillDate:   s.billDate,
		AmountPaid: s.amountPaid,
		TaxPercent: s.taxPercent,
		Logo:       s.logo,
	}
}

func (s *Store) SetBillTo(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.billTo = name
}

func (s *Store) BillTo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.billTo
}

func (s *Store) SetInvoiceNo(no string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoiceNo = no
}

func (s *Store) SetBillDate(d string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.billDate = d
}

// SetAmountPaid coerces free-typed text ("₹100") into the paid amount.
func (s *Store) SetAmountPaid(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amountPaid = core.CoerceNumber(raw)
}

// SetTaxPercent coerces free-typed text ("18%") into the tax rate.
func (s *Store) SetTaxPercent(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taxPercent = core.CoerceNumber(raw)
}

// SetLogo stores an uploaded logo as a data URL for the current session
// only; logos are never persisted.
func (s *Store) SetLogo(dataURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logo = dataURL
}
