package invoice

import (
	"errors"
	"testing"

	"tiffinbill/internal/core"
)

func TestStoreSeedsFourRows(t *testing.T) {
	s := New()
	items := s.Items()
	if len(items) != 4 {
		t.Fatalf("new store has %d rows, want 4", len(items))
	}
	if s.BillTo() != "Monu" {
		t.Errorf("default bill-to = %q, want Monu", s.BillTo())
	}
}

func TestAddUpdateDeleteKeepTotalsConsistent(t *testing.T) {
	s := New()

	item := s.AddItem()
	if item.Qty != 1 || item.Price != core.DefaultUnitPrice {
		t.Errorf("AddItem returned qty %v price %v, want 1 and %v", item.Qty, item.Price, core.DefaultUnitPrice)
	}

	check := func() {
		t.Helper()
		items := s.Items()
		var qty, subtotal float64
		for _, it := range items {
			qty += it.Qty
			subtotal += it.Price
		}
		got := s.Totals()
		if got.TotalQty != qty || got.Subtotal != subtotal {
			t.Errorf("totals drifted: got qty %v subtotal %v, recomputed %v/%v",
				got.TotalQty, got.Subtotal, qty, subtotal)
		}
	}
	check()

	if !s.UpdateField(item.ID, FieldQty, "3") {
		t.Fatal("UpdateField reported no change for existing id")
	}
	check()

	// Unparsable price coerces to 0, never errors.
	s.UpdateField(item.ID, FieldPrice, "abc")
	check()
	for _, it := range s.Items() {
		if it.ID == item.ID && it.Price != 0 {
			t.Errorf("price after coercion = %v, want 0", it.Price)
		}
	}

	// Date text is stored verbatim.
	s.UpdateField(item.ID, FieldDate, "whenever works")
	for _, it := range s.Items() {
		if it.ID == item.ID && it.Date != "whenever works" {
			t.Errorf("date = %q, want verbatim text", it.Date)
		}
	}

	if s.UpdateField("missing-id", FieldQty, "9") {
		t.Error("UpdateField on unknown id should be a no-op")
	}

	if !s.DeleteItem(item.ID) {
		t.Fatal("DeleteItem failed for existing id")
	}
	if s.DeleteItem(item.ID) {
		t.Error("DeleteItem on absent id should be a no-op")
	}
	check()
}

func TestReplaceAllRejectsEmpty(t *testing.T) {
	s := New()
	before := s.Items()

	err := s.ReplaceAll(nil)
	if !errors.Is(err, core.ErrNoValidItems) {
		t.Fatalf("ReplaceAll(nil) error = %v, want ErrNoValidItems", err)
	}
	after := s.Items()
	if len(after) != len(before) {
		t.Fatalf("ReplaceAll(nil) mutated items: %d -> %d rows", len(before), len(after))
	}

	repl := []core.LineItem{{ID: "x", Date: "1 Jan 2026", Qty: 2, Price: 160}}
	if err := s.ReplaceAll(repl); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if got := s.Items(); len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("ReplaceAll did not swap list, got %+v", got)
	}
}

func TestHeaderCoercion(t *testing.T) {
	s := New()
	s.SetAmountPaid("₹150")
	s.SetTaxPercent("18%")
	snap := s.Snapshot()
	if snap.AmountPaid != 150 {
		t.Errorf("AmountPaid = %v, want 150", snap.AmountPaid)
	}
	if snap.TaxPercent != 18 {
		t.Errorf("TaxPercent = %v, want 18", snap.TaxPercent)
	}

	got := snap.Totals
	want := core.ComputeTotals(snap.Items, 18, 150)
	if got != want {
		t.Errorf("snapshot totals = %+v, want %+v", got, want)
	}
}
