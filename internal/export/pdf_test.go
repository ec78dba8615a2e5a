package export

import (
	"bytes"
	"testing"

	"tiffinbill/internal/core"
	"tiffinbill/internal/invoice"
	"tiffinbill/internal/theme"
)

var testBusiness = Business{
	Name:    "Bhookhad Baba",
	Tagline: "Tiffin Service",
	Address: "Shop No. 8, Gaur City 2, Greater Noida",
	Phone:   "8826513777",
}

func testSnapshot() invoice.Snapshot {
	items := []core.LineItem{
		{ID: "a", Date: "11 Oct 2025", Qty: 1, Price: 80},
		{ID: "b", Date: "12 Oct 2025", Qty: 2, Price: 160},
	}
	return invoice.Snapshot{
		Items:     items,
		Totals:    core.ComputeTotals(items, 0, 0),
		BillTo:    "Monu",
		InvoiceNo: "#0001",
		BillDate:  "30/08/26",
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Monu", "Monu.pdf"},
		{"  Monu  ", "Monu.pdf"},
		{"", "invoice.pdf"},
		{"   ", "invoice.pdf"},
	}
	for _, tt := range tests {
		if got := Filename(tt.in); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPDFProducesSinglePageDocument(t *testing.T) {
	snap := testSnapshot()
	out, err := RenderPDF(snap, theme.Default(), testBusiness)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
	if n := bytes.Count(out, []byte("/Type /Page\n")); n > 0 && n != 1 {
		t.Errorf("document has %d pages, want 1", n)
	}
}

func TestRenderPDFDoesNotMutateSnapshot(t *testing.T) {
	snap := testSnapshot()
	itemsBefore := append([]core.LineItem(nil), snap.Items...)

	if _, err := RenderPDF(snap, theme.Default(), testBusiness); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	for i, it := range snap.Items {
		if it != itemsBefore[i] {
			t.Fatalf("RenderPDF mutated item %d: %+v -> %+v", i, itemsBefore[i], it)
		}
	}
}

func TestRenderPDFGradientTheme(t *testing.T) {
	th, err := theme.ByName("graphite")
	if err != nil {
		t.Fatal(err)
	}
	if th.Kind != theme.KindGradient {
		t.Fatalf("graphite should be a gradient theme")
	}
	if _, err := RenderPDF(testSnapshot(), th, testBusiness); err != nil {
		t.Fatalf("RenderPDF with gradient background: %v", err)
	}
}

func TestRenderPDFSurvivesBrokenLogo(t *testing.T) {
	snap := testSnapshot()
	snap.Logo = "data:image/png;base64,bm90LWEtcG5n" // valid base64, not a PNG
	if _, err := RenderPDF(snap, theme.Default(), testBusiness); err != nil {
		t.Fatalf("broken logo must not fail the export: %v", err)
	}
}

func TestFingerprintTracksVisibleState(t *testing.T) {
	snap := testSnapshot()
	th := theme.Default()

	a := Fingerprint(snap, th, testBusiness)
	if a != Fingerprint(snap, th, testBusiness) {
		t.Error("fingerprint of identical state differs")
	}

	snap.Items[0].Price = 999
	if a == Fingerprint(snap, th, testBusiness) {
		t.Error("price change did not change the fingerprint")
	}

	other, _ := theme.ByName("ocean")
	if Fingerprint(testSnapshot(), th, testBusiness) == Fingerprint(testSnapshot(), other, testBusiness) {
		t.Error("theme change did not change the fingerprint")
	}
}

func TestRGBParsing(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
	}{
		{"#f59e0b", 245, 158, 11},
		{"#fff", 255, 255, 255},
		{"white", 255, 255, 255},
		{"rgba(204, 251, 241, 0.5)", 204, 251, 241},
		{"bogus", 255, 255, 255},
	}
	for _, tt := range tests {
		r, g, b := rgb(tt.in)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("rgb(%q) = %d,%d,%d want %d,%d,%d", tt.in, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestHexColorsIn(t *testing.T) {
	got := hexColorsIn("linear-gradient(to bottom right, #f9fafb, #e5e7eb)")
	if len(got) != 2 || got[0] != "#f9fafb" || got[1] != "#e5e7eb" {
		t.Errorf("hexColorsIn = %v", got)
	}
	if got := hexColorsIn("plain"); len(got) != 0 {
		t.Errorf("hexColorsIn(plain) = %v, want none", got)
	}
}
