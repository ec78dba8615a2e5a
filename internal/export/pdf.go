// Package export renders the current bill to a single-page PDF. It is a
// pure reader of a bill snapshot: nothing here mutates business data,
// and only printable content is drawn (editing affordances never reach
// the page). The page is sized to the rendered surface, matching the
// on-screen layout width.
package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"tiffinbill/internal/invoice"
	"tiffinbill/internal/theme"
)

// Business identifies the tiffin service on the bill header and footer.
type Business struct {
	Name    string
	Tagline string
	Address string
	Phone   string
}

// Layout constants, in points. The surface width mirrors the on-screen
// bill (max-width 450px).
const (
	pageWidth = 450.0
	margin    = 32.0
	rowHeight = 22.0
	logoSize  = 80.0
	currency  = "Rs." // core PDF fonts cannot encode the rupee sign
)

// Filename derives the download name from the current client.
func Filename(billTo string) string {
	name := strings.TrimSpace(billTo)
	if name == "" {
		name = "invoice"
	}
	return name + ".pdf"
}

// Fingerprint identifies the exact visible state of a bill so unchanged
// bills can reuse a previously generated document.
func Fingerprint(snap invoice.Snapshot, th theme.Theme, biz Business) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(snap)
	_ = enc.Encode(th)
	_ = enc.Encode(biz)
	return hex.EncodeToString(h.Sum(nil))
}

// RenderPDF draws the bill with the active theme into a single page and
// returns the document bytes.
func RenderPDF(snap invoice.Snapshot, th theme.Theme, biz Business) ([]byte, error) {
	height := pageHeight(snap)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	drawPageBackground(pdf, th, height)

	y := margin

	// Logo, when one was uploaded this session.
	if img, imgType, ok := decodeDataURL(snap.Logo); ok {
		opt := gofpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
		pdf.RegisterImageOptionsReader("logo", opt, bytes.NewReader(img))
		if pdf.Ok() {
			pdf.ImageOptions("logo", (pageWidth-logoSize)/2, y, logoSize, logoSize, false, opt, 0, "")
			y += logoSize + 8
		} else {
			// A broken logo must not break the export.
			pdf.ClearError()
		}
	}

	// Business identity, centered.
	setColor(pdf.SetTextColor, th.Primary)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetXY(margin, y)
	pdf.CellFormat(pageWidth-2*margin, 28, tr(biz.Name), "", 0, "C", false, 0, "")
	y += 30
	setColor(pdf.SetTextColor, th.TextLight)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(margin, y)
	pdf.CellFormat(pageWidth-2*margin, 14, tr(biz.Tagline), "", 0, "C", false, 0, "")
	y += 36

	// Title block and bill meta.
	setColor(pdf.SetTextColor, th.TextDark)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(margin, y)
	pdf.CellFormat(0, 24, "Food Service", "", 0, "L", false, 0, "")
	pdf.SetXY(margin, y+24)
	pdf.CellFormat(0, 24, "Bill", "", 0, "L", false, 0, "")

	setColor(pdf.SetTextColor, th.TextMedium)
	pdf.SetFont("Helvetica", "", 10)
	meta := []string{
		"Date: " + snap.BillDate,
		"Invoice to : " + snap.BillTo,
		"Invoice no : " + snap.InvoiceNo,
	}
	metaY := y
	for _, line := range meta {
		pdf.SetXY(margin, metaY)
		pdf.CellFormat(pageWidth-2*margin, 14, tr(line), "", 0, "R", false, 0, "")
		metaY += 16
	}
	y += 60

	y = drawDashedRule(pdf, th, y)
	y += 6

	// Item table.
	setColor(pdf.SetFillColor, th.HeaderBg)
	setColor(pdf.SetTextColor, th.TextDark)
	pdf.SetFont("Helvetica", "B", 11)
	colDate := (pageWidth - 2*margin) / 2
	colQty := (pageWidth - 2*margin) / 4
	pdf.SetXY(margin, y)
	pdf.CellFormat(colDate, rowHeight, "DATE", "", 0, "L", true, 0, "")
	pdf.CellFormat(colQty, rowHeight, "QTY", "", 0, "C", true, 0, "")
	pdf.CellFormat(colQty, rowHeight, "PRICE", "", 0, "R", true, 0, "")
	y += rowHeight

	pdf.SetFont("Helvetica", "", 11)
	setColor(pdf.SetDrawColor, th.Border)
	pdf.SetLineWidth(0.6)
	for i, item := range snap.Items {
		pdf.SetXY(margin, y)
		pdf.CellFormat(colDate, rowHeight, tr(item.Date), "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, rowHeight, formatNumber(item.Qty), "", 0, "C", false, 0, "")
		pdf.CellFormat(colQty, rowHeight, currency+formatNumber(item.Price), "", 0, "R", false, 0, "")
		y += rowHeight
		if i < len(snap.Items)-1 {
			pdf.Line(margin, y, pageWidth-margin, y)
		}
	}
	y += 10

	y = drawDashedRule(pdf, th, y)
	y += 14

	// Totals on the right, a hand-written thank-you on the left.
	setColor(pdf.SetTextColor, th.Primary)
	pdf.SetFont("Helvetica", "BI", 22)
	pdf.TransformBegin()
	pdf.TransformRotate(12, margin+70, y+45)
	pdf.SetXY(margin+10, y+35)
	pdf.CellFormat(140, 24, "Thank You!", "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	totalsX := pageWidth/2 + 10
	totalsW := pageWidth/2 - margin - 10
	setColor(pdf.SetTextColor, th.TextMedium)
	pdf.SetFont("Helvetica", "", 10)
	totals := []struct {
		label, value string
	}{
		{"TOTAL TIFFIN:", formatNumber(snap.Totals.TotalQty)},
		{"TOTAL AMOUNT:", currency + formatAmount(snap.Totals.TotalAmount)},
		{"AMOUNT PAID:", currency + formatNumber(snap.AmountPaid)},
		{"TAX:", formatNumber(snap.TaxPercent) + "%"},
	}
	for _, row := range totals {
		pdf.SetXY(totalsX, y)
		pdf.CellFormat(totalsW/2, 16, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(totalsW/2, 16, row.value, "", 0, "R", false, 0, "")
		y += 18
	}
	setColor(pdf.SetTextColor, th.TextDark)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(totalsX, y)
	pdf.CellFormat(totalsW/2, 18, "AMOUNT DUE:", "", 0, "L", false, 0, "")
	pdf.CellFormat(totalsW/2, 18, currency+formatAmount(snap.Totals.AmountDue), "", 0, "R", false, 0, "")
	y += 32

	y = drawDashedRule(pdf, th, y)
	y += 10

	// Footer.
	setColor(pdf.SetTextColor, th.TextMedium)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(margin, y)
	pdf.MultiCell(pageWidth-2*margin, 11, tr(biz.Address), "", "L", false)
	pdf.SetXY(margin, y+26)
	pdf.CellFormat(0, 12, tr(biz.Phone), "", 0, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// pageHeight mirrors the drawing steps so the single page fits the
// rendered content exactly.
func pageHeight(snap invoice.Snapshot) float64 {
	h := margin // top margin
	if _, _, ok := decodeDataURL(snap.Logo); ok {
		h += logoSize + 8
	}
	h += 30 + 36   // business name + tagline
	h += 60        // title and meta block
	h += 12 + 6    // rule
	h += rowHeight // table header
	h += rowHeight * float64(len(snap.Items))
	h += 10 + 12 + 14 // rule
	h += 4*18 + 32    // totals rows + amount due
	h += 12 + 10      // rule
	h += 26 + 12      // footer address + phone
	h += margin       // bottom margin
	return h
}

func drawDashedRule(pdf *gofpdf.Fpdf, th theme.Theme, y float64) float64 {
	setColor(pdf.SetDrawColor, th.Border)
	pdf.SetLineWidth(1.5)
	pdf.SetDashPattern([]float64{5, 3}, 0)
	pdf.Line(margin, y+6, pageWidth-margin, y+6)
	pdf.SetDashPattern([]float64{}, 0)
	return y + 12
}

// drawPageBackground fills the page with the theme's solid color, or a
// two-stop gradient for gradient themes.
func drawPageBackground(pdf *gofpdf.Fpdf, th theme.Theme, height float64) {
	if th.Kind == theme.KindGradient {
		stops := hexColorsIn(th.PageBg)
		if len(stops) >= 2 {
			r1, g1, b1 := rgb(stops[0])
			r2, g2, b2 := rgb(stops[1])
			pdf.LinearGradient(0, 0, pageWidth, height, r1, g1, b1, r2, g2, b2, 0, 0, 1, 1)
			return
		}
	}
	setColor(pdf.SetFillColor, th.PageBg)
	pdf.Rect(0, 0, pageWidth, height, "F")
}

// setColor parses a CSS-ish color value (hex, rgba(), or a known name)
// and feeds it to one of gofpdf's color setters.
func setColor(set func(int, int, int), css string) {
	r, g, b := rgb(css)
	set(r, g, b)
}

func rgb(css string) (int, int, int) {
	s := strings.TrimSpace(strings.ToLower(css))
	switch {
	case s == "white" || s == "":
		return 255, 255, 255
	case s == "black":
		return 0, 0, 0
	case strings.HasPrefix(s, "#"):
		return hexRGB(s)
	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		inner := s[strings.Index(s, "(")+1 : len(s)-1]
		parts := strings.Split(inner, ",")
		if len(parts) >= 3 {
			r, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
			g, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
			b, _ := strconv.Atoi(strings.TrimSpace(parts[2]))
			return r, g, b
		}
	}
	return 255, 255, 255
}

func hexRGB(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff)
}

// hexColorsIn pulls the hex stops out of a CSS gradient expression.
func hexColorsIn(s string) []string {
	var out []string
	for i := 0; i < len(s); i++ {
		if s[i] != '#' {
			continue
		}
		j := i + 1
		for j < len(s) && isHexDigit(s[j]) {
			j++
		}
		if j-i == 4 || j-i == 7 {
			out = append(out, s[i:j])
		}
		i = j
	}
	return out
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatAmount matches the on-screen totals, which round to whole
// rupees.
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 0, 64)
}

// decodeDataURL splits an in-memory logo data URL into raw bytes and a
// gofpdf image type.
func decodeDataURL(dataURL string) ([]byte, string, bool) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, "", false
	}
	rest := strings.TrimPrefix(dataURL, "data:image/")
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return nil, "", false
	}
	imgType := strings.ToUpper(rest[:semi])
	switch imgType {
	case "JPEG", "JPG", "PNG", "GIF":
	default:
		return nil, "", false
	}
	raw, err := base64.StdEncoding.DecodeString(rest[semi+len(";base64,"):])
	if err != nil {
		return nil, "", false
	}
	return raw, imgType, true
}
