package http

import (
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"tiffinbill/internal/core"
	"tiffinbill/internal/invoice"
)

// Header fields accepted by handleUpdateHeader.
const (
	headerBillTo     = "billto"
	headerInvoiceNo  = "invoiceno"
	headerBillDate   = "billdate"
	headerAmountPaid = "amountpaid"
	headerTaxPercent = "taxpercent"
)

type itemRow struct {
	ID    string
	Date  string
	Qty   string
	Price string
}

type itemsView struct {
	Rows []itemRow
}

type totalsView struct {
	TotalQty    string
	TotalAmount string
	AmountPaid  string
	TaxPercent  string
	AmountDue   string
}

type pageView struct {
	BusinessName    string
	BusinessTagline string
	BusinessAddress string
	BusinessPhone   string

	BillTo    string
	InvoiceNo string
	BillDate  string
	Logo      template.URL

	Items  itemsView
	Totals totalsView

	Clients clientsView
	Themes  themesView

	VisionEnabled    bool
	DefaultUnitPrice string
}

func itemsViewFrom(items []core.LineItem) itemsView {
	v := itemsView{Rows: make([]itemRow, 0, len(items))}
	for _, it := range items {
		v.Rows = append(v.Rows, itemRow{
			ID:    it.ID,
			Date:  it.Date,
			Qty:   formatNumber(it.Qty),
			Price: formatNumber(it.Price),
		})
	}
	return v
}

func totalsViewFrom(snap invoice.Snapshot) totalsView {
	return totalsView{
		TotalQty:    formatNumber(snap.Totals.TotalQty),
		TotalAmount: formatRupees(snap.Totals.TotalAmount),
		AmountPaid:  formatNumber(snap.AmountPaid),
		TaxPercent:  formatNumber(snap.TaxPercent),
		AmountDue:   formatRupees(snap.Totals.AmountDue),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	snap := s.svc.Store().Snapshot()
	data := pageView{
		BusinessName:    s.svc.Business().Name,
		BusinessTagline: s.svc.Business().Tagline,
		BusinessAddress: s.svc.Business().Address,
		BusinessPhone:   s.svc.Business().Phone,

		BillTo:    snap.BillTo,
		InvoiceNo: snap.InvoiceNo,
		BillDate:  snap.BillDate,
		Logo:      template.URL(snap.Logo),

		Items:  itemsViewFrom(snap.Items),
		Totals: totalsViewFrom(snap),

		Clients: s.clientsViewData(),
		Themes:  s.themesViewData(),

		VisionEnabled:    s.svc.VisionEnabled(),
		DefaultUnitPrice: formatNumber(s.svc.DefaultUnitPrice()),
	}

	s.render(w, r, "index.html", data)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	item := s.svc.AddItem(r.Context())
	slog.DebugContext(r.Context(), "Item added", "item_id", item.ID)

	NewHTMXResponse().TriggerItemsChanged().Apply(w)
	s.renderItems(w, r)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := FormValue(r, "id")
	field := FormValue(r, "field")
	value := sanitizeInput(r.FormValue("value"))

	s.svc.UpdateItem(r.Context(), id, field, value)

	NewHTMXResponse().TriggerItemsChanged().Apply(w)
	s.renderItems(w, r)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	s.svc.DeleteItem(r.Context(), FormValue(r, "id"))

	NewHTMXResponse().TriggerItemsChanged().Apply(w)
	s.renderItems(w, r)
}

func (s *Server) handleUpdateHeader(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	field := FormValue(r, "field")
	value := sanitizeInput(r.FormValue("value"))
	store := s.svc.Store()

	switch field {
	case headerBillTo:
		s.svc.SetBillTo(value)
		NewHTMXResponse().TriggerClientsChanged().Write(w)
		return
	case headerInvoiceNo:
		store.SetInvoiceNo(value)
	case headerBillDate:
		store.SetBillDate(value)
	case headerAmountPaid:
		store.SetAmountPaid(value)
	case headerTaxPercent:
		store.SetTaxPercent(value)
	default:
		BadRequestError("Unknown header field").Write(w)
		return
	}

	NewHTMXResponse().TriggerItemsChanged().Apply(w)
	s.renderTotals(w, r)
}

func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	up, err := ReadUpload(r, "logo", maxLogoBytes)
	if err != nil {
		slog.WarnContext(r.Context(), "Logo upload rejected", "error", err)
		BadRequestError("Could not read the logo image").Write(w)
		return
	}
	if !strings.HasPrefix(up.MIMEType, "image/") {
		BadRequestError("Logo must be an image").Write(w)
		return
	}

	dataURL := "data:" + up.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(up.Data)
	s.svc.Store().SetLogo(dataURL)

	NewHTMXResponse().
		TriggerSuccessNotification("Logo updated").
		BodyHTML(`<img class="logo-preview" src="` + dataURL + `" alt="logo">`).
		Write(w)
}

func (s *Server) handleItemsPartial(w http.ResponseWriter, r *http.Request) {
	s.renderItems(w, r)
}

func (s *Server) handleTotalsPartial(w http.ResponseWriter, r *http.Request) {
	s.renderTotals(w, r)
}

func (s *Server) renderItems(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "items_table.html", itemsViewFrom(s.svc.Store().Items()))
}

func (s *Server) renderTotals(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "totals.html", totalsViewFrom(s.svc.Store().Snapshot()))
}
