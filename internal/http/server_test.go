package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tiffinbill/internal/clients"
	"tiffinbill/internal/export"
	"tiffinbill/internal/invoice"
	applog "tiffinbill/internal/log"
	"tiffinbill/internal/services"
	"tiffinbill/internal/theme"
)

type fakeListStore struct {
	names []string
}

func (f *fakeListStore) LoadClientList(ctx context.Context) ([]string, error) {
	return append([]string(nil), f.names...), nil
}

func (f *fakeListStore) SaveClientList(ctx context.Context, names []string) error {
	f.names = append([]string(nil), names...)
	return nil
}

func newTestServer(t *testing.T) (*Server, *services.BillService) {
	t.Helper()

	registry := clients.NewRegistry(&fakeListStore{}, RequestConfirmer{})
	if err := registry.Load(context.Background()); err != nil {
		t.Fatalf("load registry: %v", err)
	}

	svc := services.NewBillService(
		invoice.New(),
		registry,
		theme.NewEngine(),
		nil,
		nil,
		nil,
		export.Business{Name: "Bhookhad Baba", Tagline: "Tiffin Service", Phone: "8826513777"},
		80,
	)

	srv := NewServer(":0", svc, applog.New(applog.DefaultConfig()))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, svc
}

func doGET(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func doForm(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := doGET(t, srv, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec := doGET(t, srv, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestIndexRendersPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGET(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	body := rec.Body.String()
	for _, want := range []string{"Bhookhad Baba", "INVOICE", `value="Monu"`, "items-table", "theme-picker"} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}
}

func TestIndexUnknownPath(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := doGET(t, srv, "/no-such-page"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAddItem(t *testing.T) {
	srv, svc := newTestServer(t)
	before := len(svc.Store().Items())

	rec := doForm(t, srv, "/items/add", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := len(svc.Store().Items()); got != before+1 {
		t.Errorf("item count = %d, want %d", got, before+1)
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "items:changed") {
		t.Errorf("HX-Trigger = %q, want items:changed", trigger)
	}
	if !strings.Contains(rec.Body.String(), "items-table") {
		t.Error("response did not render the items table partial")
	}
}

func TestAddItemRequiresPOST(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := doGET(t, srv, "/items/add"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestUpdateHeaderBillToSyncsRegistry(t *testing.T) {
	srv, svc := newTestServer(t)

	rec := doForm(t, srv, "/header/update", url.Values{
		"field": {"billto"},
		"value": {"Raju"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "clients:changed") {
		t.Errorf("HX-Trigger = %q, want clients:changed", trigger)
	}
	if got := svc.Registry().Current(); got != "Raju" {
		t.Errorf("registry current = %q, want Raju", got)
	}
	if got := svc.Store().BillTo(); got != "Raju" {
		t.Errorf("store bill-to = %q, want Raju", got)
	}
}

func TestUpdateHeaderUnknownField(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doForm(t, srv, "/header/update", url.Values{
		"field": {"nonsense"},
		"value": {"x"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAddClient(t *testing.T) {
	srv, svc := newTestServer(t)

	rec := doForm(t, srv, "/clients/add", url.Values{"name": {"Raju"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Raju") {
		t.Error("client manager partial missing the new name")
	}
	if got := svc.Store().BillTo(); got != "Raju" {
		t.Errorf("store bill-to = %q, want Raju", got)
	}
}

func TestAddClientEmptyName(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doForm(t, srv, "/clients/add", url.Values{"name": {"   "}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestDeleteClientRequiresConfirmation(t *testing.T) {
	srv, svc := newTestServer(t)
	doForm(t, srv, "/clients/add", url.Values{"name": {"Raju"}})

	rec := doForm(t, srv, "/clients/delete", url.Values{
		"name":    {"Raju"},
		"confirm": {"false"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if names := svc.Registry().Names(); len(names) != 1 {
		t.Fatalf("unconfirmed delete removed the client: %v", names)
	}

	rec = doForm(t, srv, "/clients/delete", url.Values{
		"name":    {"Raju"},
		"confirm": {"true"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if names := svc.Registry().Names(); len(names) != 0 {
		t.Errorf("confirmed delete left names behind: %v", names)
	}
}

func TestApplyTheme(t *testing.T) {
	srv, svc := newTestServer(t)

	rec := doForm(t, srv, "/themes/apply", url.Values{"name": {"ocean"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if trigger := rec.Header().Get("HX-Trigger"); !strings.Contains(trigger, "theme:changed") {
		t.Errorf("HX-Trigger = %q, want theme:changed", trigger)
	}
	if current, _ := svc.Themes().Current(); current.Name != "ocean" {
		t.Errorf("current theme = %q, want ocean", current.Name)
	}
}

func TestApplyThemeUnknown(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doForm(t, srv, "/themes/apply", url.Values{"name": {"neon"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestMiddlewareChainHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGET(t, srv, "/")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "img-src 'self' data:") {
		t.Errorf("CSP %q should allow data: images for the logo", csp)
	}
	if id := rec.Header().Get("X-Request-ID"); !strings.HasPrefix(id, "req_") {
		t.Errorf("X-Request-ID = %q, want req_ prefix", id)
	}
}

func TestRenderBudgetExhaustion(t *testing.T) {
	srv, _ := newTestServer(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = doGET(t, srv, "/export/pdf")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("eleventh export status = %d, want %d", last.Code, http.StatusTooManyRequests)
	}
	if retry := last.Header().Get("Retry-After"); retry != "60" {
		t.Errorf("Retry-After = %q, want 60", retry)
	}

	// Cheap edits draw on a separate budget and still go through.
	if rec := doForm(t, srv, "/items/add", url.Values{}); rec.Code != http.StatusOK {
		t.Errorf("edit after render exhaustion status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestExportPDF(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doGET(t, srv, "/export/pdf")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Monu.pdf") {
		t.Errorf("Content-Disposition = %q, want Monu.pdf", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("body is not a PDF document")
	}
}
