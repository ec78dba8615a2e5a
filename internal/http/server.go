package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	applog "tiffinbill/internal/log"
	"tiffinbill/internal/middleware/ratelimit"
	"tiffinbill/internal/middleware/security"
	"tiffinbill/internal/middleware/trace"
	"tiffinbill/internal/services"
	appweb "tiffinbill/web"
)

// Server is the invoice editor's HTTP surface: one page plus HTMX
// partials, all state held server-side in the bill service.
type Server struct {
	http.Server
	svc       *services.BillService
	templates *template.Template
	limiter   *ratelimit.Limiter
	slog      *applog.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(addr string, svc *services.BillService, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:     svc,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		slog:    applog.NewStructuredLogger(logger),
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(template.FuncMap{
		"rupees": formatRupees,
		"num":    formatNumber,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Item operations
	mux.HandleFunc("/items/add", s.limited(s.handleAddItem))
	mux.HandleFunc("/items/update", s.limited(s.handleUpdateItem))
	mux.HandleFunc("/items/delete", s.limited(s.handleDeleteItem))
	mux.HandleFunc("/items/import", s.limitedRender(s.handleImportSpreadsheet))
	mux.HandleFunc("/items/extract", s.limitedRender(s.handleExtractImage))

	// Header and logo
	mux.HandleFunc("/header/update", s.limited(s.handleUpdateHeader))
	mux.HandleFunc("/logo/upload", s.limited(s.handleUploadLogo))

	// Client registry
	mux.HandleFunc("/clients/add", s.limited(s.handleAddClient))
	mux.HandleFunc("/clients/save", s.limited(s.handleSaveClient))
	mux.HandleFunc("/clients/delete", s.limited(s.handleDeleteClient))
	mux.HandleFunc("/clients/select", s.limited(s.handleSelectClient))

	// Themes and export
	mux.HandleFunc("/themes/apply", s.limited(s.handleApplyTheme))
	mux.HandleFunc("/export/pdf", s.limitedRender(s.handleExportPDF))

	// UI partials
	mux.HandleFunc("/ui/items", s.handleItemsPartial)
	mux.HandleFunc("/ui/totals", s.handleTotalsPartial)
	mux.HandleFunc("/ui/clients", s.handleClientsPartial)
	mux.HandleFunc("/ui/themes", s.handleThemesPartial)

	// Middleware chain: tracing outermost, then security headers, then
	// the per-request logger.
	handler := s.accessLog(mux)
	handler = applog.Middleware(logger)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware().Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// accessLog emits one start and one completion record per request.
// Static assets are skipped to keep the log readable.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		requestID := trace.GetRequestID(r.Context())
		s.slog.LogHTTPStart(r.Context(), r, ip, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.slog.LogHTTPEnd(r.Context(), r, rec.status, time.Since(start).Milliseconds(), ip, requestID)
	})
}

// limited applies the edit budget to mutating requests.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && !s.limiter.AllowEdit(clientIP(r)) {
			s.rejectRateLimited(w, r)
			return
		}
		next(w, r)
	}
}

// limitedRender applies the smaller render budget regardless of method,
// for imports, extractions and the PDF render.
func (s *Server) limitedRender(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.AllowRender(clientIP(r)) {
			s.rejectRateLimited(w, r)
			return
		}
		next(w, r)
	}
}

func (s *Server) rejectRateLimited(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "Rate limit exceeded",
		"client_ip", clientIP(r), "path", r.URL.Path)
	w.Header().Set("Retry-After", "60")
	http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// render executes one template into the response, logging failures.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed",
			"error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
