package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"tiffinbill/internal/services"
)

// handleExportPDF renders the current invoice and serves it as a
// download. The filename follows the bill-to name.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}

	filename, data, err := s.svc.ExportPDF(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrExportInProgress) {
			ConflictError(err.Error()).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "PDF export failed", "error", err)
		InternalServerError("Could not generate the PDF").Write(w)
		return
	}

	s.slog.LogPDFExported(r.Context(), filename, len(data))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
