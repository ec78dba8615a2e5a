package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tiffinbill/internal/core"
	"tiffinbill/internal/services"
)

func (s *Server) handleImportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	up, err := ReadUpload(r, "file", maxSpreadsheetBytes)
	if err != nil {
		slog.WarnContext(r.Context(), "Spreadsheet upload rejected", "error", err)
		BadRequestError("Could not read the uploaded file").Write(w)
		return
	}

	count, err := s.svc.ImportSpreadsheet(r.Context(), strings.NewReader(string(up.Data)), up.Filename)
	if err != nil {
		s.writeImportError(w, r, err, "import")
		return
	}
	s.slog.LogItemsImported(r.Context(), "spreadsheet", count)

	NewHTMXResponse().
		TriggerItemsChanged().
		TriggerSuccessNotification(fmt.Sprintf("Imported %d items", count)).
		Apply(w)
	s.renderItems(w, r)
}

func (s *Server) handleExtractImage(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	up, err := ReadUpload(r, "image", maxImageBytes)
	if err != nil {
		slog.WarnContext(r.Context(), "Bill image upload rejected", "error", err)
		BadRequestError("Could not read the uploaded image").Write(w)
		return
	}
	if !strings.HasPrefix(up.MIMEType, "image/") {
		BadRequestError("Upload must be an image").Write(w)
		return
	}

	count, err := s.svc.ExtractFromImage(r.Context(), up.Data, up.MIMEType, r.FormValue("unit_price"))
	if err != nil {
		s.writeImportError(w, r, err, "extract")
		return
	}
	s.slog.LogItemsImported(r.Context(), "vision", count)

	NewHTMXResponse().
		TriggerItemsChanged().
		TriggerSuccessNotification(fmt.Sprintf("Extracted %d items from the bill image", count)).
		Apply(w)
	s.renderItems(w, r)
}

// writeImportError maps adapter failures onto HTMX error responses. The
// prior item list is untouched in every branch.
func (s *Server) writeImportError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, services.ErrImportInProgress),
		errors.Is(err, services.ErrExtractionInProgress):
		ConflictError(err.Error()).Write(w)
	case errors.Is(err, services.ErrVisionDisabled):
		UnprocessableEntityError("AI extraction is not configured on this server").Write(w)
	case errors.Is(err, core.ErrEmptySheet):
		UnprocessableEntityError("The sheet has no data rows").Write(w)
	case errors.Is(err, core.ErrNoValidItems):
		UnprocessableEntityError("No valid items found. Ensure columns are named DATE, QTY, and PRICE.").Write(w)
	case errors.Is(err, core.ErrNoExtractedItems):
		UnprocessableEntityError("No items could be read from the bill image").Write(w)
	case errors.Is(err, core.ErrInvalidUnitPrice):
		UnprocessableEntityError("Enter a valid unit price greater than zero").Write(w)
	default:
		slog.ErrorContext(r.Context(), "Import failed", "operation", op, "error", err)
		InternalServerError("Import failed, please try again").Write(w)
	}
}
