// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request
// data: method guards, form parsing and multipart upload handling.

package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Upload size ceilings. A bill photo is a phone camera shot; a
// spreadsheet is a handful of rows.
const (
	maxSpreadsheetBytes = 10 << 20
	maxImageBytes       = 20 << 20
	maxLogoBytes        = 5 << 20
)

// Upload is one file read out of a multipart form.
type Upload struct {
	Data     []byte
	Filename string
	MIMEType string
}

// ReadUpload extracts a single file field from a multipart request,
// enforcing the byte ceiling.
func ReadUpload(r *http.Request, field string, maxBytes int64) (Upload, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return Upload{}, fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return Upload{}, fmt.Errorf("missing file field %q: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return Upload{}, fmt.Errorf("file %q exceeds %d bytes", header.Filename, maxBytes)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return Upload{
		Data:     data,
		Filename: header.Filename,
		MIMEType: mimeType,
	}, nil
}

// FormValue returns a trimmed, sanitized form value.
func FormValue(r *http.Request, key string) string {
	return strings.TrimSpace(sanitizeInput(r.FormValue(key)))
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
