package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// clientIP extracts the caller's address, trusting proxy headers first.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if idx := strings.IndexByte(ip, ','); idx >= 0 {
			return strings.TrimSpace(ip[:idx])
		}
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// formatRupees renders an amount the way the invoice surface shows it,
// rounded to whole rupees.
func formatRupees(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', 0, 64)
}

// formatNumber renders a quantity or price cell without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

type confirmKey struct{}

// WithConfirmation records the caller's answer to a destructive-action
// prompt in the context.
func WithConfirmation(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, confirmed)
}

// RequestConfirmer satisfies clients.Confirmer from the confirmation
// field the UI submits alongside the delete request.
type RequestConfirmer struct{}

func (RequestConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	confirmed, ok := ctx.Value(confirmKey{}).(bool)
	if !ok {
		return false, fmt.Errorf("no confirmation answer in request")
	}
	return confirmed, nil
}
