// Package services wires the invoice domain together: the item store,
// the client registry, the theme engine, the two import adapters and the
// PDF exporter, with best-effort activity events over AMQP.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/semaphore"

	"tiffinbill/internal/amqp"
	"tiffinbill/internal/cache"
	"tiffinbill/internal/clients"
	"tiffinbill/internal/core"
	"tiffinbill/internal/export"
	"tiffinbill/internal/importer"
	"tiffinbill/internal/invoice"
	"tiffinbill/internal/theme"
)

// One-at-a-time guards. A second trigger while the first is in flight is
// rejected, never queued.
var (
	ErrImportInProgress     = errors.New("spreadsheet import already in progress")
	ErrExtractionInProgress = errors.New("image extraction already in progress")
	ErrExportInProgress     = errors.New("PDF export already in progress")

	ErrVisionDisabled = errors.New("image extraction is not configured")
)

// BillService orchestrates invoice operations and publishes activity
// events. Events and vision are both optional; a nil client disables
// them without changing any editor behavior.
type BillService struct {
	store    *invoice.Store
	registry *clients.Registry
	themes   *theme.Engine
	vision   importer.Extractor
	events   *amqp.Client
	pdfCache *cache.LRUCache[[]byte]

	business         export.Business
	defaultUnitPrice float64

	importGuard  *semaphore.Weighted
	extractGuard *semaphore.Weighted
	exportGuard  *semaphore.Weighted
}

func NewBillService(
	store *invoice.Store,
	registry *clients.Registry,
	themes *theme.Engine,
	vision importer.Extractor,
	events *amqp.Client,
	pdfCache *cache.LRUCache[[]byte],
	business export.Business,
	defaultUnitPrice float64,
) *BillService {
	return &BillService{
		store:            store,
		registry:         registry,
		themes:           themes,
		vision:           vision,
		events:           events,
		pdfCache:         pdfCache,
		business:         business,
		defaultUnitPrice: defaultUnitPrice,
		importGuard:      semaphore.NewWeighted(1),
		extractGuard:     semaphore.NewWeighted(1),
		exportGuard:      semaphore.NewWeighted(1),
	}
}

func (s *BillService) Store() *invoice.Store       { return s.store }
func (s *BillService) Registry() *clients.Registry { return s.registry }
func (s *BillService) Themes() *theme.Engine       { return s.themes }
func (s *BillService) Business() export.Business   { return s.business }
func (s *BillService) DefaultUnitPrice() float64   { return s.defaultUnitPrice }
func (s *BillService) VisionEnabled() bool         { return s.vision != nil }

// AddItem appends a fresh row with today's date and default values.
func (s *BillService) AddItem(ctx context.Context) core.LineItem {
	item := s.store.AddItem()
	s.publishActivity(ctx, amqp.EventItemAdded, item.ID)
	return item
}

// UpdateItem applies one in-place cell edit.
func (s *BillService) UpdateItem(ctx context.Context, id, field, value string) {
	s.store.UpdateField(id, field, value)
	s.publishActivity(ctx, amqp.EventItemUpdated, id)
}

// DeleteItem removes one row.
func (s *BillService) DeleteItem(ctx context.Context, id string) {
	s.store.DeleteItem(id)
	s.publishActivity(ctx, amqp.EventItemDeleted, id)
}

// ImportSpreadsheet parses an uploaded workbook or CSV and atomically
// replaces the item list. Only one import runs at a time.
func (s *BillService) ImportSpreadsheet(ctx context.Context, r io.Reader, filename string) (int, error) {
	if !s.importGuard.TryAcquire(1) {
		return 0, ErrImportInProgress
	}
	defer s.importGuard.Release(1)

	items, err := importer.ParseSpreadsheet(r, filename)
	if err != nil {
		return 0, err
	}
	if err := s.store.ReplaceAll(items); err != nil {
		return 0, err
	}

	s.publishActivity(ctx, amqp.EventItemsReplaced, fmt.Sprintf("spreadsheet:%d", len(items)))
	return len(items), nil
}

// ExtractFromImage sends a bill photo to the vision model, prices the
// extracted rows at the given unit price and atomically replaces the
// item list. Only one extraction runs at a time.
func (s *BillService) ExtractFromImage(ctx context.Context, image []byte, mimeType, unitPriceRaw string) (int, error) {
	if s.vision == nil {
		return 0, ErrVisionDisabled
	}
	if !s.extractGuard.TryAcquire(1) {
		return 0, ErrExtractionInProgress
	}
	defer s.extractGuard.Release(1)

	// Reject a bad price before the image leaves the machine; the
	// extraction call is the expensive part.
	unitPrice, err := strconv.ParseFloat(strings.TrimSpace(unitPriceRaw), 64)
	if err != nil || !core.IsFinite(unitPrice) || unitPrice <= 0 {
		return 0, core.ErrInvalidUnitPrice
	}

	extracted, err := s.vision.Extract(ctx, image, mimeType)
	if err != nil {
		return 0, fmt.Errorf("extract items from image: %w", err)
	}

	items, err := importer.ItemsFromExtraction(extracted, unitPrice)
	if err != nil {
		return 0, err
	}
	if err := s.store.ReplaceAll(items); err != nil {
		return 0, err
	}

	s.publishActivity(ctx, amqp.EventItemsReplaced, fmt.Sprintf("vision:%d", len(items)))
	return len(items), nil
}

// SetBillTo records the typed or selected bill-to name in both the
// header and the registry selection.
func (s *BillService) SetBillTo(name string) {
	s.store.SetBillTo(name)
	s.registry.SetCurrent(name)
}

// AddClient persists a new client name and selects it.
func (s *BillService) AddClient(ctx context.Context, name string) (string, error) {
	added, err := s.registry.Add(ctx, name)
	if err != nil {
		return "", err
	}
	s.store.SetBillTo(s.registry.Current())
	s.publishActivity(ctx, amqp.EventClientAdded, added)
	return added, nil
}

// SaveCurrentClient promotes the free-typed bill-to name into the
// persisted set.
func (s *BillService) SaveCurrentClient(ctx context.Context) (string, error) {
	added, err := s.registry.SaveCurrent(ctx)
	if err != nil {
		return "", err
	}
	s.store.SetBillTo(s.registry.Current())
	s.publishActivity(ctx, amqp.EventClientAdded, added)
	return added, nil
}

// DeleteClient removes a client name after confirmation.
func (s *BillService) DeleteClient(ctx context.Context, name string) (bool, error) {
	removed, err := s.registry.Delete(ctx, name)
	if err != nil || !removed {
		return removed, err
	}
	s.store.SetBillTo(s.registry.Current())
	s.publishActivity(ctx, amqp.EventClientDeleted, name)
	return true, nil
}

// ApplyTheme switches the active theme by name.
func (s *BillService) ApplyTheme(ctx context.Context, name string) (theme.Theme, theme.StylePatch, error) {
	th, patch, err := s.themes.Apply(name)
	if err != nil {
		return theme.Theme{}, theme.StylePatch{}, err
	}
	s.publishActivity(ctx, amqp.EventThemeApplied, name)
	return th, patch, nil
}

// ExportPDF renders the current invoice, serving repeated exports of
// unchanged state from the cache. Only one render runs at a time.
func (s *BillService) ExportPDF(ctx context.Context) (string, []byte, error) {
	if !s.exportGuard.TryAcquire(1) {
		return "", nil, ErrExportInProgress
	}
	defer s.exportGuard.Release(1)

	snap := s.store.Snapshot()
	th, _ := s.themes.Current()
	filename := export.Filename(snap.BillTo)

	key := export.Fingerprint(snap, th, s.business)
	if s.pdfCache != nil {
		if data, ok := s.pdfCache.Get(key); ok {
			slog.DebugContext(ctx, "Serving PDF from cache", "filename", filename)
			return filename, data, nil
		}
	}

	data, err := export.RenderPDF(snap, th, s.business)
	if err != nil {
		return "", nil, fmt.Errorf("render PDF: %w", err)
	}
	if s.pdfCache != nil {
		s.pdfCache.Set(key, data)
	}

	s.publishActivity(ctx, amqp.EventPDFExported, filename)
	return filename, data, nil
}

func (s *BillService) publishActivity(ctx context.Context, kind, detail string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishActivity(ctx, kind, detail); err != nil {
		slog.WarnContext(ctx, "Failed to publish activity event",
			"kind", kind, "error", err)
	}
}

// Close releases the AMQP connection, if any.
func (s *BillService) Close() error {
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			return fmt.Errorf("close amqp client: %w", err)
		}
	}
	return nil
}
