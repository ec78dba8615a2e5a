// Package clients manages the persisted set of known client names and
// the currently selected "bill to" name.
//
// The set is insertion-ordered and unique (case-sensitive). Every
// mutation writes the full list through to storage immediately; there is
// no batching and the last write wins. A broken or absent stored list is
// never fatal: the registry just starts empty.
package clients

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tiffinbill/internal/core"
)

type (
	// ListStore persists the full client list as one blob.
	ListStore interface {
		LoadClientList(ctx context.Context) ([]string, error)
		SaveClientList(ctx context.Context, names []string) error
	}

	// Confirmer asks the user a yes/no question before destructive
	// operations. The HTTP layer satisfies it from the confirmation
	// field the UI submits.
	Confirmer interface {
		Confirm(ctx context.Context, prompt string) (bool, error)
	}
)

type Registry struct {
	mu      sync.Mutex
	store   ListStore
	confirm Confirmer
	names   []string
	current string
}

func NewRegistry(store ListStore, confirm Confirmer) *Registry {
	return &Registry{
		store:   store,
		confirm: confirm,
		current: "Monu",
	}
}

// Load reads the persisted set. Deserialization failures yield an empty
// set and the error is returned only so the caller can log it.
func (r *Registry) Load(ctx context.Context) error {
	names, err := r.store.LoadClientList(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.names = nil
		return fmt.Errorf("load client list: %w", err)
	}
	r.names = dedupe(names)
	return nil
}

// Add trims and inserts a new name, persists the full set and makes the
// name the current selection. Empty names and exact duplicates are
// reported as sentinel errors the caller may treat as a no-op.
func (r *Registry) Add(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", core.ErrEmptyClientName
	}

	// The lock stays held across the store write so two concurrent
	// mutations never persist lists built from the same base.
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.contains(name) {
		return name, core.ErrDuplicateClient
	}
	updated := append(append([]string(nil), r.names...), name)

	if err := r.store.SaveClientList(ctx, updated); err != nil {
		return "", fmt.Errorf("persist client list: %w", err)
	}

	r.names = updated
	r.current = name
	return name, nil
}

// SaveCurrent promotes the free-typed bill-to name into the persisted
// set, with the same trim and duplicate rules as Add.
func (r *Registry) SaveCurrent(ctx context.Context) (string, error) {
	return r.Add(ctx, r.Current())
}

// Delete removes a name after interactive confirmation and persists the
// remaining set. When the deleted name was the active selection, the
// selection resets to the placeholder literal. Reports whether the
// deletion actually happened.
func (r *Registry) Delete(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}

	ok, err := r.confirm.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete client %q?", name))
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	updated := make([]string, 0, len(r.names))
	for _, n := range r.names {
		if n != name {
			updated = append(updated, n)
		}
	}
	if len(updated) == len(r.names) {
		return false, nil
	}

	if err := r.store.SaveClientList(ctx, updated); err != nil {
		return false, fmt.Errorf("persist client list: %w", err)
	}

	r.names = updated
	if r.current == name {
		r.current = core.PlaceholderClient
	}
	return true, nil
}

// Names returns the persisted set in insertion order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

// Current returns the active bill-to name, which need not be a member of
// the persisted set.
func (r *Registry) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SetCurrent records the active bill-to name as typed or selected.
func (r *Registry) SetCurrent(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = name
}

func (r *Registry) contains(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
