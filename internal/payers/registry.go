package payers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Registry resolves a clearinghouse payer code to its encoding dialect.
type Registry interface {
	Dialect(ctx context.Context, payerCode string) (*Dialect, error)
	List(ctx context.Context) ([]Dialect, error)
}

// ErrUnknownPayer is returned (wrapped) when no dialect exists for a code.
type ErrUnknownPayer struct {
	PayerCode string
}

func (e *ErrUnknownPayer) Error() string {
	return fmt.Sprintf("payers: no dialect configured for payer code %q", e.PayerCode)
}

// StaticRegistry serves dialects from an in-memory map, seeded from the
// built-in defaults and optionally overridden from a JSON file. Reads are
// concurrent-safe; the map is never mutated after construction.
type StaticRegistry struct {
	mu       sync.RWMutex
	dialects map[string]Dialect
}

// NewStaticRegistry builds a registry from the built-in dialect set.
func NewStaticRegistry() *StaticRegistry {
	m := make(map[string]Dialect, len(defaultDialects))
	for _, d := range defaultDialects {
		m[d.PayerCode] = d
	}
	return &StaticRegistry{dialects: m}
}

// NewStaticRegistryFromFile loads dialects from a JSON array file, layered on
// top of the built-in defaults (file entries win on payer code collisions).
func NewStaticRegistryFromFile(path string) (*StaticRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("payers: read dialect file: %w", err)
	}
	var loaded []Dialect
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("payers: parse dialect file %s: %w", path, err)
	}
	r := NewStaticRegistry()
	for _, d := range loaded {
		if d.PayerCode == "" {
			return nil, fmt.Errorf("payers: dialect entry missing payer_code in %s", path)
		}
		r.dialects[d.PayerCode] = d
	}
	return r, nil
}

// Dialect returns the dialect for a payer code.
func (r *StaticRegistry) Dialect(_ context.Context, payerCode string) (*Dialect, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dialects[payerCode]
	if !ok {
		return nil, &ErrUnknownPayer{PayerCode: payerCode}
	}
	return &d, nil
}

// List returns all configured dialects ordered by payer code.
func (r *StaticRegistry) List(_ context.Context) ([]Dialect, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Dialect, 0, len(r.dialects))
	for _, d := range r.dialects {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayerCode < out[j].PayerCode })
	return out, nil
}
