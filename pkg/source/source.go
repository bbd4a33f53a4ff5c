// Package source owns the process-wide choice between the two read paths:
// direct contract calls or the indexed subgraph. The choice is persisted so
// it survives restarts, and can be pinned to the contract path for chains
// whose subgraph is known to be unavailable.
package source

import (
	"context"
	"fmt"
)

// Source identifies a read path. The literal values double as the persisted
// representation, so they must not change.
type Source string

const (
	// SourceContract reads state through live contract calls.
	SourceContract Source = "contract"
	// SourceSubgraph reads state through the indexed query service.
	SourceSubgraph Source = "subgraph"
)

// Valid reports whether s is one of the two defined sources.
func (s Source) Valid() bool {
	return s == SourceContract || s == SourceSubgraph
}

// Other returns the opposite source.
func (s Source) Other() Source {
	if s == SourceContract {
		return SourceSubgraph
	}
	return SourceContract
}

// PreferenceStore persists the active source across sessions. Load returns
// ok=false when no preference has been saved yet. Implementations follow
// last-write-wins; the gateway is the only writer.
type PreferenceStore interface {
	Load(ctx context.Context) (s Source, ok bool, err error)
	Save(ctx context.Context, s Source) error
}

// MemoryStore is an in-process PreferenceStore for tests and for running
// without Redis.
type MemoryStore struct {
	s  Source
	ok bool
}

func (m *MemoryStore) Load(_ context.Context) (Source, bool, error) {
	return m.s, m.ok, nil
}

func (m *MemoryStore) Save(_ context.Context, s Source) error {
	if !s.Valid() {
		return fmt.Errorf("refusing to persist unknown source %q", s)
	}
	m.s, m.ok = s, true
	return nil
}
