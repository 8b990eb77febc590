package orderbook

import (
	"fmt"
	"sort"
	"sync"

	"polymarket-hft-core/pkg/types"
)

// Manager is a keyed collection of Books, one per token id (spec.md §4.3).
// Books are created on first snapshot; the manager owns them. Grounded on
// the teacher's market.Scanner collection style and
// original_source/rust_core/src/orderbook.rs's OrderbookManager
// (get-or-create, find_wide_spreads), generalized to the sequenced
// snapshot/delta protocol of spec.md §4.2.
type Manager struct {
	mu    sync.RWMutex
	books map[string]*Book
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{books: make(map[string]*Book)}
}

// LoadSnapshot overwrites (or creates) the book for snap.TokenID.
func (m *Manager) LoadSnapshot(snap types.SnapshotMessage) {
	m.mu.Lock()
	book, ok := m.books[snap.TokenID]
	if !ok {
		book = NewBook(snap.TokenID)
		m.books[snap.TokenID] = book
	}
	m.mu.Unlock()

	book.FromSnapshot(snap)
}

// ApplyDelta routes a delta to its token's book. Returns ErrTokenNotFound
// if no snapshot has been loaded for that token yet.
func (m *Manager) ApplyDelta(delta types.DeltaMessage) error {
	m.mu.RLock()
	book, ok := m.books[delta.TokenID]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("token %s: %w", delta.TokenID, types.ErrTokenNotFound)
	}
	return book.Apply(delta)
}

// Get returns shared access to the book for tokenID, if one exists.
func (m *Manager) Get(tokenID string) (*Book, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	book, ok := m.books[tokenID]
	return book, ok
}

// TokenIDs returns every token id with a loaded book, in sorted order.
func (m *Manager) TokenIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.books))
	for id := range m.books {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindWideSpread returns the token ids whose current spread strictly
// exceeds thresholdBps. Order is deterministic (sorted) within one call,
// per spec.md §4.3.
func (m *Manager) FindWideSpread(thresholdBps int64) []string {
	m.mu.RLock()
	books := make([]*Book, 0, len(m.books))
	for _, book := range m.books {
		books = append(books, book)
	}
	m.mu.RUnlock()

	var wide []string
	for _, book := range books {
		bps, ok := book.SpreadBps()
		if !ok {
			continue
		}
		if bps > thresholdBps {
			wide = append(wide, book.TokenID())
		}
	}
	sort.Strings(wide)
	return wide
}
