package orderbook

import (
	"fmt"
	"sync"
	"time"

	"polymarket-hft-core/pkg/price"
	"polymarket-hft-core/pkg/types"
)

// Book is a single token's order book: paired bid/ask sides plus a
// sequence counter and last-update timestamp (spec.md §3 OrderBook).
// Concurrency-safe via an internal RWMutex, matching the teacher's
// market.Book pattern in internal/market/book.go.
type Book struct {
	mu sync.RWMutex

	tokenID       string
	bids          *Side
	asks          *Side
	sequence      uint64
	lastUpdateTS  uint64
	lastUpdatedAt time.Time
}

// NewBook constructs an empty book for tokenID. Books are normally created
// by Manager.LoadSnapshot, not directly.
func NewBook(tokenID string) *Book {
	return &Book{
		tokenID: tokenID,
		bids:    newSide(Bid),
		asks:    newSide(Ask),
	}
}

// FromSnapshot replaces both sides atomically and sets sequence to the
// snapshot's sequence (spec.md §4.2 from_snapshot).
func (b *Book) FromSnapshot(snap types.SnapshotMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bids.replace(snap.Bids)
	b.asks.replace(snap.Asks)
	b.sequence = snap.Sequence
	b.lastUpdateTS = snap.Timestamp
	b.lastUpdatedAt = time.Now()
}

// Apply validates and applies a delta (spec.md §4.2 apply(delta)).
// Atomicity: either the whole delta applies (both sides updated, sequence
// advanced) or nothing changes.
func (b *Book) Apply(delta types.DeltaMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if delta.Sequence <= b.sequence {
		return fmt.Errorf("token %s: delta sequence %d <= current %d: %w", b.tokenID, delta.Sequence, b.sequence, types.ErrStaleUpdate)
	}
	if delta.Sequence > b.sequence+1 {
		return fmt.Errorf("token %s: delta sequence %d > current %d + 1: %w", b.tokenID, delta.Sequence, b.sequence, types.ErrSequenceGap)
	}

	for _, u := range delta.BidUpdates {
		b.bids.apply(u.Price, u.Size)
	}
	for _, u := range delta.AskUpdates {
		b.asks.apply(u.Price, u.Size)
	}
	b.sequence = delta.Sequence
	b.lastUpdateTS = delta.Timestamp
	b.lastUpdatedAt = time.Now()
	return nil
}

// BestBidAsk returns the top-of-book levels for both sides. ok is false if
// either side is empty.
func (b *Book) BestBidAsk() (bid, ask types.PriceLevel, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	bestBid, hasBid := b.bids.best()
	bestAsk, hasAsk := b.asks.best()
	if !hasBid || !hasAsk {
		return types.PriceLevel{}, types.PriceLevel{}, false
	}
	return bestBid, bestAsk, true
}

// Spread returns ask - bid. Defined only when both sides are non-empty.
func (b *Book) Spread() (price.Price, bool) {
	bid, ask, ok := b.BestBidAsk()
	if !ok {
		return price.Zero, false
	}
	return ask.Price.Sub(bid.Price), true
}

// Mid returns (bid + ask) / 2. Defined only when both sides are non-empty.
func (b *Book) Mid() (price.Price, bool) {
	bid, ask, ok := b.BestBidAsk()
	if !ok {
		return price.Zero, false
	}
	sum := bid.Price.Add(ask.Price)
	mid, _ := sum.Div(price.New(2, 0))
	return mid, true
}

// SpreadBps returns floor((ask-bid)/mid * 10000). Undefined if mid is zero
// or either side is empty.
func (b *Book) SpreadBps() (int64, bool) {
	spread, ok := b.Spread()
	if !ok {
		return 0, false
	}
	mid, ok := b.Mid()
	if !ok || mid.IsZero() {
		return 0, false
	}
	return spread.BpsOf(mid), true
}

// TopN returns the best n levels of one side, best-first.
func (b *Book) TopN(kind Kind, n int) []types.PriceLevel {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if kind == Bid {
		return b.bids.topN(n)
	}
	return b.asks.topN(n)
}

// SizeAt returns the exact size resting at p on the given side.
func (b *Book) SizeAt(kind Kind, p price.Price) price.Price {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if kind == Bid {
		return b.bids.sizeAt(p)
	}
	return b.asks.sizeAt(p)
}

// LiquidityWithin sums sizes at least as good as limitPrice on the given
// side (spec.md §4.1 liquidity_within).
func (b *Book) LiquidityWithin(kind Kind, limitPrice price.Price) price.Price {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if kind == Bid {
		return b.bids.liquidityWithin(limitPrice)
	}
	return b.asks.liquidityWithin(limitPrice)
}

// Sequence returns the book's current sequence number.
func (b *Book) Sequence() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sequence
}

// Depth returns the number of resting levels on each side.
func (b *Book) Depth() (bidDepth, askDepth int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.depth(), b.asks.depth()
}

// TokenID returns the book's token identifier.
func (b *Book) TokenID() string {
	return b.tokenID
}

// LastUpdatedAt returns the wall-clock time of the last successful apply.
func (b *Book) LastUpdatedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastUpdatedAt
}
