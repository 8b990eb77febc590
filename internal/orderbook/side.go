// Package orderbook implements the price-level order book: a single-side
// price ladder, a per-token book pairing bid/ask sides with a sequence
// counter, and a manager keying books by token id. See spec.md §4.1-§4.3.
package orderbook

import (
	"sort"

	"polymarket-hft-core/pkg/price"
	"polymarket-hft-core/pkg/types"
)

// Kind distinguishes the two sides of a book.
type Kind int

const (
	Bid Kind = iota
	Ask
)

// Side is one side (bid or ask) of a single token's order book: a sorted
// price ladder with no zero-size levels (spec.md §3 OrderBookSide
// invariants). Not concurrency-safe on its own; callers serialize access
// through Book's mutex.
type Side struct {
	kind   Kind
	levels map[string]types.PriceLevel // keyed by price.String() for exact lookup
}

func newSide(kind Kind) *Side {
	return &Side{
		kind:   kind,
		levels: make(map[string]types.PriceLevel),
	}
}

// apply upserts a level, or removes it when size is zero.
func (s *Side) apply(p, size price.Price) {
	key := p.String()
	if size.IsZero() {
		delete(s.levels, key)
		return
	}
	s.levels[key] = types.PriceLevel{Price: p, Size: size}
}

// replace discards all existing levels and loads the given ones. Zero-size
// levels in the input are dropped, preserving the "never stored" invariant.
func (s *Side) replace(levels []types.PriceLevel) {
	s.levels = make(map[string]types.PriceLevel, len(levels))
	for _, lvl := range levels {
		if lvl.Size.IsZero() {
			continue
		}
		s.levels[lvl.Price.String()] = lvl
	}
}

// sorted returns levels best-first: descending price for bids, ascending
// for asks.
func (s *Side) sorted() []types.PriceLevel {
	out := make([]types.PriceLevel, 0, len(s.levels))
	for _, lvl := range s.levels {
		out = append(out, lvl)
	}
	if s.kind == Bid {
		sort.Slice(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	}
	return out
}

// best returns the top-of-book level for this side.
func (s *Side) best() (types.PriceLevel, bool) {
	sorted := s.sorted()
	if len(sorted) == 0 {
		return types.PriceLevel{}, false
	}
	return sorted[0], true
}

// sizeAt returns the exact size resting at p, or zero if no level exists.
func (s *Side) sizeAt(p price.Price) price.Price {
	lvl, ok := s.levels[p.String()]
	if !ok {
		return price.Zero
	}
	return lvl.Size
}

// topN returns the best n levels, best-first. Allocates a fresh copy.
func (s *Side) topN(n int) []types.PriceLevel {
	sorted := s.sorted()
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// liquidityWithin sums sizes at levels at least as good as limitPrice: for
// bids, price >= limitPrice; for asks, price <= limitPrice.
func (s *Side) liquidityWithin(limitPrice price.Price) price.Price {
	total := price.Zero
	for _, lvl := range s.levels {
		within := false
		if s.kind == Bid {
			within = lvl.Price.GreaterThanOrEqual(limitPrice)
		} else {
			within = lvl.Price.LessThanOrEqual(limitPrice)
		}
		if within {
			total = total.Add(lvl.Size)
		}
	}
	return total
}

// depth reports the number of resting price levels.
func (s *Side) depth() int {
	return len(s.levels)
}
