package orderbook

import (
	"errors"
	"testing"

	"polymarket-hft-core/pkg/types"
)

func snapshot(seq uint64, bids, asks []types.PriceLevel) types.SnapshotMessage {
	return types.SnapshotMessage{TokenID: "tok-1", Sequence: seq, Bids: bids, Asks: asks}
}

func TestBookFromSnapshotSetsSequenceAndSides(t *testing.T) {
	t.Parallel()
	b := NewBook("tok-1")

	b.FromSnapshot(snapshot(5,
		[]types.PriceLevel{{Price: p("0.50"), Size: p("100")}},
		[]types.PriceLevel{{Price: p("0.55"), Size: p("100")}},
	))

	if got := b.Sequence(); got != 5 {
		t.Errorf("sequence = %d, want 5", got)
	}
	bid, ask, ok := b.BestBidAsk()
	if !ok {
		t.Fatal("BestBidAsk ok=false after snapshot")
	}
	if bid.Price.Cmp(p("0.50")) != 0 || ask.Price.Cmp(p("0.55")) != 0 {
		t.Errorf("bid/ask = %v/%v, want 0.50/0.55", bid.Price, ask.Price)
	}
}

func TestBookApplyStaleUpdateRejected(t *testing.T) {
	t.Parallel()
	b := NewBook("tok-1")
	b.FromSnapshot(snapshot(5, nil, nil))

	err := b.Apply(types.DeltaMessage{TokenID: "tok-1", Sequence: 5})
	if !errors.Is(err, types.ErrStaleUpdate) {
		t.Fatalf("err = %v, want ErrStaleUpdate", err)
	}
	if got := b.Sequence(); got != 5 {
		t.Errorf("sequence mutated by rejected delta: %d", got)
	}
}

func TestBookApplySequenceGapRejected(t *testing.T) {
	t.Parallel()
	b := NewBook("tok-1")
	b.FromSnapshot(snapshot(5, nil, nil))

	err := b.Apply(types.DeltaMessage{TokenID: "tok-1", Sequence: 7})
	if !errors.Is(err, types.ErrSequenceGap) {
		t.Fatalf("err = %v, want ErrSequenceGap", err)
	}
	if got := b.Sequence(); got != 5 {
		t.Errorf("sequence mutated by rejected delta: %d", got)
	}
}

func TestBookApplyAdvancesSequenceAndLevels(t *testing.T) {
	t.Parallel()
	b := NewBook("tok-1")
	b.FromSnapshot(snapshot(5,
		[]types.PriceLevel{{Price: p("0.50"), Size: p("100")}},
		[]types.PriceLevel{{Price: p("0.55"), Size: p("100")}},
	))

	err := b.Apply(types.DeltaMessage{
		TokenID:  "tok-1",
		Sequence: 6,
		BidUpdates: []types.LevelUpdate{
			{Price: p("0.50"), Size: p("0")},
			{Price: p("0.51"), Size: p("40")},
		},
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got := b.Sequence(); got != 6 {
		t.Errorf("sequence = %d, want 6", got)
	}

	bid, _, ok := b.BestBidAsk()
	if !ok || bid.Price.Cmp(p("0.51")) != 0 {
		t.Errorf("bid = %+v, want 0.51", bid)
	}
}

func TestBookSpreadMidSpreadBps(t *testing.T) {
	t.Parallel()
	b := NewBook("tok-1")
	b.FromSnapshot(snapshot(1,
		[]types.PriceLevel{{Price: p("0.50"), Size: p("100")}},
		[]types.PriceLevel{{Price: p("0.60"), Size: p("100")}},
	))

	spread, ok := b.Spread()
	if !ok || spread.Cmp(p("0.10")) != 0 {
		t.Fatalf("spread = %v, want 0.10", spread)
	}
	mid, ok := b.Mid()
	if !ok || mid.Cmp(p("0.55")) != 0 {
		t.Fatalf("mid = %v, want 0.55", mid)
	}
	bps, ok := b.SpreadBps()
	if !ok {
		t.Fatal("SpreadBps ok=false")
	}
	// 0.10 / 0.55 * 10000 = 1818.18..., floor -> 1818
	if bps != 1818 {
		t.Errorf("spread_bps = %d, want 1818", bps)
	}
}

func TestBookUndefinedWhenOneSided(t *testing.T) {
	t.Parallel()
	b := NewBook("tok-1")
	b.FromSnapshot(snapshot(1, []types.PriceLevel{{Price: p("0.50"), Size: p("100")}}, nil))

	if _, ok := b.Spread(); ok {
		t.Error("Spread should be undefined with only one side populated")
	}
	if _, ok := b.Mid(); ok {
		t.Error("Mid should be undefined with only one side populated")
	}
	if _, ok := b.SpreadBps(); ok {
		t.Error("SpreadBps should be undefined with only one side populated")
	}
}
