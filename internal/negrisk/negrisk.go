// Package negrisk implements the unity-constraint arbitrage miner
// (spec.md §4.5): for a set of mutually-exclusive outcomes that must
// price to 1.0 in total, it detects mint-and-sell (bids sum above 1 + fee)
// and buy-and-merge (asks sum below 1 - fee) opportunities.
//
// Grounded on _examples/original_source/rust_core/src/negrisk 2.rs's
// NegRiskConfig{min_arb_bps, max_position_usd, fee_bps} and its
// check_mint_and_sell/check_buy_and_merge formula (fee_adjustment =
// fee_bps/10000, threshold = 1 +/- fee_adjustment, profit_bps =
// floor((profit/cost)*10000)) — tryMintAndSell/tryBuyAndMerge below
// reproduce that formula directly (see DESIGN.md) — and extended with
// per-opportunity position sizing grounded on the teacher's
// internal/risk/manager.go per-market exposure cap, reduced from a live
// monitor to a static per-opportunity cap.
package negrisk

import (
	"polymarket-hft-core/internal/orderbook"
	"polymarket-hft-core/pkg/price"
)

// Market is a set of mutually-exclusive outcomes sharing one condition
// (spec.md §3 NegRiskMarket). len(TokenIDs) == len(OutcomeNames) >= 2.
type Market struct {
	ConditionID  string   `json:"condition_id"`
	TokenIDs     []string `json:"token_ids"`
	OutcomeNames []string `json:"outcome_names"`
}

// OpportunityType names which branch of the unity constraint fired.
type OpportunityType int

const (
	None OpportunityType = iota
	MintAndSell
	BuyAndMerge
)

func (t OpportunityType) String() string {
	switch t {
	case MintAndSell:
		return "MintAndSell"
	case BuyAndMerge:
		return "BuyAndMerge"
	default:
		return "None"
	}
}

// Leg is one outcome's side of a multi-leg trade plan.
type Leg struct {
	TokenID string
	Side    string // "BUY" or "SELL"
	Price   price.Price
	Size    price.Price
}

// Opportunity is a detected NegRisk arbitrage (spec.md §4.5).
type Opportunity struct {
	Type         OpportunityType
	ConditionID  string
	SumBids      price.Price
	SumAsks      price.Price
	ProfitBps    int64
	Legs         []Leg
	PositionSize price.Price
}

// Config is the Miner's tunable thresholds.
type Config struct {
	FeeBps         int64
	MinArbBps      int64
	MaxPositionUSD price.Price
}

// Miner scans NegRisk markets for unity-constraint violations.
type Miner struct {
	cfg Config
}

// NewMiner returns a Miner using cfg.
func NewMiner(cfg Config) *Miner {
	return &Miner{cfg: cfg}
}

var bps10000 = price.New(10000, 0)

// Scan evaluates one market against the manager's current order books.
// Returns false if any outcome's book is missing a side, or if neither
// branch clears min_arb_bps.
func (m *Miner) Scan(market Market, manager *orderbook.Manager) (Opportunity, bool) {
	n := len(market.TokenIDs)
	if n < 2 {
		return Opportunity{}, false
	}

	bids := make([]price.Price, n)
	asks := make([]price.Price, n)
	bidSizes := make([]price.Price, n)
	askSizes := make([]price.Price, n)

	for i, tokenID := range market.TokenIDs {
		book, ok := manager.Get(tokenID)
		if !ok {
			return Opportunity{}, false
		}
		bid, ask, ok := book.BestBidAsk()
		if !ok {
			return Opportunity{}, false
		}
		bids[i], bidSizes[i] = bid.Price, bid.Size
		asks[i], askSizes[i] = ask.Price, ask.Size
	}

	sumBids := price.Sum(bids)
	sumAsks := price.Sum(asks)

	f, _ := price.New(m.cfg.FeeBps, 0).Div(bps10000)

	mint, mintOK := m.tryMintAndSell(market, sumBids, sumAsks, f, bids, bidSizes)
	if mintOK && mint.ProfitBps >= m.cfg.MinArbBps {
		return mint, true
	}

	merge, mergeOK := m.tryBuyAndMerge(market, sumBids, sumAsks, f, asks, askSizes)
	if mergeOK && merge.ProfitBps >= m.cfg.MinArbBps {
		return merge, true
	}

	return Opportunity{}, false
}

// tryMintAndSell implements spec.md §4.5 step 4.
func (m *Miner) tryMintAndSell(market Market, sumBids, sumAsks, f price.Price, bids, bidSizes []price.Price) (Opportunity, bool) {
	mintThreshold := price.One.Add(f)
	if !sumBids.GreaterThan(mintThreshold) {
		return Opportunity{}, false
	}

	revenue := sumBids.Mul(price.One.Sub(f))
	profitBps := revenue.Sub(price.One).BpsOf(price.One)

	legs := make([]Leg, len(market.TokenIDs))
	for i, tokenID := range market.TokenIDs {
		legs[i] = Leg{TokenID: tokenID, Side: "SELL", Price: bids[i], Size: bidSizes[i]}
	}

	return Opportunity{
		Type:         MintAndSell,
		ConditionID:  market.ConditionID,
		SumBids:      sumBids,
		SumAsks:      sumAsks,
		ProfitBps:    profitBps,
		Legs:         legs,
		PositionSize: m.size(bidSizes),
	}, true
}

// tryBuyAndMerge implements spec.md §4.5 step 5.
func (m *Miner) tryBuyAndMerge(market Market, sumBids, sumAsks, f price.Price, asks, askSizes []price.Price) (Opportunity, bool) {
	mergeThreshold := price.One.Sub(f)
	if !sumAsks.LessThan(mergeThreshold) {
		return Opportunity{}, false
	}

	cost := sumAsks.Mul(price.One.Add(f))
	profitBps := price.One.Sub(cost).BpsOf(cost)

	legs := make([]Leg, len(market.TokenIDs))
	for i, tokenID := range market.TokenIDs {
		legs[i] = Leg{TokenID: tokenID, Side: "BUY", Price: asks[i], Size: askSizes[i]}
	}

	return Opportunity{
		Type:         BuyAndMerge,
		ConditionID:  market.ConditionID,
		SumBids:      sumBids,
		SumAsks:      sumAsks,
		ProfitBps:    profitBps,
		Legs:         legs,
		PositionSize: m.size(askSizes),
	}, true
}

// size computes spec.md §4.5 Sizing: min(min_i liquidity_i_at_best, max_position_usd).
// A zero MaxPositionUSD applies no cap: the smallest liquidity is returned.
func (m *Miner) size(sizes []price.Price) price.Price {
	min := sizes[0]
	for _, s := range sizes[1:] {
		if s.LessThan(min) {
			min = s
		}
	}
	if m.cfg.MaxPositionUSD.Sign() > 0 && m.cfg.MaxPositionUSD.LessThan(min) {
		return m.cfg.MaxPositionUSD
	}
	return min
}
