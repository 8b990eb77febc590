// Package vulture implements the spread-capture opportunity scanner
// (spec.md §4.6): it classifies fast-resolving crypto markets for
// post-only maker-rebate plays and picks an entry price inside the
// spread.
//
// This is the one component spec.md explicitly allows to use float64
// instead of the exact-decimal Price type (§3: "a separate float path is
// acceptable only for the spread-capture heuristic, which is
// tolerance-based"). Grounded almost line-for-line on
// _examples/original_source/rust_core/src/vulture.rs, with the
// crypto-token list made configurable per spec.md §4.6 step 4 ("defaults
// to major tokens").
package vulture

import "strings"

// defaultCryptoTokens is the built-in list of major crypto tickers/names
// checked when classifying a 15-minute crypto market. Callers may
// override this via Config.CryptoTokens.
var defaultCryptoTokens = []string{
	"btc", "bitcoin", "eth", "ethereum", "sol", "solana", "xrp", "doge",
	"bnb", "ada", "avax", "matic", "link",
}

var fifteenMinutePatterns = []string{"15m", "15-min", "15min"}

// Config tunes the scanner's thresholds (spec.md §4.6).
type Config struct {
	MinSpreadBps   float64
	MaxSpreadBps   float64
	MinMidPrice    float64
	EdgeFraction   float64
	ForcePostOnly  bool
	CryptoTokens   []string // defaults to defaultCryptoTokens if empty
}

// Scanner applies Config to individual market quotes.
type Scanner struct {
	cfg Config
}

// NewScanner returns a Scanner using cfg. An empty CryptoTokens falls
// back to the built-in major-token list.
func NewScanner(cfg Config) *Scanner {
	if len(cfg.CryptoTokens) == 0 {
		cfg.CryptoTokens = defaultCryptoTokens
	}
	return &Scanner{cfg: cfg}
}

// Opportunity is a detected spread-capture play (spec.md §4.6).
type Opportunity struct {
	MarketSlug      string
	ConditionID     string
	SpreadBps       float64
	BestBid         float64
	BestAsk         float64
	MidPrice        float64
	Is15MinCrypto   bool
	RecommendedSide string // "BUY" or "SELL"
	RecommendedPrice float64
	PostOnly        bool
}

// Is15MinCrypto reports whether slug matches a 15-minute resolution
// pattern AND mentions a known crypto token (spec.md §4.6 step 4).
func (s *Scanner) Is15MinCrypto(marketSlug string) bool {
	slug := strings.ToLower(marketSlug)

	is15Min := false
	for _, pat := range fifteenMinutePatterns {
		if strings.Contains(slug, pat) {
			is15Min = true
			break
		}
	}
	if !is15Min {
		return false
	}

	for _, token := range s.cfg.CryptoTokens {
		if strings.Contains(slug, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// Scan evaluates one market's top-of-book quote (spec.md §4.6 steps 1-6).
// Returns false if the quote is rejected at any step.
func (s *Scanner) Scan(marketSlug, conditionID string, bestBid, bestAsk float64) (Opportunity, bool) {
	if bestBid <= 0 || bestAsk <= 0 || bestBid >= bestAsk {
		return Opportunity{}, false
	}

	mid := (bestBid + bestAsk) / 2
	if mid < s.cfg.MinMidPrice {
		return Opportunity{}, false
	}

	spread := bestAsk - bestBid
	spreadBps := (spread / mid) * 10000.0
	if spreadBps < s.cfg.MinSpreadBps || spreadBps > s.cfg.MaxSpreadBps {
		return Opportunity{}, false
	}

	is15MinCrypto := s.Is15MinCrypto(marketSlug)
	postOnly := is15MinCrypto || s.cfg.ForcePostOnly

	edge := spread * s.cfg.EdgeFraction
	recommendedPrice := bestBid + edge
	side := "SELL"
	if recommendedPrice < mid {
		side = "BUY"
	}

	return Opportunity{
		MarketSlug:       marketSlug,
		ConditionID:      conditionID,
		SpreadBps:        spreadBps,
		BestBid:          bestBid,
		BestAsk:          bestAsk,
		MidPrice:         mid,
		Is15MinCrypto:    is15MinCrypto,
		RecommendedSide:  side,
		RecommendedPrice: recommendedPrice,
		PostOnly:         postOnly,
	}, true
}

// Quote is a single market's top-of-book input to ScanBatch.
type Quote struct {
	MarketSlug  string
	ConditionID string
	BestBid     float64
	BestAsk     float64
}

// ScanBatch scans every quote, dropping the ones Scan rejects.
func (s *Scanner) ScanBatch(quotes []Quote) []Opportunity {
	var out []Opportunity
	for _, q := range quotes {
		if opp, ok := s.Scan(q.MarketSlug, q.ConditionID, q.BestBid, q.BestAsk); ok {
			out = append(out, opp)
		}
	}
	return out
}
