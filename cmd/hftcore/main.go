// hftcore is a thin demo entry point for the compute core. It loads
// config the way cmd/bot does, reads a line-delimited JSON feed from
// stdin describing order-book updates, correlation-graph edges, and
// NegRisk markets, runs the violation/negrisk/vulture scanners once the
// feed is exhausted, and prints any resulting signed orders to stdout.
//
// It intentionally carries no network transport: the live WebSocket/REST
// surface that fed the original quoting bot's engine is out of scope for
// the compute core (spec.md Non-goals) — only the synchronous scan-and-sign
// path is exercised here.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"polymarket-hft-core/internal/config"
	"polymarket-hft-core/internal/correlation"
	"polymarket-hft-core/internal/negrisk"
	"polymarket-hft-core/internal/orderbook"
	"polymarket-hft-core/internal/signer"
	"polymarket-hft-core/internal/vulture"
	"polymarket-hft-core/pkg/price"
	"polymarket-hft-core/pkg/types"
)

// demoOrderSize is the fixed share count used when signing orders derived
// from a detected opportunity. The core has no portfolio/sizing state of
// its own beyond what each scanner already reports (spec.md §4.4/§4.5
// sizing belongs to the opportunity, not the signer).
var demoOrderSize = price.MustParse("100")

// inputLine is the demo feed's envelope. Exactly one of the payload
// fields is set per line, selected by Type.
type inputLine struct {
	Type          string                 `json:"type"`
	Snapshot      *types.SnapshotMessage `json:"snapshot,omitempty"`
	Delta         *types.DeltaMessage    `json:"delta,omitempty"`
	Node          *nodeInput             `json:"node,omitempty"`
	Edge          *edgeInput             `json:"edge,omitempty"`
	NegRiskMarket *negrisk.Market        `json:"negrisk_market,omitempty"`
}

type nodeInput struct {
	MarketID    string `json:"market_id"`
	TokenID     string `json:"token_id"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

type edgeInput struct {
	Parent   string `json:"parent"`
	Child    string `json:"child"`
	Relation string `json:"relation"` // "implies", "contains", "exclusive"
	Weight   string `json:"weight"`
}

func main() {
	cfgPath := "configs/config.yaml"
	if p := os.Getenv("POLY_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)

	verifyingContract := common.HexToAddress(cfg.Wallet.StandardCTFExchange)
	if verifyingContract == (common.Address{}) {
		verifyingContract = common.HexToAddress(cfg.Wallet.NegRiskCTFExchange)
	}
	sg, err := signer.New(cfg.Wallet.PrivateKey, verifyingContract, cfg.Wallet.StartNonce)
	if err != nil {
		logger.Error("failed to build signer", "error", err)
		os.Exit(1)
	}
	logger.Info("signer ready", "address", sg.Address().Hex())

	manager := orderbook.NewManager()
	graph := correlation.NewGraph()
	var negriskMarkets []negrisk.Market

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line inputLine
		if err := json.Unmarshal(raw, &line); err != nil {
			logger.Warn("skipping malformed input line", "line", lineNo, "error", err)
			continue
		}
		if err := applyLine(manager, graph, &negriskMarkets, line); err != nil {
			logger.Warn("skipping input line", "line", lineNo, "type", line.Type, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("reading stdin failed", "error", err)
		os.Exit(1)
	}

	now := time.Now()
	orders := 0

	for _, v := range graph.Scan(cfg.Correlation.MinEdgeBps) {
		book, ok := graph.BuildDutchBook(v)
		if !ok {
			continue
		}
		logger.Info("correlation violation", "type", v.Type.String(), "parent", v.Parent, "child", v.Child, "edge_bps", v.EdgeBps)
		if signAndPrint(sg, book.LongTokenID, types.BUY, v.ParentPrice, now, logger) {
			orders++
		}
		if signAndPrint(sg, book.ShortTokenID, types.SELL, v.ChildPrice, now, logger) {
			orders++
		}
	}

	miner := negrisk.NewMiner(negrisk.Config{
		FeeBps:    cfg.NegRisk.FeeBps,
		MinArbBps: cfg.NegRisk.MinArbBps,
	})
	if maxPos, err := cfg.NegRisk.MaxPositionPrice(); err == nil {
		miner = negrisk.NewMiner(negrisk.Config{
			FeeBps:         cfg.NegRisk.FeeBps,
			MinArbBps:      cfg.NegRisk.MinArbBps,
			MaxPositionUSD: maxPos,
		})
	}
	for _, market := range negriskMarkets {
		opp, ok := miner.Scan(market, manager)
		if !ok {
			continue
		}
		logger.Info("negrisk opportunity", "type", opp.Type.String(), "condition_id", opp.ConditionID, "profit_bps", opp.ProfitBps)
		for _, leg := range opp.Legs {
			side := types.BUY
			if leg.Side == "SELL" {
				side = types.SELL
			}
			if signAndPrint(sg, leg.TokenID, side, leg.Price, now, logger) {
				orders++
			}
		}
	}

	vultureScanner := vulture.NewScanner(vulture.Config{
		MinSpreadBps:  cfg.Vulture.MinSpreadBps,
		MaxSpreadBps:  cfg.Vulture.MaxSpreadBps,
		MinMidPrice:   cfg.Vulture.MinMidPrice,
		EdgeFraction:  cfg.Vulture.EdgeFraction,
		ForcePostOnly: cfg.Vulture.ForcePostOnly,
		CryptoTokens:  cfg.Vulture.CryptoTokens,
	})
	for _, tokenID := range manager.TokenIDs() {
		book, ok := manager.Get(tokenID)
		if !ok {
			continue
		}
		bidLvl, askLvl, ok := book.BestBidAsk()
		if !ok {
			continue
		}
		opp, ok := vultureScanner.Scan(tokenID, tokenID, bidLvl.Price.Float64(), askLvl.Price.Float64())
		if !ok {
			continue
		}
		logger.Info("vulture opportunity", "token_id", tokenID, "side", opp.RecommendedSide, "recommended_price", opp.RecommendedPrice, "spread_bps", opp.SpreadBps)
		side := types.BUY
		if opp.RecommendedSide == "SELL" {
			side = types.SELL
		}
		if signAndPrint(sg, tokenID, side, price.FromFloat(opp.RecommendedPrice), now, logger) {
			orders++
		}
	}

	logger.Info("scan complete", "signed_orders", orders)
}

func applyLine(manager *orderbook.Manager, graph *correlation.Graph, negriskMarkets *[]negrisk.Market, line inputLine) error {
	switch line.Type {
	case "snapshot":
		if line.Snapshot == nil {
			return fmt.Errorf("snapshot line missing payload")
		}
		manager.LoadSnapshot(*line.Snapshot)
	case "delta":
		if line.Delta == nil {
			return fmt.Errorf("delta line missing payload")
		}
		return manager.ApplyDelta(*line.Delta)
	case "node":
		if line.Node == nil {
			return fmt.Errorf("node line missing payload")
		}
		graph.AddNode(line.Node.MarketID, line.Node.TokenID, line.Node.Description)
		if line.Node.Price != "" {
			p, err := price.Parse(line.Node.Price)
			if err != nil {
				return err
			}
			graph.SetPrice(line.Node.MarketID, p)
		}
	case "edge":
		if line.Edge == nil {
			return fmt.Errorf("edge line missing payload")
		}
		relation, err := parseRelation(line.Edge.Relation)
		if err != nil {
			return err
		}
		weight, err := price.Parse(line.Edge.Weight)
		if err != nil {
			return err
		}
		graph.AddEdge(line.Edge.Parent, line.Edge.Child, relation, weight)
	case "negrisk_market":
		if line.NegRiskMarket == nil {
			return fmt.Errorf("negrisk_market line missing payload")
		}
		*negriskMarkets = append(*negriskMarkets, *line.NegRiskMarket)
	default:
		return fmt.Errorf("unknown line type %q", line.Type)
	}
	return nil
}

func parseRelation(s string) (correlation.Relation, error) {
	switch s {
	case "implies":
		return correlation.Implies, nil
	case "contains":
		return correlation.Contains, nil
	case "exclusive":
		return correlation.Exclusive, nil
	default:
		return 0, fmt.Errorf("unknown relation %q", s)
	}
}

func signAndPrint(sg *signer.Signer, tokenID string, side types.Side, p price.Price, now time.Time, logger *slog.Logger) bool {
	if tokenID == "" || p.Sign() <= 0 {
		return false
	}
	salt, err := signer.GenerateSalt(now)
	if err != nil {
		logger.Warn("failed to generate salt", "error", err)
		return false
	}
	signed, err := sg.Sign(signer.OrderRequest{
		TokenID:        tokenID,
		Side:           side,
		Price:          p,
		Size:           demoOrderSize,
		ExpirationSecs: 86400,
		Salt:           salt,
	}, now)
	if err != nil {
		logger.Warn("failed to sign order", "token_id", tokenID, "error", err)
		return false
	}
	out, err := json.Marshal(signed)
	if err != nil {
		logger.Warn("failed to marshal signed order", "error", err)
		return false
	}
	fmt.Println(string(out))
	return true
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
