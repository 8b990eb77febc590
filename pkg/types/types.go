// Package types defines the wire-level vocabulary shared by every layer of
// the compute core: side/signature enums, order-book price levels, the
// snapshot/delta JSON shapes consumed from the external feed (§6), and the
// signed order payload produced for the exchange. Its only internal
// dependency is pkg/price, so every package other than pkg/price may
// import it.
package types

import (
	"encoding/hex"
	"encoding/json"
	"strconv"

	"polymarket-hft-core/pkg/price"
)

// Side is the direction of an order or a market-making leg.
type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

// SignatureType identifies the signing scheme for the CTF exchange
// contract. Only EOA is produced by this core; the others are modeled so
// SignedOrder round-trips the full exchange vocabulary.
type SignatureType int

const (
	SigEOA        SignatureType = 0
	SigPolyProxy  SignatureType = 1
	SigGnosisSafe SignatureType = 2
)

func (s SignatureType) String() string {
	switch s {
	case SigEOA:
		return "Eoa"
	case SigPolyProxy:
		return "PolyProxy"
	case SigGnosisSafe:
		return "PolyGnosisSafe"
	default:
		return "Unknown"
	}
}

// PriceLevel is a single bid or ask level. Size == 0 means "level absent"
// and must never be stored in an OrderBookSide (spec.md §3).
type PriceLevel struct {
	Price      price.Price `json:"price"`
	Size       price.Price `json:"size"`
	OrderCount int         `json:"order_count,omitempty"`
}

// SnapshotMessage is the §6 wire shape for a full order-book snapshot.
type SnapshotMessage struct {
	TokenID   string       `json:"token_id"`
	Timestamp uint64       `json:"timestamp"`
	Sequence  uint64       `json:"sequence"`
	Bids      []PriceLevel `json:"bids"`
	Asks      []PriceLevel `json:"asks"`
}

// LevelUpdate is one bid_updates/ask_updates entry in a DeltaMessage.
// Size == "0" removes the level.
type LevelUpdate struct {
	Price price.Price `json:"price"`
	Size  price.Price `json:"size"`
}

// DeltaMessage is the §6 wire shape for an incremental order-book update.
type DeltaMessage struct {
	TokenID    string        `json:"token_id"`
	Timestamp  uint64        `json:"timestamp"`
	Sequence   uint64        `json:"sequence"`
	BidUpdates []LevelUpdate `json:"bid_updates"`
	AskUpdates []LevelUpdate `json:"ask_updates"`
}

// Order is the CTF order struct (spec.md §3, §4.7) prior to signing.
type Order struct {
	Salt          [32]byte
	Maker         [20]byte
	Signer        [20]byte
	Taker         [20]byte
	TokenID       string // decimal-encoded uint256
	MakerAmount   string // decimal-encoded uint256, 6-decimal base units
	TakerAmount   string // decimal-encoded uint256, 6-decimal base units
	Expiration    uint64
	Nonce         uint64
	FeeRateBps    uint64
	Side          Side
	SignatureType SignatureType
}

// SignedOrder is the §6 wire shape emitted for a signed limit order.
type SignedOrder struct {
	Order     Order  `json:"order"`
	Signature string `json:"signature"` // "0x" + 130 hex chars
}

// wireSide renders Side in the exchange's title-cased wire form, e.g.
// "Buy" for BUY. Internal code and tests use the BUY/SELL constants; only
// the JSON boundary uses the title-cased spelling (spec.md §6).
func (s Side) wireSide() string {
	switch s {
	case BUY:
		return "Buy"
	case SELL:
		return "Sell"
	default:
		return string(s)
	}
}

// MarshalJSON renders Order in the exact wire shape of spec.md §6: hex
// addresses/salt, decimal-string amounts, title-cased side, and
// human-readable signature type name.
func (o Order) MarshalJSON() ([]byte, error) {
	type wire struct {
		Salt          string `json:"salt"`
		Maker         string `json:"maker"`
		Signer        string `json:"signer"`
		Taker         string `json:"taker"`
		TokenID       string `json:"token_id"`
		MakerAmount   string `json:"maker_amount"`
		TakerAmount   string `json:"taker_amount"`
		Expiration    string `json:"expiration"`
		Nonce         string `json:"nonce"`
		FeeRateBps    string `json:"fee_rate_bps"`
		Side          string `json:"side"`
		SignatureType string `json:"signature_type"`
	}
	return json.Marshal(wire{
		Salt:          "0x" + hex.EncodeToString(o.Salt[:]),
		Maker:         "0x" + hex.EncodeToString(o.Maker[:]),
		Signer:        "0x" + hex.EncodeToString(o.Signer[:]),
		Taker:         "0x" + hex.EncodeToString(o.Taker[:]),
		TokenID:       o.TokenID,
		MakerAmount:   o.MakerAmount,
		TakerAmount:   o.TakerAmount,
		Expiration:    strconv.FormatUint(o.Expiration, 10),
		Nonce:         strconv.FormatUint(o.Nonce, 10),
		FeeRateBps:    strconv.FormatUint(o.FeeRateBps, 10),
		Side:          o.Side.wireSide(),
		SignatureType: o.SignatureType.String(),
	})
}
