package types

import (
	"encoding/json"
	"strings"
	"testing"

	"polymarket-hft-core/pkg/price"
)

func TestSignatureTypeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sig  SignatureType
		want string
	}{
		{SigEOA, "Eoa"},
		{SigPolyProxy, "PolyProxy"},
		{SigGnosisSafe, "PolyGnosisSafe"},
		{SignatureType(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.sig.String(); got != tt.want {
			t.Errorf("SignatureType(%d).String() = %q, want %q", tt.sig, got, tt.want)
		}
	}
}

func TestOrderMarshalJSONWireShape(t *testing.T) {
	t.Parallel()

	o := Order{
		Salt:          [32]byte{0x01},
		Maker:         [20]byte{0xaa},
		Signer:        [20]byte{0xaa},
		Taker:         [20]byte{},
		TokenID:       "123456789",
		MakerAmount:   "55000000",
		TakerAmount:   "100000000",
		Expiration:    1_700_000_060,
		Nonce:         0,
		FeeRateBps:    0,
		Side:          BUY,
		SignatureType: SigEOA,
	}

	out, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(out, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{
		"salt", "maker", "signer", "taker", "token_id",
		"maker_amount", "taker_amount", "expiration", "nonce",
		"fee_rate_bps", "side", "signature_type",
	} {
		if _, ok := fields[key]; !ok {
			t.Errorf("wire JSON missing expected snake_case field %q, got keys %v", key, out)
		}
	}
	for _, key := range []string{"tokenId", "makerAmount", "takerAmount", "feeRateBps", "signatureType"} {
		if _, ok := fields[key]; ok {
			t.Errorf("wire JSON has camelCase field %q, want snake_case only", key)
		}
	}

	if fields["side"] != "Buy" {
		t.Errorf("side = %v, want \"Buy\"", fields["side"])
	}
	if fields["signature_type"] != "Eoa" {
		t.Errorf("signature_type = %v, want \"Eoa\"", fields["signature_type"])
	}
	if !strings.HasPrefix(fields["maker"].(string), "0x") {
		t.Errorf("maker = %v, want 0x-prefixed hex", fields["maker"])
	}
	if fields["expiration"] != "1700000060" {
		t.Errorf("expiration = %v, want \"1700000060\" (decimal string)", fields["expiration"])
	}
}

func TestSignedOrderMarshalJSONRoundTripsSignature(t *testing.T) {
	t.Parallel()

	so := SignedOrder{
		Order: Order{
			TokenID:     "1",
			MakerAmount: "1",
			TakerAmount: "1",
			Side:        SELL,
		},
		Signature: "0x" + strings.Repeat("ab", 65),
	}

	out, err := json.Marshal(so)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["signature"] != so.Signature {
		t.Errorf("signature = %v, want %v", decoded["signature"], so.Signature)
	}
	order, ok := decoded["order"].(map[string]any)
	if !ok {
		t.Fatalf("order field missing or wrong type: %v", decoded["order"])
	}
	if order["side"] != "Sell" {
		t.Errorf("order.side = %v, want \"Sell\"", order["side"])
	}
}

func TestPriceLevelJSONRoundTrip(t *testing.T) {
	t.Parallel()

	lvl := PriceLevel{Price: price.MustParse("0.55"), Size: price.MustParse("100"), OrderCount: 3}
	out, err := json.Marshal(lvl)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded PriceLevel
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Price.Cmp(lvl.Price) != 0 || decoded.Size.Cmp(lvl.Size) != 0 || decoded.OrderCount != lvl.OrderCount {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, lvl)
	}
}

func TestSnapshotMessageUnmarshalsWireShape(t *testing.T) {
	t.Parallel()

	raw := `{
		"token_id": "123",
		"timestamp": 1700000000,
		"sequence": 5,
		"bids": [{"price":"0.54","size":"10"}],
		"asks": [{"price":"0.56","size":"20"}]
	}`

	var snap SnapshotMessage
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if snap.TokenID != "123" || snap.Sequence != 5 {
		t.Errorf("snapshot = %+v, want token_id=123 sequence=5", snap)
	}
	if len(snap.Bids) != 1 || snap.Bids[0].Price.Cmp(price.MustParse("0.54")) != 0 {
		t.Errorf("bids = %+v", snap.Bids)
	}
}

func TestDeltaMessageUnmarshalsWireShape(t *testing.T) {
	t.Parallel()

	raw := `{
		"token_id": "123",
		"timestamp": 1700000001,
		"sequence": 6,
		"bid_updates": [{"price":"0.54","size":"0"}],
		"ask_updates": [{"price":"0.57","size":"5"}]
	}`

	var delta DeltaMessage
	if err := json.Unmarshal([]byte(raw), &delta); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if delta.Sequence != 6 || len(delta.BidUpdates) != 1 || len(delta.AskUpdates) != 1 {
		t.Errorf("delta = %+v", delta)
	}
	if !delta.BidUpdates[0].Size.IsZero() {
		t.Errorf("bid_updates[0].size = %v, want 0 (level removal)", delta.BidUpdates[0].Size)
	}
}
