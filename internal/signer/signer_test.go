package signer

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"polymarket-hft-core/pkg/price"
	"polymarket-hft-core/pkg/types"
)

// testPrivateKey is a well-known, publicly documented throwaway key used
// only for deterministic test vectors — never a real funded wallet.
const testPrivateKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var testVerifyingContract = common.HexToAddress("0x4bfb41d5b3570defd03c39a9a4d8de6bd8b8982e")

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := New(testPrivateKey, testVerifyingContract, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func fixedRequest() OrderRequest {
	return OrderRequest{
		TokenID:        "123456789",
		Side:           types.BUY,
		Price:          price.MustParse("0.55"),
		Size:           price.MustParse("100"),
		ExpirationSecs: 60,
		Salt:           [32]byte{1, 2, 3, 4},
	}
}

func TestSignIsDeterministic(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)
	now := time.Unix(1_700_000_000, 0)

	first, err := s.Sign(fixedRequest(), now)
	if err != nil {
		t.Fatalf("Sign error = %v", err)
	}
	second, err := s.Sign(fixedRequest(), now)
	if err != nil {
		t.Fatalf("Sign error = %v", err)
	}

	if first.Signature != second.Signature {
		t.Errorf("signatures differ across identical inputs:\n%s\n%s", first.Signature, second.Signature)
	}
	if len(first.Signature) != 2+130 {
		t.Errorf("signature length = %d, want %d (0x + 130 hex chars)", len(first.Signature), 2+130)
	}
}

func TestSignDifferentSaltProducesDifferentSignature(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)
	now := time.Unix(1_700_000_000, 0)

	a := fixedRequest()
	b := fixedRequest()
	b.Salt = [32]byte{9, 9, 9}

	sigA, err := s.Sign(a, now)
	if err != nil {
		t.Fatalf("Sign error = %v", err)
	}
	sigB, err := s.Sign(b, now)
	if err != nil {
		t.Fatalf("Sign error = %v", err)
	}
	if sigA.Signature == sigB.Signature {
		t.Error("different salts produced identical signatures")
	}
}

func TestBuildAmountsBuyAndSell(t *testing.T) {
	t.Parallel()

	makerBuy, takerBuy := BuildAmounts(types.BUY, price.MustParse("0.55"), price.MustParse("100"))
	if makerBuy.String() != "55000000" {
		t.Errorf("BUY maker_amount = %s, want 55000000", makerBuy.String())
	}
	if takerBuy.String() != "100000000" {
		t.Errorf("BUY taker_amount = %s, want 100000000", takerBuy.String())
	}

	makerSell, takerSell := BuildAmounts(types.SELL, price.MustParse("0.55"), price.MustParse("100"))
	if makerSell.String() != "100000000" {
		t.Errorf("SELL maker_amount = %s, want 100000000", makerSell.String())
	}
	if takerSell.String() != "55000000" {
		t.Errorf("SELL taker_amount = %s, want 55000000", takerSell.String())
	}
}

func TestCancelAllBumpsNonceOnly(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)

	if got := s.Nonce(); got != 0 {
		t.Fatalf("initial nonce = %d, want 0", got)
	}
	newNonce := s.CancelAll()
	if newNonce != 1 || s.Nonce() != 1 {
		t.Errorf("nonce after CancelAll = %d, want 1", s.Nonce())
	}
}

func TestSignExpirationIsNowPlusSecs(t *testing.T) {
	t.Parallel()
	s := newTestSigner(t)
	now := time.Unix(1_700_000_000, 0)

	signed, err := s.Sign(fixedRequest(), now)
	if err != nil {
		t.Fatalf("Sign error = %v", err)
	}
	if signed.Order.Expiration != 1_700_000_060 {
		t.Errorf("expiration = %d, want 1700000060", signed.Order.Expiration)
	}
	if signed.Order.SignatureType != types.SigEOA {
		t.Errorf("signature_type = %v, want SigEOA", signed.Order.SignatureType)
	}
	if signed.Order.Taker != ([20]byte{}) {
		t.Error("taker should default to the zero address")
	}
}

func TestGenerateSaltProducesNonZeroDistinctValues(t *testing.T) {
	t.Parallel()
	now := time.Now()

	a, err := GenerateSalt(now)
	if err != nil {
		t.Fatalf("GenerateSalt error = %v", err)
	}
	b, err := GenerateSalt(now)
	if err != nil {
		t.Fatalf("GenerateSalt error = %v", err)
	}
	if a == ([32]byte{}) {
		t.Error("salt should not be all-zero")
	}
	if a == b {
		t.Error("two consecutive GenerateSalt calls produced identical salts")
	}
}
