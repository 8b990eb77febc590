// Package signer implements the EIP-712 order signer (spec.md §4.7):
// deterministic typed-data hashing of the CTF order struct and ECDSA
// (secp256k1) signing over the resulting message hash.
//
// Grounded on internal/exchange/auth.go's SignTypedData/signClobAuth
// pattern (go-ethereum's apitypes.TypedData + crypto.Sign + v-value
// normalization to 27/28), with the domain and field layout taken from
// _examples/original_source/rust_core/src/signer.rs's constants —
// EXCEPT the order type string, which that source encodes with a typo
// (`uint256 taker,` instead of `uint256 takerAmount,`). spec.md §4.7
// and §9 pin the corrected, canonical string; this package supplies
// the Types map field-by-field so go-ethereum derives that canonical
// string itself rather than risking a hand-copied typo.
package signer

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"polymarket-hft-core/pkg/price"
	"polymarket-hft-core/pkg/types"
)

const (
	domainName    = "Polymarket CTF Exchange"
	domainVersion = "1"
	chainID       = 137 // Polygon mainnet, spec.md §4.7

	// amountDecimals is the base-unit scale for both USDC and outcome
	// token amounts (spec.md §3 Order: "6-decimal base units").
	amountDecimals = 6
)

var orderTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Order": {
		{Name: "salt", Type: "uint256"},
		{Name: "maker", Type: "address"},
		{Name: "signer", Type: "address"},
		{Name: "taker", Type: "address"},
		{Name: "tokenId", Type: "uint256"},
		{Name: "makerAmount", Type: "uint256"},
		{Name: "takerAmount", Type: "uint256"},
		{Name: "expiration", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "feeRateBps", Type: "uint256"},
		{Name: "side", Type: "uint8"},
		{Name: "signatureType", Type: "uint8"},
	},
}

// Signer holds wallet state and a process-wide monotonic nonce counter
// (spec.md §3 Lifecycles: "Signer state is a wallet + atomic nonce
// counter").
type Signer struct {
	privateKey        *ecdsa.PrivateKey
	makerAddress      common.Address
	verifyingContract common.Address
	nonce             atomic.Uint64
}

// New constructs a Signer from a hex-encoded private key (with or without
// "0x" prefix) and the CTF exchange contract this Signer will produce
// orders for (standard or neg-risk — spec.md §4.7 Domain).
func New(privateKeyHex string, verifyingContract common.Address, startNonce uint64) (*Signer, error) {
	if len(privateKeyHex) >= 2 && privateKeyHex[:2] == "0x" {
		privateKeyHex = privateKeyHex[2:]
	}
	pk, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", types.ErrInvalidKey)
	}

	s := &Signer{
		privateKey:        pk,
		makerAddress:      crypto.PubkeyToAddress(pk.PublicKey),
		verifyingContract: verifyingContract,
	}
	s.nonce.Store(startNonce)
	return s, nil
}

// Address returns the signer's EOA address.
func (s *Signer) Address() common.Address {
	return s.makerAddress
}

// Nonce returns the current nonce value.
func (s *Signer) Nonce() uint64 {
	return s.nonce.Load()
}

// CancelAll bumps the nonce, invalidating every order signed under the
// previous value (spec.md §4.7: "cancel_all = bump nonce").
func (s *Signer) CancelAll() uint64 {
	return s.nonce.Add(1)
}

// OrderRequest describes a limit order before amount calculation and
// signing.
type OrderRequest struct {
	TokenID        string // decimal-encoded uint256
	Side           types.Side
	Price          price.Price
	Size           price.Price
	ExpirationSecs uint64
	Salt           [32]byte
}

// BuildAmounts computes maker/taker base-unit amounts for an order
// (spec.md §4.7 Amount calculation). BUY pays USDC (maker) and receives
// shares (taker); SELL swaps the two. Both amounts floor to whole base
// units.
func BuildAmounts(side types.Side, p, size price.Price) (makerAmount, takerAmount *big.Int) {
	usdc := p.Mul(size).ToBaseUnits(amountDecimals)
	shares := size.ToBaseUnits(amountDecimals)

	if side == types.SELL {
		return shares, usdc
	}
	return usdc, shares
}

// Sign builds the Order struct from req, computes its EIP-712 message
// hash, signs it with the wallet key, and returns the wire-ready
// SignedOrder. Nonce is fetched atomically and NOT incremented per order
// — spec.md §4.7 ties nonce changes only to cancel_all.
func (s *Signer) Sign(req OrderRequest, now time.Time) (types.SignedOrder, error) {
	makerAmount, takerAmount := BuildAmounts(req.Side, req.Price, req.Size)

	order := types.Order{
		Salt:          req.Salt,
		Maker:         s.makerAddress,
		Signer:        s.makerAddress,
		Taker:         [20]byte{}, // zero address, spec.md §4.7 defaults
		TokenID:       req.TokenID,
		MakerAmount:   makerAmount.String(),
		TakerAmount:   takerAmount.String(),
		Expiration:    uint64(now.Unix()) + req.ExpirationSecs,
		Nonce:         s.nonce.Load(),
		FeeRateBps:    0,
		Side:          req.Side,
		SignatureType: types.SigEOA,
	}

	sig, err := s.signOrder(order)
	if err != nil {
		return types.SignedOrder{}, err
	}

	return types.SignedOrder{
		Order:     order,
		Signature: "0x" + common.Bytes2Hex(sig),
	}, nil
}

// GenerateSalt returns a 256-bit salt with the high 8 bytes carrying
// wall-clock entropy and the remaining 24 bytes from a CSPRNG (spec.md
// §4.7 Salt: "at least 64 bits of time entropy and 64 bits of
// randomness; uniqueness is required only within a nonce").
func GenerateSalt(now time.Time) ([32]byte, error) {
	var salt [32]byte
	binary.BigEndian.PutUint64(salt[:8], uint64(now.UnixNano()))
	if _, err := rand.Read(salt[8:]); err != nil {
		return salt, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

func sideUint8(s types.Side) uint64 {
	if s == types.SELL {
		return 1
	}
	return 0
}

// signOrder produces the 65-byte r||s||v signature over the order's
// EIP-712 message hash.
func (s *Signer) signOrder(order types.Order) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              domainName,
			Version:           domainVersion,
			ChainId:           (*ethmath.HexOrDecimal256)(big.NewInt(chainID)),
			VerifyingContract: s.verifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"salt":          new(big.Int).SetBytes(order.Salt[:]).String(),
			"maker":         common.BytesToAddress(order.Maker[:]).Hex(),
			"signer":        common.BytesToAddress(order.Signer[:]).Hex(),
			"taker":         common.BytesToAddress(order.Taker[:]).Hex(),
			"tokenId":       order.TokenID,
			"makerAmount":   order.MakerAmount,
			"takerAmount":   order.TakerAmount,
			"expiration":    fmt.Sprintf("%d", order.Expiration),
			"nonce":         fmt.Sprintf("%d", order.Nonce),
			"feeRateBps":    fmt.Sprintf("%d", order.FeeRateBps),
			"side":          fmt.Sprintf("%d", sideUint8(order.Side)),
			"signatureType": fmt.Sprintf("%d", order.SignatureType),
		},
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("typed data hash: %w", types.ErrSigningError)
	}

	sig, err := crypto.Sign(hash, s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", types.ErrSigningError)
	}
	if sig[64] < 27 {
		sig[64] += 27
	}
	return sig, nil
}
