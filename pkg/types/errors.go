package types

import "errors"

// Sentinel errors for the §7 error kinds. Callers check them with
// errors.Is; internal packages wrap them with fmt.Errorf("...: %w", ...)
// to attach context, matching the teacher's error-wrapping style.
var (
	// ErrMarketNotFound is returned when a market/condition lookup misses.
	ErrMarketNotFound = errors.New("market not found")

	// ErrTokenNotFound is returned when a token has no prior snapshot.
	ErrTokenNotFound = errors.New("token not found")

	// ErrStaleUpdate is returned when a delta's sequence is <= the book's
	// current sequence. The book is left unchanged.
	ErrStaleUpdate = errors.New("stale update")

	// ErrSequenceGap is returned when a delta's sequence skips ahead of
	// the book's current sequence by more than one. The book is left
	// unchanged; the caller must re-snapshot.
	ErrSequenceGap = errors.New("sequence gap")

	// ErrInvalidInput is the error kind for malformed JSON, bad hex, and
	// out-of-range decimals. No package in this module returns it:
	// price.Parse and the JSON decoders report their own errors.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidKey is returned when wallet construction fails.
	ErrInvalidKey = errors.New("invalid private key")

	// ErrSigningError is returned when the cryptographic sign step fails.
	ErrSigningError = errors.New("signing error")
)
