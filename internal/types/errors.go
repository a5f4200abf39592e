package types

import "errors"

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// Link-card redeem outcomes. Each domain-rule violation is a distinct named
// error so callers can render a precise message instead of a generic failure.
var (
	// ErrCodeMalformed: input does not normalize to the XXXX-XXXX shape.
	ErrCodeMalformed = errors.New("link code: malformed")
	// ErrCardInvalid: no card matches the code.
	ErrCardInvalid = errors.New("link card: invalid code")
	// ErrCardExpired: the card is past its expiry (stored or derived).
	ErrCardExpired = errors.New("link card: expired")
	// ErrCardAlreadyUsed: the card was redeemed before.
	ErrCardAlreadyUsed = errors.New("link card: already used")
	// ErrCardRevoked: the owner revoked the card.
	ErrCardRevoked = errors.New("link card: revoked")
	// ErrActiveCardLimit: generation refused past the active-card cap.
	ErrActiveCardLimit = errors.New("link card: active card limit reached")
)

// ErrNotTrusted is returned by thread-gated operations when no accepted
// handshake exists for the peer.
var ErrNotTrusted = errors.New("peer is not trusted")

// ErrNoSession is returned by authenticated operations before a session has
// been bootstrapped.
var ErrNoSession = errors.New("no active session")
