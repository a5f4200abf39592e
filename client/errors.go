package client

import (
	"github.com/Zephy88r/AnoN-sub000/internal/types"
)

// Shared SDK errors re-exported so callers compare against a single symbol.
var (
	ErrNotFound        = types.ErrNotFound
	ErrCodeMalformed   = types.ErrCodeMalformed
	ErrCardInvalid     = types.ErrCardInvalid
	ErrCardExpired     = types.ErrCardExpired
	ErrCardAlreadyUsed = types.ErrCardAlreadyUsed
	ErrCardRevoked     = types.ErrCardRevoked
	ErrActiveCardLimit = types.ErrActiveCardLimit
	ErrNotTrusted      = types.ErrNotTrusted
	ErrNoSession       = types.ErrNoSession
)
