package domain

import "errors"

var (
	// ErrInvalidPoolAddress is returned when the pool address is not a hex address
	ErrInvalidPoolAddress = errors.New("invalid pool address")

	// ErrPoolStateUnavailable is returned when the core pool state cannot be read
	ErrPoolStateUnavailable = errors.New("pool state unavailable")

	// ErrBlockSearchExhausted is returned when no block could be read during a timestamp search
	ErrBlockSearchExhausted = errors.New("block search exhausted")

	// ErrUnknownRoute is returned when no price route is configured for a token symbol
	ErrUnknownRoute = errors.New("unknown price route")

	// ErrNoKnownToken is returned when neither side of a pool is in the known-address table
	ErrNoKnownToken = errors.New("pool has no known token")

	// ErrZeroPrice is returned when a price is zero and cannot be used as a divisor
	ErrZeroPrice = errors.New("zero price")
)
