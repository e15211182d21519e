package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrMarketUnavailable marks any transport failure, timeout, or non-2xx
// status from the market API. The Discord layer converts it to a generic
// "try again" message; it is never retried automatically.
var ErrMarketUnavailable = errors.New("market data unavailable")

// NoMatchError reports that name resolution fell below the confidence
// threshold. It carries the literal query so the user can refine it.
type NoMatchError struct {
	Query string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no item matching %q", e.Query)
}

// RateLimitedError reports a rejected request and the exact remaining wait.
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %.0fs", e.Wait.Seconds())
}
