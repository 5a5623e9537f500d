package domain

import (
	"errors"
	"fmt"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// IsRetryStatus reports whether an HTTP status from the market data service
// is treated as transient: ESI error-limit statuses plus server errors.
func IsRetryStatus(code int) bool {
	switch code {
	case 420, 429, 500, 503, 504:
		return true
	}
	return false
}

// ESIError represents a failed request against the remote market/lookup
// service. Retriability is derived from the HTTP status.
type ESIError struct {
	Op     string // operation that failed, e.g. "resolve ids", "fetch orders"
	Status int    // HTTP status, 0 for transport-level failures
	Err    error
}

func (e *ESIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ESIError) IsRetriable() bool {
	return IsRetryStatus(e.Status)
}

func (e *ESIError) Unwrap() error {
	return e.Err
}

// Skip reasons for per-item degradation. A skip discards one finished item
// from the result set; the run continues.
const (
	ReasonUnresolvedID       = "unresolved type id"
	ReasonNoDisposeLiquidity = "no buy orders at venue"
	ReasonNoAcquireLiquidity = "no sell orders at venue"
)

// SkipError marks one finished item as non-computable for this run.
// Material is empty when the product itself is the problem.
type SkipError struct {
	Product  string
	Material string
	Reason   string
}

func (e *SkipError) Error() string {
	if e.Material != "" {
		return fmt.Sprintf("skip %s: material %s: %s", e.Product, e.Material, e.Reason)
	}
	return fmt.Sprintf("skip %s: %s", e.Product, e.Reason)
}

// IsSkip reports whether err is a per-item skip, returning it if so.
func IsSkip(err error) (*SkipError, bool) {
	var se *SkipError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrNoOrders is returned when the target venue has no matching orders
	// for a (type, side) pair. Degrades to a per-item skip, never fatal.
	ErrNoOrders = errors.New("no matching orders at venue")

	// ErrNoDatasets is returned when the configuration lists no recipe files.
	ErrNoDatasets = errors.New("no recipe datasets configured")
)
