package model

import (
	"errors"
	"fmt"
)

// ErrInsufficientData rejects price series shorter than two intervals.
var ErrInsufficientData = errors.New("price series must contain at least 2 intervals")

// ConfigError marks invalid caller-supplied configuration or request
// parameters, as opposed to internal failures. API handlers map it to 400.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// InvariantViolation signals an implementation bug: the executor computed a
// state outside the battery's feasible range. It must never occur on valid
// input and is not recoverable.
type InvariantViolation struct {
	Index  int
	SoCMWh float64
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("soc %.6f MWh out of range at interval %d", e.SoCMWh, e.Index)
}
