// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork indicates a transport failure, a timeout or an unexpected HTTP status.
	ErrNetwork = errors.New("network error")
	// ErrAuth indicates that the provider rejected the API key.
	ErrAuth = errors.New("authentication failed")
	// ErrNotFound indicates that the provider has no data for the request.
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse indicates a response that could not be decoded or lacks required fields.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidCoordinates is returned before any request for out of range coordinates.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// ProviderError is returned by all provider operations. Kind is one of the sentinel errors
// of this package, Err the underlying cause (if any).
type ProviderError struct {
	Op   string
	Kind error
	Err  error
}

// NewProviderError returns a ProviderError for the given operation.
func NewProviderError(op string, kind, err error) *ProviderError {
	return &ProviderError{Op: op, Kind: kind, Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
