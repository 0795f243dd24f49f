// Package apierrors defines the typed failures returned by the identity
// service and the HTTP status each of them maps to.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindAuth       Kind = "auth"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

// APIError is a failure with a client-facing message.
type APIError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches another *APIError of the same kind and message.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for untyped errors.
func KindOf(err error) Kind {
	if apiErr, ok := As(err); ok {
		return apiErr.Kind
	}
	return KindInternal
}

func NewValidation(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

func NewNotFound(message string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

func NewAuth(message string) *APIError {
	return &APIError{Kind: KindAuth, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewConflict reports a duplicate. The product surfaces it as 400.
func NewConflict(message string) *APIError {
	return &APIError{Kind: KindConflict, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewInternal wraps a downstream failure; its cause is never shown to clients.
func NewInternal(err error) *APIError {
	return &APIError{Kind: KindInternal, Message: "Internal Server Error", HTTPStatus: http.StatusInternalServerError, Err: err}
}
