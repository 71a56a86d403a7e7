package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured       = errors.New("source not configured")
	ErrUnreachable         = errors.New("source unreachable")
	ErrInvalidResponse     = errors.New("invalid source response")
	ErrAllSourcesExhausted = errors.New("all sources exhausted")
)

// SourceError is returned by every source client. Kind is one of the
// ErrNotConfigured, ErrUnreachable or ErrInvalidResponse sentinels.
type SourceError struct {
	Source     Source
	Kind       error
	StatusCode int
	Status     string
	Err        error
}

func (e *SourceError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Source, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (%d %s)", msg, e.StatusCode, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NotConfiguredError(src Source, reason string) error {
	return &SourceError{Source: src, Kind: ErrNotConfigured, Err: errors.New(reason)}
}

func UnreachableError(src Source, statusCode int, status string, err error) error {
	return &SourceError{Source: src, Kind: ErrUnreachable, StatusCode: statusCode, Status: status, Err: err}
}

func InvalidResponseError(src Source, err error) error {
	return &SourceError{Source: src, Kind: ErrInvalidResponse, Err: err}
}
