package dto

import "errors"

var (
	ErrInvalidDomain      = errors.New("invalid domain")
	ErrUpstreamFailure    = errors.New("assistant upstream failure")
	ErrUpstreamTimeout    = errors.New("assistant upstream timeout")
	ErrMalformedResponse  = errors.New("malformed assistant response")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageFailure     = errors.New("storage failure")
	ErrNotFound           = errors.New("not found")
)
