package service

import (
	"errors"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedType is returned when text extraction does not support the media type.
	ErrUnsupportedType = errors.New("unsupported media type")
	// ErrProvider is returned when the embedding provider fails on transport or auth.
	ErrProvider = errors.New("embedding provider error")
	// ErrRateLimited is returned when the embedding provider reports a 429-class response.
	ErrRateLimited = errors.New("rate limited")
	// ErrQuotaExceeded is returned when the embedding provider reports insufficient quota.
	// Unlike ErrRateLimited it is never retried.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrProcessingInProgress is returned when an indexing request arrives for a file
	// that already has an in-flight process or reprocess operation.
	ErrProcessingInProgress = errors.New("processing in progress")
)
