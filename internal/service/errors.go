package service

import "errors"

// Failure taxonomy for the purchase and download paths. Handlers map these
// to status codes or redirects; callers must be able to tell a retryable
// infrastructure failure from a client mistake.
var (
	ErrUnauthenticated = errors.New("credential invalid or missing")
	ErrInvalidInput    = errors.New("invalid request payload")
	ErrPersistence     = errors.New("storage backend failure")
	ErrNotEntitled     = errors.New("product not purchased")
	ErrArtifactMissing = errors.New("artifact not found in storage")
)
