package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrPostNotFound = errors.New("post not found")
var ErrForbidden = errors.New("access forbidden")
var ErrUnauthenticated = errors.New("authentication required")

// ErrEmptyPostBody rejects posts whose title or content is blank after
// trimming whitespace.
var ErrEmptyPostBody = errors.New("title and content are required")

// ErrToggleContended is returned when a like toggle could not acquire the
// per-post serialization slot within its retry budget. Safe to retry.
var ErrToggleContended = errors.New("post is being updated, try again")

// ErrStoreUnavailable wraps storage failures (timeouts, connectivity, or a
// detected half-applied write). The request did not take effect and may be
// retried.
var ErrStoreUnavailable = errors.New("storage unavailable")
