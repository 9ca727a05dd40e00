package models

import "errors"

// ErrEmptyInput signals that the request text was empty after trimming.
// It is surfaced to the caller and maps to a 4xx response.
var ErrEmptyInput = errors.New("email text cannot be empty")

// ErrBatchTooLarge signals that a batch request exceeds the per-call limit.
var ErrBatchTooLarge = errors.New("too many emails in batch")

// ErrClassifierUnavailable signals that no label source is reachable. The
// pipeline recovers via the rule-based fallback unless that is disabled.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// ErrClassifier wraps an internal label-source failure.
var ErrClassifier = errors.New("classifier error")

// ErrExplanationSource signals a failed or degenerate explanation attempt.
// It never escapes the explanation cascade.
var ErrExplanationSource = errors.New("explanation source failed")
