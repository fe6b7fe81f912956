package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownProvider indicates an unrecognised LLM provider id.
	// Never retried.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrProviderTransient indicates a provider failure that may
	// succeed on retry: network errors, 5xx responses, 429 rate
	// limits, and explicit overload signatures.
	ErrProviderTransient = errors.New("transient provider error")

	// ErrProviderFatal indicates a provider failure that will not
	// succeed on retry: bad credentials, malformed requests.
	ErrProviderFatal = errors.New("fatal provider error")

	// ErrResponseParse indicates model output that is not valid JSON
	// or lacks a required top-level field. Never retried; callers
	// decide whether it aborts the run or isolates one batch.
	ErrResponseParse = errors.New("unparsable model response")

	// ErrEmptyTree indicates structure planning produced no categories.
	// Without a tree there is nothing to batch against, so the run aborts.
	ErrEmptyTree = errors.New("classification tree has no categories")
)
