package core

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolExhausted signals that a player has answered every persisted
	// item. It is an expected condition, not a failure: the caller should
	// trigger generation and retry.
	ErrPoolExhausted = errors.New("training pool exhausted")

	// ErrNoValidCandidates is returned when every item in a generated batch
	// failed validation.
	ErrNoValidCandidates = errors.New("no valid candidates in batch")
)

// ValidationError describes why a single candidate was rejected. Per-item
// validation failures are collected and reported; they never fail the batch
// unless nothing survives.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("candidate %d: field %q: %s", e.Index, e.Field, e.Reason)
}

// GenerationError wraps a failure of the external content generator. Callers
// may retry or fall back to another generator.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generator %s failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StorageError wraps a repository failure. Bulk inserts are all-or-nothing at
// the store boundary, so no partial mutation is assumed when one surfaces.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
