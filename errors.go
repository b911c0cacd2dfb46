package main

import "fmt"

// ValidationError marks malformed or contradictory filter input. The request
// must change before a retry can succeed; no query was executed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreError marks a failed round-trip to the relational store. Retryable by
// the caller; the search core never retries on its own.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }
