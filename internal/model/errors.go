package model

import (
	"errors"
	"fmt"
)

// ErrLowConfidence signals that the declension engine could not classify
// a lemma and returned it unchanged. Non-fatal: callers surface it as a
// warning, never as a failure.
var ErrLowConfidence = errors.New("low-confidence inflection: lemma ending matches no declension class")

// MalformedGapError rejects client input with a bad gap marker before
// any external call is made.
type MalformedGapError struct {
	Index  int
	Reason string
}

func (e *MalformedGapError) Error() string {
	return fmt.Sprintf("malformed gap marker [GAP:%d]: %s", e.Index, e.Reason)
}

// UnparsableResponseError means the generation output survived none of
// the reconciliation strategies. Terminal for the single request only.
type UnparsableResponseError struct {
	Strategies []string
	Raw        string
}

func (e *UnparsableResponseError) Error() string {
	raw := e.Raw
	// Truncate on a rune boundary; Polish text is full of multi-byte runes.
	if r := []rune(raw); len(r) > 120 {
		raw = string(r[:120]) + "..."
	}
	return fmt.Sprintf("generation output unparsable after %d strategies (%v): %q",
		len(e.Strategies), e.Strategies, raw)
}

// CollaboratorError wraps a network or timeout failure talking to the
// generation service.
type CollaboratorError struct {
	Provider string
	Err      error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("generation collaborator %q unavailable: %v", e.Provider, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
