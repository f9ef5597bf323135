package model

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestUnparsableResponseError_TruncatesOnRuneBoundary(t *testing.T) {
	err := &UnparsableResponseError{
		Strategies: []string{"json", "unescape", "repair", "freetext"},
		Raw:        strings.Repeat("ł", 200),
	}

	msg := err.Error()
	if !utf8.ValidString(msg) {
		t.Errorf("error message is not valid UTF-8: %q", msg)
	}
	if !strings.Contains(msg, "...") {
		t.Error("expected long raw output to be truncated")
	}
}

func TestUnparsableResponseError_ShortRawKeptWhole(t *testing.T) {
	err := &UnparsableResponseError{Strategies: []string{"json"}, Raw: "krótka odpowiedź"}
	if !strings.Contains(err.Error(), "krótka odpowiedź") {
		t.Errorf("expected raw output in message, got %q", err.Error())
	}
}

func TestCollaboratorError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &CollaboratorError{Provider: "bielik", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to be reachable via errors.Is")
	}
}
