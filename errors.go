package main

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound marks a missing target row (chapter, question, or the
	// original behind an orphaned draft).
	ErrNotFound = errors.New("not found")

	// ErrPublishedColumnMissing is recognized on the question publish path
	// when the store rejects the published column, so the handler can return
	// a schema-migration hint instead of a bare store failure.
	ErrPublishedColumnMissing = errors.New("published column missing")
)

// isMissingColumnErr detects the sqlite "no such column" shape for the
// published flag. Anything else stays a generic store error.
func isMissingColumnErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such column") && strings.Contains(msg, "published")
}
