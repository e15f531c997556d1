package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks a missing collection, item, or insert anchor.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPermutation marks a reorder whose id set does not match the
	// collection's current id set.
	ErrInvalidPermutation = errors.New("invalid permutation")
	// ErrEmptyLookup marks a Bible verse range that resolved to zero verses.
	ErrEmptyLookup = errors.New("empty lookup")
	// ErrParse marks a malformed text or JSON line.
	ErrParse = errors.New("parse error")
	// ErrValidation marks an interchange document that fails its
	// required-field schema.
	ErrValidation = errors.New("validation error")
	// ErrUnresolved marks a song title with no catalog match, awaiting a
	// caller decision.
	ErrUnresolved = errors.New("unresolved reference")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = errors.New("service failure")
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsStructural reports whether an error aborts a whole operation rather than
// accumulating as a per-line import failure.
func IsStructural(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidPermutation) ||
		errors.Is(err, ErrValidation)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
