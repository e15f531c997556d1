// Package services defines the shared error taxonomy consumed across the
// collection engine and its import/export surfaces.
//
// Structural failures (ErrNotFound, ErrInvalidPermutation, ErrValidation)
// abort an operation atomically and surface verbatim. Per-line failures
// (ErrParse, ErrEmptyLookup, ErrUnresolved) accumulate during imports so a
// batch can partially succeed with an itemized skip list.
//
// Use Wrap when returning errors from engine components so callers can match
// markers with errors.Is while still seeing component and operation context.
package services
