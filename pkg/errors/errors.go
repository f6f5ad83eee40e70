// Package errors provides custom error types for the traitmap system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the reconciliation pipeline.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the traitmap system
var (
	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateTrait indicates that a trait appeared in more than one
	// merge input, which must fail the run rather than be silently resolved
	ErrDuplicateTrait = errors.New("duplicate trait")

	// ErrLookupUnavailable indicates that the ontology lookup service
	// could not answer a containment query
	ErrLookupUnavailable = errors.New("ontology lookup unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError represents an error when parsing input data
type ParseError struct {
	Format  string // "tsv", "yaml", "manual-entry", etc.
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// LookupError represents a failed containment query against the
// ontology lookup service. Lookup failures degrade the affected
// candidate to UNKNOWN containment; they never abort a run.
type LookupError struct {
	URI     string
	Message string
	Err     error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	return fmt.Sprintf("ontology lookup failed for %s: %s", e.URI, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupUnavailable
}

// NewLookupError creates a new LookupError
func NewLookupError(uri string, err error) *LookupError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &LookupError{URI: uri, Message: message, Err: err}
}

// MergeError represents a conflict detected while merging curation
// decisions with auto-accepted mappings
type MergeError struct {
	Source string
	Target string
	Traits []string
	Err    error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	if len(e.Traits) > 0 {
		if e.Source == e.Target {
			return fmt.Sprintf("duplicate traits within %s: %v", e.Source, e.Traits)
		}
		return fmt.Sprintf("merge conflict between %s and %s for traits: %v", e.Source, e.Target, e.Traits)
	}
	return fmt.Sprintf("merge error between %s and %s: %v", e.Source, e.Target, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MergeError) Is(target error) bool {
	return target == ErrDuplicateTrait
}

// NewMergeError creates a new MergeError
func NewMergeError(source, target string, traits []string, err error) *MergeError {
	return &MergeError{
		Source: source,
		Target: target,
		Traits: traits,
		Err:    err,
	}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Duration:  duration,
		Message:   message,
	}
}

// Helper functions for error checking

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDuplicateTrait checks if an error is a duplicate trait conflict
func IsDuplicateTrait(err error) bool {
	return errors.Is(err, ErrDuplicateTrait)
}

// IsLookupUnavailable checks if an error indicates lookup unavailability
func IsLookupUnavailable(err error) bool {
	return errors.Is(err, ErrLookupUnavailable)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapLookup wraps an error as a LookupError
func WrapLookup(uri string, err error) error {
	if err == nil {
		return nil
	}
	return NewLookupError(uri, err)
}
