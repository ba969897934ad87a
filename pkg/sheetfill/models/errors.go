package models

import (
	"fmt"
	"strings"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	KindEmptyRegion ErrorKind = "empty_region"
	KindAnalysis    ErrorKind = "analysis"
	KindMapping     ErrorKind = "mapping"
	KindExtraction  ErrorKind = "extraction"
	KindPopulation  ErrorKind = "population"
)

// Sentinels for errors.Is matching by kind.
var (
	ErrEmptyRegion = &Error{Kind: KindEmptyRegion}
	ErrAnalysis    = &Error{Kind: KindAnalysis}
	ErrMapping     = &Error{Kind: KindMapping}
	ErrExtraction  = &Error{Kind: KindExtraction}
	ErrPopulation  = &Error{Kind: KindPopulation}
)

// Error represents a failure in one pipeline stage.
type Error struct {
	Kind    ErrorKind
	Message string
	// Field names the offending field, if any.
	Field string
	// Cell is the offending coordinate, if any.
	Cell *Position
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(" error")
	if e.Field != "" {
		fmt.Fprintf(&b, " in field %q", e.Field)
	}
	if e.Cell != nil {
		fmt.Fprintf(&b, " at %s", e.Cell)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewEmptyRegionError reports that no usable cell data was found.
func NewEmptyRegionError(message string, err error) *Error {
	return &Error{Kind: KindEmptyRegion, Message: message, Err: err}
}

// NewAnalysisError reports an invalid or conflicting template structure.
func NewAnalysisError(field string, message string, err error) *Error {
	return &Error{Kind: KindAnalysis, Field: field, Message: message, Err: err}
}

// NewMappingError reports mapped rows that failed shape validation.
func NewMappingError(message string, err error) *Error {
	return &Error{Kind: KindMapping, Message: message, Err: err}
}

// NewExtractionError reports an unparseable document-understanding response.
func NewExtractionError(message string, err error) *Error {
	return &Error{Kind: KindExtraction, Message: message, Err: err}
}

// NewPopulationError reports a failed cell write for field at cell.
func NewPopulationError(field string, cell Position, message string, err error) *Error {
	return &Error{Kind: KindPopulation, Field: field, Cell: &cell, Message: message, Err: err}
}
