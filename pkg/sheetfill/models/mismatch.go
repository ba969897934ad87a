package models

import "fmt"

// Mismatch is a cell whose spreadsheet value disagrees with the source
// document. Row and Col are relative to the validated region.
type Mismatch struct {
	Row int `json:"row"`
	Col int `json:"col"`
	// Expected is the value found in the source document (nil when absent).
	Expected *string `json:"expectedValue,omitempty"`
	// Actual is the value found in the sheet (nil when absent).
	Actual *string `json:"actualValue,omitempty"`
}

// Position returns the region-relative cell of the mismatch.
func (m Mismatch) Position() Position {
	return Position{Row: m.Row, Col: m.Col}
}

// Complete reports whether both the expected and actual values are present.
func (m Mismatch) Complete() bool {
	return m.Expected != nil && m.Actual != nil
}

// Annotation renders the comment text attached to a highlighted cell.
func (m Mismatch) Annotation() string {
	var expected, actual string
	if m.Expected != nil {
		expected = *m.Expected
	}
	if m.Actual != nil {
		actual = *m.Actual
	}
	return fmt.Sprintf("Expected: %s\nActual: %s", expected, actual)
}

// NewMismatch is a convenience constructor for a complete mismatch.
func NewMismatch(row, col int, expected, actual string) Mismatch {
	return Mismatch{Row: row, Col: col, Expected: &expected, Actual: &actual}
}
