// Package models defines data structures shared by the template analysis and
// placement pipeline.
package models

import (
	"fmt"
	"strconv"
)

// Position is a 0-based cell coordinate. Inside a Field it is relative to the
// Region the field was inferred from; at the grid store boundary it is an
// absolute sheet coordinate.
type Position struct {
	// Row is the 0-based row index.
	Row int `json:"row"`
	// Col is the 0-based column index.
	Col int `json:"col"`
}

// Add returns p shifted by offset.
func (p Position) Add(offset Position) Position {
	return Position{Row: p.Row + offset.Row, Col: p.Col + offset.Col}
}

// Negative reports whether either coordinate is below zero.
func (p Position) Negative() bool {
	return p.Row < 0 || p.Col < 0
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// ValueKind discriminates the scalar held by a Value.
type ValueKind int

const (
	// KindString is a text value. The zero Value is an empty string.
	KindString ValueKind = iota
	// KindNumber is a numeric value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
)

// Value is a scalar that may be written into a cell.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

// StringValue returns a text value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NumberValue returns a numeric value.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Interface returns the Go value suitable for a spreadsheet write.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	default:
		return v.Str
	}
}

// IsEmpty reports whether v is the empty string.
func (v Value) IsEmpty() bool {
	return v.Kind == KindString && v.Str == ""
}

// String renders v the way a cell would display it.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return v.Str
	}
}
