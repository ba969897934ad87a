package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{StringValue("Acme"), "Acme"},
		{NumberValue(1250), "1250"},
		{NumberValue(0.25), "0.25"},
		{BoolValue(true), "TRUE"},
		{BoolValue(false), "FALSE"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}

	assert.True(t, StringValue("").IsEmpty())
	assert.False(t, NumberValue(0).IsEmpty())
	assert.Equal(t, 3.5, NumberValue(3.5).Interface())
	assert.Equal(t, "x", StringValue("x").Interface())
}

func TestPosition(t *testing.T) {
	p := Position{Row: 2, Col: 1}.Add(Position{Row: 3, Col: 4})
	assert.Equal(t, Position{Row: 5, Col: 5}, p)
	assert.Equal(t, "(5,5)", p.String())
	assert.True(t, Position{Row: -1}.Negative())
	assert.False(t, p.Negative())
}

func TestNewRegionPadsRaggedRows(t *testing.T) {
	r := NewRegion("Sheet1", Position{Row: 4, Col: 2}, [][]string{
		{"Name"},
		{"Age", "30", ""},
	})
	assert.Equal(t, 2, r.Rows)
	assert.Equal(t, 3, r.Cols)
	assert.Equal(t, []string{"Name", "", ""}, r.Cells[0])
	assert.Equal(t, Position{Row: 4, Col: 2}, r.Origin())
	assert.Equal(t, 3, r.NonEmptyCount())

	assert.Equal(t, "30", r.Value(Position{Row: 1, Col: 1}))
	assert.Equal(t, "", r.Value(Position{Row: 9, Col: 0}))
	assert.True(t, r.Contains(Position{Row: 1, Col: 2}))
	assert.False(t, r.Contains(Position{Row: 2, Col: 0}))
	assert.False(t, r.IsSingleCell())
	assert.False(t, r.Empty())
	assert.True(t, Region{}.Empty())
}

func TestErrorKinds(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("run: %w", NewPopulationError("Total", Position{Row: 3, Col: 1}, "write failed", base))

	assert.ErrorIs(t, err, ErrPopulation)
	assert.NotErrorIs(t, err, ErrMapping)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, `run: population error in field "Total" at (3,1): write failed: disk full`, err.Error())

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, KindPopulation, me.Kind)
	assert.Equal(t, "Total", me.Field)

	assert.Equal(t, "empty_region error: nothing selected", NewEmptyRegionError("nothing selected", nil).Error())
}

func TestMismatch(t *testing.T) {
	m := NewMismatch(1, 2, "100", "90")
	assert.True(t, m.Complete())
	assert.Equal(t, Position{Row: 1, Col: 2}, m.Position())
	assert.Equal(t, "Expected: 100\nActual: 90", m.Annotation())

	partial := Mismatch{Row: 0, Col: 0, Actual: m.Actual}
	assert.False(t, partial.Complete())
	assert.Equal(t, "Expected: \nActual: 90", partial.Annotation())
}

func TestParseDataType(t *testing.T) {
	tests := []struct {
		in    string
		want  DataType
		known bool
	}{
		{"Number", DataTypeNumber, true},
		{" currency ", DataTypeNumber, true},
		{"datetime", DataTypeDate, true},
		{"bool", DataTypeBoolean, true},
		{"", DataTypeString, true},
		{"percentage", DataTypeString, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDataType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestFieldNames(t *testing.T) {
	s := &TemplateStructure{
		Orientation: OrientationVertical,
		Fields:      []Field{{Name: "Name"}, {Name: "Date"}},
	}
	assert.Equal(t, []string{"Name", "Date"}, s.FieldNames())
	assert.True(t, s.Orientation.Valid())
	assert.False(t, Orientation("diagonal").Valid())
}
