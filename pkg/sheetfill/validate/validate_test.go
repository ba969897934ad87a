package validate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/grid"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

func pos(r, c int) models.Position { return models.Position{Row: r, Col: c} }

type stubComparer struct {
	out   []models.Mismatch
	err   error
	table [][]string
}

func (s *stubComparer) Compare(_ context.Context, _ interface{}, table [][]string, _ string) ([]models.Mismatch, error) {
	s.table = table
	return s.out, s.err
}

func sheet(t *testing.T) (*grid.Memory, models.Region) {
	t.Helper()
	m := grid.NewMemory("Sheet1", [][]string{
		{},
		{"", "Field", "Value"},
		{"", "Name", "Acme"},
		{"", "Total", "90"},
	})
	r, err := m.ReadRegion(context.Background(), pos(1, 1), 3, 2)
	require.NoError(t, err)
	return m, r
}

func TestValidateDelegatesRegionCells(t *testing.T) {
	m, r := sheet(t)
	c := &stubComparer{out: []models.Mismatch{models.NewMismatch(2, 1, "100", "90")}}

	got, err := New(m, c).Validate(context.Background(), r, map[string]interface{}{"Total": 100}, "")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, r.Cells, c.table)
}

func TestValidateErrors(t *testing.T) {
	m, r := sheet(t)

	_, err := New(m, &stubComparer{}).Validate(context.Background(), models.Region{}, nil, "")
	assert.ErrorIs(t, err, models.ErrEmptyRegion)

	_, err = New(m, &stubComparer{err: errors.New("model down")}).Validate(context.Background(), r, nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model down")
	assert.Contains(t, err.Error(), "B2:C4")
}

func TestApplyHighlights(t *testing.T) {
	m, r := sheet(t)
	mismatches := []models.Mismatch{
		models.NewMismatch(2, 1, "100", "90"),
		models.NewMismatch(1, 1, "Acme Ltd", "Acme"),
	}

	report, err := New(m, nil).ApplyHighlights(context.Background(), mismatches, r)
	require.NoError(t, err)
	assert.Len(t, report.Applied, 2)
	assert.Empty(t, report.Dropped)

	assert.Equal(t, []models.Position{pos(2, 2), pos(3, 2)}, m.Filled())
	color, ok := m.Fill(pos(3, 2))
	require.True(t, ok)
	assert.Equal(t, grid.DefaultMismatchColor, color)

	note, ok := m.Annotation(pos(3, 2))
	require.True(t, ok)
	assert.Equal(t, "Expected: 100\nActual: 90", note)
	assert.Equal(t, 1, m.Syncs)
}

func TestApplyHighlightsIsIdempotent(t *testing.T) {
	m, r := sheet(t)
	mismatches := []models.Mismatch{models.NewMismatch(2, 1, "100", "90")}
	v := New(m, nil, WithColor("FFFF00"))

	_, err := v.ApplyHighlights(context.Background(), mismatches, r)
	require.NoError(t, err)
	once := m.Filled()

	_, err = v.ApplyHighlights(context.Background(), mismatches, r)
	require.NoError(t, err)
	assert.Equal(t, once, m.Filled())

	// a later run with fewer mismatches clears the stale highlight
	_, err = v.ApplyHighlights(context.Background(), nil, r)
	require.NoError(t, err)
	assert.Empty(t, m.Filled())
}

func TestApplyHighlightsDropsOutOfBounds(t *testing.T) {
	m, r := sheet(t)
	mismatches := []models.Mismatch{
		models.NewMismatch(5, 0, "x", "y"),
		models.NewMismatch(0, 2, "x", "y"),
		models.NewMismatch(-1, 0, "x", "y"),
		{Row: 1, Col: 0, Expected: nil, Actual: nil},
		models.NewMismatch(1, 1, "Acme Ltd", "Acme"),
	}

	report, err := New(m, nil).ApplyHighlights(context.Background(), mismatches, r)
	require.NoError(t, err)
	assert.Len(t, report.Dropped, 4)
	require.Len(t, report.Applied, 1)
	assert.Equal(t, []models.Position{pos(2, 2)}, m.Filled())

	_, ok := m.Annotation(pos(6, 1))
	assert.False(t, ok)
}

func TestApplyHighlightsAnnotationFailureIsSkipped(t *testing.T) {
	m, r := sheet(t)
	m.FailAnnotations = map[models.Position]error{pos(2, 2): errors.New("comments disabled")}
	mismatches := []models.Mismatch{
		models.NewMismatch(1, 1, "Acme Ltd", "Acme"),
		models.NewMismatch(2, 1, "100", "90"),
	}

	report, err := New(m, nil).ApplyHighlights(context.Background(), mismatches, r)
	require.NoError(t, err)
	assert.Equal(t, []models.Position{pos(2, 2)}, report.AnnotationFailures)
	assert.Len(t, report.Applied, 2)
	assert.Len(t, m.Filled(), 2)

	_, ok := m.Annotation(pos(3, 2))
	assert.True(t, ok)
}

func TestFilter(t *testing.T) {
	r := models.NewRegion("S", pos(0, 0), [][]string{{"a", "b"}})
	kept, dropped := Filter([]models.Mismatch{
		models.NewMismatch(0, 1, "x", "y"),
		models.NewMismatch(0, 2, "x", "y"),
	}, r)
	assert.Len(t, kept, 1)
	assert.Len(t, dropped, 1)
}

func TestEquivalent(t *testing.T) {
	assert.True(t, Equivalent("Acme", " acme "))
	assert.True(t, Equivalent("1,250", "1250.00"))
	assert.True(t, Equivalent("TRUE", "true"))
	assert.False(t, Equivalent("90", "100"))
	assert.False(t, Equivalent("Acme", "Acme Ltd"))
}

func TestHeuristicComparer(t *testing.T) {
	var source interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Acme", "total": 100, "notes": null}`), &source))

	table := [][]string{
		{"Field", "Value"},
		{"Name", "ACME"},
		{"Total", "90"},
		{"Notes", "late"},
	}
	got, err := NewHeuristicComparer().Compare(context.Background(), source, table, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.NewMismatch(2, 1, "100", "90"), got[0])
}

func TestHeuristicComparerTable(t *testing.T) {
	var source interface{}
	require.NoError(t, json.Unmarshal([]byte(`[
		{"item": "Bolt", "qty": 10, "price": 1.5},
		{"item": "Nut", "qty": 25, "price": 0.2}
	]`), &source))

	table := [][]string{
		{"Item", "Qty", "Price"},
		{"Bolt", "10", "1.50"},
		{"Nut", "20", "0.2"},
	}
	got, err := NewHeuristicComparer().Compare(context.Background(), source, table, "")
	require.NoError(t, err)
	assert.Equal(t, []models.Mismatch{models.NewMismatch(2, 1, "25", "20")}, got)
}
