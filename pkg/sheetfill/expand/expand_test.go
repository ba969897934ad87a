package expand

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/grid"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

func pos(r, c int) models.Position { return models.Position{Row: r, Col: c} }

func selection(t *testing.T, m *grid.Memory, start, end models.Position) models.Region {
	t.Helper()
	m.Select(start, end)
	sel, err := m.Selection(context.Background())
	require.NoError(t, err)
	return sel
}

func TestValid(t *testing.T) {
	tests := []struct {
		rows, cols int
		want       bool
	}{
		{2, 2, true},
		{1, 1, false},
		{1, 5, false},
		{5, 1, false},
		{2, 11, true},
		{21, 2, true},
		{20, 1, false},
		{3, 4, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.rows, tt.cols), "%dx%d", tt.rows, tt.cols)
	}
}

func TestBoxPadClampsLeft(t *testing.T) {
	b := Box{Row: 4, Col: 1, Rows: 1, Cols: 3}
	assert.Equal(t, Box{Row: 4, Col: 0, Rows: 9, Cols: 6}, b.Pad(8, 2, 2))

	b = Box{Row: 0, Col: 5, Rows: 2, Cols: 2}
	assert.Equal(t, Box{Row: 0, Col: 3, Rows: 4, Cols: 6}, b.Pad(2, 2, 2))
}

func TestExpandMultiCellIsNoOp(t *testing.T) {
	m := grid.NewMemory("Sheet1", [][]string{
		{"Name", "Age", "City"},
		{"Ann", "31", "Oslo"},
		{"Bob", "", ""},
	})
	e := New(m)

	for _, tc := range []struct{ start, end models.Position }{
		{pos(0, 0), pos(0, 1)},
		{pos(0, 0), pos(1, 0)},
		{pos(1, 1), pos(4, 7)},
	} {
		sel := selection(t, m, tc.start, tc.end)
		got, err := e.Expand(context.Background(), sel)
		require.NoError(t, err)
		assert.True(t, got.SameExtent(sel), "%v", got)
	}
}

func TestExpandSingleCellToBlock(t *testing.T) {
	m := grid.NewMemory("Sheet1", [][]string{
		{},
		{"", "Field", "Value"},
		{"", "Property Name", ""},
		{"", "Total Due", "100"},
		{},
		{"", "", "", "", "stray"},
	})
	e := New(m)

	got, err := e.Expand(context.Background(), selection(t, m, pos(2, 1), pos(2, 1)))
	require.NoError(t, err)
	assert.Equal(t, Box{Row: 1, Col: 1, Rows: 3, Cols: 2}, BoxOf(got))
	assert.Equal(t, "Total Due", got.Value(pos(2, 0)))
}

func TestExpandPadsHeaderOnlyBlock(t *testing.T) {
	m := grid.NewMemory("Sheet1", [][]string{
		{"Item", "Qty", "Price"},
	})
	e := New(m)

	got, err := e.Expand(context.Background(), selection(t, m, pos(0, 1), pos(0, 1)))
	require.NoError(t, err)
	assert.Equal(t, Box{Row: 0, Col: 0, Rows: 6, Cols: 5}, BoxOf(got))
	assert.Equal(t, []string{"Item", "Qty", "Price", "", ""}, got.Cells[0])
	assert.Equal(t, []string{"", "", "", "", ""}, got.Cells[5])
}

func TestExpandPadsNarrowColumn(t *testing.T) {
	cells := make([][]string, 25)
	for i := range cells {
		cells[i] = []string{"v"}
	}
	m := grid.NewMemory("Sheet1", cells)

	got, err := New(m, WithPadding(1, 1)).Expand(context.Background(), selection(t, m, pos(3, 0), pos(3, 0)))
	require.NoError(t, err)
	assert.Equal(t, Box{Row: 0, Col: 0, Rows: 26, Cols: 2}, BoxOf(got))
}

func TestExpandIsolatedCellFallsBackToOccupiedRange(t *testing.T) {
	m := grid.NewMemory("Sheet1", [][]string{
		{"", "", ""},
		{"", "", "a", "b"},
		{"", "", "c", "d"},
		{},
		{"x"},
	})
	e := New(m)

	got, err := e.Expand(context.Background(), selection(t, m, pos(4, 0), pos(4, 0)))
	require.NoError(t, err)
	assert.Equal(t, Box{Row: 1, Col: 0, Rows: 4, Cols: 4}, BoxOf(got))

	// an empty selected cell has no block either
	got, err = e.Expand(context.Background(), selection(t, m, pos(0, 0), pos(0, 0)))
	require.NoError(t, err)
	assert.Equal(t, Box{Row: 1, Col: 0, Rows: 4, Cols: 4}, BoxOf(got))
}

func TestExpandProbeFailureFallsThrough(t *testing.T) {
	m := grid.NewMemory("Sheet1", [][]string{
		{"a", "b"},
		{"c", "d"},
	})
	m.FailProbe = errors.New("host unavailable")

	got, err := New(m).Expand(context.Background(), selection(t, m, pos(0, 0), pos(0, 0)))
	require.NoError(t, err)
	assert.Equal(t, Box{Row: 0, Col: 0, Rows: 2, Cols: 2}, BoxOf(got))
}

func TestExpandEmptySheet(t *testing.T) {
	m := grid.NewMemory("Sheet1", nil)

	_, err := New(m).Expand(context.Background(), selection(t, m, pos(0, 0), pos(0, 0)))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmptyRegion)
}

func TestRefine(t *testing.T) {
	tests := []struct {
		name    string
		in      Box
		want    Box
		applied []string
	}{
		{
			name:    "single row",
			in:      Box{Row: 3, Col: 4, Rows: 1, Cols: 4},
			want:    Box{Row: 3, Col: 2, Rows: 9, Cols: 8},
			applied: []string{"single-row"},
		},
		{
			name:    "single cell",
			in:      Box{Row: 0, Col: 0, Rows: 1, Cols: 1},
			want:    Box{Row: 0, Col: 0, Rows: 9, Cols: 3},
			applied: []string{"single-row"},
		},
		{
			name:    "shallow wide",
			in:      Box{Row: 0, Col: 2, Rows: 2, Cols: 6},
			want:    Box{Row: 0, Col: 1, Rows: 7, Cols: 8},
			applied: []string{"shallow-wide"},
		},
		{
			name:    "narrow tall",
			in:      Box{Row: 1, Col: 0, Rows: 5, Cols: 2},
			want:    Box{Row: 1, Col: 0, Rows: 6, Cols: 5},
			applied: []string{"narrow-tall"},
		},
		{
			name: "plain table",
			in:   Box{Row: 0, Col: 0, Rows: 4, Cols: 4},
			want: Box{Row: 0, Col: 0, Rows: 4, Cols: 4},
		},
		{
			name: "two narrow rows",
			in:   Box{Row: 0, Col: 0, Rows: 2, Cols: 2},
			want: Box{Row: 0, Col: 0, Rows: 2, Cols: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, applied := Refine(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.applied, applied)
		})
	}
}

func TestSafetyNet(t *testing.T) {
	net := SafetyNet()
	assert.Equal(t, "safety-net", net.Name)
	assert.False(t, net.Applies(Box{Rows: 1, Cols: 3}))
	assert.False(t, net.Applies(Box{Rows: 2, Cols: 9}))

	b := Box{Row: 7, Col: 2, Rows: 1, Cols: 4}
	require.True(t, net.Applies(b))
	assert.Equal(t, Box{Row: 7, Col: 2, Rows: 10, Cols: 4}, net.Apply(b))
}

func TestRefineNeverLeavesWideSingleRow(t *testing.T) {
	for rows := 1; rows <= 4; rows++ {
		for cols := 1; cols <= 15; cols++ {
			for col := 0; col <= 3; col++ {
				got, _ := Refine(Box{Row: 2, Col: col, Rows: rows, Cols: cols})
				assert.False(t, got.Rows == 1 && got.Cols > 3, "%dx%d at col %d -> %+v", rows, cols, col, got)
				assert.GreaterOrEqual(t, got.Col, 0)
			}
		}
	}
}

func TestExpandForTemplate(t *testing.T) {
	m := grid.NewMemory("Sheet1", [][]string{
		{"Invoice", "Date", "Customer", "Item", "Qty", "Price", "Total"},
		{},
		{"", "", "", "", "", "", "", "", "note"},
	})
	e := New(m)

	// a deliberate header-only selection is grown below and sideways
	got, err := e.ExpandForTemplate(context.Background(), selection(t, m, pos(0, 0), pos(0, 6)))
	require.NoError(t, err)
	assert.Equal(t, Box{Row: 0, Col: 0, Rows: 9, Cols: 9}, BoxOf(got))
	assert.Equal(t, "Invoice", got.Value(pos(0, 0)))
	assert.Equal(t, "note", got.Value(pos(2, 8)))
	assert.False(t, got.Rows == 1 && got.Cols > 3)

	// a shallow wide selection gets one column either side, clamped at A
	got, err = e.ExpandForTemplate(context.Background(), selection(t, m, pos(0, 0), pos(1, 6)))
	require.NoError(t, err)
	assert.Equal(t, Box{Row: 0, Col: 0, Rows: 7, Cols: 8}, BoxOf(got))
}

func TestExpandForTemplateEmptySheet(t *testing.T) {
	m := grid.NewMemory("Sheet1", [][]string{{""}})

	_, err := New(m).ExpandForTemplate(context.Background(), selection(t, m, pos(0, 0), pos(0, 0)))
	assert.ErrorIs(t, err, models.ErrEmptyRegion)
}

func TestReshapeKeepsKnownCells(t *testing.T) {
	from := models.NewRegion("S", pos(2, 3), [][]string{{"a", "b"}})
	got := reshape(from, Box{Row: 2, Col: 2, Rows: 3, Cols: 4})

	assert.Equal(t, 3, got.Rows)
	assert.Equal(t, 4, got.Cols)
	assert.Equal(t, []string{"", "a", "b", ""}, got.Cells[0])
	assert.Equal(t, []string{"", "", "", ""}, got.Cells[2])
}
