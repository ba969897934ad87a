package grid

import (
	"context"
	"sort"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Memory is an in-memory Store. Failure hooks let callers simulate host
// errors for individual cells.
type Memory struct {
	sheet     string
	cells     [][]string
	selection Ref

	fills       map[models.Position]string
	annotations map[models.Position]string
	written     map[models.Position]models.Value

	// FailWrites makes WriteCell return the mapped error for that cell.
	FailWrites map[models.Position]error
	// FailAnnotations makes AddAnnotation return the mapped error for that cell.
	FailAnnotations map[models.Position]error
	// FailProbe makes CurrentRegion return this error.
	FailProbe error

	// Syncs counts Sync calls.
	Syncs int
}

var _ Store = (*Memory)(nil)

// NewMemory returns a store holding a copy of cells, with A1 selected.
func NewMemory(sheet string, cells [][]string) *Memory {
	m := &Memory{
		sheet:       sheet,
		fills:       make(map[models.Position]string),
		annotations: make(map[models.Position]string),
		written:     make(map[models.Position]models.Value),
	}
	for _, row := range cells {
		m.cells = append(m.cells, append([]string(nil), row...))
	}
	return m
}

// Select sets the selection returned by Selection.
func (m *Memory) Select(start, end models.Position) {
	m.selection = Ref{Sheet: m.sheet, Start: start, End: end}
}

func (m *Memory) Selection(ctx context.Context) (models.Region, error) {
	return m.ReadRegion(ctx, m.selection.Start, m.selection.Rows(), m.selection.Cols())
}

func (m *Memory) CurrentRegion(ctx context.Context, at models.Position) (models.Region, bool, error) {
	if m.FailProbe != nil {
		return models.Region{}, false, m.FailProbe
	}
	b, ok := ConnectedBounds(m.cells, at)
	if !ok {
		return models.Region{}, false, nil
	}
	r, err := m.ReadRegion(ctx, b.Origin(), b.Rows(), b.Cols())
	return r, err == nil, err
}

func (m *Memory) OccupiedRange(ctx context.Context) (models.Region, error) {
	b, ok := FindDataBounds(m.cells)
	if !ok {
		return models.Region{Sheet: m.sheet}, nil
	}
	return m.ReadRegion(ctx, b.Origin(), b.Rows(), b.Cols())
}

func (m *Memory) ReadRegion(_ context.Context, origin models.Position, rows, cols int) (models.Region, error) {
	return models.NewRegion(m.sheet, origin, Window(m.cells, origin, rows, cols)), nil
}

func (m *Memory) ReadCell(_ context.Context, at models.Position) (string, error) {
	return cellAt(m.cells, at.Row, at.Col), nil
}

func (m *Memory) WriteCell(_ context.Context, at models.Position, v models.Value) error {
	if err := m.FailWrites[at]; err != nil {
		return err
	}
	for len(m.cells) <= at.Row {
		m.cells = append(m.cells, nil)
	}
	for len(m.cells[at.Row]) <= at.Col {
		m.cells[at.Row] = append(m.cells[at.Row], "")
	}
	m.cells[at.Row][at.Col] = v.String()
	m.written[at] = v
	return nil
}

func (m *Memory) SetFill(_ context.Context, at models.Position, color string) error {
	m.fills[at] = color
	return nil
}

func (m *Memory) ClearFill(_ context.Context, r models.Region) error {
	for p := range m.fills {
		if r.Contains(models.Position{Row: p.Row - r.Row, Col: p.Col - r.Col}) {
			delete(m.fills, p)
		}
	}
	return nil
}

func (m *Memory) AddAnnotation(_ context.Context, at models.Position, text string) error {
	if err := m.FailAnnotations[at]; err != nil {
		return err
	}
	m.annotations[at] = text
	return nil
}

func (m *Memory) Sync(context.Context) error {
	m.Syncs++
	return nil
}

// Written returns the value written at p, if any.
func (m *Memory) Written(p models.Position) (models.Value, bool) {
	v, ok := m.written[p]
	return v, ok
}

// WriteCount returns the number of distinct cells written.
func (m *Memory) WriteCount() int {
	return len(m.written)
}

// Fill returns the fill color of p, if any.
func (m *Memory) Fill(p models.Position) (string, bool) {
	c, ok := m.fills[p]
	return c, ok
}

// Filled returns every filled cell in row-major order.
func (m *Memory) Filled() []models.Position {
	out := make([]models.Position, 0, len(m.fills))
	for p := range m.fills {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Annotation returns the annotation on p, if any.
func (m *Memory) Annotation(p models.Position) (string, bool) {
	t, ok := m.annotations[p]
	return t, ok
}
