// Package expand turns a selection into a region worth analyzing. A single
// selected cell grows to its contiguous data block, with padding, and falls
// back to the sheet's occupied range.
package expand

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/grid"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

const (
	defaultPadRows = 5
	defaultPadCols = 2
)

// Expander grows selections against a grid store.
type Expander struct {
	store   grid.Store
	logger  zerolog.Logger
	padRows int
	padCols int
}

// Option configures an Expander.
type Option func(*Expander)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Expander) { e.logger = l.With().Str("component", "expand").Logger() }
}

// WithPadding overrides the rows and columns added to blocks that fail the
// validity rule.
func WithPadding(rows, cols int) Option {
	return func(e *Expander) {
		if rows >= 0 {
			e.padRows = rows
		}
		if cols >= 0 {
			e.padCols = cols
		}
	}
}

// New returns an Expander reading from store.
func New(store grid.Store, opts ...Option) *Expander {
	e := &Expander{
		store:   store,
		logger:  zerolog.Nop(),
		padRows: defaultPadRows,
		padCols: defaultPadCols,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand returns sel unchanged when it spans more than one cell. A single
// cell is replaced by its contiguous block, padded when the block alone is
// not a plausible table, or by the occupied range when the cell is isolated.
// Probe failures fall through to the next tier; only a degenerate occupied
// range is an error.
func (e *Expander) Expand(ctx context.Context, sel models.Region) (models.Region, error) {
	if !sel.Empty() && !sel.IsSingleCell() {
		return sel, nil
	}

	if block, ok := e.currentRegion(ctx, sel.Origin()); ok {
		if Valid(block.Rows, block.Cols) {
			return block, nil
		}
		if block.Rows > 1 || block.Cols > 1 {
			padded := BoxOf(block).Pad(e.padRows, 0, e.padCols)
			if Valid(padded.Rows, padded.Cols) {
				return e.read(ctx, block, padded), nil
			}
			return block, nil
		}
	}

	occupied, err := e.store.OccupiedRange(ctx)
	if err != nil {
		return models.Region{}, models.NewEmptyRegionError("read occupied range", err)
	}
	if occupied.Empty() {
		return models.Region{}, models.NewEmptyRegionError("no cell data found on sheet "+occupied.Sheet, nil)
	}
	e.logger.Debug().Str("range", grid.RangeName(occupied)).Msg("falling back to occupied range")
	return occupied, nil
}

// ExpandForTemplate expands sel and then applies the template refinements,
// so the region handed to analysis is never a single row wider than three
// columns.
func (e *Expander) ExpandForTemplate(ctx context.Context, sel models.Region) (models.Region, error) {
	r, err := e.Expand(ctx, sel)
	if err != nil {
		return models.Region{}, err
	}

	refined, applied := Refine(BoxOf(r))
	if len(applied) == 0 {
		return r, nil
	}
	e.logger.Debug().
		Strs("strategies", applied).
		Int("rows", refined.Rows).
		Int("cols", refined.Cols).
		Msg("refined template region")
	return e.read(ctx, r, refined), nil
}

func (e *Expander) currentRegion(ctx context.Context, at models.Position) (models.Region, bool) {
	block, ok, err := e.store.CurrentRegion(ctx, at)
	if err != nil {
		e.logger.Debug().Err(err).Str("cell", at.String()).Msg("current region probe failed")
		return models.Region{}, false
	}
	if !ok || block.Empty() {
		return models.Region{}, false
	}
	return block, true
}

// read loads b from the store. When the read fails the known cells of from
// are placed into b and the rest left blank.
func (e *Expander) read(ctx context.Context, from models.Region, b Box) models.Region {
	r, err := e.store.ReadRegion(ctx, b.Origin(), b.Rows, b.Cols)
	if err == nil && r.Rows == b.Rows && r.Cols == b.Cols {
		return r
	}
	e.logger.Debug().Err(err).Msg("re-read of expanded region failed")
	return reshape(from, b)
}

func reshape(from models.Region, b Box) models.Region {
	cells := make([][]string, b.Rows)
	for i := range cells {
		cells[i] = make([]string, b.Cols)
		for j := range cells[i] {
			src := models.Position{Row: b.Row + i - from.Row, Col: b.Col + j - from.Col}
			cells[i][j] = from.Value(src)
		}
	}
	return models.NewRegion(from.Sheet, b.Origin(), cells)
}
