// Package populate places mapped rows into the sheet. It is the only place
// region-relative field positions are translated to absolute cells.
package populate

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/grid"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Plan computes every absolute write for rows. A vertical structure takes
// rows[0] only and writes each field at origin + valuePosition. A horizontal
// structure writes record i of each field at the field's value row + i, in
// the field's value column.
func Plan(rows []models.MappedRow, s *models.TemplateStructure, origin models.Position) ([]models.Placement, error) {
	if len(rows) == 0 {
		return nil, models.NewPopulationError("", origin, "no rows to populate", nil)
	}
	if s == nil || !s.Orientation.Valid() {
		return nil, models.NewPopulationError("", origin, "invalid template structure", nil)
	}

	records := rows
	if s.Orientation == models.OrientationVertical {
		records = rows[:1]
	}

	out := make([]models.Placement, 0, len(records)*len(s.Fields))
	for i, row := range records {
		for _, f := range s.Fields {
			v, ok := row[f.Name]
			if !ok {
				continue
			}
			cell := origin.Add(f.ValuePosition).Add(models.Position{Row: i})
			out = append(out, models.Placement{Field: f.Name, Cell: cell, Value: v, Record: i})
		}
	}
	return out, nil
}

// Populator writes planned placements to a store.
type Populator struct {
	store  grid.Store
	logger zerolog.Logger
}

// Option configures a Populator.
type Option func(*Populator)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Populator) { p.logger = l.With().Str("component", "populate").Logger() }
}

// New returns a Populator writing to store.
func New(store grid.Store, opts ...Option) *Populator {
	p := &Populator{store: store, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Populate plans and writes rows. Every target is checked before the first
// write; a failed write aborts the call, leaving earlier writes in place. The
// store is synced once after all writes succeed.
func (p *Populator) Populate(ctx context.Context, rows []models.MappedRow, s *models.TemplateStructure, origin models.Position) ([]models.Placement, error) {
	placements, err := Plan(rows, s, origin)
	if err != nil {
		return nil, err
	}

	for _, pl := range placements {
		if pl.Cell.Negative() {
			return nil, models.NewPopulationError(pl.Field, pl.Cell, "target cell is outside the sheet", nil)
		}
	}

	for i, pl := range placements {
		if err := ctx.Err(); err != nil {
			return placements[:i], models.NewPopulationError(pl.Field, pl.Cell, "cancelled", err)
		}
		if err := p.store.WriteCell(ctx, pl.Cell, pl.Value); err != nil {
			p.logger.Error().Err(err).Str("field", pl.Field).Str("cell", pl.Cell.String()).Int("written", i).Msg("cell write failed")
			return placements[:i], models.NewPopulationError(pl.Field, pl.Cell, "write failed", err)
		}
	}

	if err := p.store.Sync(ctx); err != nil {
		return placements, models.NewPopulationError("", origin, "sync failed", err)
	}

	p.logger.Info().
		Str("orientation", string(s.Orientation)).
		Int("records", len(rows)).
		Int("cells", len(placements)).
		Msg("values written")
	return placements, nil
}
