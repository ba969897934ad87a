// Package validate compares a region against source data and highlights the
// cells that disagree.
package validate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/grid"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Comparer reports the cells of table that disagree with source. Rows and
// columns are 0-based indices into table.
type Comparer interface {
	Compare(ctx context.Context, source interface{}, table [][]string, instructions string) ([]models.Mismatch, error)
}

// HighlightReport summarizes one ApplyHighlights call.
type HighlightReport struct {
	// Applied are the mismatches that were painted.
	Applied []models.Mismatch `json:"applied"`
	// Dropped are out-of-bounds or incomplete mismatches.
	Dropped []models.Mismatch `json:"dropped,omitempty"`
	// AnnotationFailures are absolute cells whose comment could not be attached.
	AnnotationFailures []models.Position `json:"annotationFailures,omitempty"`
}

// Validator runs comparisons and paints their results.
type Validator struct {
	store    grid.Store
	comparer Comparer
	color    string
	logger   zerolog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Validator) { v.logger = l.With().Str("component", "validate").Logger() }
}

// WithColor overrides the mismatch fill color (RGB hex).
func WithColor(color string) Option {
	return func(v *Validator) {
		if color != "" {
			v.color = color
		}
	}
}

// New returns a Validator.
func New(store grid.Store, comparer Comparer, opts ...Option) *Validator {
	v := &Validator{
		store:    store,
		comparer: comparer,
		color:    grid.DefaultMismatchColor,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate compares region with source. An empty result means the region
// matches.
func (v *Validator) Validate(ctx context.Context, region models.Region, source interface{}, instructions string) ([]models.Mismatch, error) {
	if region.Empty() {
		return nil, models.NewEmptyRegionError("cannot validate an empty region", nil)
	}
	mismatches, err := v.comparer.Compare(ctx, source, region.Cells, instructions)
	if err != nil {
		return nil, fmt.Errorf("compare region %s: %w", grid.RangeName(region), err)
	}
	v.logger.Debug().Int("mismatches", len(mismatches)).Msg("comparison finished")
	return mismatches, nil
}

// Filter splits mismatches into those that can be highlighted in region and
// those that cannot: out-of-bounds coordinates or a missing value.
func Filter(mismatches []models.Mismatch, region models.Region) (kept, dropped []models.Mismatch) {
	for _, m := range mismatches {
		if region.Contains(m.Position()) && m.Complete() {
			kept = append(kept, m)
		} else {
			dropped = append(dropped, m)
		}
	}
	return kept, dropped
}

// ApplyHighlights clears any fill on region and then paints and annotates
// each usable mismatch. Re-running with the same input yields the same
// highlighted cells. Annotation failures are logged and skipped.
func (v *Validator) ApplyHighlights(ctx context.Context, mismatches []models.Mismatch, region models.Region) (*HighlightReport, error) {
	if err := v.store.ClearFill(ctx, region); err != nil {
		return nil, fmt.Errorf("clear previous highlights: %w", err)
	}

	kept, dropped := Filter(mismatches, region)
	for _, m := range dropped {
		v.logger.Debug().Int("row", m.Row).Int("col", m.Col).Msg("dropping mismatch outside region or without values")
	}

	report := &HighlightReport{Dropped: dropped}
	origin := region.Origin()
	for _, m := range kept {
		cell := origin.Add(m.Position())
		if err := v.store.SetFill(ctx, cell, v.color); err != nil {
			return report, fmt.Errorf("highlight cell %s: %w", cell, err)
		}
		report.Applied = append(report.Applied, m)

		if err := v.store.AddAnnotation(ctx, cell, m.Annotation()); err != nil {
			v.logger.Warn().Err(err).Str("cell", cell.String()).Msg("annotation failed")
			report.AnnotationFailures = append(report.AnnotationFailures, cell)
		}
	}

	if err := v.store.Sync(ctx); err != nil {
		return report, fmt.Errorf("save highlights: %w", err)
	}

	v.logger.Info().
		Int("highlighted", len(report.Applied)).
		Int("dropped", len(report.Dropped)).
		Int("annotation_failures", len(report.AnnotationFailures)).
		Msg("highlights applied")
	return report, nil
}
