// Package analyze classifies a region into a template structure: its
// orientation and the label and value position of every field. Inference is
// delegated to an Inferrer; every result is validated before it is returned.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Inferrer proposes a structure for a region. Positions must be relative to
// the region's grid.
type Inferrer interface {
	Infer(ctx context.Context, region models.Region) (*models.TemplateStructure, error)
}

// Analyzer validates what its Inferrer proposes.
type Analyzer struct {
	inferrer Inferrer
	logger   zerolog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) { a.logger = l.With().Str("component", "analyze").Logger() }
}

// New returns an Analyzer backed by inferrer.
func New(inferrer Inferrer, opts ...Option) *Analyzer {
	a := &Analyzer{inferrer: inferrer, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze infers the structure of region. A result with a field whose label
// and value share a cell, or whose positions fall outside region, is
// rejected as a whole.
func (a *Analyzer) Analyze(ctx context.Context, region models.Region) (*models.TemplateStructure, error) {
	if region.Empty() {
		return nil, models.NewEmptyRegionError("cannot analyze an empty region", nil)
	}

	proposed, err := a.inferrer.Infer(ctx, region)
	if err != nil {
		var me *models.Error
		if errors.As(err, &me) {
			return nil, err
		}
		return nil, models.NewAnalysisError("", "structure inference failed", err)
	}

	if err := Validate(proposed, region); err != nil {
		return nil, err
	}

	out := &models.TemplateStructure{
		Orientation: proposed.Orientation,
		Fields:      make([]models.Field, len(proposed.Fields)),
	}
	seen := make(map[string]bool, len(proposed.Fields))
	for i, f := range proposed.Fields {
		dt, ok := models.ParseDataType(string(f.DataType))
		if !ok {
			a.logger.Warn().Str("field", f.Name).Str("data_type", string(f.DataType)).Msg("unknown data type, using string")
		}
		f.DataType = dt
		if seen[f.Name] {
			a.logger.Warn().Str("field", f.Name).Msg("duplicate field name")
		}
		seen[f.Name] = true
		out.Fields[i] = f
	}

	a.logger.Debug().
		Str("orientation", string(out.Orientation)).
		Int("fields", len(out.Fields)).
		Msg("template structure inferred")
	return out, nil
}

// Validate checks s against region: a known orientation, at least one named
// field, distinct label and value positions, and both positions inside
// [0,Rows) x [0,Cols).
func Validate(s *models.TemplateStructure, region models.Region) error {
	if s == nil {
		return models.NewAnalysisError("", "no structure returned", nil)
	}
	if !s.Orientation.Valid() {
		return models.NewAnalysisError("", fmt.Sprintf("unknown orientation %q", s.Orientation), nil)
	}
	if len(s.Fields) == 0 {
		return models.NewAnalysisError("", "no fields detected", nil)
	}

	for i, f := range s.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return models.NewAnalysisError("", fmt.Sprintf("field #%d has no name", i), nil)
		}
		if f.LabelPosition == f.ValuePosition {
			return positionError(f.Name, f.ValuePosition,
				"label and value positions are identical; writing would overwrite the label")
		}
		if !region.Contains(f.LabelPosition) {
			return positionError(f.Name, f.LabelPosition,
				fmt.Sprintf("labelPosition %s is outside the region bounds %s", f.LabelPosition, bounds(region)))
		}
		if !region.Contains(f.ValuePosition) {
			return positionError(f.Name, f.ValuePosition,
				fmt.Sprintf("valuePosition %s is outside the region bounds %s", f.ValuePosition, bounds(region)))
		}
	}
	return nil
}

func positionError(field string, at models.Position, msg string) error {
	e := models.NewAnalysisError(field, msg, nil)
	e.Cell = &at
	return e
}

func bounds(r models.Region) string {
	return fmt.Sprintf("rows [0,%d) cols [0,%d)", r.Rows, r.Cols)
}
