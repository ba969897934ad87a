// Package mapper aligns extracted document data with the fields of a
// template and produces the rows the population engine writes.
package mapper

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Aligner matches extracted keys to field names. The result must be a JSON
// array of objects keyed by field name.
type Aligner interface {
	Align(ctx context.Context, extracted interface{}, fields []models.Field) (interface{}, error)
}

// Mapper validates and normalizes what its Aligner returns.
type Mapper struct {
	aligner Aligner
	logger  zerolog.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Mapper) { m.logger = l.With().Str("component", "mapper").Logger() }
}

// New returns a Mapper backed by aligner.
func New(aligner Aligner, opts ...Option) *Mapper {
	m := &Mapper{aligner: aligner, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map aligns extracted (an object or an array of objects) with fields. Every
// returned row carries exactly the field names as keys.
func (m *Mapper) Map(ctx context.Context, extracted interface{}, fields []models.Field) ([]models.MappedRow, error) {
	if len(fields) == 0 {
		return nil, models.NewMappingError("no fields to map", nil)
	}

	aligned, err := m.aligner.Align(ctx, extracted, fields)
	if err != nil {
		var me *models.Error
		if errors.As(err, &me) {
			return nil, err
		}
		return nil, models.NewMappingError("alignment failed", err)
	}

	items, ok := aligned.([]interface{})
	if !ok {
		return nil, models.NewMappingError("aligned data is not an array", nil)
	}

	rows := make([]models.MappedRow, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			m.logger.Warn().Int("index", i).Msg("dropping aligned element that is not an object")
			continue
		}
		row, dropped := Normalize(obj, fields)
		if len(dropped) > 0 {
			m.logger.Warn().Int("index", i).Strs("keys", dropped).Msg("dropping keys that are not template fields")
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, models.NewMappingError("no rows left after validation", nil)
	}
	m.logger.Debug().Int("rows", len(rows)).Int("fields", len(fields)).Msg("data mapped")
	return rows, nil
}

// Normalize closes obj over the field names: missing fields become "",
// unknown keys are dropped and returned sorted. Values pass through Sanitize
// and then the field's advisory type.
func Normalize(obj map[string]interface{}, fields []models.Field) (models.MappedRow, []string) {
	row := make(models.MappedRow, len(fields))
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.Name] = true
		v, ok := obj[f.Name]
		if !ok {
			row[f.Name] = models.StringValue("")
			continue
		}
		row[f.Name] = Coerce(Sanitize(v), f.DataType)
	}

	var dropped []string
	for k := range obj {
		if !known[k] {
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return row, dropped
}
