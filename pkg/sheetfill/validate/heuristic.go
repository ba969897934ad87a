package validate

import (
	"context"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/analyze"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/mapper"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/populate"
)

// HeuristicComparer compares without a model. It infers the table's layout,
// maps source onto it and reports every planned value that differs from the
// cell holding it. Formatting differences in numbers and letter case are
// ignored; empty source values are not compared.
type HeuristicComparer struct{}

// NewHeuristicComparer returns the offline Comparer.
func NewHeuristicComparer() *HeuristicComparer { return &HeuristicComparer{} }

// Compare implements Comparer.
func (HeuristicComparer) Compare(ctx context.Context, source interface{}, table [][]string, _ string) ([]models.Mismatch, error) {
	region := models.NewRegion("", models.Position{}, table)
	structure, err := analyze.New(analyze.NewHeuristicInferrer()).Analyze(ctx, region)
	if err != nil {
		return nil, err
	}
	rows, err := mapper.New(mapper.NewHeuristicAligner()).Map(ctx, source, structure.Fields)
	if err != nil {
		return nil, err
	}
	placements, err := populate.Plan(rows, structure, models.Position{})
	if err != nil {
		return nil, err
	}

	var out []models.Mismatch
	for _, pl := range placements {
		if !region.Contains(pl.Cell) || pl.Value.IsEmpty() {
			continue
		}
		expected := pl.Value.String()
		actual := region.Value(pl.Cell)
		if !Equivalent(expected, actual) {
			out = append(out, models.NewMismatch(pl.Cell.Row, pl.Cell.Col, expected, actual))
		}
	}
	return out, nil
}

// Equivalent reports whether two cell texts denote the same value, ignoring
// surrounding space, letter case and thousands separators in numbers.
func Equivalent(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if strings.EqualFold(a, b) {
		return true
	}
	fa, errA := strconv.ParseFloat(strings.ReplaceAll(a, ",", ""), 64)
	fb, errB := strconv.ParseFloat(strings.ReplaceAll(b, ",", ""), 64)
	return errA == nil && errB == nil && fa == fb
}
