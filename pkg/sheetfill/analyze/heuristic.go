package analyze

import (
	"context"
	"strings"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

var (
	captionLabels = map[string]bool{"field": true, "key": true, "label": true, "item": true, "property": true, "attribute": true, "name": true}
	captionValues = map[string]bool{"value": true, "data": true, "answer": true, "entry": true, "content": true}

	numberHints  = []string{"total", "amount", "price", "qty", "quantity", "cost", "tax", "age", "rate", "count", "sum", "balance", "fee"}
	dateHints    = []string{"date", "day", "due on", "issued", "birth"}
	booleanHints = []string{"paid", "active", "approved", "enabled", "yes/no", "is "}
)

// HeuristicInferrer classifies a region without a model. A header row of three
// or more labels is a horizontal table; a column of labels with at most two
// cells in its first row is a vertical form.
type HeuristicInferrer struct{}

// NewHeuristicInferrer returns the offline Inferrer.
func NewHeuristicInferrer() *HeuristicInferrer { return &HeuristicInferrer{} }

// Infer implements Inferrer.
func (HeuristicInferrer) Infer(_ context.Context, region models.Region) (*models.TemplateStructure, error) {
	top, ok := firstNonEmptyRow(region, 0)
	if !ok {
		return &models.TemplateStructure{Orientation: models.OrientationHorizontal}, nil
	}

	// a lone title above a header row is not part of the template
	if filled(region, top) == 1 {
		if next, ok := firstNonEmptyRow(region, top+1); ok && filled(region, next) >= 2 {
			top = next
		}
	}

	header := nonEmptyCols(region, top)
	if isCaption(region, top, header) {
		return vertical(region, top+1, header[0], header[1]), nil
	}

	labelCol := header[0]
	below := 0
	for r := top + 1; r < region.Rows; r++ {
		if strings.TrimSpace(region.Cells[r][labelCol]) != "" {
			below++
		}
	}

	if len(header) <= 2 && below >= 1 {
		return vertical(region, top, labelCol, labelCol+1), nil
	}
	return horizontal(region, top, header), nil
}

func vertical(region models.Region, from, labelCol, valueCol int) *models.TemplateStructure {
	s := &models.TemplateStructure{Orientation: models.OrientationVertical}
	if valueCol >= region.Cols {
		return s
	}
	for r := from; r < region.Rows; r++ {
		name := strings.TrimSpace(region.Cells[r][labelCol])
		if name == "" {
			continue
		}
		s.Fields = append(s.Fields, models.Field{
			Name:          name,
			LabelPosition: models.Position{Row: r, Col: labelCol},
			ValuePosition: models.Position{Row: r, Col: valueCol},
			DataType:      guessType(name),
		})
	}
	return s
}

func horizontal(region models.Region, header int, cols []int) *models.TemplateStructure {
	s := &models.TemplateStructure{Orientation: models.OrientationHorizontal}
	if header+1 >= region.Rows {
		return s
	}
	for _, c := range cols {
		name := strings.TrimSpace(region.Cells[header][c])
		s.Fields = append(s.Fields, models.Field{
			Name:          name,
			LabelPosition: models.Position{Row: header, Col: c},
			ValuePosition: models.Position{Row: header + 1, Col: c},
			DataType:      guessType(name),
		})
	}
	return s
}

func isCaption(region models.Region, row int, cols []int) bool {
	if len(cols) != 2 {
		return false
	}
	label := strings.ToLower(strings.TrimSpace(region.Cells[row][cols[0]]))
	value := strings.ToLower(strings.TrimSpace(region.Cells[row][cols[1]]))
	return captionLabels[label] && captionValues[value]
}

func guessType(name string) models.DataType {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, dateHints):
		return models.DataTypeDate
	case containsAny(n, booleanHints):
		return models.DataTypeBoolean
	case containsAny(n, numberHints):
		return models.DataTypeNumber
	default:
		return models.DataTypeString
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstNonEmptyRow(region models.Region, from int) (int, bool) {
	for r := from; r < region.Rows; r++ {
		if filled(region, r) > 0 {
			return r, true
		}
	}
	return 0, false
}

func filled(region models.Region, row int) int {
	return len(nonEmptyCols(region, row))
}

func nonEmptyCols(region models.Region, row int) []int {
	var cols []int
	for c, v := range region.Cells[row] {
		if strings.TrimSpace(v) != "" {
			cols = append(cols, c)
		}
	}
	return cols
}
