package analyze

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/llm"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

const inferPrompt = `You are analyzing a spreadsheet template. The grid below has %d rows and %d columns.
It is a JSON array of rows; grid[row][col] is the text of one cell, empty strings are blank cells.

%s

Decide the template's orientation:
- "vertical": a key/value form. Labels run down a column and each value is written beside its label. It holds one record.
- "horizontal": a table. Labels form a header row and values are written in the rows below, one row per record.

Return ONLY this JSON:
{
  "orientation": "vertical" | "horizontal",
  "fields": [
    {
      "name": "<label text exactly as in the grid>",
      "labelPosition": {"row": <int>, "col": <int>},
      "valuePosition": {"row": <int>, "col": <int>},
      "description": "<what value belongs in this field>",
      "dataType": "string" | "number" | "date" | "boolean"
    }
  ]
}

Coordinate rules:
- row and col are 0-based indices into the grid above: 0 <= row < %d and 0 <= col < %d.
- Never use absolute sheet coordinates or addresses like "B3".
- labelPosition and valuePosition must never be the same cell.
- For vertical templates the value is normally one column to the right of the label.
- For horizontal templates the value is normally one row below the label.
- Ignore caption rows such as "Field | Value" that only describe the columns.`

// ModelInferrer asks a language model for the structure.
type ModelInferrer struct {
	completer llm.Completer
}

// NewModelInferrer returns an Inferrer backed by completer.
func NewModelInferrer(completer llm.Completer) *ModelInferrer {
	return &ModelInferrer{completer: completer}
}

type rawStructure struct {
	Orientation string     `json:"orientation"`
	Fields      []rawField `json:"fields"`
}

type rawField struct {
	Name          string           `json:"name"`
	LabelPosition *models.Position `json:"labelPosition"`
	ValuePosition *models.Position `json:"valuePosition"`
	Description   string           `json:"description"`
	DataType      string           `json:"dataType"`
}

// Infer implements Inferrer.
func (m *ModelInferrer) Infer(ctx context.Context, region models.Region) (*models.TemplateStructure, error) {
	grid, err := json.Marshal(region.Cells)
	if err != nil {
		return nil, fmt.Errorf("marshal grid: %w", err)
	}
	prompt := fmt.Sprintf(inferPrompt, region.Rows, region.Cols, grid, region.Rows, region.Cols)

	reply, err := m.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var raw rawStructure
	if err := llm.DecodeJSON(reply, &raw); err != nil {
		return nil, models.NewAnalysisError("", "malformed structure from model", err)
	}

	out := &models.TemplateStructure{
		Orientation: models.Orientation(raw.Orientation),
		Fields:      make([]models.Field, 0, len(raw.Fields)),
	}
	for _, f := range raw.Fields {
		if f.LabelPosition == nil || f.ValuePosition == nil {
			return nil, models.NewAnalysisError(f.Name, "field is missing labelPosition or valuePosition", nil)
		}
		out.Fields = append(out.Fields, models.Field{
			Name:          f.Name,
			LabelPosition: *f.LabelPosition,
			ValuePosition: *f.ValuePosition,
			Description:   f.Description,
			DataType:      models.DataType(f.DataType),
		})
	}
	return out, nil
}
