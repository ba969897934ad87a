package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

const comparePrompt = `You are a meticulous data auditor. Compare a spreadsheet table against source data extracted from a document.

Source data (JSON):
%s

Spreadsheet table (JSON array of rows, row 0 first, column 0 first):
%s

Report every cell whose value contradicts the source data. Ignore formatting-only differences (thousands separators, trailing zeros, letter case, date formats that denote the same date).

Return ONLY a JSON array. Each element must be:
{"row": <0-based row index in the table>, "col": <0-based column index in the table>, "expectedValue": "<value from the source>", "actualValue": "<value in the table>"}
Coordinates are indices into the table shown above, never spreadsheet addresses. Return [] when everything matches.`

type rawMismatch struct {
	Row      *int        `json:"row"`
	Col      *int        `json:"col"`
	Expected interface{} `json:"expectedValue"`
	Actual   interface{} `json:"actualValue"`
}

// Compare asks the model for the cells of table that disagree with source.
// An empty list is a valid result.
func (c *Client) Compare(ctx context.Context, source interface{}, table [][]string, instructions string) ([]models.Mismatch, error) {
	srcJSON, err := json.MarshalIndent(source, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal source data: %w", err)
	}
	tableJSON, err := json.Marshal(table)
	if err != nil {
		return nil, fmt.Errorf("marshal table: %w", err)
	}

	prompt := fmt.Sprintf(comparePrompt, srcJSON, tableJSON)
	if s := strings.TrimSpace(instructions); s != "" {
		prompt += "\n\nAdditional instructions from the user:\n" + s
	}

	reply, err := c.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseMismatches(reply)
}

// ParseMismatches decodes a comparison reply. Both a bare array and an object
// wrapping it under "mismatches" are accepted; elements without coordinates
// are skipped.
func ParseMismatches(reply string) ([]models.Mismatch, error) {
	var raw []rawMismatch
	if err := DecodeJSON(reply, &raw); err != nil {
		var wrapped struct {
			Mismatches []rawMismatch `json:"mismatches"`
		}
		if werr := DecodeJSON(reply, &wrapped); werr != nil {
			return nil, fmt.Errorf("decode comparison reply: %w", err)
		}
		raw = wrapped.Mismatches
	}

	out := make([]models.Mismatch, 0, len(raw))
	for _, r := range raw {
		if r.Row == nil || r.Col == nil {
			continue
		}
		out = append(out, models.Mismatch{
			Row:      *r.Row,
			Col:      *r.Col,
			Expected: scalarText(r.Expected),
			Actual:   scalarText(r.Actual),
		})
	}
	return out, nil
}

func scalarText(v interface{}) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			s = fmt.Sprint(t)
		} else {
			s = string(data)
		}
	}
	return &s
}
