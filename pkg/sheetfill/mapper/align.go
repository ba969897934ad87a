package mapper

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/llm"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

const alignPrompt = `You are mapping data extracted from a document onto the fields of a spreadsheet template.

Template fields (name, description, data type):
%s

Extracted data (JSON):
%s

Return ONLY a JSON array of objects. Each object is one output record and must use exactly the template field names above as keys.
- If the extracted data describes a single record, return an array with one object.
- If it contains a list of records (line items, transactions), return one object per list element.
- Use "" for fields with no matching data.
- Format numbers as plain numbers, dates as YYYY-MM-DD, booleans as true or false.`

// ModelAligner asks a language model to align extracted keys with fields.
type ModelAligner struct {
	completer llm.Completer
}

// NewModelAligner returns an Aligner backed by completer.
func NewModelAligner(completer llm.Completer) *ModelAligner {
	return &ModelAligner{completer: completer}
}

// Align implements Aligner.
func (a *ModelAligner) Align(ctx context.Context, extracted interface{}, fields []models.Field) (interface{}, error) {
	data, err := json.MarshalIndent(extracted, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal extracted data: %w", err)
	}

	var b strings.Builder
	for _, f := range fields {
		desc := f.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(&b, "- %q: %s (%s)\n", f.Name, desc, f.DataType)
	}

	reply, err := a.completer.Complete(ctx, fmt.Sprintf(alignPrompt, b.String(), data))
	if err != nil {
		return nil, err
	}

	var out interface{}
	if err := llm.DecodeJSON(reply, &out); err != nil {
		return nil, models.NewMappingError("malformed mapping from model", err)
	}
	return out, nil
}

// HeuristicAligner matches keys to field names after normalizing case,
// spacing and punctuation. Nested objects are searched one level deep. When
// an object holds exactly one array of records, each record becomes a row
// and inherits the object's scalar values.
type HeuristicAligner struct{}

// NewHeuristicAligner returns the offline Aligner.
func NewHeuristicAligner() *HeuristicAligner { return &HeuristicAligner{} }

// Align implements Aligner.
func (HeuristicAligner) Align(_ context.Context, extracted interface{}, fields []models.Field) (interface{}, error) {
	var records []interface{}
	switch t := extracted.(type) {
	case []interface{}:
		records = t
	case map[string]interface{}:
		records = unwrap(t)
	default:
		return nil, models.NewMappingError(fmt.Sprintf("extracted data is %T, not an object or array", extracted), nil)
	}

	out := make([]interface{}, 0, len(records))
	for _, rec := range records {
		obj, ok := rec.(map[string]interface{})
		if !ok {
			// left for the mapper to drop
			out = append(out, rec)
			continue
		}
		index := flatten(obj)
		row := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			if v, ok := lookup(index, f.Name); ok {
				row[f.Name] = v
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func unwrap(obj map[string]interface{}) []interface{} {
	var listKey string
	lists := 0
	for k, v := range obj {
		if arr, ok := v.([]interface{}); ok && len(arr) > 0 && allObjects(arr) {
			listKey = k
			lists++
		}
	}
	if lists != 1 {
		return []interface{}{obj}
	}

	items := obj[listKey].([]interface{})
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		merged := make(map[string]interface{})
		for k, v := range obj {
			if k == listKey {
				continue
			}
			merged[k] = v
		}
		for k, v := range item.(map[string]interface{}) {
			merged[k] = v
		}
		out = append(out, merged)
	}
	return out
}

func allObjects(arr []interface{}) bool {
	for _, v := range arr {
		if _, ok := v.(map[string]interface{}); !ok {
			return false
		}
	}
	return true
}

// flatten indexes obj by normalized key. Keys of nested objects are indexed
// both on their own and prefixed with the parent key; top-level keys win.
func flatten(obj map[string]interface{}) map[string]interface{} {
	index := make(map[string]interface{}, len(obj))
	var nested []string
	for k, v := range obj {
		index[normalize(k)] = v
		if _, ok := v.(map[string]interface{}); ok {
			nested = append(nested, k)
		}
	}
	sort.Strings(nested)
	for _, parent := range nested {
		for k, v := range obj[parent].(map[string]interface{}) {
			for _, key := range []string{normalize(parent + k), normalize(k)} {
				if _, exists := index[key]; !exists {
					index[key] = v
				}
			}
		}
	}
	return index
}

func lookup(index map[string]interface{}, name string) (interface{}, bool) {
	want := normalize(name)
	if want == "" {
		return nil, false
	}
	if v, ok := index[want]; ok {
		return v, true
	}

	// fall back to the shortest key containing the name or contained in it
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if len(k) >= 3 && (strings.Contains(k, want) || strings.Contains(want, k)) {
			return index[k], true
		}
	}
	return nil, false
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
