package sheetfill

import (
	"context"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/llm"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Extractor turns a document into JSON data: an object or an array.
type Extractor interface {
	Extract(ctx context.Context, doc *llm.Document, instructions string) (interface{}, error)
}

// JSONExtractor reads documents that already are JSON.
type JSONExtractor struct{}

// Extract implements Extractor.
func (JSONExtractor) Extract(_ context.Context, doc *llm.Document, _ string) (interface{}, error) {
	if !doc.IsJSON() && !doc.IsText() {
		return nil, models.NewExtractionError("offline mode reads JSON documents only, got "+doc.MIME, nil)
	}

	var v interface{}
	if err := llm.DecodeJSON(string(doc.Data), &v); err != nil {
		return nil, models.NewExtractionError("document "+doc.Name+" is not JSON", err)
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return v, nil
	default:
		return nil, models.NewExtractionError("document "+doc.Name+" is not a JSON object or array", nil)
	}
}
