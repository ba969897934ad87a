package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/cache"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

const extractPrompt = `You are a document data extraction expert. Read the attached document and extract its structured data.

Return ONLY valid JSON:
- a single JSON object for a document describing one record (invoice, form, certificate)
- a JSON array of objects when the document lists several records of the same kind (line items, transactions, rows of a table)
- use descriptive keys taken from the document's own labels
- keep numbers as JSON numbers without currency symbols or thousands separators
- write dates as YYYY-MM-DD
- use null for values that are not present
Do not add commentary or markdown.`

// Extract sends the document to the model and returns the decoded JSON value
// (an object or an array). Replies that are not JSON after fence stripping
// fail with an extraction error.
func (c *Client) Extract(ctx context.Context, doc *Document, instructions string) (interface{}, error) {
	key := cache.Key([]byte(c.model), []byte(instructions), doc.Data)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil {
			var v interface{}
			if err := json.Unmarshal(cached, &v); err == nil {
				c.logger.Debug().Str("document", doc.Name).Msg("extraction cache hit")
				return v, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Msg("extraction cache lookup failed")
		}
	}

	docParts, err := doc.parts(ctx, c.pdfQuality)
	if err != nil {
		return nil, models.NewExtractionError("prepare document "+doc.Name, err)
	}

	prompt := extractPrompt
	if s := strings.TrimSpace(instructions); s != "" {
		prompt += "\n\nAdditional instructions from the user:\n" + s
	}
	parts := append([]ContentPart{textPart(prompt)}, docParts...)

	reply, err := c.chat(ctx, parts)
	if err != nil {
		return nil, err
	}

	var v interface{}
	if err := DecodeJSON(reply, &v); err != nil {
		return nil, models.NewExtractionError("model reply is not JSON", err)
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
	default:
		return nil, models.NewExtractionError("model reply is not a JSON object or array", nil)
	}

	if c.cache != nil {
		if data, err := json.Marshal(v); err == nil {
			if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
				c.logger.Warn().Err(err).Msg("extraction cache store failed")
			}
		}
	}
	return v, nil
}
