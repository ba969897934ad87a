package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFence removes a surrounding markdown code fence (```json ... ```)
// from a model reply.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	// Drop the opening fence and its language tag
	if idx := strings.Index(content, "\n"); idx >= 0 {
		content = content[idx+1:]
	} else {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// DecodeJSON strips code fences and decodes the first JSON object or array in
// content into v. Prose around the JSON payload is tolerated.
func DecodeJSON(content string, v interface{}) error {
	content = StripCodeFence(content)
	if content == "" {
		return fmt.Errorf("empty response")
	}

	if err := json.Unmarshal([]byte(content), v); err == nil {
		return nil
	}

	start := strings.IndexAny(content, "{[")
	if start < 0 {
		return fmt.Errorf("no JSON found in response")
	}
	closer := "}"
	if content[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(content, closer)
	if end <= start {
		return fmt.Errorf("no JSON found in response")
	}

	if err := json.Unmarshal([]byte(content[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}
