package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/parafile/parafile/internal/model"
)

// cleanMarkdownWrapper strips the markdown code fences some models wrap
// around JSON despite being told not to.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// parseClassification extracts the category verdict from the model's
// response. Confidence is clamped to the 0 to 100 range.
func parseClassification(content string) (model.ClassificationResult, error) {
	var jsonResp struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if jsonResp.Category == "" {
		return model.ClassificationResult{}, fmt.Errorf("no category found in response")
	}

	confidence := jsonResp.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return model.ClassificationResult{
		Category:   jsonResp.Category,
		Confidence: confidence,
		Reasoning:  jsonResp.Reasoning,
	}, nil
}

// parseValue extracts the named placeholder value from the model's
// response. Non-string values are formatted, so {"invoice_id": 1042}
// yields "1042". A missing or empty value is an error.
func parseValue(content, name string) (string, error) {
	content = cleanMarkdownWrapper(content)

	var payload map[string]any
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w", err)
	}

	raw, ok := payload[name]
	if !ok {
		return "", fmt.Errorf("no value for %q in response", name)
	}

	var value string
	switch v := raw.(type) {
	case string:
		value = v
	case nil:
		value = ""
	default:
		value = fmt.Sprint(v)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("empty value for %q in response", name)
	}
	return value, nil
}
