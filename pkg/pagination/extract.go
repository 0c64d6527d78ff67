package pagination

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ExtractItems pulls the record list out of a Hudu list response body.
// Endpoints answer either with a bare JSON array or with the array nested
// under a resource-specific key ({"companies": [...]}). itemsKey selects
// the nested field; when empty and the body is an object with exactly one
// array field, that field is used.
func ExtractItems(body []byte, itemsKey string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode item array: %w", err)
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode list envelope: %w", err)
	}

	raw, ok := envelope[itemsKey]
	if itemsKey == "" || !ok {
		if itemsKey != "" {
			return nil, fmt.Errorf("list envelope has no %q field", itemsKey)
		}
		if len(envelope) != 1 {
			return nil, fmt.Errorf("ambiguous list envelope with %d fields", len(envelope))
		}
		for _, v := range envelope {
			raw = v
		}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode nested item array: %w", err)
	}

	return items, nil
}
