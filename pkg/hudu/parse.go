package hudu

import (
	"encoding/json"
	"fmt"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/pagination"
)

// decodeResource unwraps a single-record envelope ({"company": {...}}) and
// decodes the record. A payload that does not match the schema classifies
// as a validation failure, which is never retried.
func decodeResource[T any](body []byte, key string) (*T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, validationErr(fmt.Sprintf("decode %s envelope", key), err)
	}

	raw, ok := envelope[key]
	if !ok {
		// Some endpoints answer with the bare record.
		raw = body
	}

	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, validationErr(fmt.Sprintf("decode %s record", key), err)
	}

	return &record, nil
}

// decodeList extracts and decodes the records of a list response body.
// itemsKey names the envelope field; endpoints that answer with a bare
// array pass through unchanged.
func decodeList[T any](body []byte, itemsKey string) ([]T, error) {
	raw, err := pagination.ExtractItems(body, itemsKey)
	if err != nil {
		return nil, validationErr(fmt.Sprintf("extract %s list", itemsKey), err)
	}

	records := make([]T, 0, len(raw))
	for i, item := range raw {
		var record T
		if err := json.Unmarshal(item, &record); err != nil {
			return nil, validationErr(fmt.Sprintf("decode %s item %d", itemsKey, i), err)
		}
		records = append(records, record)
	}

	return records, nil
}

func validationErr(message string, err error) error {
	return &client.APIError{
		Kind:    client.ErrorKindValidation,
		Message: message,
		Err:     err,
	}
}
