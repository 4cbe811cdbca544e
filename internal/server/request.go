package server

import (
	"encoding/json"
	"errors"
	"strings"
)

var errInvalidFormat = errors.New("invalid request format")

type analyzeEnvelope struct {
	Query   string          `json:"query"`
	Payload json.RawMessage `json:"payload"`
}

// extractQuery digs the query string out of the request body. Hosts have
// delivered the payload in several shapes over time: a plain object, a
// doubly-encoded JSON string, and the same two variants nested under a
// legacy "payload" field. All are accepted; a body that parses but holds
// no query returns ("", nil).
func extractQuery(body []byte) (string, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", nil
	}

	var envelope analyzeEnvelope
	if err := json.Unmarshal([]byte(trimmed), &envelope); err == nil {
		if envelope.Query != "" {
			return envelope.Query, nil
		}
		if len(envelope.Payload) > 0 {
			return queryFromPayload(envelope.Payload)
		}
		return "", nil
	}

	// The whole body may be a JSON string wrapping the real JSON.
	var wrapped string
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil {
		var inner analyzeEnvelope
		if err := json.Unmarshal([]byte(wrapped), &inner); err != nil {
			return "", errInvalidFormat
		}
		return inner.Query, nil
	}

	return "", errInvalidFormat
}

func queryFromPayload(payload json.RawMessage) (string, error) {
	// Payload as an object: {"payload": {"query": "..."}}
	var obj struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(payload, &obj); err == nil {
		return obj.Query, nil
	}

	// Payload as an encoded string: {"payload": "{\"query\": \"...\"}"}
	var encoded string
	if err := json.Unmarshal(payload, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &obj); err != nil {
			return "", errInvalidFormat
		}
		return obj.Query, nil
	}

	return "", errInvalidFormat
}
