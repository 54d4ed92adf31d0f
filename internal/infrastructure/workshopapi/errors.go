package workshopapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

const maxPlainMessage = 300

// decodeError turns a non-2xx response into a domain error. The message is
// taken from "message", "error" or "detail", then from a plain string body.
// A 400 whose object carries none of those keys is a field validation error.
func decodeError(status int, body []byte) error {
	trimmed := bytes.TrimSpace(body)

	var obj map[string]json.RawMessage
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &obj) == nil {
		for _, key := range []string{"message", "error", "detail"} {
			if msg := stringValue(obj[key]); msg != "" {
				return &domain.APIError{Status: status, Message: msg}
			}
		}
		if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
			if fields := fieldErrors(obj); len(fields) > 0 {
				return &domain.ValidationError{Fields: fields}
			}
		}
		return &domain.APIError{Status: status}
	}

	var s string
	if len(trimmed) > 0 && trimmed[0] == '"' && json.Unmarshal(trimmed, &s) == nil {
		return &domain.APIError{Status: status, Message: s}
	}

	if plain := string(trimmed); plain != "" && len(plain) <= maxPlainMessage && !strings.HasPrefix(plain, "<") {
		return &domain.APIError{Status: status, Message: plain}
	}
	return &domain.APIError{Status: status}
}

func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return ""
}

// fieldErrors accepts {"field": ["msg", ...]} and {"field": "msg"}.
func fieldErrors(obj map[string]json.RawMessage) map[string][]string {
	out := make(map[string][]string, len(obj))
	for field, raw := range obj {
		var msgs []string
		if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
			out[field] = msgs
			continue
		}
		if s := stringValue(raw); s != "" {
			out[field] = []string{s}
		}
	}
	return out
}
