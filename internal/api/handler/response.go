package handler

import (
	"fmt"

	"github.com/laser-workshop/workshop-console/internal/i18n"
)

// Notification levels shown by the console.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// notice is a translated user-facing message, optionally with the affected
// resource.
type notice struct {
	Message string `json:"message"`
	Level   string `json:"level"`
	Data    any    `json:"data,omitempty"`
}

func success(cat *i18n.Catalog, key string, params map[string]any, data any) notice {
	return notice{Message: cat.Translate(key, params), Level: LevelSuccess, Data: data}
}

func info(cat *i18n.Catalog, key string, params map[string]any, data any) notice {
	return notice{Message: cat.Translate(key, params), Level: LevelInfo, Data: data}
}

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Level    string   `json:"level"`
	Fields   []string `json:"fields,omitempty"`
	Redirect string   `json:"redirect,omitempty"`
}

// RequestError is a rejected request whose message is a catalog key, so it
// is rendered in the active language.
type RequestError struct {
	Key    string
	Params map[string]any
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("bad request: %s %v", e.Key, e.Params)
}

func badRequest(key string, params map[string]any) error {
	return &RequestError{Key: key, Params: params}
}
