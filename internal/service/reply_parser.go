package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"persona-relay/internal/models"
)

// Ключи, которые модель должна вернуть в JSON-ответе.
const (
	replyKeyAction     = "action"
	replyKeyCommentary = "commentary"
)

// parseEventReply разбирает сырой текст ответа модели.
// Отсутствующий ключ заменяется значением по умолчанию и попадает в missing.
// Текст, не являющийся JSON объектом, и ключ со значением не-строкой дают ErrMalformedReply.
func parseEventReply(text string) (result models.EventResult, missing []string, err error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.EventResult{}, nil, models.ErrEmptyResponse
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return models.EventResult{}, nil, fmt.Errorf("%w: %v", models.ErrMalformedReply, err)
	}
	// "null" разбирается без ошибки в nil map
	if fields == nil {
		return models.EventResult{}, nil, fmt.Errorf("%w: top-level value is null", models.ErrMalformedReply)
	}

	action, ok, err := stringField(fields, replyKeyAction)
	if err != nil {
		return models.EventResult{}, nil, err
	}
	if !ok {
		action = models.DefaultAction
		missing = append(missing, replyKeyAction)
	}

	commentary, ok, err := stringField(fields, replyKeyCommentary)
	if err != nil {
		return models.EventResult{}, nil, err
	}
	if !ok {
		commentary = models.DefaultCommentary
		missing = append(missing, replyKeyCommentary)
	}

	return models.EventResult{Action: action, Commentary: commentary}, missing, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool, error) {
	raw, ok := fields[key]
	if !ok {
		return "", false, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false, fmt.Errorf("%w: %q is null", models.ErrMalformedReply, key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, fmt.Errorf("%w: %q is not a string", models.ErrMalformedReply, key)
	}
	return s, true, nil
}
