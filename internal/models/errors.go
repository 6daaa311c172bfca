package models

import "errors"

// Provider & reply errors
var (
	// ErrAIGenerationFailed - провайдер вернул ошибку (сеть, не-2xx, таймаут).
	ErrAIGenerationFailed = errors.New("ai generation failed")
	// ErrEmptyResponse - провайдер ответил, но текста в ответе нет.
	ErrEmptyResponse = errors.New("ai returned an empty response")
	// ErrMalformedReply - текст ответа не является ожидаемым JSON объектом.
	ErrMalformedReply = errors.New("ai reply is not a valid event result")

	// ErrInvalidInput - тело запроса не соответствует схеме.
	ErrInvalidInput = errors.New("invalid input data")
)
