package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError указывает на конкретное поле тела запроса, не прошедшее проверку.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StatusResponse - ответ на GET /.
type StatusResponse struct {
	Message string `json:"message"`
}
