package models

// Значения, которые подставляются вместо отсутствующих полей ответа модели.
const (
	DefaultAction     = "No action"
	DefaultCommentary = "No commentary"
)

// Безопасный ответ, который отдается клиенту при любой ошибке провайдера.
const (
	FallbackAction     = "Use rule-based evacuation"
	FallbackCommentary = "The AI failed to respond correctly. Falling back to a simple safety rule."
)

// StatusMessage возвращается на GET /.
const StatusMessage = "LLM server running with Gemini Flash 2.0"

// Persona описывает персонажа, от лица которого модель реагирует на событие.
// Живет ровно один запрос.
type Persona struct {
	PersonaName string `json:"personaName"`
	PersonaType string `json:"personaType"`
	Tone        string `json:"tone"`
	Urgency     string `json:"urgency"`
	Empathy     string `json:"empathy"`
	Harshness   int    `json:"harshness"` // Обычно 0-100, границы не проверяются
	Description string `json:"description"`
}

// EventRequest - персона плюс текст игрового события.
type EventRequest struct {
	Persona   Persona `json:"persona"`
	EventText string  `json:"eventText"`
}

// EventResult - то, что получает игровой движок.
type EventResult struct {
	Action     string `json:"action"`
	Commentary string `json:"commentary"`
}

// FallbackEventResult возвращает фиксированный безопасный результат.
func FallbackEventResult() EventResult {
	return EventResult{
		Action:     FallbackAction,
		Commentary: FallbackCommentary,
	}
}

// IsFallback сообщает, совпадает ли результат с безопасным ответом.
func (r EventResult) IsFallback() bool {
	return r == FallbackEventResult()
}
