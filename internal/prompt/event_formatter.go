// Package prompt собирает текст промта для провайдера из входных данных игры.
package prompt

import (
	"fmt"
	"strings"

	"persona-relay/internal/models"
)

const gameSetting = "You are playing a role in a flood-resilience city game called SurgeCity."

// Формат ответа, который мы просим у модели. Ключи должны совпадать с models.EventResult.
const replyFormat = `{
  "action": "short emergency instruction or decision",
  "commentary": "1–2 emotionally realistic sentences from this persona's perspective"
}`

// BuildEventPrompt форматирует персону и текст события в один промт.
// Текст события подставляется как есть, внутри тройных кавычек.
func BuildEventPrompt(p models.Persona, eventText string) string {
	var sb strings.Builder

	// 1. Описание персоны
	sb.WriteString("\n")
	sb.WriteString(gameSetting)
	sb.WriteString("\n\nPersona:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", p.PersonaName)
	fmt.Fprintf(&sb, "- Type: %s\n", p.PersonaType)
	fmt.Fprintf(&sb, "- Tone: %s\n", p.Tone)
	fmt.Fprintf(&sb, "- Urgency: %s\n", p.Urgency)
	fmt.Fprintf(&sb, "- Empathy: %s\n", p.Empathy)
	fmt.Fprintf(&sb, "- Harshness Level (0-100): %d\n", p.Harshness)
	sb.WriteString("\nPersona Description:\n")
	sb.WriteString(p.Description)
	sb.WriteString("\n")

	sb.WriteString("\n")

	// 2. Событие и задача
	sb.WriteString("\nGame Event:\n")
	sb.WriteString(`"""`)
	sb.WriteString(eventText)
	sb.WriteString(`"""`)
	sb.WriteString("\n\nTask:\nRespond in character as this persona.\n\n")
	sb.WriteString("Return ONLY valid JSON in this format:\n")
	sb.WriteString(replyFormat)
	sb.WriteString("\n")

	return sb.String()
}

// BuildEventPromptFor - то же самое для целого запроса.
func BuildEventPromptFor(req models.EventRequest) string {
	return BuildEventPrompt(req.Persona, req.EventText)
}
