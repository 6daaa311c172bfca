package handler

import "persona-relay/internal/models"

// Поля-указатели позволяют отличить отсутствующее или null поле от нулевого значения:
// harshness=0 и пустые строки допустимы, отсутствие поля - нет.

type personaDTO struct {
	PersonaName *string `json:"personaName" binding:"required"`
	PersonaType *string `json:"personaType" binding:"required"`
	Tone        *string `json:"tone" binding:"required"`
	Urgency     *string `json:"urgency" binding:"required"`
	Empathy     *string `json:"empathy" binding:"required"`
	Harshness   *int    `json:"harshness" binding:"required"`
	Description *string `json:"description" binding:"required"`
}

type eventRequestDTO struct {
	Persona   *personaDTO `json:"persona" binding:"required"`
	EventText *string     `json:"eventText" binding:"required"`
}

// toModel вызывается только после успешной валидации, все указатели не nil.
func (d *eventRequestDTO) toModel() models.EventRequest {
	return models.EventRequest{
		Persona: models.Persona{
			PersonaName: *d.Persona.PersonaName,
			PersonaType: *d.Persona.PersonaType,
			Tone:        *d.Persona.Tone,
			Urgency:     *d.Persona.Urgency,
			Empathy:     *d.Persona.Empathy,
			Harshness:   *d.Persona.Harshness,
			Description: *d.Persona.Description,
		},
		EventText: *d.EventText,
	}
}
