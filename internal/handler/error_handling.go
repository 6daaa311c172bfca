package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"persona-relay/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Поле для ошибок, относящихся ко всему телу запроса.
const bodyField = "body"

var registerTagNameOnce sync.Once

// registerJSONTagNames заставляет валидатор gin называть поля по json-тегам.
func registerJSONTagNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// handleBindError отвечает 422 со списком проблемных полей.
func handleBindError(c *gin.Context, err error, logger *zap.Logger) {
	details := bindErrorDetails(err)
	logger.Warn("Invalid request body",
		zap.String("path", c.Request.URL.Path),
		zap.Any("details", details),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:   models.ErrInvalidInput.Error(),
		Details: details,
	})
}

func bindErrorDetails(err error) []models.FieldError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]models.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, models.FieldError{
				Field:   fieldPath(fe.Namespace()),
				Message: validationMessage(fe),
			})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = bodyField
		}
		return []models.FieldError{{
			Field:   field,
			Message: fmt.Sprintf("expected %s, got %s", typeName(typeErr.Type), typeErr.Value),
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []models.FieldError{{
			Field:   bodyField,
			Message: fmt.Sprintf("malformed JSON at offset %d: %s", syntaxErr.Offset, syntaxErr.Error()),
		}}
	}

	if errors.Is(err, io.EOF) {
		return []models.FieldError{{Field: bodyField, Message: "request body is empty"}}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return []models.FieldError{{Field: bodyField, Message: "request body is truncated"}}
	}

	return []models.FieldError{{Field: bodyField, Message: err.Error()}}
}

// fieldPath убирает имя корневой структуры: "eventRequestDTO.persona.tone" -> "persona.tone".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.Kind().String()
	}
}
