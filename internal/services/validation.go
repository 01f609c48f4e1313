package services

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries one user-facing message per failed field, in
// field declaration order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// fieldMessages maps "<form field>.<rule>" to the message shown to the user.
var fieldMessages = map[string]string{
	"titulo.required":    "Agrega un titulo a la vacante",
	"empresa.required":   "Agrega una empresa",
	"ubicacion.required": "Agrega una Ubicacion",
	"contrato.required":  "Selecciona el tipo de contrato",
	"skills.required":    "Agrega al menos una habilidad",
	"nombre.required":    "Agrega tu nombre",
	"email.required":     "Agrega tu email",
	"email.email":        "El email no es válido",
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates a request struct and returns a *ValidationError listing
// every failed field, or nil.
func (v *Validator) Struct(req interface{}) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("El campo %s no es válido", fe.Field())
		}
		messages = append(messages, msg)
	}
	return &ValidationError{Messages: messages}
}

// sanitize trims and HTML-escapes free text before it is stored.
func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := sanitize(*s)
	return &clean
}
