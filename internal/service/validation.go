package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// validationDetails flattens validator errors into per-field messages.
func validationDetails(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("El campo %s es obligatorio", fe.Field()))
		case "email":
			details = append(details, fmt.Sprintf("El campo %s debe ser un email válido", fe.Field()))
		case "min":
			details = append(details, fmt.Sprintf("El campo %s debe tener al menos %s caracteres", fe.Field(), fe.Param()))
		case "max":
			details = append(details, fmt.Sprintf("El campo %s debe tener como máximo %s caracteres", fe.Field(), fe.Param()))
		case "gt":
			details = append(details, fmt.Sprintf("El campo %s debe ser mayor que %s", fe.Field(), fe.Param()))
		case "datetime":
			details = append(details, fmt.Sprintf("El campo %s debe tener el formato YYYY-MM-DD", fe.Field()))
		default:
			details = append(details, fmt.Sprintf("El campo %s es inválido", fe.Field()))
		}
	}
	return details
}

// parseDate parses a YYYY-MM-DD value already shape-checked by the validator.
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
