package orders

import (
	"errors"
	"strings"

	"storefront/services/storefront-api/models"
)

var ErrOrderNotFound = errors.New("order not found")

// ValidationError reports every field-level violation found in a request.
type ValidationError struct {
	Message string
	Fields  []models.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}
