package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/skillforge/backend/internal/pkg/logger"
	"github.com/skillforge/backend/internal/pkg/validation"
)

// RegisterValidators wires custom validation tags into gin's binding
// validator so request structs can use them directly.
func RegisterValidators() {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		logger.Warn().Msg("Unexpected binding validator engine, custom validators not registered")
		return
	}

	if err := validation.RegisterCustomValidators(engine); err != nil {
		logger.Error().Err(err).Msg("Failed to register custom validators")
	}
}

// FormatValidationError creates a human-readable validation error message
func FormatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "optionletter":
		return e.Field() + " must be one of: A, B, C, D"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
