package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Email validation pattern - configurable
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// OptionLetterPattern matches a single answer option letter
	OptionLetterPattern = `^[A-Da-d]$`

	// Password min length
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email        *regexp.Regexp
	OptionLetter *regexp.Regexp
}{
	Email:        regexp.MustCompile(EmailPattern),
	OptionLetter: regexp.MustCompile(OptionLetterPattern),
}

// IsOptionLetter reports whether s is a valid answer option (A-D, any case).
func IsOptionLetter(s string) bool {
	return CompiledPatterns.OptionLetter.MatchString(strings.TrimSpace(s))
}

// RegisterCustomValidators registers application-specific validation tags
// on the given validator instance. Currently only "optionletter", used on
// question and submission DTOs.
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("optionletter", func(fl validator.FieldLevel) bool {
		return IsOptionLetter(fl.Field().String())
	})
}
