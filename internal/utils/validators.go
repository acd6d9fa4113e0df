package utils

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oszuidwest/zwfm-webutils/internal/storage"
)

// InitializeValidators registers custom validation rules with Gin's binding engine.
// Must be called during application startup to enable custom validation tags.
// Panics if validator registration fails, as this is a critical configuration error.
func InitializeValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// RegisterValidators adds the custom tags to v.
func RegisterValidators(v *validator.Validate) {
	rules := map[string]validator.Func{
		"notblank":       notBlankValidator,
		"name_clash":     nameClashValidator,
		"duplicate_name": duplicateNameValidator,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("Failed to register %s validator: %v", tag, err))
		}
	}
}

// notBlankValidator validates that a string field is not empty or whitespace-only.
// More strict than the standard required validator which allows whitespace.
func notBlankValidator(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// nameClashValidator accepts an empty value or a known storage.NameClashPolicy.
func nameClashValidator(fl validator.FieldLevel) bool {
	_, err := storage.ParseNameClashPolicy(fl.Field().String())
	return err == nil
}

// duplicateNameValidator accepts an empty value or a known storage.DuplicateNamePolicy.
func duplicateNameValidator(fl validator.FieldLevel) bool {
	_, err := storage.ParseDuplicateNamePolicy(fl.Field().String())
	return err == nil
}
