package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// SanitizeFilename removes unsafe characters from filename
func SanitizeFilename(filename string) string {
	// Remove path separators and other unsafe characters
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	filename = strings.ReplaceAll(filename, " ", "_")
	if filename == "." || filename == "/" {
		return ""
	}
	return filename
}

// SaveUpload writes an uploaded multipart file to dst.
func SaveUpload(header *multipart.FileHeader, dst string) error {
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close() // Ignore error on cleanup
	}()

	// #nosec G304 - dst is built from a scratch directory and a sanitized name
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Error("Failed to close output file: %v", err)
		}
	}()

	_, err = io.Copy(out, file)
	return err
}

// BindAndValidate binds the JSON body into req and answers 422 with
// developer-friendly messages when binding or validation fails.
func BindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		ProblemValidationError(c, "The request contains invalid data", formatValidationErrors(err))
		return false
	}
	return true
}

// formatValidationErrors converts validation errors to developer-friendly messages
func formatValidationErrors(err error) []ValidationError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []ValidationError{{Field: "body", Message: "Invalid JSON format"}}
	}

	out := make([]ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		param := e.Param()

		var msg string
		switch e.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "notblank":
			msg = fmt.Sprintf("%s cannot be empty or white space", field)
		case "min":
			msg = fmt.Sprintf("%s must contain at least %s item(s)", field, param)
		case "max":
			msg = fmt.Sprintf("%s cannot exceed %s", field, param)
		case "gte":
			msg = fmt.Sprintf("%s must be at least %s", field, param)
		case "lte":
			msg = fmt.Sprintf("%s must be at most %s", field, param)
		case "oneof":
			msg = fmt.Sprintf("%s must be one of: %s", field, param)
		case "name_clash":
			msg = fmt.Sprintf("%s must be one of: do_nothing replace_existing rename_uniquely", field)
		case "duplicate_name":
			msg = fmt.Sprintf("%s must be one of: throw skip rename", field)
		case "json":
			msg = fmt.Sprintf("%s must be valid JSON", field)
		default:
			msg = fmt.Sprintf("%s failed validation (%s)", field, e.Tag())
		}
		out = append(out, ValidationError{Field: field, Message: msg})
	}
	return out
}
