// Package utils provides the HTTP response helpers shared by the API handlers.
package utils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ProblemDetail represents an RFC 9457 Problem Details response for HTTP APIs.
// See: https://datatracker.ietf.org/doc/html/rfc9457
type ProblemDetail struct {
	// Type is a URI that identifies the problem type.
	Type string `json:"type"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Status is the HTTP status code for this occurrence of the problem.
	Status int `json:"status"`

	// Detail is a human-readable explanation specific to this occurrence of the problem.
	Detail string `json:"detail,omitempty"`

	// Instance is a URI that identifies the specific occurrence of the problem.
	Instance string `json:"instance,omitempty"`

	// Timestamp is the time when the problem occurred in ISO 8601 format.
	Timestamp string `json:"timestamp"`

	// Code is the application error code, e.g. "invalid_input".
	Code string `json:"code,omitempty"`

	// Errors contains validation errors for 422 responses.
	Errors []ValidationError `json:"errors,omitempty"`

	// TraceID can be used for request tracing and debugging.
	TraceID string `json:"trace_id,omitempty"`
}

// ValidationError represents a single validation error for a specific field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Problem type URIs for common error types
const (
	ProblemTypeValidationError     = "https://webutils.zuidwest.dev/problems/validation-error"
	ProblemTypeResourceNotFound    = "https://webutils.zuidwest.dev/problems/resource-not-found"
	ProblemTypeDuplicateResource   = "https://webutils.zuidwest.dev/problems/duplicate-resource"
	ProblemTypePayloadTooLarge     = "https://webutils.zuidwest.dev/problems/payload-too-large"
	ProblemTypeUnsupportedFileType = "https://webutils.zuidwest.dev/problems/unsupported-file-type"
	ProblemTypeInternalServerError = "https://webutils.zuidwest.dev/problems/internal-server-error"
	ProblemTypeBadRequest          = "https://webutils.zuidwest.dev/problems/bad-request"
)

// NewProblemDetail creates a new RFC 9457 compliant problem detail response.
func NewProblemDetail(problemType, title string, status int, detail, instance string) *ProblemDetail {
	return &ProblemDetail{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    detail,
		Instance:  instance,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewValidationProblem creates a 422 response for validation errors.
func NewValidationProblem(detail, instance string, errors []ValidationError) *ProblemDetail {
	problem := NewProblemDetail(
		ProblemTypeValidationError,
		"Validation Error",
		http.StatusUnprocessableEntity,
		detail,
		instance,
	)
	problem.Errors = errors
	return problem
}

// NewNotFoundProblem creates a 404 response for missing resources.
func NewNotFoundProblem(resource, instance string) *ProblemDetail {
	return NewProblemDetail(
		ProblemTypeResourceNotFound,
		"Resource Not Found",
		http.StatusNotFound,
		fmt.Sprintf("%s not found", resource),
		instance,
	)
}

// NewDuplicateProblem creates a 409 response for name conflicts.
func NewDuplicateProblem(detail, instance string) *ProblemDetail {
	return NewProblemDetail(
		ProblemTypeDuplicateResource,
		"Duplicate Resource",
		http.StatusConflict,
		detail,
		instance,
	)
}

// NewPayloadTooLargeProblem creates a 413 response for oversized uploads.
func NewPayloadTooLargeProblem(limit int64, instance string) *ProblemDetail {
	return NewProblemDetail(
		ProblemTypePayloadTooLarge,
		"Payload Too Large",
		http.StatusRequestEntityTooLarge,
		fmt.Sprintf("upload exceeds the limit of %d bytes", limit),
		instance,
	)
}

// NewUnsupportedFileTypeProblem creates a 415 response for rejected file extensions.
func NewUnsupportedFileTypeProblem(fileName, instance string) *ProblemDetail {
	return NewProblemDetail(
		ProblemTypeUnsupportedFileType,
		"Unsupported File Type",
		http.StatusUnsupportedMediaType,
		fmt.Sprintf("file type of %q is not allowed", fileName),
		instance,
	)
}

// NewInternalServerProblem creates a 500 response for server-side errors.
func NewInternalServerProblem(detail, instance string) *ProblemDetail {
	return NewProblemDetail(
		ProblemTypeInternalServerError,
		"Internal Server Error",
		http.StatusInternalServerError,
		detail,
		instance,
	)
}

// NewBadRequestProblem creates a 400 response for malformed requests.
func NewBadRequestProblem(detail, instance string) *ProblemDetail {
	return NewProblemDetail(
		ProblemTypeBadRequest,
		"Bad Request",
		http.StatusBadRequest,
		detail,
		instance,
	)
}

// WithTraceID adds a trace ID to the problem detail.
func (p *ProblemDetail) WithTraceID(traceID string) *ProblemDetail {
	p.TraceID = traceID
	return p
}

// SendProblem sends an RFC 9457 problem details response.
func SendProblem(c *gin.Context, problem *ProblemDetail) {
	c.Header("Content-Type", "application/problem+json")

	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if problem.TraceID == "" {
		problem.TraceID = TraceID(c)
	}

	c.AbortWithStatusJSON(problem.Status, problem)
}

// TraceIDKey is the gin context key holding the request trace ID.
const TraceIDKey = "trace_id"

// TraceID returns the trace ID stored on the context by the router middleware.
func TraceID(c *gin.Context) string {
	if traceID, exists := c.Get(TraceIDKey); exists {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}
