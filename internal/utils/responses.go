package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FilesResponse lists local paths together with their public URLs.
type FilesResponse struct {
	Files []FileRef `json:"files"`
}

// FileRef is a single stored file.
type FileRef struct {
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
}

// Success responds with HTTP 200 OK status and the provided data.
func Success(c *gin.Context, data any) {
	if c == nil {
		return
	}
	c.JSON(http.StatusOK, data)
}

// Created responds with HTTP 201 Created status and the provided data.
func Created(c *gin.Context, data any) {
	if c == nil {
		return
	}
	c.JSON(http.StatusCreated, data)
}

// RFC 9457 Problem Details compatible error response functions.

// ProblemValidationError responds with HTTP 422 for input validation failures.
func ProblemValidationError(c *gin.Context, detail string, errors []ValidationError) {
	if c == nil {
		return
	}
	SendProblem(c, NewValidationProblem(detail, c.Request.URL.Path, errors))
}

// ProblemNotFound responds with HTTP 404 Not Found.
func ProblemNotFound(c *gin.Context, resource string) {
	if c == nil {
		return
	}
	SendProblem(c, NewNotFoundProblem(resource, c.Request.URL.Path))
}

// ProblemDuplicate responds with HTTP 409 Conflict.
func ProblemDuplicate(c *gin.Context, detail string) {
	if c == nil {
		return
	}
	SendProblem(c, NewDuplicateProblem(detail, c.Request.URL.Path))
}

// ProblemPayloadTooLarge responds with HTTP 413 Request Entity Too Large.
func ProblemPayloadTooLarge(c *gin.Context, limit int64) {
	if c == nil {
		return
	}
	SendProblem(c, NewPayloadTooLargeProblem(limit, c.Request.URL.Path))
}

// ProblemUnsupportedFileType responds with HTTP 415 Unsupported Media Type.
func ProblemUnsupportedFileType(c *gin.Context, fileName string) {
	if c == nil {
		return
	}
	SendProblem(c, NewUnsupportedFileTypeProblem(fileName, c.Request.URL.Path))
}

// ProblemInternalServer responds with HTTP 500 Internal Server Error.
func ProblemInternalServer(c *gin.Context, detail string) {
	if c == nil {
		return
	}
	SendProblem(c, NewInternalServerProblem(detail, c.Request.URL.Path))
}

// ProblemBadRequest responds with HTTP 400 Bad Request.
func ProblemBadRequest(c *gin.Context, detail string) {
	if c == nil {
		return
	}
	SendProblem(c, NewBadRequestProblem(detail, c.Request.URL.Path))
}

// ProblemExtended responds with an RFC 9457 problem carrying the application error code.
// This is used by the handlers' error mapping for typed error responses.
func ProblemExtended(c *gin.Context, status int, detail, code string) {
	if c == nil {
		return
	}
	problem := NewProblemDetail(
		"https://webutils.zuidwest.dev/problems/"+code,
		http.StatusText(status),
		status,
		detail,
		c.Request.URL.Path,
	)
	problem.Code = code
	SendProblem(c, problem)
}
