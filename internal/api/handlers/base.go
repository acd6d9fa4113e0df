// Package handlers provides HTTP request handlers for all API endpoints.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/oszuidwest/zwfm-webutils/internal/apperrors"
	"github.com/oszuidwest/zwfm-webutils/internal/archive"
	"github.com/oszuidwest/zwfm-webutils/internal/config"
	"github.com/oszuidwest/zwfm-webutils/internal/storage"
	"github.com/oszuidwest/zwfm-webutils/internal/utils"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// Handlers contains all the dependencies needed by the API handlers.
type Handlers struct {
	config   *config.Config
	store    *storage.Storage
	archives *archive.Service
}

// NewHandlers creates a new Handlers instance with all required dependencies.
func NewHandlers(cfg *config.Config, store *storage.Storage, archives *archive.Service) *Handlers {
	return &Handlers{
		config:   cfg,
		store:    store,
		archives: archives,
	}
}

// handleServiceError converts apperrors.Error to appropriate HTTP responses.
// Internal error details are logged but never exposed to clients.
func handleServiceError(c *gin.Context, err error, resource string) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		logger.Error("Unhandled error for %s: %v", resource, err)
		utils.ProblemInternalServer(c, fmt.Sprintf("Failed to process %s", resource))
		return
	}

	if appErr.Internal != "" {
		logger.Error("%s error: %s (internal: %s)", resource, appErr.Message, appErr.Internal)
	}
	if appErr.Err != nil {
		logger.Error("%s underlying error: %v", resource, appErr.Err)
	}

	switch appErr.Code {
	case apperrors.CodeNotFound:
		utils.ProblemNotFound(c, resource)
	case apperrors.CodeDuplicate:
		utils.ProblemDuplicate(c, appErr.Error())
	case apperrors.CodeInvalidInput:
		utils.ProblemBadRequest(c, appErr.Error())
	case apperrors.CodeArchive, apperrors.CodeSerialization:
		utils.ProblemExtended(c, http.StatusUnprocessableEntity, appErr.Error(), appErr.Code.String())
	default:
		utils.ProblemInternalServer(c, fmt.Sprintf("Failed to process %s", resource))
	}
}

// resolveAll maps root-relative client paths into the data directory.
func (h *Handlers) resolveAll(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		local, err := h.store.Resolve(p)
		if err != nil {
			return nil, err
		}
		out[i] = local
	}
	return out, nil
}

// fileRef describes a stored file by its root-relative path and public URL.
func (h *Handlers) fileRef(local string) utils.FileRef {
	rel, err := filepath.Rel(h.store.Root(), local)
	if err != nil {
		rel = local
	}
	return utils.FileRef{
		Path: filepath.ToSlash(rel),
		URL:  h.store.ServerPath(local),
	}
}

func (h *Handlers) fileRefs(locals []string) utils.FilesResponse {
	refs := make([]utils.FileRef, 0, len(locals))
	for _, l := range locals {
		refs = append(refs, h.fileRef(l))
	}
	return utils.FilesResponse{Files: refs}
}
