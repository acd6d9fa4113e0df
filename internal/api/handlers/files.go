package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oszuidwest/zwfm-webutils/internal/storage"
	"github.com/oszuidwest/zwfm-webutils/internal/utils"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// UploadFile stores a multipart upload from the "file" field in a new scratch directory.
func (h *Handlers) UploadFile(c *gin.Context) {
	limit := h.config.Storage.MaxUploadBytes
	if c.Request.ContentLength > limit {
		utils.ProblemPayloadTooLarge(c, limit)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ProblemPayloadTooLarge(c, limit)
			return
		}
		utils.ProblemBadRequest(c, "Missing file in form field \"file\"")
		return
	}
	if header.Size > limit {
		utils.ProblemPayloadTooLarge(c, limit)
		return
	}

	name := utils.SanitizeFilename(header.Filename)
	if !storage.ValidateFileType(name, h.config.Storage.AllowedExtensions) {
		utils.ProblemUnsupportedFileType(c, header.Filename)
		return
	}

	tmpDir, err := os.MkdirTemp("", "webutils-upload-*")
	if err != nil {
		logger.Error("Failed to create upload directory: %v", err)
		utils.ProblemInternalServer(c, "Failed to store upload")
		return
	}
	defer func() {
		_ = os.RemoveAll(tmpDir) // Ignore error on cleanup
	}()

	tmpPath := filepath.Join(tmpDir, name)
	if err := utils.SaveUpload(header, tmpPath); err != nil {
		logger.Error("Failed to save upload %s: %v", name, err)
		utils.ProblemInternalServer(c, "Failed to store upload")
		return
	}

	stored, err := h.store.MoveToDataDir(tmpPath)
	if err != nil {
		handleServiceError(c, err, "File")
		return
	}

	logger.Info("Stored upload %s (%d bytes)", stored, header.Size)
	utils.Created(c, h.fileRef(stored))
}

// DownloadFile streams a stored file as an attachment.
func (h *Handlers) DownloadFile(c *gin.Context) {
	local, err := h.store.Resolve(strings.TrimPrefix(c.Param("path"), "/"))
	if err != nil {
		handleServiceError(c, err, "File")
		return
	}
	utils.FileContent(c, local)
}

// RenameFiles renames stored files within their directories.
func (h *Handlers) RenameFiles(c *gin.Context) {
	var req RenameRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	policy, err := storage.ParseNameClashPolicy(req.Policy)
	if err != nil {
		utils.ProblemBadRequest(c, err.Error())
		return
	}

	paths, err := h.resolveAll(req.Paths)
	if err != nil {
		handleServiceError(c, err, "File")
		return
	}

	renamed, err := storage.RenameFiles(paths, req.Names, policy)
	if err != nil {
		handleServiceError(c, err, "File")
		return
	}

	utils.Success(c, h.fileRefs(renamed))
}

// DeleteFiles removes stored files.
func (h *Handlers) DeleteFiles(c *gin.Context) {
	var req DeleteRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	paths, err := h.resolveAll(req.Paths)
	if err != nil {
		handleServiceError(c, err, "File")
		return
	}

	utils.Success(c, DeleteResponse{Deleted: storage.DeleteFiles(paths)})
}

// CreateDummyFiles creates placeholder files in a new scratch directory.
func (h *Handlers) CreateDummyFiles(c *gin.Context) {
	var req DummyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var (
		files []string
		err   error
	)
	if req.Names != nil {
		policy, perr := storage.ParseDuplicateNamePolicy(req.Policy)
		if perr != nil {
			utils.ProblemBadRequest(c, perr.Error())
			return
		}
		files, err = h.store.DummyFilesNamed(req.Names, policy)
	} else {
		name := req.FileName
		if name == "" {
			name = storage.DefaultDummyName
		}
		files, err = h.store.DummyFiles(req.Count, name)
	}
	if err != nil {
		handleServiceError(c, err, "Dummy file")
		return
	}

	utils.Created(c, h.fileRefs(files))
}
