package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oszuidwest/zwfm-webutils/internal/archive"
	"github.com/oszuidwest/zwfm-webutils/internal/utils"
)

// CreateArchive zips stored files and streams the archive back as an attachment.
// The archive also stays in its scratch directory until the cleanup removes it.
func (h *Handlers) CreateArchive(c *gin.Context) {
	var req ArchiveRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	paths, err := h.resolveAll(req.Paths)
	if err != nil {
		handleServiceError(c, err, "File")
		return
	}

	zipPath, err := h.archives.CreateWithPassword(req.Name, paths, req.Password)
	if err != nil {
		handleServiceError(c, err, "File")
		return
	}

	c.Header("Location", h.fileRef(zipPath).URL)
	utils.FileContent(c, zipPath)
}

// ProtectArchive encrypts every entry of a stored archive with a new password.
func (h *Handlers) ProtectArchive(c *gin.Context) {
	var req ProtectRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	zipPath, err := h.store.Resolve(req.Path)
	if err != nil {
		handleServiceError(c, err, "Archive")
		return
	}

	if err := archive.PasswordProtect(zipPath, req.CurrentPassword, req.Password); err != nil {
		handleServiceError(c, err, "Archive")
		return
	}

	utils.Success(c, h.fileRef(zipPath))
}
