package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oszuidwest/zwfm-webutils/internal/jsonpatch"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// FileNotFoundBody is the body sent by FileContent when the file is missing.
const FileNotFoundBody = "File not found."

const defaultAttachmentName = "attachment"

// AttachStream sends r as a file download named name. A negative size omits
// the Content-Length header.
func AttachStream(c *gin.Context, r io.Reader, size int64, name string) {
	if c == nil {
		return
	}
	name = strings.ReplaceAll(strings.TrimSpace(name), `"`, "")
	if name == "" {
		name = defaultAttachmentName
	}

	c.DataFromReader(http.StatusOK, size, "application/octet-stream", r, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, name),
	})
}

// FileContent sends the file at path as a download. A missing file is answered
// with 206 Partial Content and FileNotFoundBody, which existing clients check for.
func FileContent(c *gin.Context, path string) {
	if c == nil {
		return
	}

	// #nosec G304 - callers resolve path below the data directory
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.String(http.StatusPartialContent, FileNotFoundBody)
			return
		}
		logger.Error("Failed to open %s: %v", path, err)
		ProblemInternalServer(c, "Failed to read file")
		return
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		c.String(http.StatusPartialContent, FileNotFoundBody)
		return
	}

	AttachStream(c, f, info.Size(), filepath.Base(path))
}

// JSONContent serializes content and sends it as application/json with status.
func JSONContent(c *gin.Context, status int, content any) {
	if c == nil {
		return
	}
	body := jsonpatch.Serialize(content)
	if body == "" {
		logger.Error("Failed to serialize response of type %T", content)
		ProblemInternalServer(c, "Failed to serialize response")
		return
	}
	c.Data(status, "application/json; charset=utf-8", []byte(body))
}
