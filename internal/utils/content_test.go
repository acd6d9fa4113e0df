package utils

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func TestAttachStream(t *testing.T) {
	c, w := newTestContext("GET", "/download")

	AttachStream(c, strings.NewReader("payload"), 7, `re"port.pdf`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "7", w.Header().Get("Content-Length"))
	assert.Equal(t, "payload", w.Body.String())
}

func TestAttachStreamDefaultName(t *testing.T) {
	c, w := newTestContext("GET", "/download")

	AttachStream(c, strings.NewReader("x"), -1, "  ")

	assert.Equal(t, `attachment; filename="attachment"`, w.Header().Get("Content-Disposition"))
	assert.Empty(t, w.Header().Get("Content-Length"))
}

func TestFileContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(p, []byte("hello"), 0o644))

	c, w := newTestContext("GET", "/download")
	FileContent(c, p)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="notes.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "hello", w.Body.String())
}

func TestFileContentMissing(t *testing.T) {
	for _, p := range []string{filepath.Join(t.TempDir(), "gone.txt"), t.TempDir()} {
		c, w := newTestContext("GET", "/download")
		FileContent(c, p)

		assert.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, FileNotFoundBody, w.Body.String())
	}
}

func TestJSONContent(t *testing.T) {
	c, w := newTestContext("GET", "/json")

	JSONContent(c, http.StatusAccepted, map[string]int{"a": 1})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, w.Body.String())
}

func TestJSONContentUnencodable(t *testing.T) {
	c, w := newTestContext("GET", "/json")

	JSONContent(c, http.StatusOK, make(chan int))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}
