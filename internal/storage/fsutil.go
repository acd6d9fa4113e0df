package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// Stamp returns a fresh numeric suffix used to make file names unique.
func Stamp() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// StampedName inserts "_<stamp>" between the stem and extension of name.
func StampedName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + Stamp() + ext
}

// numberedName inserts "_<n>" between the stem and extension of name.
func numberedName(name string, n int) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
}

// isFile reports whether p exists and is a regular file.
func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func exists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

// MoveFile moves a file from src to dst, falling back to copy and delete when
// a plain rename is impossible (for example across devices).
func MoveFile(src, dst string) error {
	// First, try a simple rename (works if on same filesystem)
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst, true); err != nil {
		return err
	}

	// Copy succeeded, now remove source file
	if err := os.Remove(src); err != nil {
		logger.Warn("Failed to remove source file %s after successful copy: %v", src, err)
	}

	return nil
}

// copyFile copies src to dst keeping the file mode. Without overwrite an
// existing dst fails with an error matching fs.ErrExist.
func copyFile(src, dst string, overwrite bool) error {
	// #nosec G304 - src is resolved below the storage root by callers
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() {
		_ = srcFile.Close() // Ignore error on cleanup
	}()

	info, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	// #nosec G304 - dst is resolved below the storage root by callers
	dstFile, err := os.OpenFile(dst, flags, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	// Ensure data is written to disk
	if err := dstFile.Sync(); err != nil {
		_ = dstFile.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to sync destination file: %w", err)
	}

	return dstFile.Close()
}
