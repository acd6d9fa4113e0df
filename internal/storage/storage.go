// Package storage manages the web application's scratch area: a data directory
// below the web root where uploads, generated files and archives are placed in
// per-operation scratch directories.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oszuidwest/zwfm-webutils/internal/apperrors"
	"github.com/oszuidwest/zwfm-webutils/internal/config"
	"github.com/oszuidwest/zwfm-webutils/internal/text"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// Storage resolves paths below the web root and owns its data directory.
type Storage struct {
	root    string
	dataDir string
	baseURL string
}

// New creates the web root and data directory described by cfg.
func New(cfg config.StorageConfig) (*Storage, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root %s: %w", cfg.Root, err)
	}

	s := &Storage{
		root:    root,
		dataDir: filepath.Join(root, cfg.DataDir),
		baseURL: cfg.PublicBaseURL,
	}

	// #nosec G301 - scratch files are served back by the web server
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", s.dataDir, err)
	}

	return s, nil
}

// Root returns the absolute web root.
func (s *Storage) Root() string {
	return s.root
}

// DataDir returns the absolute data directory.
func (s *Storage) DataDir() string {
	return s.dataDir
}

// MapPath maps a virtual path such as "~/App_Data/x.txt" to a physical path.
// The result never escapes the web root.
func (s *Storage) MapPath(virtual string) string {
	rel := strings.TrimPrefix(virtual, "~")
	rel = path.Clean("/" + strings.ReplaceAll(rel, `\`, "/"))
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// ServerPath converts a physical path below the web root into its public URL.
func (s *Storage) ServerPath(localPath string) string {
	return text.ConvertToServerPath(localPath, s.root, s.baseURL)
}

// Resolve maps a root-relative path received from a client to a physical path,
// refusing anything outside the data directory.
func (s *Storage) Resolve(rel string) (string, error) {
	p := s.MapPath(rel)
	if !within(s.dataDir, p) || p == s.dataDir {
		return "", apperrors.InvalidInput("path is outside the data directory").
			WithInternal("path=%q", rel).
			Wrap(ErrOutsideStorage)
	}
	return p, nil
}

// NewScratchDir creates a fresh, uniquely named directory in the data directory.
func (s *Storage) NewScratchDir() (string, error) {
	dir := filepath.Join(s.dataDir, uuid.New().String())
	// #nosec G301 - see New
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.Storage("failed to create scratch directory").Wrap(err).WithInternal("dir=%s", dir)
	}
	return dir, nil
}

// PurgeExpired removes entries of the data directory last modified before now-olderThan.
// It returns the number of entries removed and the bytes they held.
func (s *Storage) PurgeExpired(ctx context.Context, olderThan time.Duration) (int, int64, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return 0, 0, apperrors.Storage("failed to read data directory").Wrap(err)
	}

	cutoff := time.Now().Add(-olderThan)
	var removed int
	var bytesFreed int64

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, bytesFreed, err
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		full := filepath.Join(s.dataDir, entry.Name())
		size := diskUsage(full)
		if err := os.RemoveAll(full); err != nil {
			logger.Error("Failed to remove expired entry %s: %v", full, err)
			continue
		}

		removed++
		bytesFreed += size
	}

	return removed, bytesFreed, nil
}

// within reports whether p is dir or lies below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func diskUsage(p string) int64 {
	var total int64
	_ = filepath.WalkDir(p, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if info, err := d.Info(); err == nil && info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total
}
