// Package archive builds password protected zip archives in the scratch storage.
//
// Entries are encrypted with traditional PKWARE (ZipCrypto) encryption so that the
// archives open in the stock Windows and macOS archive tools.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeka/zip"

	"github.com/oszuidwest/zwfm-webutils/internal/apperrors"
	"github.com/oszuidwest/zwfm-webutils/internal/storage"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// ErrUnsafeEntry is returned when an archive entry would extract outside its target.
var ErrUnsafeEntry = errors.New("unsafe archive entry")

// Service creates and rewrites zip archives below the storage data directory.
type Service struct {
	store *storage.Storage
}

// NewService creates a new archive service writing into store.
func NewService(store *storage.Storage) *Service {
	return &Service{store: store}
}

// CreateWithPassword zips paths into <scratch dir>/<archiveName>.zip and returns the
// archive path. Entries are stored flat under their base names. When two files share
// a base name, the later one is renamed on disk with a stamped name first.
// An empty password produces an unencrypted archive.
func (s *Service) CreateWithPassword(archiveName string, paths []string, password string) (string, error) {
	if strings.TrimSpace(archiveName) == "" {
		return "", apperrors.InvalidInput("archive name is required").WithField("archiveName")
	}

	dir, err := s.store.NewScratchDir()
	if err != nil {
		return "", err
	}
	zipPath := filepath.Join(dir, filepath.Base(archiveName)+".zip")

	if err := writeArchive(zipPath, func(w *zip.Writer) error {
		used := make(map[string]struct{}, len(paths))
		for _, p := range paths {
			name := filepath.Base(p)
			if _, taken := used[name]; taken {
				renamed := filepath.Join(filepath.Dir(p), storage.StampedName(name))
				if err := storage.MoveFile(p, renamed); err != nil {
					return fmt.Errorf("failed to rename %s: %w", p, err)
				}
				p, name = renamed, filepath.Base(renamed)
			}
			used[name] = struct{}{}

			if err := addFile(w, p, name, password); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return "", err
	}

	logger.Info("Created archive %s with %d entries", zipPath, len(paths))
	return zipPath, nil
}

// CreateFileWithPassword zips a single file into an archive named after it.
func (s *Service) CreateFileWithPassword(path, password string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return s.CreateWithPassword(stem, []string{path}, password)
}

// PasswordProtect rewrites the archive at zipPath so every entry is encrypted with
// password. currentPassword opens an archive that is already encrypted and may be
// empty otherwise. The archive is only replaced once the new one is complete.
func PasswordProtect(zipPath, currentPassword, password string) error {
	if strings.TrimSpace(zipPath) == "" {
		return apperrors.InvalidInput("archive path is required").WithField("filePath")
	}
	if _, err := os.Stat(zipPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.NotFound("archive not found").WithField("filePath").Wrap(err)
		}
		return apperrors.Storage("failed to open archive").Wrap(err).WithInternal("path=%s", zipPath)
	}

	dir := filepath.Dir(zipPath)
	stem := strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))

	extracted, err := os.MkdirTemp(dir, stem+"-*")
	if err != nil {
		return apperrors.Storage("failed to create extraction directory").Wrap(err)
	}
	defer func() {
		if err := os.RemoveAll(extracted); err != nil {
			logger.Warn("Failed to remove extraction directory %s: %v", extracted, err)
		}
	}()

	if err := Extract(zipPath, extracted, currentPassword); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, stem+"-*.zip")
	if err != nil {
		return apperrors.Storage("failed to create archive").Wrap(err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := writeArchive(tmpPath, func(w *zip.Writer) error {
		return filepath.WalkDir(extracted, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(extracted, p)
			if err != nil {
				return err
			}
			return addFile(w, p, filepath.ToSlash(rel), password)
		})
	}); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, zipPath); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.Archive("failed to replace archive").Wrap(err).WithInternal("path=%s", zipPath)
	}
	return nil
}

// Extract unpacks zipPath into destDir, overwriting existing files.
func Extract(zipPath, destDir, password string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.NotFound("archive not found").WithField("filePath").Wrap(err)
		}
		return apperrors.Archive("failed to open archive").Wrap(err).WithInternal("path=%s", zipPath)
	}
	defer func() {
		_ = r.Close() // read-only handle
	}()

	// #nosec G301 - extracted files are re-archived and then removed
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return apperrors.Storage("failed to create extraction directory").Wrap(err)
	}

	for _, f := range r.File {
		if err := extractEntry(f, destDir, password); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, destDir, password string) error {
	target := filepath.Join(destDir, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(filepath.Separator)) {
		return apperrors.Archive("archive contains an unsafe path").Wrap(ErrUnsafeEntry).WithInternal("entry=%s", f.Name)
	}

	if f.FileInfo().IsDir() {
		// #nosec G301 - see Extract
		return os.MkdirAll(target, 0755)
	}

	if f.IsEncrypted() {
		f.SetPassword(password)
	}

	// #nosec G301 - see Extract
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return apperrors.Storage("failed to create extraction directory").Wrap(err)
	}

	rc, err := f.Open()
	if err != nil {
		return apperrors.Archive("failed to read archive entry").Wrap(err).WithInternal("entry=%s", f.Name)
	}
	defer func() {
		_ = rc.Close()
	}()

	// #nosec G304 - target is checked against destDir above
	out, err := os.Create(target)
	if err != nil {
		return apperrors.Storage("failed to create extracted file").Wrap(err)
	}

	// #nosec G110 - archives come from our own scratch storage
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return apperrors.Archive("failed to extract archive entry").Wrap(err).WithInternal("entry=%s", f.Name)
	}
	return out.Close()
}

// writeArchive creates zipPath and lets fill add the entries. A failed archive is removed.
func writeArchive(zipPath string, fill func(w *zip.Writer) error) error {
	// #nosec G304 - zipPath is built from the scratch directory
	out, err := os.Create(zipPath)
	if err != nil {
		return apperrors.Storage("failed to create archive").Wrap(err).WithInternal("path=%s", zipPath)
	}

	w := zip.NewWriter(out)
	fillErr := fill(w)
	closeErr := w.Close()
	fileErr := out.Close()

	if err := errors.Join(fillErr, closeErr, fileErr); err != nil {
		_ = os.Remove(zipPath)
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Archive("failed to write archive").Wrap(err).WithInternal("path=%s", zipPath)
	}
	return nil
}

func addFile(w *zip.Writer, path, name, password string) error {
	// #nosec G304 - path is resolved below the storage root by callers
	in, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.NotFound("file not found").WithField("filePaths").Wrap(storage.ErrFileNotFound).WithInternal("path=%s", path)
		}
		return apperrors.Storage("failed to open file").Wrap(err)
	}
	defer func() {
		_ = in.Close()
	}()

	var entry io.Writer
	if password == "" {
		entry, err = w.Create(name)
	} else {
		entry, err = w.Encrypt(name, password, zip.StandardEncryption)
	}
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}

	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
