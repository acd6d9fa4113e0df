package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/oszuidwest/zwfm-webutils/internal/apperrors"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// DummyContent is written to the first file created by DummyFilesNamed.
const DummyContent = "Dummy Test Content"

// DefaultDummyName is the file name used by DummyFiles callers that have no preference.
const DefaultDummyName = "DummyFile.txt"

// maxUniqueAttempts bounds the search for a free stamped name.
const maxUniqueAttempts = 100

// MoveToDataDir moves filePath into a new scratch directory and returns the new path.
// Names like "report.pdf.txt" lose the trailing ".txt" that some document stores append.
func (s *Storage) MoveToDataDir(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" || !isFile(filePath) {
		return "", apperrors.NotFound("file not found").WithField("filePath").Wrap(ErrFileNotFound)
	}

	name := filepath.Base(filePath)
	if len(strings.Split(name, ".")) > 2 && strings.HasSuffix(strings.ToLower(name), ".txt") {
		name = name[:len(name)-len(".txt")]
	}
	if name == "." || name == ".." || strings.TrimSpace(name) == "" {
		return "", apperrors.InvalidInput("file name is empty after removing the .txt suffix").
			WithField("filePath").
			WithInternal("path=%s", filePath)
	}

	dir, err := s.NewScratchDir()
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name)

	if exists(dest) {
		if err := os.Remove(dest); err != nil {
			return "", apperrors.Storage("failed to replace existing file").Wrap(err).WithInternal("dst=%s", dest)
		}
	}

	if err := MoveFile(filePath, dest); err != nil {
		return "", apperrors.Storage("failed to move file").Wrap(err).WithInternal("src=%s dst=%s", filePath, dest)
	}

	logger.Debug("Moved %s to %s", filePath, dest)
	return dest, nil
}

// MoveMakingUniqueName moves filePath into destDir under a stamped version of fileName.
func MoveMakingUniqueName(fileName, filePath, destDir string) (string, error) {
	dest := filepath.Join(destDir, StampedName(filepath.Base(fileName)))
	if err := MoveFile(filePath, dest); err != nil {
		return "", apperrors.Storage("failed to move file").Wrap(err).WithInternal("src=%s dst=%s", filePath, dest)
	}
	return dest, nil
}

// CopyMakingUniqueName copies filePath into destDir under a stamped version of fileName.
func CopyMakingUniqueName(fileName, filePath, destDir string) (string, error) {
	dest := filepath.Join(destDir, StampedName(filepath.Base(fileName)))
	if err := copyFile(filePath, dest, false); err != nil {
		return "", apperrors.Storage("failed to copy file").Wrap(err).WithInternal("src=%s dst=%s", filePath, dest)
	}
	return dest, nil
}

// ValidateFileType reports whether the extension of fileName, lower-cased and
// including the dot, is one of allowed.
func ValidateFileType(fileName string, allowed []string) bool {
	if fileName == "" {
		return false
	}
	ext := filepath.Ext(fileName)
	if ext == "" {
		return false
	}
	return slices.Contains(allowed, strings.ToLower(ext))
}

// DeleteFiles removes every path and reports whether all of them are gone.
// Individual failures do not stop the remaining deletions. An empty list reports false.
func DeleteFiles(paths []string) bool {
	if len(paths) == 0 {
		return false
	}

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to delete %s: %v", p, err)
		}
	}

	for _, p := range paths {
		if exists(p) {
			return false
		}
	}
	return true
}

// RenameFiles gives paths[i] the name names[i] within its own directory and returns
// the resulting paths. Entries with a blank name are skipped. policy decides what
// happens when the new name is already taken.
func RenameFiles(paths, names []string, policy NameClashPolicy) ([]string, error) {
	if !policy.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown name clash policy %q", policy)).WithField("policy")
	}
	if paths == nil || names == nil || len(paths) != len(names) {
		return []string{}, apperrors.InvalidInput("number of files and names differ").WithField("names").Wrap(ErrLengthMismatch)
	}

	renamed := make([]string, 0, len(paths))
	for i, src := range paths {
		if strings.TrimSpace(names[i]) == "" {
			continue
		}

		result, err := renameOne(src, filepath.Join(filepath.Dir(src), filepath.Base(names[i])), policy)
		if err != nil {
			return renamed, err
		}
		renamed = append(renamed, result)

		if result != src {
			if err := os.Remove(src); err != nil {
				logger.Warn("Failed to remove %s after renaming: %v", src, err)
			}
		}
	}

	return renamed, nil
}

func renameOne(src, dest string, policy NameClashPolicy) (string, error) {
	if dest == src {
		return src, nil
	}

	switch policy {
	case ClashReplaceExisting:
		if err := copyFile(src, dest, true); err != nil {
			return "", apperrors.Storage("failed to rename file").Wrap(err).WithInternal("src=%s dst=%s", src, dest)
		}
		return dest, nil

	case ClashRenameUniquely:
		name := filepath.Base(dest)
		dir := filepath.Dir(dest)
		for range maxUniqueAttempts {
			candidate := filepath.Join(dir, StampedName(name))
			err := copyFile(src, candidate, false)
			if err == nil {
				return candidate, nil
			}
			if !errors.Is(err, fs.ErrExist) {
				return "", apperrors.Storage("failed to rename file").Wrap(err).WithInternal("src=%s dst=%s", src, candidate)
			}
		}
		return "", apperrors.Storage("no unique name available").WithInternal("dst=%s", dest)

	default:
		if err := copyFile(src, dest, false); err != nil {
			logger.Debug("Keeping %s, cannot rename to %s: %v", src, dest, err)
			return src, nil
		}
		return dest, nil
	}
}

// DummyFiles creates count placeholder files called fileName in a new scratch
// directory, numbering the repeats.
func (s *Storage) DummyFiles(count int, fileName string) ([]string, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, apperrors.InvalidInput("parameter cannot be null, empty or white space(s)").WithField("fileName")
	}
	if count < 0 {
		return nil, apperrors.InvalidInput("count cannot be negative").WithField("count")
	}

	names := make([]string, count)
	for i := range names {
		names[i] = fileName
	}

	return s.DummyFilesNamed(names, DuplicateRename)
}

// DummyFilesNamed creates one placeholder file per name in a new scratch directory.
// The first file holds DummyContent; the others are copies of it. Files that cannot
// be created are logged and left out of the result.
func (s *Storage) DummyFilesNamed(names []string, policy DuplicateNamePolicy) ([]string, error) {
	if names == nil {
		return nil, apperrors.InvalidInput("parameter cannot be null").WithField("names")
	}
	if !policy.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown duplicate name policy %q", policy)).WithField("policy")
	}
	if policy == DuplicateThrow && hasDuplicatesFold(names) {
		return nil, apperrors.Duplicate("duplicate file names in the given names").WithField("names")
	}

	dir, err := s.NewScratchDir()
	if err != nil {
		return nil, err
	}

	created := make([]string, 0, len(names))
	var first string

	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			logger.Warn("Skipping blank dummy file name at position %d", i)
			continue
		}
		target := filepath.Join(dir, filepath.Base(name))

		if i == 0 {
			// #nosec G306 - placeholder content, served back to clients
			if err := os.WriteFile(target, []byte(DummyContent), 0644); err != nil {
				logger.Error("Failed to create dummy file %s: %v", target, err)
				continue
			}
			first = target
			created = append(created, target)
			continue
		}

		if exists(target) {
			switch policy {
			case DuplicateSkip:
				continue
			case DuplicateRename:
				target = filepath.Join(dir, numberedName(filepath.Base(name), countEqual(names[:i], name)))
			}
		}

		if first == "" {
			logger.Error("Cannot create dummy file %s: first dummy file is missing", target)
			continue
		}
		if err := copyFile(first, target, false); err != nil {
			logger.Error("Failed to create dummy file %s: %v", target, err)
			continue
		}
		created = append(created, target)
	}

	return created, nil
}

func hasDuplicatesFold(names []string) bool {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}

func countEqual(names []string, name string) int {
	n := 0
	for _, other := range names {
		if other == name {
			n++
		}
	}
	return n
}
