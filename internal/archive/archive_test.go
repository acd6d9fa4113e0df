package archive

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeka/zip"

	"github.com/oszuidwest/zwfm-webutils/internal/apperrors"
	"github.com/oszuidwest/zwfm-webutils/internal/config"
	"github.com/oszuidwest/zwfm-webutils/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.Storage) {
	t.Helper()
	store, err := storage.New(config.StorageConfig{Root: t.TempDir(), DataDir: "App_Data"})
	require.NoError(t, err)
	return NewService(store), store
}

func writeFile(t *testing.T, p, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// readArchive returns entry name -> content, decrypting with password.
func readArchive(t *testing.T, zipPath, password string) (map[string]string, bool) {
	t.Helper()
	r, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer r.Close()

	out := make(map[string]string)
	encrypted := len(r.File) > 0
	for _, f := range r.File {
		if !f.IsEncrypted() {
			encrypted = false
		} else {
			f.SetPassword(password)
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(data)
	}
	return out, encrypted
}

func TestCreateWithPassword(t *testing.T) {
	svc, store := newTestService(t)
	src := t.TempDir()
	a := writeFile(t, filepath.Join(src, "a.txt"), "alpha")
	b := writeFile(t, filepath.Join(src, "nested", "b.csv"), "1,2")

	zipPath, err := svc.CreateWithPassword("bundle", []string{a, b}, "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "bundle.zip", filepath.Base(zipPath))
	assert.Equal(t, store.DataDir(), filepath.Dir(filepath.Dir(zipPath)))

	entries, encrypted := readArchive(t, zipPath, "s3cret")
	assert.True(t, encrypted)
	assert.Equal(t, map[string]string{"a.txt": "alpha", "b.csv": "1,2"}, entries)
}

func TestCreateWithPasswordRenamesDuplicateNames(t *testing.T) {
	svc, _ := newTestService(t)
	first := writeFile(t, filepath.Join(t.TempDir(), "report.txt"), "first")
	second := writeFile(t, filepath.Join(t.TempDir(), "report.txt"), "second")

	zipPath, err := svc.CreateWithPassword("reports", []string{first, second}, "")
	require.NoError(t, err)

	entries, encrypted := readArchive(t, zipPath, "")
	assert.False(t, encrypted)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries["report.txt"])

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Regexp(t, `^report_\d+\.txt$`, names[1])
	assert.Equal(t, "second", entries[names[1]])

	assert.NoFileExists(t, second, "the duplicate is renamed on disk")
	assert.FileExists(t, filepath.Join(filepath.Dir(second), names[1]))
}

func TestCreateWithPasswordMissingFile(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateWithPassword("bundle", []string{filepath.Join(t.TempDir(), "missing.txt")}, "pw")
	assert.True(t, errors.Is(err, storage.ErrFileNotFound))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = svc.CreateWithPassword(" ", nil, "pw")
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))
}

func TestCreateFileWithPassword(t *testing.T) {
	svc, _ := newTestService(t)
	p := writeFile(t, filepath.Join(t.TempDir(), "minutes.docx"), "doc")

	zipPath, err := svc.CreateFileWithPassword(p, "pw")
	require.NoError(t, err)
	assert.Equal(t, "minutes.zip", filepath.Base(zipPath))

	entries, encrypted := readArchive(t, zipPath, "pw")
	assert.True(t, encrypted)
	assert.Equal(t, map[string]string{"minutes.docx": "doc"}, entries)
}

func TestPasswordProtect(t *testing.T) {
	svc, _ := newTestService(t)
	a := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), "alpha")

	zipPath, err := svc.CreateWithPassword("plain", []string{a}, "")
	require.NoError(t, err)
	_, encrypted := readArchive(t, zipPath, "")
	require.False(t, encrypted)

	require.NoError(t, PasswordProtect(zipPath, "", "n3w"))

	entries, encrypted := readArchive(t, zipPath, "n3w")
	assert.True(t, encrypted)
	assert.Equal(t, map[string]string{"a.txt": "alpha"}, entries)
	assert.NoDirExists(t, filepath.Join(filepath.Dir(zipPath), "plain"), "extraction directory is cleaned up")
}

func TestPasswordProtectReencrypts(t *testing.T) {
	svc, _ := newTestService(t)
	a := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), "alpha")

	zipPath, err := svc.CreateWithPassword("locked", []string{a}, "old")
	require.NoError(t, err)

	require.NoError(t, PasswordProtect(zipPath, "old", "new"))

	entries, encrypted := readArchive(t, zipPath, "new")
	assert.True(t, encrypted)
	assert.Equal(t, "alpha", entries["a.txt"])
}

func TestPasswordProtectLeavesNeighboursAlone(t *testing.T) {
	svc, _ := newTestService(t)
	a := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), "alpha")

	zipPath, err := svc.CreateWithPassword("report", []string{a}, "")
	require.NoError(t, err)
	dir := filepath.Dir(zipPath)
	keep := writeFile(t, filepath.Join(dir, "report", "keep.txt"), "mine")

	require.NoError(t, PasswordProtect(zipPath, "", "pw"))

	entries, encrypted := readArchive(t, zipPath, "pw")
	assert.True(t, encrypted)
	assert.Equal(t, map[string]string{"a.txt": "alpha"}, entries)
	assert.FileExists(t, keep)

	leftovers, err := filepath.Glob(filepath.Join(dir, "report-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestPasswordProtectKeepsArchiveOnFailure(t *testing.T) {
	svc, _ := newTestService(t)
	a := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), "alpha")

	zipPath, err := svc.CreateWithPassword("locked", []string{a}, "old")
	require.NoError(t, err)

	assert.Error(t, PasswordProtect(zipPath, "wrong", "new"))

	entries, encrypted := readArchive(t, zipPath, "old")
	assert.True(t, encrypted)
	assert.Equal(t, "alpha", entries["a.txt"])

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(zipPath), "locked-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestPasswordProtectErrors(t *testing.T) {
	err := PasswordProtect("  ", "", "pw")
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.CodeOf(err))

	err = PasswordProtect(filepath.Join(t.TempDir(), "missing.zip"), "", "pw")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	notZip := writeFile(t, filepath.Join(t.TempDir(), "fake.zip"), "not a zip")
	err = PasswordProtect(notZip, "", "pw")
	assert.Equal(t, apperrors.CodeArchive, apperrors.CodeOf(err))
	assert.FileExists(t, notZip, "a broken archive is left alone")
}

func TestExtractRejectsZipSlip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")

	out, err := os.Create(zipPath)
	require.NoError(t, err)
	w := zip.NewWriter(out)
	entry, err := w.Create("../../outside.txt")
	require.NoError(t, err)
	_, err = entry.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())

	err = Extract(zipPath, filepath.Join(dir, "out"), "")
	assert.True(t, errors.Is(err, ErrUnsafeEntry))
	assert.NoFileExists(t, filepath.Join(dir, "outside.txt"))
}
