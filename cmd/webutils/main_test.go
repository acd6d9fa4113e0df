package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func useTempStorage(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("WEBUTILS_CONFIG", "")
	t.Setenv("WEBUTILS_STORAGE_ROOT", root)
	return root
}

func TestReplaceCmd(t *testing.T) {
	out, err := run(t, "", "replace", "-k", "cat", "-w", "dog", "A cat, a Cat and a CAT")
	require.NoError(t, err)
	assert.Equal(t, "A dog, a Dog and a DOG", out)

	out, err = run(t, "the city of city", "replace", "--keyword", "city", "--with", "town")
	require.NoError(t, err)
	assert.Equal(t, "the town of town", out)

	_, err = run(t, "", "replace", "text")
	assert.Error(t, err, "keyword is required")
}

func TestInjectCmd(t *testing.T) {
	out, err := run(t, "", "inject", "-s", "b=2", "-s", "c=hi", "-s", `d={"x":true}`, `{"a":1}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":2,"c":"hi","d":{"x":true}}`, out)

	out, err = run(t, "  {\"a\": 1}\n", "inject", "-s", "a=null")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null}`, out)

	out, err = run(t, "", "inject", "-s", "id=9007199254740993", `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"id":9007199254740993}`, strings.TrimSpace(out))

	_, err = run(t, "", "inject", "-s", "novalue", "{}")
	assert.Error(t, err)

	_, err = run(t, "", "inject", "-s", "a=1", "{broken")
	assert.Error(t, err)
}

func TestZipAndProtectCmd(t *testing.T) {
	root := useTempStorage(t)

	src := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(src, []byte("numbers"), 0o644))

	out, err := run(t, "", "zip", "-p", "pw", src)
	require.NoError(t, err)
	zipPath := strings.TrimSpace(out)
	assert.Equal(t, "report.zip", filepath.Base(zipPath))
	assert.True(t, strings.HasPrefix(zipPath, filepath.Join(root, "App_Data")))
	assert.FileExists(t, zipPath)

	out, err = run(t, "", "protect", "--current-password", "pw", "-p", "new", zipPath)
	require.NoError(t, err)
	assert.Equal(t, zipPath, strings.TrimSpace(out))

	out, err = run(t, "", "zip", "-n", "bundle", src)
	require.NoError(t, err)
	assert.Equal(t, "bundle.zip", filepath.Base(strings.TrimSpace(out)))

	_, err = run(t, "", "zip")
	assert.Error(t, err)
}

func TestParseSets(t *testing.T) {
	props, err := parseSets([]string{"n=1.5", "s=plain", "empty=", "arr=[1,2]", "big=9007199254740993"})
	require.NoError(t, err)
	assert.Equal(t, "1.5", string(props["n"]))
	assert.Equal(t, `"plain"`, string(props["s"]))
	assert.Equal(t, `""`, string(props["empty"]))
	assert.Equal(t, "[1,2]", string(props["arr"]))
	assert.Equal(t, "9007199254740993", string(props["big"]))

	_, err = parseSets([]string{"=x"})
	assert.Error(t, err)
}
