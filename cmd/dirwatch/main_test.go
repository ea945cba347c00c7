package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirwatch/internal/logger"
	"dirwatch/internal/tree"
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{"aa", "zz", "bar/foo", "bar/biz", ".git/HEAD"} {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	}
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yml"), "--quiet"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, "list", fixtureDir(t))
	require.NoError(t, err)

	// .git is excluded by the default config
	assert.Equal(t, "aa\nbar/biz\nbar/foo\nzz\n", out)
}

func TestList_ExcludeFlags(t *testing.T) {
	out, err := run(t, "list", "-e", "biz", "-r", "^z", fixtureDir(t))
	require.NoError(t, err)
	assert.Equal(t, "aa\nbar/foo\n", out)
}

func TestList_Digest(t *testing.T) {
	out, err := run(t, "list", "--digest", fixtureDir(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[4], "digest "))
}

func TestList_InvalidRegex(t *testing.T) {
	_, err := run(t, "list", "-r", "(", fixtureDir(t))
	require.Error(t, err)
}

func TestList_MissingDirectory(t *testing.T) {
	_, err := run(t, "list", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestWatchOnce_NoChanges(t *testing.T) {
	out, err := run(t, "watch", "--once", "--interval", "1ms", fixtureDir(t))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRefreshOnce_ChangesExitCode(t *testing.T) {
	root := fixtureDir(t)
	tr, err := tree.New(root, nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "bar", "biz")))
	require.NoError(t, os.WriteFile(filepath.Join(root, "new"), []byte("x"), 0644))

	var out bytes.Buffer
	p := &printer{out: &out, lg: logger.Discard(), json: true}

	err = refreshOnce(context.Background(), []*tree.Tree{tr}, 0, p)

	var ee *exitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 1, ee.code)

	var rec changeRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, root, rec.Root)
	assert.Equal(t, []string{"new"}, rec.Added)
	assert.Equal(t, []string{"bar/biz"}, rec.Removed)
	assert.Empty(t, rec.Modified)
	assert.Equal(t, []string{"bar/biz", "new"}, rec.Paths)
	assert.NotEmpty(t, rec.Digest)
}

func TestRefreshOnce_ScanErrorExitCode(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(root, 0755))
	tr, err := tree.New(root, nil)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(root))

	p := &printer{out: &bytes.Buffer{}, lg: logger.Discard()}
	err = refreshOnce(context.Background(), []*tree.Tree{tr}, 0, p)

	var ee *exitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.code)
}

func TestPrinter_PrefixesRootForMultipleTrees(t *testing.T) {
	root := fixtureDir(t)
	tr, err := tree.New(root, nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "new"), []byte("x"), 0644))

	result, err := tr.RefreshChanges()
	require.NoError(t, err)

	var out bytes.Buffer
	p := &printer{out: &out, lg: logger.Discard(), prefix: true}
	p.print(tr, result)

	assert.Equal(t, root+"/new\n", out.String())
}

func TestLogger_NoColorWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	opts := &globalOptions{}

	opts.logger(&buf).Infof("watching %s", "root")

	assert.Contains(t, buf.String(), "watching root")
	assert.NotContains(t, buf.String(), "\u001b[")
}
