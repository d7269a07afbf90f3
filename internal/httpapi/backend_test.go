package httpapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveStaticPathServesIndexForRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, indexFile), []byte("hi"), 0o600))

	path, ok := resolveStaticPath(dir, "/")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, indexFile), path)
}

func TestResolveStaticPathRejectsTraversal(t *testing.T) {
	dir := t.TempDir()

	_, ok := resolveStaticPath(dir, "/../../../etc/passwd")
	require.False(t, ok)
}

func TestResolveStaticPathRejectsNestedTraversal(t *testing.T) {
	dir := t.TempDir()

	_, ok := resolveStaticPath(dir, "/assets/../../secrets.txt")
	require.False(t, ok)
}

func TestResolveStaticPathAllowsNestedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("x"), 0o600))

	path, ok := resolveStaticPath(dir, "/assets/app.js")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "assets", "app.js"), path)
}

func TestProjectNameFromMetricsPath(t *testing.T) {
	name, ok := projectNameFromMetricsPath("/api/projects/alpha/metrics")
	require.True(t, ok)
	require.Equal(t, "alpha", name)

	_, ok = projectNameFromMetricsPath("/api/projects//metrics")
	require.False(t, ok)

	_, ok = projectNameFromMetricsPath("/api/projects/alpha/beta/metrics")
	require.False(t, ok)

	_, ok = projectNameFromMetricsPath("/api/projects/alpha")
	require.False(t, ok)
}
