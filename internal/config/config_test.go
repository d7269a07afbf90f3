package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "hegelpm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	root := t.TempDir()
	path := writeConfigFile(t, dir, "roots:\n  - "+root+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, defaultMaxDepth, cfg.MaxDepth)
	require.Equal(t, defaultListenAddr, cfg.ListenAddr)
	require.Equal(t, defaultStaticDir, cfg.StaticDir)
	require.Contains(t, cfg.Exclusions, ".git")
	require.NotEmpty(t, cfg.CacheFile)
}

func TestLoadMissingFileIsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	root := t.TempDir()
	t.Setenv("HEGELPM_TEST_ROOT", root)
	path := writeConfigFile(t, dir, "roots:\n  - ${HEGELPM_TEST_ROOT}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{root}, cfg.Roots)
}

func TestValidateRejectsEmptyRoots(t *testing.T) {
	cfg := &Config{MaxDepth: 1, CacheFile: filepath.Join(t.TempDir(), "cache.bin")}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsRelativeRoot(t *testing.T) {
	cfg := &Config{Roots: []string{"relative/path"}, MaxDepth: 1, CacheFile: filepath.Join(t.TempDir(), "cache.bin")}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonDirectoryRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := &Config{Roots: []string{file}, MaxDepth: 1, CacheFile: filepath.Join(dir, "cache.bin")}
	require.Error(t, cfg.Validate())
}

func TestValidateCreatesCacheDirectory(t *testing.T) {
	root := t.TempDir()
	cacheFile := filepath.Join(t.TempDir(), "nested", "cache.bin")

	cfg := &Config{Roots: []string{root}, MaxDepth: 3, CacheFile: cacheFile}
	require.NoError(t, cfg.Validate())

	info, err := os.Stat(filepath.Dir(cacheFile))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestExclusionSetContainsConfiguredNames(t *testing.T) {
	cfg := &Config{Exclusions: []string{"vendor", "node_modules"}}
	set := cfg.ExclusionSet()
	require.Contains(t, set, "vendor")
	require.Contains(t, set, "node_modules")
	require.NotContains(t, set, "src")
}

func TestCacheDirIsSiblingOfCacheFile(t *testing.T) {
	cfg := &Config{CacheFile: "/home/user/.config/hegelpm/cache.bin"}
	require.Equal(t, "/home/user/.config/hegelpm/cache", cfg.CacheDir())
}
