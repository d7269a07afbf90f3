package discovery

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dialecticianai/hegel-pm-sub000/internal/config"
)

func testConfig(t *testing.T, roots ...string) *config.Config {
	t.Helper()
	cacheFile := filepath.Join(t.TempDir(), "cache.bin")
	return &config.Config{
		Roots:     roots,
		MaxDepth:  4,
		CacheFile: cacheFile,
	}
}

func mkEngineProject(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	hegelDir := filepath.Join(dir, hegelDirName)
	require.NoError(t, os.MkdirAll(hegelDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(hegelDir, "state.json"), []byte(`{"mode":"planning","node":"intake"}`), 0o600))
	return dir
}

func TestEngineGetProjectsScansAndCaches(t *testing.T) {
	root := t.TempDir()
	mkEngineProject(t, root, "one")
	mkEngineProject(t, root, "two")

	cfg := testConfig(t, root)
	engine := NewEngine(cfg)

	projects := engine.GetProjects(false)
	require.Len(t, projects, 2)
	for _, p := range projects {
		require.NotNil(t, p.WorkflowState)
		require.Equal(t, "planning", p.WorkflowState.Mode)
	}

	// A fresh Engine backed by the same cache directory should see the
	// persisted result without touching the filesystem walk.
	second := NewEngine(cfg)
	cached := second.GetProjects(false)
	require.Len(t, cached, 2)
}

func TestEngineFindProjectNotFound(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	engine := NewEngine(cfg)
	engine.GetProjects(false)

	_, err := engine.FindProject("ghost")
	require.Error(t, err)
}

func TestEngineRemoveProject(t *testing.T) {
	root := t.TempDir()
	mkEngineProject(t, root, "one")

	cfg := testConfig(t, root)
	engine := NewEngine(cfg)
	engine.GetProjects(false)

	require.NoError(t, engine.RemoveProject("one"))
	_, err := engine.FindProject("one")
	require.Error(t, err)
}

func TestEngineRefreshProjectsUpdatesLastActivity(t *testing.T) {
	root := t.TempDir()
	projectDir := mkEngineProject(t, root, "one")

	cfg := testConfig(t, root)
	engine := NewEngine(cfg)
	before := engine.GetProjects(false)
	require.Len(t, before, 1)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, hegelDirName, "hooks.jsonl"), []byte(`{}`), 0o600))

	after := engine.RefreshProjects([]string{"one"})
	require.Len(t, after, 1)
	require.True(t, after[0].LastActivity.After(before[0].LastActivity) || after[0].LastActivity.Equal(before[0].LastActivity))
}

func TestEngineSortsByLastActivityDescending(t *testing.T) {
	root := t.TempDir()
	older := mkEngineProject(t, root, "older")
	newer := mkEngineProject(t, root, "newer")

	oldTime := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(older, hegelDirName, "state.json"), oldTime, oldTime))

	cfg := testConfig(t, root)
	engine := NewEngine(cfg)
	projects := engine.GetProjects(false)

	require.Len(t, projects, 2)
	require.Equal(t, "newer", projects[0].Name)
	require.Equal(t, "older", projects[1].Name)
	_ = newer
}
