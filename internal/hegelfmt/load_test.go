package hegelfmt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadStateAbsentIsNotError(t *testing.T) {
	dir := t.TempDir()
	state, err := LoadState(dir)
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestLoadStateParsesExisting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "state.json"), `{"mode":"execution","node":"code"}`)

	state, err := LoadState(dir)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, "execution", state.Mode)
	require.Equal(t, "code", state.Node)
}

func TestLoadStateCorruptIsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "state.json"), `{not json`)

	_, err := LoadState(dir)
	require.Error(t, err)
}

func TestParseUnifiedMetricsEmptyHegelDir(t *testing.T) {
	dir := t.TempDir()
	metrics, err := ParseUnifiedMetrics(dir, true)
	require.NoError(t, err)
	require.Equal(t, int64(0), metrics.InputTokens)
	require.Empty(t, metrics.PhaseMetrics)
}

func TestParseUnifiedMetricsSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hooks.jsonl"),
		`{"phase_name":"spec","start_time":"2025-11-01T10:00:00Z","end_time":"2025-11-01T10:05:00Z","input_tokens":100}`+"\n"+
			`not valid json`+"\n"+
			`{"phase_name":"code","start_time":"2025-11-01T10:05:00Z","input_tokens":200}`+"\n")

	metrics, err := ParseUnifiedMetrics(dir, false)
	require.NoError(t, err)
	require.Len(t, metrics.PhaseMetrics, 2)
	require.Equal(t, int64(300), metrics.InputTokens)
}

func TestParseUnifiedMetricsIncludesArchivesWhenRequested(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "archives", "workflow-1.json"),
		`{"input_tokens":50,"event_count":1}`)

	withArchives, err := ParseUnifiedMetrics(dir, true)
	require.NoError(t, err)
	require.Equal(t, int64(50), withArchives.InputTokens)

	withoutArchives, err := ParseUnifiedMetrics(dir, false)
	require.NoError(t, err)
	require.Equal(t, int64(0), withoutArchives.InputTokens)
}
