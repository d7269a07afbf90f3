package crossproject

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dialecticianai/hegel-pm-sub000/internal/discovery"
)

type mockEngine struct {
	projects []discovery.DiscoveredProject
}

func (m *mockEngine) GetProjects(bool) []discovery.DiscoveredProject {
	return m.projects
}

func TestRunCountsSuccessAndFailure(t *testing.T) {
	engine := &mockEngine{projects: []discovery.DiscoveredProject{
		{Name: "one", ProjectPath: t.TempDir()},
		{Name: "two", ProjectPath: t.TempDir()},
	}}

	var out, errOut bytes.Buffer
	summary := Run(context.Background(), engine, "true", nil, &out, &errOut)

	require.Equal(t, 2, summary.Succeeded)
	require.Equal(t, 0, summary.Failed)
	require.Contains(t, out.String(), "one")
	require.Contains(t, out.String(), "two")
}

func TestRunRecordsFailureWithoutAborting(t *testing.T) {
	engine := &mockEngine{projects: []discovery.DiscoveredProject{
		{Name: "bad", ProjectPath: t.TempDir()},
		{Name: "good", ProjectPath: t.TempDir()},
	}}

	var out, errOut bytes.Buffer
	summary := Run(context.Background(), engine, "false", nil, &out, &errOut)

	require.Equal(t, 0, summary.Succeeded)
	require.Equal(t, 2, summary.Failed)
}
