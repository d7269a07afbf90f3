// Package crossproject runs an external command once per discovered
// project, streaming its output unchanged. It is not performance critical —
// projects are visited sequentially, one subprocess at a time.
package crossproject

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/dialecticianai/hegel-pm-sub000/internal/discovery"
)

// Engine is the subset of *discovery.Engine the runner needs.
type Engine interface {
	GetProjects(forceRefresh bool) []discovery.DiscoveredProject
}

// Summary reports how many project invocations succeeded and failed.
type Summary struct {
	Succeeded int
	Failed    int
}

// Run executes command with args inside every discovered project's
// directory, in iteration order. Each invocation's stdout and stderr are
// streamed to out/errOut unchanged, preceded by a delimiter naming the
// project. A failing subprocess is recorded but does not abort the run.
func Run(ctx context.Context, engine Engine, command string, args []string, out, errOut io.Writer) Summary {
	projects := engine.GetProjects(false)

	var summary Summary
	for _, project := range projects {
		fmt.Fprintf(out, "=== %s (%s) ===\n", project.Name, project.ProjectPath)

		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Dir = project.ProjectPath
		cmd.Stdout = out
		cmd.Stderr = errOut
		cmd.Stdin = os.Stdin

		if err := cmd.Run(); err != nil {
			fmt.Fprintf(errOut, "--- %s failed: %v ---\n", project.Name, err)
			summary.Failed++
			continue
		}
		summary.Succeeded++
	}

	return summary
}
