package discovery

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dialecticianai/hegel-pm-sub000/internal/logfields"
)

// Walk performs a bounded-depth traversal of root, yielding every path that
// contains a .hegel/ directory child. Directories whose basename is in
// exclusions are pruned. Symbolic links are never followed, to prevent
// cycles and escapes from root. A non-existent root yields no paths and
// logs an error rather than aborting the caller's other roots.
func Walk(root string, maxDepth int, exclusions map[string]struct{}) []string {
	info, err := os.Lstat(root)
	if err != nil {
		slog.Error("discovery root not accessible", logfields.Root(root), logfields.Error(err))
		return nil
	}
	if !info.IsDir() {
		slog.Error("discovery root is not a directory", logfields.Root(root))
		return nil
	}

	var projects []string
	walkDir(root, root, 0, maxDepth, exclusions, &projects)
	return projects
}

// walkDir recursively visits dir, appending project paths to projects.
// depth is the number of edges from the original root.
func walkDir(root, dir string, depth, maxDepth int, exclusions map[string]struct{}, projects *[]string) {
	if isProject(dir) {
		*projects = append(*projects, dir)
		return // nested projects are not supported
	}

	if depth >= maxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsPermission(err) {
			slog.Warn("permission denied, skipping subtree", logfields.Path(dir), logfields.Error(err))
			return
		}
		slog.Warn("failed to read directory", logfields.Path(dir), logfields.Error(err))
		return
	}

	for _, entry := range entries {
		// os.ReadDir entries report their own (unresolved) type, so a
		// symlink to a directory is not IsDir() here and is skipped —
		// satisfies "symlinks are not followed".
		if !entry.IsDir() {
			continue
		}
		if _, excluded := exclusions[entry.Name()]; excluded {
			continue
		}

		walkDir(root, filepath.Join(dir, entry.Name()), depth+1, maxDepth, exclusions, projects)
	}
}

// isProject reports whether dir has a .hegel child directory (not a symlink,
// not a regular file).
func isProject(dir string) bool {
	info, err := os.Lstat(filepath.Join(dir, hegelDirName))
	if err != nil {
		return false
	}
	return info.IsDir()
}
