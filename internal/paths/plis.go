// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveDataDir resolves the .plis data directory from user input.
// It normalizes the input (accepting either a project dir or a .plis dir)
// and follows redirect files for git worktrees.
//
// Input normalization:
//   - "/path/to/project" -> "/path/to/project/.plis"
//   - "/path/to/project/.plis" -> "/path/to/project/.plis"
//   - "" -> "./.plis"
//
// Redirect handling:
//   - If .plis/redirect exists, follows it to the actual .plis location.
//     This supports git worktrees where .plis contains a redirect to the
//     main worktree.
func ResolveDataDir(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	if filepath.Base(path) == ".plis" {
		return followRedirect(path)
	}

	return followRedirect(filepath.Join(path, ".plis"))
}

// followRedirect checks for a redirect file and follows it if present.
// The redirect file contains a single line with the target directory.
func followRedirect(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "redirect")) // #nosec G304 -- resolved from user-supplied project path
	if err != nil {
		return dir
	}

	target := strings.TrimSpace(string(data))
	if target == "" {
		return dir
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return filepath.Clean(target)
}

// IndexPath returns the index database path inside the resolved data dir.
func IndexPath(projectPath string) string {
	return filepath.Join(ResolveDataDir(projectPath), "index.db")
}

// DebugLogPath returns the debug log path inside the resolved data dir.
func DebugLogPath(projectPath string) string {
	return filepath.Join(ResolveDataDir(projectPath), "debug.log")
}
