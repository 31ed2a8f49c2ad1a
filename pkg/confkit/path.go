package confkit

import (
	"os"
	"path/filepath"
	"runtime"
)

// rootMarkers identify the repository root during the upward walk.
var rootMarkers = []string{"go.mod", ".git"}

// maxWalkDepth bounds the upward walk so a stray source layout cannot send
// the search to the filesystem root.
const maxWalkDepth = 8

// ProjectRoot locates the repository root by walking upward from this source
// file until a root marker appears. When the walk fails (stripped binary,
// relocated sources) the working directory is used instead.
func ProjectRoot() string {
	if _, file, _, ok := runtime.Caller(0); ok {
		if root, found := walkToRoot(filepath.Dir(file)); found {
			return root
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ProjectPath joins the repository root with rel. Used by fallback config
// loaders that need etc/ files regardless of the process working directory.
func ProjectPath(rel string) string {
	return filepath.Join(ProjectRoot(), rel)
}

func walkToRoot(dir string) (string, bool) {
	for i := 0; i < maxWalkDepth; i++ {
		if hasRootMarker(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
	return "", false
}

func hasRootMarker(dir string) bool {
	for _, marker := range rootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
