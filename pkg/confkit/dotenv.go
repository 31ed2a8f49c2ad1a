package confkit

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce seeds the environment from .env files between this source
// file and the repository root. Only the first call does any work. Variables
// already present in the environment win unless DOTENV_OVERLOAD=1; NO_DOTENV=1
// disables the whole mechanism and ENV_FILE pins one explicit file.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	load := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		load = godotenv.Overload
	}

	if pinned := os.Getenv("ENV_FILE"); pinned != "" {
		_ = load(pinned)
		return
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		_ = load(".env")
		return
	}
	dir := filepath.Dir(file)
	for i := 0; i < maxWalkDepth; i++ {
		_ = load(filepath.Join(dir, ".env"))
		if hasRootMarker(dir) {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
