// Package confkit holds the configuration plumbing shared by the server and
// the CLI: dotenv bootstrap, repository-relative path resolution and
// hydration of config sections that live in their own files.
package confkit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeromicro/go-zero/core/conf"
)

// ResolvePath expands environment variables in file and resolves it against
// base when relative. Absolute paths pass through untouched.
func ResolvePath(base, file string) string {
	expanded := os.ExpandEnv(file)
	if filepath.IsAbs(expanded) {
		return expanded
	}
	return filepath.Join(base, expanded)
}

// Section is a config subtree that may be split out into its own file. File
// names that file relative to the main config; Value carries the loaded
// subtree after Hydrate.
type Section[T any] struct {
	File  string `json:",optional"`
	Value *T     `json:"-"`
}

// Hydrate loads the section file through loader, resolving File against base.
// A section without a File stays empty; that is not an error. On success File
// is rewritten to the resolved absolute path.
func (s *Section[T]) Hydrate(base string, loader func(string) (*T, error)) error {
	if s.File == "" {
		return nil
	}
	resolved := ResolvePath(base, s.File)
	value, err := loader(resolved)
	if err != nil {
		return fmt.Errorf("hydrate section %s: %w", resolved, err)
	}
	s.File, s.Value = resolved, value
	return nil
}

// LoadYAML reads a config file into T with go-zero's loader, expanding
// ${VAR} references from the environment.
func LoadYAML[T any](path string) (*T, error) {
	var cfg T
	if err := conf.Load(path, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}
