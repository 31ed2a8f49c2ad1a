package confkit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	require.Equal(t, "/abs/file.yaml", ResolvePath("/base", "/abs/file.yaml"))
	require.Equal(t, "/base/etc/file.yaml", ResolvePath("/base", "etc/file.yaml"))

	t.Setenv("CONFKIT_TEST_DIR", "/from-env")
	require.Equal(t, "/from-env/file.yaml", ResolvePath("/base", "${CONFKIT_TEST_DIR}/file.yaml"))
	t.Setenv("CONFKIT_TEST_DIR", "sub")
	require.Equal(t, "/base/sub/file.yaml", ResolvePath("/base", "${CONFKIT_TEST_DIR}/file.yaml"))
}

func TestSectionHydrateSkipsEmptyFile(t *testing.T) {
	var section Section[int]
	err := section.Hydrate("/base", func(string) (*int, error) {
		t.Fatal("loader must not run without a file")
		return nil, nil
	})
	require.NoError(t, err)
	require.Nil(t, section.Value)
}

func TestSectionHydrate(t *testing.T) {
	section := Section[string]{File: "sub.yaml"}
	loaded := "loaded"
	err := section.Hydrate("/base", func(path string) (*string, error) {
		require.Equal(t, "/base/sub.yaml", path)
		return &loaded, nil
	})
	require.NoError(t, err)
	require.NotNil(t, section.Value)
	require.Equal(t, "loaded", *section.Value)
	require.Equal(t, "/base/sub.yaml", section.File)
}

func TestSectionHydrateWrapsLoaderError(t *testing.T) {
	section := Section[string]{File: "broken.yaml"}
	boom := errors.New("boom")
	err := section.Hydrate("/base", func(string) (*string, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "hydrate section")
	require.Nil(t, section.Value)
}

func TestProjectPath(t *testing.T) {
	// The root is identified by go.mod, so the joined path must exist.
	_, err := os.Stat(ProjectPath("go.mod"))
	require.NoError(t, err)
}

func TestLoadYAML(t *testing.T) {
	type sample struct {
		Name string
		Port int `json:",default=8080"`
	}
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Name: finsight\n"), 0o644))

	cfg, err := LoadYAML[sample](path)
	require.NoError(t, err)
	require.Equal(t, "finsight", cfg.Name)
	require.Equal(t, 8080, cfg.Port)

	_, err = LoadYAML[sample](filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
