package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/rest"

	"finsight-api/pkg/confkit"
	marketpkg "finsight-api/pkg/market"
)

// Config is the top-level service configuration. The market data section may
// live inline or in its own file next to the main config.
type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod.
	Env string `json:",default=test"`

	Market confkit.Section[marketpkg.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

var knownEnvs = map[string]struct{}{
	"test": {}, "dev": {}, "prod": {},
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test" || c.Env == ""
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the main config file, validates it and hydrates file-backed
// sections relative to the config's own directory.
func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	cfg, err := confkit.LoadYAML[Config](absPath)
	if err != nil {
		return nil, err
	}
	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Market.Hydrate(cfg.baseDir, marketpkg.LoadConfig); err != nil {
		return nil, fmt.Errorf("load market config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	if env == "" {
		c.Env = "test"
		return nil
	}
	if _, ok := knownEnvs[env]; !ok {
		return fmt.Errorf("config: env must be one of test|dev|prod, got %q", c.Env)
	}
	c.Env = env
	return nil
}

// MainPath returns the absolute path of the loaded config file.
func (c *Config) MainPath() string { return c.mainPath }

// BaseDir returns the directory file-backed sections resolve against.
func (c *Config) BaseDir() string { return c.baseDir }
