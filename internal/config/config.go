package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"

	"futgate/pkg/confkit"
	exchangepkg "futgate/pkg/exchange"
	executorpkg "futgate/pkg/executor"
)

// Config is the application-level configuration. The exchange and executor
// sections live in their own yaml files and are hydrated after the main file
// loads.
type Config struct {
	// Env indicates the running environment: test | dev | prod.
	// Defaults to test; test mode forces dry-run regardless of the
	// executor section.
	Env      string `json:",default=test"`
	DataPath string `json:",default=data"`
	// TickCachePath overrides where instrument tick sizes are persisted,
	// relative to DataPath unless absolute.
	TickCachePath string `json:",default=tick_size_cache.json"`

	Exchange confkit.Section[exchangepkg.Config] `json:",optional"`
	Executor confkit.Section[executorpkg.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test" || c.Env == ""
}

// ResolveTickCachePath returns the absolute location of the tick size cache.
func (c *Config) ResolveTickCachePath() string {
	if filepath.IsAbs(c.TickCachePath) {
		return c.TickCachePath
	}
	return filepath.Join(confkit.ResolvePath(c.baseDir, c.DataPath), c.TickCachePath)
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	if cfg.IsTestEnv() && cfg.Executor.Value != nil {
		cfg.Executor.Value.DryRun = true
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "test"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("config: dataPath is required")
	}
	if strings.TrimSpace(c.TickCachePath) == "" {
		return errors.New("config: tickCachePath is required")
	}
	return nil
}

func (c *Config) hydrateSections() error {
	base := c.baseDir

	if err := c.Exchange.Hydrate(base, exchangepkg.LoadConfig); err != nil {
		return fmt.Errorf("load exchange config: %w", err)
	}
	if err := c.Executor.Hydrate(base, executorpkg.LoadConfig); err != nil {
		return fmt.Errorf("load executor config: %w", err)
	}

	return nil
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
