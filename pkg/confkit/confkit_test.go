package confkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Run("relative_joins_base", func(t *testing.T) {
		assert.Equal(t, filepath.Join("/etc/app", "exchange.yaml"), ResolvePath("/etc/app", "exchange.yaml"))
	})

	t.Run("absolute_passthrough", func(t *testing.T) {
		assert.Equal(t, "/opt/exchange.yaml", ResolvePath("/etc/app", "/opt/exchange.yaml"))
	})

	t.Run("env_expansion", func(t *testing.T) {
		t.Setenv("CONF_DIR", "/srv/conf")
		assert.Equal(t, "/srv/conf/exchange.yaml", ResolvePath("/etc/app", "${CONF_DIR}/exchange.yaml"))
	})
}

func TestBaseDir(t *testing.T) {
	assert.Equal(t, "/etc/app", BaseDir("/etc/app/main.yaml"))
}

type sampleConf struct {
	Name  string `json:",default=unnamed"`
	Limit int    `json:",default=5"`
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Name: demo\nLimit: 9\n"), 0o600))

	cfg, err := LoadFile[sampleConf](path, false)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, 9, cfg.Limit)

	_, err = LoadFile[sampleConf](filepath.Join(dir, "missing.yaml"), false)
	assert.Error(t, err)
}

func TestSectionHydrate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "section.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Name: hydrated\n"), 0o600))

	t.Run("loads_relative_file", func(t *testing.T) {
		section := Section[sampleConf]{File: "section.yaml"}
		err := section.Hydrate(dir, func(p string) (*sampleConf, error) {
			return LoadFile[sampleConf](p, false)
		})
		require.NoError(t, err)
		require.NotNil(t, section.Value)
		assert.Equal(t, "hydrated", section.Value.Name)
		assert.Equal(t, path, section.File)
	})

	t.Run("empty_file_is_noop", func(t *testing.T) {
		section := Section[sampleConf]{}
		err := section.Hydrate(dir, func(p string) (*sampleConf, error) {
			t.Error("loader must not run for an empty section")
			return nil, nil
		})
		require.NoError(t, err)
		assert.Nil(t, section.Value)
	})
}

func TestProjectRoot(t *testing.T) {
	root, err := ProjectRoot()
	require.NoError(t, err)
	assert.NotEmpty(t, root)

	p := MustProjectPath("data")
	assert.Equal(t, filepath.Join(root, "data"), p)
}
