package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()

	assert.Equal(t, "BUCK", cfg.BuildFileName)
	assert.Equal(t, "buck-out/android", cfg.AndroidDir)
	assert.Equal(t, "buck-out/gen", cfg.GenDir)
	assert.Equal(t, "buck-out/bin", cfg.BinDir)
	assert.Equal(t, "buck-out/annotation", cfg.AnnotationDir)
	assert.Empty(t, cfg.Aliases)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	contents := `
build_file_name: BUILD
default_includes:
  - //tools/defs
ignore:
  - "third_party/**"
aliases:
  app: //apps/myapp:myapp
gen_dir: out/gen
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte(contents), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "BUILD", cfg.BuildFileName)
	assert.Equal(t, []string{"//tools/defs"}, cfg.DefaultIncludes)
	assert.Equal(t, []string{"third_party/**"}, cfg.Ignore)
	assert.Equal(t, "//apps/myapp:myapp", cfg.Aliases["app"])
	assert.Equal(t, "out/gen", cfg.GenDir)
	// Untouched fields keep their defaults.
	assert.Equal(t, "buck-out/bin", cfg.BinDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("gen_dir: out/gen\n"), 0o644))
	t.Setenv("buck.buck_gen_dir", "env/gen")
	t.Setenv("buck.buck_bin_dir", "env/bin")

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "env/gen", cfg.GenDir)
	assert.Equal(t, "env/bin", cfg.BinDir)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("{not yaml"), 0o644))

	_, err := Load(root)
	assert.Error(t, err)
}
