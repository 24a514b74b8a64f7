package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("state", "", "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.True(t, filepath.IsAbs(cfg.StatePath) || cfg.StatePath == DefaultStateFile)
	assert.Contains(t, cfg.StatePath, ".recset")
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recset.yaml"),
		[]byte("output: json\nstate_path: custom/state.db\n"), 0o644))
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	// Relative paths resolve against the project root.
	assert.Equal(t, filepath.Join(dir, "custom/state.db"), cfg.StatePath)
	assert.Equal(t, filepath.Join(dir, "recset.yaml"), GetConfigFileUsed())
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "recset.yml"),
		[]byte("output: markdown\n"), 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, root, cfg.ProjectRoot)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recset.yaml"),
		[]byte("output: text\n"), 0o644))
	chdir(t, dir)
	t.Setenv("RECSET_OUTPUT", "json")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_FlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recset.yaml"),
		[]byte("output: text\n"), 0o644))
	chdir(t, dir)
	t.Setenv("RECSET_OUTPUT", "markdown")

	fs := newFlags(t)
	require.NoError(t, fs.Parse([]string{"--output", "json", "--state", "flag/state.db"}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	// --state maps onto the state_path key.
	assert.Equal(t, filepath.Join(dir, "flag/state.db"), cfg.StatePath)
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recset.yaml"),
		[]byte("output: json\n"), 0o644))
	chdir(t, dir)

	cfg, err := LoadConfig("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_InvalidOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recset.yaml"),
		[]byte("output: xml\n"), 0o644))
	chdir(t, dir)

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output")
}

func TestLoadConfig_ExplicitFileSetsProjectRoot(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("state_path: s.db\n"), 0o644))
	chdir(t, t.TempDir())

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, "s.db"), cfg.StatePath)
}