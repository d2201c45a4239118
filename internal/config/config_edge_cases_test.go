package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staticdex/staticdex/internal/config"
)

func TestLoad_EmptyConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".staticdex.yaml"), []byte(""), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig().DefaultResultLimit, cfg.DefaultResultLimit)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".staticdex.yaml"), []byte("default_result_limit: [unterminated\n"), 0o644))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestLoad_YAMLTakesPrecedenceOverYML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".staticdex.yaml"), []byte("default_result_limit: 11\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".staticdex.yml"), []byte("default_result_limit: 22\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.DefaultResultLimit)
}

func TestValidate_ZeroQueryLengthRejected(t *testing.T) {
	cfg := config.NewConfig()
	cfg.DefaultQueryLength = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_NegativeResultLimitRejected(t *testing.T) {
	cfg := config.NewConfig()
	cfg.DefaultResultLimit = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_NegativeFuzzyDistanceRejected(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxFuzzyDistance = -1
	assert.Error(t, cfg.Validate())
}

func TestFindProjectRoot_PrefersGitOverAncestorConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".staticdex.yaml"), []byte("version: 1\n"), 0o644))

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(sub, ".git"), 0o755))

	found, err := config.FindProjectRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, sub, found)
}

func TestEnvOverride_InvalidValueIgnored(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STATICDEX_DEFAULT_RESULT_LIMIT", "not-a-number")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig().DefaultResultLimit, cfg.DefaultResultLimit)
}

func TestEnvOverride_CaseFold(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STATICDEX_CASE_FOLD", "NONE")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.CaseFoldNone, cfg.CaseFold)
}
