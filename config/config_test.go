package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kodelang.dev/cellc/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cellc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultIsZeroValue(t *testing.T) {
	opts := config.Default()
	require.False(t, opts.Evaluate)
	require.Empty(t, opts.RecoveryTokens)
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, "evaluate: true\nrecovery_tokens: [semicolon]\n")
	opts, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, opts.Evaluate)
	require.Equal(t, []string{"semicolon"}, opts.RecoveryTokens)

	parserOpts, err := opts.ParserOptions()
	require.NoError(t, err)
	require.Len(t, parserOpts, 1)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "evaluate: true\nnot_a_real_option: 1\n")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownRecoveryToken(t *testing.T) {
	path := writeConfig(t, "recovery_tokens: [semicolon, banana]\n")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadRejectsWrongType(t *testing.T) {
	path := writeConfig(t, "evaluate: \"yes\"\n")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
