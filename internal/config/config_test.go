package config_test

import (
	"os"
	"testing"

	"github.com/bluebat-lang/bluebat/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("BLUEBAT_GC_THRESHOLD")
	os.Unsetenv("BLUEBAT_MAX_CALL_DEPTH")
	os.Unsetenv("BLUEBAT_PROMPT")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.DefaultGCThreshold, cfg.GCThreshold)
	require.Equal(t, config.DefaultMaxCallDepth, cfg.MaxCallDepth)
	require.Equal(t, config.DefaultPrompt, cfg.Prompt)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BLUEBAT_GC_THRESHOLD", "123")
	t.Setenv("BLUEBAT_MAX_CALL_DEPTH", "7")
	t.Setenv("BLUEBAT_PROMPT", "bb> ")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 123, cfg.GCThreshold)
	require.Equal(t, 7, cfg.MaxCallDepth)
	require.Equal(t, "bb> ", cfg.Prompt)
}
