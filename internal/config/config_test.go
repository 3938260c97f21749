package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACTIVITIES_API", "")
	t.Setenv("METRICS_ADDRESS", "")

	cfg := Load()
	require.Equal(t, "http://localhost:3000", cfg.APIBaseURL)
	require.Empty(t, cfg.MetricsAddress)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ACTIVITIES_API", "https://api.example.com/v1/")
	t.Setenv("METRICS_ADDRESS", ":9102")

	cfg := Load()
	require.Equal(t, "https://api.example.com/v1", cfg.APIBaseURL)
	require.Equal(t, ":9102", cfg.MetricsAddress)
}
