package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaults verifies the zero-config path is usable
func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":35430", cfg.Server.ListenAddr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "http://localhost:6333", cfg.Qdrant.URL)
	assert.Equal(t, "nomic-embed-text", cfg.Embed.Model)
}

// TestFileOverridesDefaults verifies YAML values win over defaults
func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  listen_addr: ":9000"
redis:
  addr: "redis.internal:6379"
llm:
  model: "gpt-4o-mini"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.ListenAddr)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	// Untouched sections keep defaults
	assert.Equal(t, "http://localhost:6333", cfg.Qdrant.URL)
}

// TestEnvOverridesFile verifies environment wins over the file
func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("redis:\n  addr: \"from-file:6379\"\n"), 0644))

	t.Setenv("REDIS_ADDR", "from-env:6379")
	t.Setenv("QDRANT_URL", "http://qdrant.internal:6333")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env:6379", cfg.Redis.Addr)
	assert.Equal(t, "http://qdrant.internal:6333", cfg.Qdrant.URL)
}

// TestLoadMissingFile verifies a bad path is an error
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
