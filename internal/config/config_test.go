package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DEPOT", "")
	t.Setenv("STORE", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "Auckland Airport", cfg.Depot)
	require.Equal(t, "sqlite", cfg.Store.Backend)
	require.Len(t, cfg.Zones.Rules, 3)
	require.Equal(t, "south_east", cfg.Zones.Fallback)
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
depot: Hub
graph: city.osm.pbf
concurrency: 2
speeds:
  residential: 25
zones:
  fallback: all
  rules: []
store:
  backend: redis
  redis-ttl: 1h
`), 0o644))

	t.Setenv("DEPOT", "")
	t.Setenv("GRAPH_PATH", "")
	t.Setenv("CONCURRENCY", "")
	t.Setenv("STORE", "")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Hub", cfg.Depot)
	require.Equal(t, "city.osm.pbf", cfg.GraphPath)
	require.Equal(t, 2, cfg.Concurrency)
	require.Equal(t, 25.0, cfg.Speeds["residential"])
	require.Equal(t, "all", cfg.Zones.Fallback)
	require.Empty(t, cfg.Zones.Rules)
	require.Equal(t, "redis", cfg.Store.Backend)
	require.Equal(t, time.Hour, cfg.Store.RedisTTL)
	require.Equal(t, "9090", cfg.Port)

	t.Setenv("DEPOT", "Other Hub")
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, "Other Hub", cfg.Depot)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE", "postgres")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	t.Setenv("STORE", "cassandra")
	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depot: [unclosed"), 0o644))
	t.Setenv("STORE", "")
	_, err = Load(path)
	require.Error(t, err)
}

func TestGetInt(t *testing.T) {
	t.Setenv("WORKERS", "7")
	require.Equal(t, 7, GetInt("WORKERS", 1))

	t.Setenv("WORKERS", "many")
	require.Equal(t, 1, GetInt("WORKERS", 1))
}
