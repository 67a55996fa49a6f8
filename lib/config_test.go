package rolodex

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test-none")

	c, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "5001", c.Port())
	assert.Equal(t, "postgres", c.StoreDriver())
	assert.Equal(t, "memory", c.CacheDriver())
	assert.Equal(t, 5*time.Minute, c.CacheTTL())
	assert.Equal(t, "contacts_db", c.MongoDatabase())
	assert.Equal(t, 0, c.QueryMaxLimit())
	assert.Equal(t, "test-none", c.Environment())
	assert.Contains(t, c.DSN(), "dbname=contacts_db")
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rolodex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "8080"
store:
  driver: mongo
cache:
  driver: redis
  ttl: 1m
query:
  max_limit: 100
`), 0o644))

	t.Setenv("APP_ENV", "test-none")
	t.Setenv("API_PORT", "9090")
	t.Setenv("QUERY_MAX_PATTERN_LENGTH", "64")

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", c.Port())
	assert.Equal(t, ":9090", c.Addr())
	assert.Equal(t, "mongo", c.StoreDriver())
	assert.Equal(t, "redis", c.CacheDriver())
	assert.Equal(t, time.Minute, c.CacheTTL())
	assert.Equal(t, 100, c.QueryMaxLimit())
	assert.Equal(t, 64, c.QueryMaxPatternLength())
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("APP_ENV", "test-none")

	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := LoadConfig("")
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CACHE_TTL", "soon")
	_, err = LoadConfig("")
	assert.Error(t, err)
}
