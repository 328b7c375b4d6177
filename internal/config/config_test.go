package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	content := `
listen: ":9090"
db:
  host: db.internal
  querytimeout: 3s
currency:
  symbol: "€"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "€", cfg.Currency.Symbol)
	// untouched keys keep their defaults
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "./storage/ledger", cfg.Ledger.Dir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  host: from-file\n"), 0644))
	t.Setenv("PENNYWISE_DB_HOST", "from-env")
	t.Setenv("PENNYWISE_LEDGER_DIR", "/var/lib/pennywise")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, "/var/lib/pennywise", cfg.Ledger.Dir)
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Defaults().Validate())
	})

	t.Run("collects every problem", func(t *testing.T) {
		cfg := Defaults()
		cfg.Database.Port = 0
		cfg.Database.MaxConns = 0
		cfg.Currency.Symbol = ""

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid db.port 0")
		assert.Contains(t, err.Error(), "invalid db.maxconns 0")
		assert.Contains(t, err.Error(), "currency.symbol cannot be empty")
	})
}
