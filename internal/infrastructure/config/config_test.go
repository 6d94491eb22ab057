package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"TOUROPS_APP_NAME":                os.Getenv("TOUROPS_APP_NAME"),
		"TOUROPS_APP_ENV":                 os.Getenv("TOUROPS_APP_ENV"),
		"TOUROPS_APP_PORT":                os.Getenv("TOUROPS_APP_PORT"),
		"TOUROPS_DATABASE_HOST":           os.Getenv("TOUROPS_DATABASE_HOST"),
		"TOUROPS_DATABASE_PORT":           os.Getenv("TOUROPS_DATABASE_PORT"),
		"TOUROPS_DATABASE_USER":           os.Getenv("TOUROPS_DATABASE_USER"),
		"TOUROPS_DATABASE_PASSWORD":       os.Getenv("TOUROPS_DATABASE_PASSWORD"),
		"TOUROPS_DATABASE_DBNAME":         os.Getenv("TOUROPS_DATABASE_DBNAME"),
		"TOUROPS_DATABASE_SSLMODE":        os.Getenv("TOUROPS_DATABASE_SSLMODE"),
		"TOUROPS_DATABASE_MAX_OPEN_CONNS": os.Getenv("TOUROPS_DATABASE_MAX_OPEN_CONNS"),
		"TOUROPS_DATABASE_MAX_IDLE_CONNS": os.Getenv("TOUROPS_DATABASE_MAX_IDLE_CONNS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "tourops-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "tourops", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	})

	t.Run("loads values from environment variables with TOUROPS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("TOUROPS_APP_NAME", "test-app")
		os.Setenv("TOUROPS_APP_ENV", "testing")
		os.Setenv("TOUROPS_APP_PORT", "9000")
		os.Setenv("TOUROPS_DATABASE_HOST", "testdb.local")
		os.Setenv("TOUROPS_DATABASE_PORT", "5433")
		os.Setenv("TOUROPS_DATABASE_USER", "testuser")
		os.Setenv("TOUROPS_DATABASE_PASSWORD", "testpass")
		os.Setenv("TOUROPS_DATABASE_DBNAME", "testdb")
		os.Setenv("TOUROPS_DATABASE_SSLMODE", "require")
		os.Setenv("TOUROPS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("TOUROPS_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("TOUROPS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("TOUROPS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("TOUROPS_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("TOUROPS_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("production requires database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("TOUROPS_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		clearEnv()
		os.Setenv("TOUROPS_APP_ENV", "production")
		os.Setenv("TOUROPS_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "tourops",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "tourops")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in credentials are escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
