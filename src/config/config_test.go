package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"memo-notes/src/config"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("デフォルト値でのconfig読み込み", func(t *testing.T) {
		cfg := config.LoadConfig()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "release", cfg.Server.Mode)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "logs", cfg.Log.Directory)
		assert.False(t, cfg.Log.UploadEnabled)
		assert.Equal(t, 24*time.Hour, cfg.Log.UploadMaxAge)
		assert.Equal(t, 1*time.Hour, cfg.Log.UploadInterval)

		assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
		assert.Equal(t, "memo-notes", cfg.S3.Bucket)
		assert.False(t, cfg.S3.UseSSL)

		assert.Equal(t, "file", cfg.Store.Driver)
		assert.Equal(t, "data", cfg.Store.DataDir)
		assert.False(t, cfg.Store.Strict)
		assert.False(t, cfg.Store.FailOnWriteError)
		assert.Equal(t, 6*time.Hour, cfg.Store.BackupInterval)

		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 5, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)

		assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
		assert.Equal(t, 24*time.Hour, cfg.Server.CORSMaxAge)

		assert.True(t, cfg.RateLimit.Enabled)
		assert.Equal(t, 20.0, cfg.RateLimit.RequestsPerSecond)
		assert.Equal(t, 40, cfg.RateLimit.Burst)
	})

	t.Run("環境変数でのconfig上書き", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_UPLOAD_ENABLED", "true")
		t.Setenv("LOG_UPLOAD_INTERVAL", "30m")
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("STORE_DATA_DIR", "/var/lib/memo")
		t.Setenv("STORE_STRICT", "true")
		t.Setenv("STORE_FAIL_ON_WRITE_ERROR", "1")
		t.Setenv("DB_PORT", "15432")
		t.Setenv("RATE_LIMIT_RPS", "2.5")
		t.Setenv("RATE_LIMIT_BURST", "5")

		cfg := config.LoadConfig()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.UploadEnabled)
		assert.Equal(t, 30*time.Minute, cfg.Log.UploadInterval)
		assert.Equal(t, "postgres", cfg.Store.Driver)
		assert.Equal(t, "/var/lib/memo", cfg.Store.DataDir)
		assert.True(t, cfg.Store.Strict)
		assert.True(t, cfg.Store.FailOnWriteError)
		assert.Equal(t, 15432, cfg.Database.Port)
		assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
		assert.Equal(t, 5, cfg.RateLimit.Burst)
	})

	t.Run("不正な値はデフォルト値", func(t *testing.T) {
		t.Setenv("LOG_UPLOAD_ENABLED", "maybe")
		t.Setenv("STORE_BACKUP_INTERVAL", "soon")
		t.Setenv("DB_PORT", "abc")

		cfg := config.LoadConfig()

		assert.False(t, cfg.Log.UploadEnabled)
		assert.Equal(t, 6*time.Hour, cfg.Store.BackupInterval)
		assert.Equal(t, 5432, cfg.Database.Port)
	})

	t.Run("0以下の間隔はデフォルト値", func(t *testing.T) {
		t.Setenv("LOG_UPLOAD_INTERVAL", "0s")
		t.Setenv("LOG_UPLOAD_MAX_AGE", "-5m")
		t.Setenv("STORE_BACKUP_INTERVAL", "-1h")

		cfg := config.LoadConfig()

		assert.Equal(t, 1*time.Hour, cfg.Log.UploadInterval)
		assert.Equal(t, 24*time.Hour, cfg.Log.UploadMaxAge)
		assert.Equal(t, 6*time.Hour, cfg.Store.BackupInterval)
	})

	t.Run("CORSオリジンはカンマ区切り", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")
		t.Setenv("CORS_MAX_AGE", "10m")
		t.Setenv("DB_MAX_OPEN_CONNS", "12")
		t.Setenv("DB_CONNECT_TIMEOUT", "3s")

		cfg := config.LoadConfig()

		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
		assert.Equal(t, 10*time.Minute, cfg.Server.CORSMaxAge)
		assert.Equal(t, 12, cfg.Database.MaxOpenConns)
		assert.Equal(t, 3*time.Second, cfg.Database.ConnectTimeout)
	})

	t.Run("空のオリジン指定はデフォルト値", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " , ")

		cfg := config.LoadConfig()

		assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })
	assert.NoError(t, os.Chdir(dir))

	assert.Empty(t, config.LoadDotEnv())

	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MEMO_TEST_DOTENV=from-file\nSERVER_PORT=7070\n"), 0644))
	t.Setenv("SERVER_PORT", "6060")
	t.Setenv("MEMO_TEST_DOTENV", "")
	os.Unsetenv("MEMO_TEST_DOTENV")

	assert.Equal(t, []string{".env"}, config.LoadDotEnv())
	assert.Equal(t, "from-file", os.Getenv("MEMO_TEST_DOTENV"))
	// 既存の環境変数は上書きしない
	assert.Equal(t, "6060", os.Getenv("SERVER_PORT"))
}
