package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config アプリケーション設定
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	S3        S3Config
	Store     StoreConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port string
	// Mode is the gin mode: debug, release or test
	Mode        string
	CORSOrigins []string
	CORSMaxAge  time.Duration
}

// LogConfig ログ設定
type LogConfig struct {
	Level          string
	Directory      string
	UploadEnabled  bool
	UploadMaxAge   time.Duration
	UploadInterval time.Duration
}

// S3Config S3設定
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
}

// StoreConfig レコードストア設定
type StoreConfig struct {
	// Driver selects the backend: "file" or "postgres"
	Driver           string
	DataDir          string
	SeedFile         string
	Strict           bool
	FailOnWriteError bool
	BackupEnabled    bool
	BackupInterval   time.Duration
}

// DatabaseConfig PostgreSQL設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

// RateLimitConfig レート制限設定
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// LoadDotEnv .env.local と .env を読み込む。既に設定済みの環境変数は上書きしない
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// LoadConfig 環境変数から設定を読み込み
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Mode: getEnv("GIN_MODE", "release"),
			// カンマ区切り。"*" は全オリジンを許可
			CORSOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			CORSMaxAge:  getDurationEnv("CORS_MAX_AGE", 24*time.Hour),
		},
		Log: LogConfig{
			Level:          getEnv("LOG_LEVEL", "info"),
			Directory:      getEnv("LOG_DIRECTORY", "logs"),
			UploadEnabled:  getBoolEnv("LOG_UPLOAD_ENABLED", false),
			UploadMaxAge:   getDurationEnv("LOG_UPLOAD_MAX_AGE", 24*time.Hour),
			UploadInterval: getDurationEnv("LOG_UPLOAD_INTERVAL", 1*time.Hour),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", "http://localhost:9000"), // MinIO用のデフォルト
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "memo-notes"),
			UseSSL:          getBoolEnv("S3_USE_SSL", false),
		},
		Store: StoreConfig{
			Driver:           getEnv("STORE_DRIVER", "file"),
			DataDir:          getEnv("STORE_DATA_DIR", "data"),
			SeedFile:         getEnv("STORE_SEED_FILE", ""),
			Strict:           getBoolEnv("STORE_STRICT", false),
			FailOnWriteError: getBoolEnv("STORE_FAIL_ON_WRITE_ERROR", false),
			BackupEnabled:    getBoolEnv("STORE_BACKUP_ENABLED", false),
			BackupInterval:   getDurationEnv("STORE_BACKUP_INTERVAL", 6*time.Hour),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getIntEnv("DB_PORT", 5432),
			User:     getEnv("DB_USER", "memo_user"),
			Password: getEnv("DB_PASSWORD", "memo_password"),
			DBName:   getEnv("DB_NAME", "memo_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnectTimeout:  getDurationEnv("DB_CONNECT_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolEnv("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatEnv("RATE_LIMIT_RPS", 20),
			Burst:             getIntEnv("RATE_LIMIT_BURST", 40),
		},
	}
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getListEnv カンマ区切りの環境変数をスライスで取得
func getListEnv(key string, defaultValue []string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// getBoolEnv 環境変数をboolで取得
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv 環境変数をintで取得
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getFloatEnv 環境変数をfloat64で取得
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv 環境変数をtime.Durationで取得。0以下の値はデフォルト値
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
