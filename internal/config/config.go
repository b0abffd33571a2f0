package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	Vision  VisionConfig
	Import  ImportConfig
	Staging StagingConfig
	Archive ArchiveConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// VisionConfig holds the vision extraction tier settings. An empty APIKey
// disables the tier entirely.
type VisionConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	MaxPages    int    `mapstructure:"max_pages"`
}

// ImportConfig holds import pipeline settings.
type ImportConfig struct {
	BatchConcurrency int   `mapstructure:"batch_concurrency"`
	MaxBatchSize     int   `mapstructure:"max_batch_size"`
	MaxFileSizeMB    int64 `mapstructure:"max_file_size_mb"`
}

// StagingConfig holds staged session settings.
type StagingConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
}

// ArchiveConfig holds document archive (S3) settings. An empty Bucket
// disables archiving.
type ArchiveConfig struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the BELEGWERK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BELEGWERK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "belegwerk")
	v.SetDefault("db.password", "belegwerk_secret")
	v.SetDefault("db.name", "belegwerk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Vision defaults
	v.SetDefault("vision.api_key", "")
	v.SetDefault("vision.model", "gpt-4o")
	v.SetDefault("vision.base_url", "")
	v.SetDefault("vision.timeout_secs", 120)
	v.SetDefault("vision.max_pages", 10)

	// Import defaults
	v.SetDefault("import.batch_concurrency", 4)
	v.SetDefault("import.max_batch_size", 50)
	v.SetDefault("import.max_file_size_mb", 25)

	// Staging defaults
	v.SetDefault("staging.ttl", "1h")
	v.SetDefault("staging.janitor_interval", "5m")

	// Archive defaults
	v.SetDefault("archive.region", "eu-central-1")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.endpoint", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "BELEGWERK_SERVER_PORT",
		"server.read_timeout":      "BELEGWERK_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "BELEGWERK_SERVER_WRITE_TIMEOUT",
		"server.environment":       "BELEGWERK_SERVER_ENVIRONMENT",
		"db.host":                  "BELEGWERK_DB_HOST",
		"db.port":                  "BELEGWERK_DB_PORT",
		"db.user":                  "BELEGWERK_DB_USER",
		"db.password":              "BELEGWERK_DB_PASSWORD",
		"db.name":                  "BELEGWERK_DB_NAME",
		"db.sslmode":               "BELEGWERK_DB_SSLMODE",
		"db.max_open":              "BELEGWERK_DB_MAX_OPEN",
		"db.max_idle":              "BELEGWERK_DB_MAX_IDLE",
		"log.level":                "BELEGWERK_LOG_LEVEL",
		"log.format":               "BELEGWERK_LOG_FORMAT",
		"vision.api_key":           "BELEGWERK_VISION_API_KEY",
		"vision.model":             "BELEGWERK_VISION_MODEL",
		"vision.base_url":          "BELEGWERK_VISION_BASE_URL",
		"vision.timeout_secs":      "BELEGWERK_VISION_TIMEOUT_SECS",
		"vision.max_pages":         "BELEGWERK_VISION_MAX_PAGES",
		"import.batch_concurrency": "BELEGWERK_IMPORT_BATCH_CONCURRENCY",
		"import.max_batch_size":    "BELEGWERK_IMPORT_MAX_BATCH_SIZE",
		"import.max_file_size_mb":  "BELEGWERK_IMPORT_MAX_FILE_SIZE_MB",
		"staging.ttl":              "BELEGWERK_STAGING_TTL",
		"staging.janitor_interval": "BELEGWERK_STAGING_JANITOR_INTERVAL",
		"archive.region":           "BELEGWERK_ARCHIVE_REGION",
		"archive.bucket":           "BELEGWERK_ARCHIVE_BUCKET",
		"archive.endpoint":         "BELEGWERK_ARCHIVE_ENDPOINT",
		"archive.access_key":       "BELEGWERK_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":       "BELEGWERK_ARCHIVE_SECRET_KEY",
		"cors.allowed_origins":     "BELEGWERK_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BELEGWERK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BELEGWERK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Vision = VisionConfig{
		APIKey:      v.GetString("vision.api_key"),
		Model:       v.GetString("vision.model"),
		BaseURL:     v.GetString("vision.base_url"),
		TimeoutSecs: v.GetInt("vision.timeout_secs"),
		MaxPages:    v.GetInt("vision.max_pages"),
	}
	cfg.Import = ImportConfig{
		BatchConcurrency: v.GetInt("import.batch_concurrency"),
		MaxBatchSize:     v.GetInt("import.max_batch_size"),
		MaxFileSizeMB:    v.GetInt64("import.max_file_size_mb"),
	}
	cfg.Staging = StagingConfig{
		TTL:             v.GetDuration("staging.ttl"),
		JanitorInterval: v.GetDuration("staging.janitor_interval"),
	}
	cfg.Archive = ArchiveConfig{
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
