package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	App       AppConfig
	CarbonAPI CarbonAPIConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Uploads   UploadConfig
	Auth      AuthConfig
	Jobs      JobsConfig
	Flow      FlowConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	ServiceName string
}

type CarbonAPIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	RPS           float64
	Burst         int
	// ServiceToken authenticates background jobs against the backend.
	ServiceToken string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type DatabaseConfig struct {
	DSN string
}

type UploadConfig struct {
	MaxMB         int
	ArchiveBucket string
	AWSRegion     string
}

// MaxBytes is the upload size limit in bytes.
func (u UploadConfig) MaxBytes() int64 { return int64(u.MaxMB) << 20 }

type AuthConfig struct {
	FirebaseCredentialsPath string
}

type JobsConfig struct {
	CatalogRefreshCron string
}

type FlowConfig struct {
	LayoutFile string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the configuration from the process environment without
// validating it.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			ServiceName: getEnv("SERVICE_NAME", "ecdash"),
		},
		CarbonAPI: CarbonAPIConfig{
			BaseURL:       getEnv("CARBON_API_URL", ""),
			Timeout:       time.Duration(getEnvAsInt("CARBON_API_TIMEOUT_SEC", 30)) * time.Second,
			UploadTimeout: time.Duration(getEnvAsInt("CARBON_API_UPLOAD_TIMEOUT_SEC", 300)) * time.Second,
			RPS:           getEnvAsFloat("CARBON_API_RPS", 20),
			Burst:         getEnvAsInt("CARBON_API_BURST", 10),
			ServiceToken:  getEnv("SERVICE_TOKEN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("CACHE_TTL_MIN", 60)) * time.Minute,
		},
		Database: DatabaseConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Uploads: UploadConfig{
			MaxMB:         getEnvAsInt("MAX_UPLOAD_MB", 200),
			ArchiveBucket: getEnv("UPLOAD_ARCHIVE_BUCKET", ""),
			AWSRegion:     getEnv("AWS_REGION", ""),
		},
		Auth: AuthConfig{
			FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Jobs: JobsConfig{
			CatalogRefreshCron: getEnv("CATALOG_REFRESH_CRON", "0 */15 * * * *"),
		},
		Flow: FlowConfig{
			LayoutFile: getEnv("FLOW_LAYOUT_FILE", ""),
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if p, err := strconv.Atoi(c.Server.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %q", c.Server.Port)
	}

	if c.CarbonAPI.BaseURL == "" {
		return fmt.Errorf("CARBON_API_URL is required")
	}
	u, err := url.Parse(c.CarbonAPI.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("CARBON_API_URL must be an absolute http(s) URL, got %q", c.CarbonAPI.BaseURL)
	}

	if c.CarbonAPI.Timeout <= 0 || c.CarbonAPI.UploadTimeout <= 0 {
		return fmt.Errorf("CARBON_API_TIMEOUT_SEC and CARBON_API_UPLOAD_TIMEOUT_SEC must be positive")
	}
	if c.CarbonAPI.RPS < 0 || c.CarbonAPI.Burst < 0 {
		return fmt.Errorf("CARBON_API_RPS and CARBON_API_BURST must not be negative")
	}
	if c.Uploads.MaxMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.Redis.Enabled() && c.Redis.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL_MIN must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
