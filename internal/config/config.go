package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	CORSAllowOrigins   string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	StorageCloudName   string
	StorageAPIKey      string
	StorageAPISecret   string
	StorageBucket      string
	MaxUploadSizeMB    int
	ChatbotWorkflowURL string
	ChatbotDocumentRef string
	ChatbotTimeout     time.Duration
	DashboardCacheTTL  time.Duration
	AccountEmailDomain string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SMARTLAB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SmartLab API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("storage.bucket", "smartlab/uploads")
	v.SetDefault("upload.max_size_mb", 50)
	v.SetDefault("chatbot.timeout", "30s")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("account.email_domain", "smartlab.sch.id")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")

	chatTimeout, err := time.ParseDuration(v.GetString("chatbot.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid chatbot timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	connLifetime, err := time.ParseDuration(v.GetString("db.conn_max_lifetime"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid db connection lifetime: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		CORSAllowOrigins:   v.GetString("cors.allow_origins"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		JWTSecret:          v.GetString("jwt.secret"),
		StorageCloudName:   v.GetString("storage.cloud_name"),
		StorageAPIKey:      v.GetString("storage.api_key"),
		StorageAPISecret:   v.GetString("storage.api_secret"),
		StorageBucket:      v.GetString("storage.bucket"),
		MaxUploadSizeMB:    v.GetInt("upload.max_size_mb"),
		ChatbotWorkflowURL: v.GetString("chatbot.workflow_url"),
		ChatbotDocumentRef: v.GetString("chatbot.document_ref"),
		ChatbotTimeout:     chatTimeout,
		DashboardCacheTTL:  cacheTTL,
		AccountEmailDomain: v.GetString("account.email_domain"),
		DBMaxOpenConns:     v.GetInt("db.max_open_conns"),
		DBMaxIdleConns:     v.GetInt("db.max_idle_conns"),
		DBConnMaxLifetime:  connLifetime,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadSizeMB <= 0 {
		cfg.MaxUploadSizeMB = 50
	}

	return cfg, nil
}
