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
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Log    LogConfig
	CORS   CORSConfig
	Sales  SalesConfig
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

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SalesConfig holds the sales engine settings: tax, matching threshold,
// stock strictness, and catalog lookup concurrency.
type SalesConfig struct {
	TaxRate           float64 `mapstructure:"tax_rate"`
	StrictStock       bool    `mapstructure:"strict_stock"`
	MatchThreshold    float64 `mapstructure:"match_threshold"`
	LookupConcurrency int     `mapstructure:"lookup_concurrency"`
}

// Load reads configuration from environment variables with the DUKA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DUKA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "duka")
	v.SetDefault("db.password", "duka_secret")
	v.SetDefault("db.name", "duka_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "duka")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Sales defaults
	v.SetDefault("sales.tax_rate", 0.05)
	v.SetDefault("sales.strict_stock", false)
	v.SetDefault("sales.match_threshold", 0.3)
	v.SetDefault("sales.lookup_concurrency", 4)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "DUKA_SERVER_PORT",
		"server.read_timeout":      "DUKA_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "DUKA_SERVER_WRITE_TIMEOUT",
		"server.environment":       "DUKA_SERVER_ENVIRONMENT",
		"db.host":                  "DUKA_DB_HOST",
		"db.port":                  "DUKA_DB_PORT",
		"db.user":                  "DUKA_DB_USER",
		"db.password":              "DUKA_DB_PASSWORD",
		"db.name":                  "DUKA_DB_NAME",
		"db.sslmode":               "DUKA_DB_SSLMODE",
		"db.max_open":              "DUKA_DB_MAX_OPEN",
		"db.max_idle":              "DUKA_DB_MAX_IDLE",
		"jwt.secret":               "DUKA_JWT_SECRET",
		"jwt.access_expiry":        "DUKA_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":       "DUKA_JWT_REFRESH_EXPIRY",
		"jwt.issuer":               "DUKA_JWT_ISSUER",
		"log.level":                "DUKA_LOG_LEVEL",
		"log.format":               "DUKA_LOG_FORMAT",
		"cors.allowed_origins":     "DUKA_CORS_ALLOWED_ORIGINS",
		"sales.tax_rate":           "DUKA_SALES_TAX_RATE",
		"sales.strict_stock":       "DUKA_SALES_STRICT_STOCK",
		"sales.match_threshold":    "DUKA_SALES_MATCH_THRESHOLD",
		"sales.lookup_concurrency": "DUKA_SALES_LOOKUP_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DUKA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DUKA_SERVER_PORT") == "" {
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
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Sales = SalesConfig{
		TaxRate:           v.GetFloat64("sales.tax_rate"),
		StrictStock:       v.GetBool("sales.strict_stock"),
		MatchThreshold:    v.GetFloat64("sales.match_threshold"),
		LookupConcurrency: v.GetInt("sales.lookup_concurrency"),
	}
	if cfg.Sales.LookupConcurrency < 1 {
		cfg.Sales.LookupConcurrency = 1
	}

	return cfg, nil
}
