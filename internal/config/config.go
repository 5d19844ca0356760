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
	AppName                string
	AppEnv                 string
	AppPort                string
	LogLevel               string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	EventsSubjectBase      string
	JWTSecret              string
	JWTTTL                 time.Duration
	DashboardCacheTTL      time.Duration
	LoginRateLimit         int
	DefaultStudentPassword string
	SeedEnabled            bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// EventsSubject is the NATS subject academic events are fanned out on.
func (c Config) EventsSubject() string {
	base := strings.TrimSuffix(strings.TrimSpace(c.EventsSubjectBase), ".")
	if base == "" {
		base = "evaluator"
	}
	return base + ".academic"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EVALUATOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Academic Evaluator API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("events.subject_base", "evaluator")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("students.default_password", "Changeme@123")
	v.SetDefault("seed.enabled", false)

	cacheTTL, err := parseDuration(v.GetString("dashboard.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	jwtTTL, err := parseDuration(v.GetString("jwt.ttl"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		LogLevel:               strings.ToLower(v.GetString("log.level")),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		EventsSubjectBase:      v.GetString("events.subject_base"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTTTL:                 jwtTTL,
		DashboardCacheTTL:      cacheTTL,
		LoginRateLimit:         v.GetInt("auth.login_rate_limit"),
		DefaultStudentPassword: v.GetString("students.default_password"),
		SeedEnabled:            v.GetBool("seed.enabled"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 10
	}

	if len(cfg.DefaultStudentPassword) < 8 {
		return Config{}, fmt.Errorf("default student password must be at least 8 characters")
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
