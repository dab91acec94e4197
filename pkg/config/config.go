package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Tracing    TracingConfig
	Curriculum CurriculumConfig
	Weakness   WeaknessConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	Timeout      time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Exporter    string
	Endpoint    string
	SampleRatio float64
}

// CurriculumConfig tunes the read-only curriculum lookup.
type CurriculumConfig struct {
	CacheTTL         time.Duration
	DefaultTestCount int
}

// WeaknessConfig bounds the weak-topic threshold accepted from callers.
type WeaknessConfig struct {
	DefaultThreshold int
	MinThreshold     int
	MaxThreshold     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		Timeout:      parseDuration(v.GetString("STORE_TIMEOUT"), 5*time.Second),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_CACHE"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Tracing = TracingConfig{
		Enabled:     v.GetBool("TRACING_ENABLED"),
		ServiceName: v.GetString("TRACING_SERVICE_NAME"),
		Exporter:    strings.ToLower(v.GetString("TRACING_EXPORTER")),
		Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SampleRatio: clampRatio(v.GetFloat64("TRACING_SAMPLE_RATIO")),
	}

	cfg.Curriculum = CurriculumConfig{
		CacheTTL:         parseDuration(v.GetString("CURRICULUM_CACHE_TTL"), time.Hour),
		DefaultTestCount: v.GetInt("CURRICULUM_DEFAULT_TEST_COUNT"),
	}

	cfg.Weakness = WeaknessConfig{
		DefaultThreshold: v.GetInt("WEAKNESS_DEFAULT_THRESHOLD"),
		MinThreshold:     v.GetInt("WEAKNESS_THRESHOLD_MIN"),
		MaxThreshold:     v.GetInt("WEAKNESS_THRESHOLD_MAX"),
	}
	if cfg.Weakness.MinThreshold > cfg.Weakness.MaxThreshold {
		return nil, errors.New("WEAKNESS_THRESHOLD_MIN must not exceed WEAKNESS_THRESHOLD_MAX")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "score_tracker")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("STORE_TIMEOUT", "5s")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "score-tracker-api")
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("TRACING_SAMPLE_RATIO", 0.1)

	v.SetDefault("CURRICULUM_CACHE_TTL", "1h")
	v.SetDefault("CURRICULUM_DEFAULT_TEST_COUNT", 44)

	v.SetDefault("WEAKNESS_DEFAULT_THRESHOLD", 48)
	v.SetDefault("WEAKNESS_THRESHOLD_MIN", 30)
	v.SetDefault("WEAKNESS_THRESHOLD_MAX", 55)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func clampRatio(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
