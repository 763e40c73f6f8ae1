// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	Port           string `mapstructure:"PORT"`
	DBDriver       string `mapstructure:"DB_DRIVER"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBSQLitePath   string `mapstructure:"DB_SQLITE_PATH"`
	DBReadHost     string `mapstructure:"DB_READ_HOST"`
	DBReadPort     string `mapstructure:"DB_READ_PORT"`
	DBReadUser     string `mapstructure:"DB_READ_USER"`
	DBReadPassword string `mapstructure:"DB_READ_PASSWORD"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`
	Env            string `mapstructure:"APP_ENV"`

	DBMaxOpenConns           int `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	TracingEndpoint string  `mapstructure:"TRACING_OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
	ServiceName     string  `mapstructure:"SERVICE_NAME"`

	QuestionsPerPage int `mapstructure:"QUESTIONS_PER_PAGE"`
	AnswersPerPage   int `mapstructure:"ANSWERS_PER_PAGE"`
	HotMinLikes      int `mapstructure:"HOT_MIN_LIKES"`
	TopTagsLimit     int `mapstructure:"TOP_TAGS_LIMIT"`

	CorpusAPIURL         string `mapstructure:"CORPUS_API_URL"`
	CorpusAPIKey         string `mapstructure:"CORPUS_API_KEY"`
	CorpusParagraphs     int    `mapstructure:"CORPUS_PARAGRAPHS"`
	CorpusNames          int    `mapstructure:"CORPUS_NAMES"`
	CorpusTimeoutSeconds int    `mapstructure:"CORPUS_TIMEOUT_SECONDS"`
	CorpusRetries        int    `mapstructure:"CORPUS_RETRIES"`

	SeedScale               int  `mapstructure:"SEED_SCALE"`
	SeedUsers               int  `mapstructure:"SEED_USERS"`
	SeedQuestions           int  `mapstructure:"SEED_QUESTIONS"`
	SeedAnswers             int  `mapstructure:"SEED_ANSWERS"`
	SeedTags                int  `mapstructure:"SEED_TAGS"`
	SeedLikes               int  `mapstructure:"SEED_LIKES"`
	SeedMaxAnswers          int  `mapstructure:"SEED_MAX_ANSWERS"`
	SeedMaxTags             int  `mapstructure:"SEED_MAX_TAGS"`
	SeedMaxLikes            int  `mapstructure:"SEED_MAX_LIKES"`
	SeedTitleLen            int  `mapstructure:"SEED_TITLE_LEN"`
	SeedMinTextLen          int  `mapstructure:"SEED_MIN_TEXT_LEN"`
	SeedMaxTextLen          int  `mapstructure:"SEED_MAX_TEXT_LEN"`
	SeedAllowDuplicateLikes bool `mapstructure:"SEED_ALLOW_DUPLICATE_LIKES"`
	SeedBatchSize           int  `mapstructure:"SEED_BATCH_SIZE"`
	SeedFastHash            bool `mapstructure:"SEED_FAST_HASH"`

	DevBootstrapRoot        bool   `mapstructure:"DEV_BOOTSTRAP_ROOT"`
	DevRootUsername         string `mapstructure:"DEV_ROOT_USERNAME"`
	DevRootEmail            string `mapstructure:"DEV_ROOT_EMAIL"`
	DevRootPassword         string `mapstructure:"DEV_ROOT_PASSWORD"`
	DevRootForceCredentials bool   `mapstructure:"DEV_ROOT_FORCE_CREDENTIALS"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "8375")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "askme")
	viper.SetDefault("DB_SQLITE_PATH", "askme.db")
	viper.SetDefault("DB_READ_HOST", "")
	viper.SetDefault("DB_READ_PORT", "5432")
	viper.SetDefault("DB_READ_USER", "user")
	viper.SetDefault("DB_READ_PASSWORD", "password")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("FEATURE_FLAGS", "")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
	viper.SetDefault("SERVICE_NAME", "askme")

	viper.SetDefault("QUESTIONS_PER_PAGE", 5)
	viper.SetDefault("ANSWERS_PER_PAGE", 5)
	viper.SetDefault("HOT_MIN_LIKES", 10)
	viper.SetDefault("TOP_TAGS_LIMIT", 20)

	viper.SetDefault("CORPUS_API_URL", "https://randommer.io/api")
	viper.SetDefault("CORPUS_API_KEY", "")
	viper.SetDefault("CORPUS_PARAGRAPHS", 1)
	viper.SetDefault("CORPUS_NAMES", 100)
	viper.SetDefault("CORPUS_TIMEOUT_SECONDS", 10)
	viper.SetDefault("CORPUS_RETRIES", 3)

	viper.SetDefault("SEED_SCALE", 100)
	viper.SetDefault("SEED_USERS", 10000)
	viper.SetDefault("SEED_QUESTIONS", 100000)
	viper.SetDefault("SEED_ANSWERS", 1000000)
	viper.SetDefault("SEED_TAGS", 200000)
	viper.SetDefault("SEED_LIKES", 2000000)
	viper.SetDefault("SEED_MAX_ANSWERS", 5)
	viper.SetDefault("SEED_MAX_TAGS", 5)
	viper.SetDefault("SEED_MAX_LIKES", 40)
	viper.SetDefault("SEED_TITLE_LEN", 10)
	viper.SetDefault("SEED_MIN_TEXT_LEN", 20)
	viper.SetDefault("SEED_MAX_TEXT_LEN", 100)
	viper.SetDefault("SEED_ALLOW_DUPLICATE_LIKES", false)
	viper.SetDefault("SEED_BATCH_SIZE", 500)
	viper.SetDefault("SEED_FAST_HASH", false)

	viper.SetDefault("DEV_BOOTSTRAP_ROOT", false)
	viper.SetDefault("DEV_ROOT_USERNAME", "askme_root")
	viper.SetDefault("DEV_ROOT_EMAIL", "root@askme.local")
	viper.SetDefault("DEV_ROOT_PASSWORD", "")
	viper.SetDefault("DEV_ROOT_FORCE_CREDENTIALS", false)
}

func (c *Config) normalize() {
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.QuestionsPerPage < 0 || c.AnswersPerPage < 0 {
		return errors.New("page sizes must not be negative")
	}
	if c.SeedMinTextLen > c.SeedMaxTextLen {
		return fmt.Errorf("SEED_MIN_TEXT_LEN (%d) exceeds SEED_MAX_TEXT_LEN (%d)", c.SeedMinTextLen, c.SeedMaxTextLen)
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver != "sqlite" {
			if c.DBPassword == "password" || c.DBPassword == "" {
				return errors.New("a strong DB_PASSWORD is required in production")
			}
			if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
				return errors.New("DB_SSLMODE must enable SSL in production")
			}
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
