package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig     `envconfig:"SERVER"`
	Log      LogConfig        `envconfig:"LOG"`
	Groq     GroqConfig       `envconfig:"GROQ"`
	Digest   DigestConfig     `envconfig:"DIGEST"`
	Limits   LimitsConfig     `envconfig:"LIMITS"`
	Redis    RedisConfig      `envconfig:"REDIS"`
	Database DatabaseConfig   `envconfig:"DB"`
	Storage  StorageConfig    `envconfig:"STORAGE"`
	Assembly AssemblyAIConfig `envconfig:"ASSEMBLYAI"`
	JWT      JWTConfig        `envconfig:"JWT"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `split_words:"true" default:"8080"`
	Host            string   `split_words:"true" default:"0.0.0.0"`
	Environment     string   `split_words:"true" default:"development"`
	AllowedOrigins  []string `split_words:"true" default:"http://localhost:3000"`
	ShutdownTimeout int      `split_words:"true" default:"10" validate:"gt=0"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string `split_words:"true" default:"info" validate:"oneof=debug info warn error"`
	Development bool   `split_words:"true" default:"false"`
}

// GroqConfig holds the chat-completions backend configuration
type GroqConfig struct {
	APIKey               string        `split_words:"true"`
	BaseURL              string        `split_words:"true" default:"https://api.groq.com"`
	Model                string        `split_words:"true" default:"llama-3.3-70b-versatile"`
	Temperature          float64       `split_words:"true" default:"0.2" validate:"gte=0,lte=2"`
	MaxTokens            int           `split_words:"true" default:"4096" validate:"gt=0"`
	Timeout              time.Duration `split_words:"true" default:"60s"`
	MaxRetries           int           `split_words:"true" default:"3" validate:"gte=0"`
	RetryInitialInterval time.Duration `split_words:"true" default:"1s"`
}

// DigestConfig holds the summarize and question answering knobs
type DigestConfig struct {
	MaxTokensPerChunk int           `split_words:"true" default:"3000" validate:"gt=0"`
	OverlapTokens     int           `split_words:"true" default:"200" validate:"gte=0"`
	MaxChunks         int           `split_words:"true" default:"8" validate:"gt=0"`
	MaxCues           int           `split_words:"true" default:"6" validate:"gt=0"`
	DefaultLanguage   string        `split_words:"true" default:"en" validate:"required"`
	DefaultFormat     string        `split_words:"true" default:"xml" validate:"oneof=markdown xml plain"`
	CacheTTL          time.Duration `split_words:"true" default:"24h"`
}

// LimitsConfig caps list lengths in rendered documents
type LimitsConfig struct {
	ActionItems          int `split_words:"true" default:"10" validate:"gt=0"`
	KeyPoints            int `split_words:"true" default:"8" validate:"gt=0"`
	Topics               int `split_words:"true" default:"6" validate:"gt=0"`
	ObservationsPerTopic int `split_words:"true" default:"4" validate:"gt=0"`
	NextStepsPerParty    int `split_words:"true" default:"5" validate:"gt=0"`
}

// RedisConfig holds Redis configuration. An empty host selects the in-memory cache.
type RedisConfig struct {
	Host     string `split_words:"true"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled     bool   `split_words:"true" default:"false"`
	Host        string `split_words:"true" default:"localhost"`
	Port        string `split_words:"true" default:"5432"`
	User        string `split_words:"true" default:"postgres"`
	Password    string `split_words:"true" default:"postgres"`
	Name        string `split_words:"true" default:"meeting_digest"`
	SSLMode     string `split_words:"true" default:"disable"`
	MaxConns    int    `split_words:"true" default:"25"`
	MinConns    int    `split_words:"true" default:"5"`
	AutoMigrate bool   `split_words:"true" default:"true"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Enabled         bool   `split_words:"true" default:"false"`
	Endpoint        string `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string `split_words:"true" default:"minioadmin"`
	SecretAccessKey string `split_words:"true" default:"minioadmin"`
	BucketName      string `split_words:"true" default:"meeting-digest"`
	Region          string `split_words:"true" default:"us-east-1"`
	UseSSL          bool   `split_words:"true" default:"false"`
}

// AssemblyAIConfig holds transcript provider configuration
type AssemblyAIConfig struct {
	APIKey        string `split_words:"true"`
	BaseURL       string `split_words:"true"`
	WebhookSecret string `split_words:"true"`
}

// JWTConfig holds JWT configuration. An empty secret disables authentication.
type JWTConfig struct {
	AccessSecret string        `split_words:"true"`
	Issuer       string        `split_words:"true" default:"meeting-digest"`
	AccessExpiry time.Duration `split_words:"true" default:"1h"`
}

// Load loads configuration from the environment, reading .env first when present
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}
	return FromEnv()
}

// FromEnv builds configuration from the process environment only
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Digest.OverlapTokens >= c.Digest.MaxTokensPerChunk {
		return fmt.Errorf("invalid configuration: DIGEST_OVERLAP_TOKENS must be smaller than DIGEST_MAX_TOKENS_PER_CHUNK")
	}
	return nil
}

// SummaryLimits returns the renderer limits
func (c *Config) SummaryLimits() entities.SummaryLimits {
	return entities.SummaryLimits{
		ActionItems:          c.Limits.ActionItems,
		KeyPoints:            c.Limits.KeyPoints,
		Topics:               c.Limits.Topics,
		ObservationsPerTopic: c.Limits.ObservationsPerTopic,
		NextStepsPerParty:    c.Limits.NextStepsPerParty,
	}
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
