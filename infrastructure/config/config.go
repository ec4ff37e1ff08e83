package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreDynamoDB = "dynamodb"
	StoreBadger   = "badger"
	StoreMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Storage
	StoreBackend     string `yaml:"store_backend"`
	AWSRegion        string `yaml:"aws_region"`
	PostTable        string `yaml:"post_table"`
	OwnerIndexName   string `yaml:"owner_index"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint"`
	BadgerPath       string `yaml:"badger_path"`

	// Messaging; an empty bus name disables event publishing
	EventBusName string `yaml:"event_bus_name"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Authentication
	JWTSecret    string `yaml:"jwt_secret"`
	JWTPublicKey string `yaml:"jwt_public_key"`
	JWTIssuer    string `yaml:"jwt_issuer"`

	// Feature flags
	EnableMetrics        bool     `yaml:"enable_metrics"`
	EnableTracing        bool     `yaml:"enable_tracing"`
	EnableCircuitBreaker bool     `yaml:"enable_circuit_breaker"`
	EnableCORS           bool     `yaml:"enable_cors"`
	CORSAllowedOrigins   []string `yaml:"cors_allowed_origins"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		ServerAddress:        ":8080",
		Environment:          "development",
		StoreBackend:         StoreDynamoDB,
		AWSRegion:            "us-east-1",
		PostTable:            "posts",
		OwnerIndexName:       "postsByUsername",
		BadgerPath:           "./data/posts",
		LogLevel:             "info",
		EnableCircuitBreaker: true,
		EnableCORS:           true,
		CORSAllowedOrigins:   []string{"*"},
	}
}

// LoadConfig loads configuration from an optional YAML file named by CONFIG_FILE,
// then applies environment variables on top
func LoadConfig() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", c.StoreBackend))
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.PostTable = getEnv("POST_TABLE", getEnv("TABLE_NAME", c.PostTable))
	c.OwnerIndexName = getEnv("POST_OWNER_INDEX", c.OwnerIndexName)
	c.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", c.DynamoDBEndpoint)
	c.BadgerPath = getEnv("BADGER_PATH", c.BadgerPath)

	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTPublicKey = getEnv("JWT_PUBLIC_KEY", c.JWTPublicKey)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCircuitBreaker = getEnvBool("ENABLE_CIRCUIT_BREAKER", c.EnableCircuitBreaker)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	c.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreDynamoDB:
		if c.PostTable == "" {
			return fmt.Errorf("POST_TABLE is required")
		}
		if c.OwnerIndexName == "" {
			return fmt.Errorf("POST_OWNER_INDEX is required")
		}
	case StoreBadger, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	return nil
}

// ValidateHTTP adds the checks needed by the HTTP surfaces, which verify tokens themselves
func (c *Config) ValidateHTTP() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.IsProduction() && c.JWTSecret == "" && c.JWTPublicKey == "" {
		return fmt.Errorf("JWT_SECRET or JWT_PUBLIC_KEY is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value == "yes"
}

// getEnvList reads a comma separated list
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
