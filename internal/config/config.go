package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables
const (
	EnvConfigFilePath = "CONFIG_FILE_PATH"

	EnvEnvironment   = "ENVIRONMENT"
	EnvPort          = "PORT"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFile       = "LOG_FILE"
	EnvMongoURI      = "MONGO_URI"
	EnvMongoDB       = "MONGO_DB"
	EnvMongoColl     = "MONGO_COLLECTION"
	EnvFetchRetry    = "FETCH_RETRY"
	EnvRedisURI      = "REDIS_URI"
	EnvCacheTTL      = "CACHE_TTL"
	EnvHostUsername  = "HOST_USERNAME"
	EnvHostPassword  = "HOST_PASSWORD"
	EnvJWTSecret     = "JWT_SECRET"
	EnvTokenTTL      = "TOKEN_TTL"
	EnvCatalogueFile = "CATALOGUE_FILE"
	EnvCORSOrigins   = "CORS_ALLOWED_ORIGINS"
)

const defaultJWTSecret = "super-secret-key-change-in-production"

type LoggingConfig struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	MaxSize int    `yaml:"max_size"` // megabytes
	MaxAge  int    `yaml:"max_age"`  // days
}

type MongoConfig struct {
	URI        string        `yaml:"uri"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	FetchRetry time.Duration `yaml:"fetch_retry"` // how long opening the response cursor is retried
}

type AuthConfig struct {
	HostUsername string        `yaml:"host_username"`
	HostPassword string        `yaml:"host_password"`
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

type Config struct {
	Environment string        `yaml:"environment"`
	Port        string        `yaml:"port"`
	Logging     LoggingConfig `yaml:"logging"`
	Mongo       MongoConfig   `yaml:"mongo"`
	Redis       struct {
		URI string `yaml:"uri"` // empty disables the shared snapshot tier
	} `yaml:"redis"`
	Cache struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Auth          AuthConfig `yaml:"auth"`
	CatalogueFile string     `yaml:"catalogue_file"` // optional recommendation catalogue override
	CORS          struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	c := &Config{
		Environment: "local",
		Port:        "8080",
		Logging:     LoggingConfig{Level: "info"},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "shespeaks",
			Collection: "responses",
			FetchRetry: 10 * time.Second,
		},
		Auth: AuthConfig{
			HostUsername: "admin",
			HostPassword: "password123",
			JWTSecret:    defaultJWTSecret,
			TokenTTL:     24 * time.Hour,
		},
	}
	c.Redis.URI = "redis://localhost:6379"
	c.Cache.TTL = 5 * time.Minute
	c.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	return c
}

// Load reads .env (when present), then the YAML file named by CONFIG_FILE_PATH
// (when set), then applies environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := Default()
	if path := os.Getenv(EnvConfigFilePath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := c.decode(data); err != nil {
			return nil, err
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Environment, EnvEnvironment)
	setString(&c.Port, EnvPort)
	setString(&c.Logging.Level, EnvLogLevel)
	setString(&c.Logging.File, EnvLogFile)
	setString(&c.Mongo.URI, EnvMongoURI)
	setString(&c.Mongo.Database, EnvMongoDB)
	setString(&c.Mongo.Collection, EnvMongoColl)
	setString(&c.Redis.URI, EnvRedisURI)
	setString(&c.Auth.HostUsername, EnvHostUsername)
	setString(&c.Auth.HostPassword, EnvHostPassword)
	setString(&c.Auth.JWTSecret, EnvJWTSecret)
	setString(&c.CatalogueFile, EnvCatalogueFile)

	if v := os.Getenv(EnvCORSOrigins); v != "" {
		c.CORS.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORS.AllowedOrigins = append(c.CORS.AllowedOrigins, o)
			}
		}
	}

	for env, dst := range map[string]*time.Duration{
		EnvCacheTTL:   &c.Cache.TTL,
		EnvFetchRetry: &c.Mongo.FetchRetry,
		EnvTokenTTL:   &c.Auth.TokenTTL,
	} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*dst = d
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// IsLocal reports whether the server runs in a developer environment
func (c *Config) IsLocal() bool {
	return c.Environment == "" || c.Environment == "local"
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must be set")
	}
	if c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "" {
		return fmt.Errorf("mongo connection settings are incomplete")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	if !c.IsLocal() && c.Auth.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("%s must be set outside local environments", EnvJWTSecret)
	}
	return nil
}
