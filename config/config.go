// Package config loads the service settings from an optional YAML file, an
// optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "your_default_secret"

// Config is the full service configuration.
type Config struct {
	Port   string         `yaml:"port" validate:"required,numeric"`
	Mongo  MongoSettings  `yaml:"mongo"`
	Redis  RedisSettings  `yaml:"redis"`
	AMQP   AMQPSettings   `yaml:"amqp"`
	Auth   AuthSettings   `yaml:"auth"`
	Logger LoggerSettings `yaml:"logger"`
	CORS   CORSSettings   `yaml:"cors"`
}

// MongoSettings points at the document store.
type MongoSettings struct {
	URL      string `yaml:"url" validate:"required"`
	Database string `yaml:"database" validate:"required"`
}

// RedisSettings points at the cart store. An empty Addr disables Redis and
// carts are kept in process memory.
type RedisSettings struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	CartTTL  time.Duration `yaml:"cart_ttl"`
}

// AMQPSettings configures the order event publisher. An empty URL disables it.
type AMQPSettings struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// AuthSettings configures token issuance and password hashing.
type AuthSettings struct {
	JWTSecret  string        `yaml:"jwt_secret" validate:"required"`
	JWTTTL     time.Duration `yaml:"jwt_ttl" validate:"gt=0"`
	Issuer     string        `yaml:"issuer"`
	BcryptCost int           `yaml:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// CORSSettings lists the allowed browser origins.
type CORSSettings struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Port: "3000",
		Mongo: MongoSettings{
			URL:      "mongodb://localhost:27017",
			Database: "food-ordering",
		},
		Redis: RedisSettings{
			CartTTL: 24 * time.Hour,
		},
		AMQP: AMQPSettings{
			Exchange: "orders_topic",
		},
		Auth: AuthSettings{
			JWTSecret:  DefaultJWTSecret,
			JWTTTL:     12 * time.Hour,
			Issuer:     "go-food-ordering",
			BcryptCost: 12,
		},
		Logger: LoggerSettings{
			LogLevel: LogLevelInfo,
			LogType:  LogTypeConsole,
		},
		CORS: CORSSettings{
			AllowOrigins: []string{"http://localhost:9000"},
		},
	}
}

// Load builds the configuration. configPath may be empty; a missing .env file
// is not an error.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString("PORT", &c.Port)
	setString("MONGODB_URL", &c.Mongo.URL)
	setString("MONGODB_DATABASE", &c.Mongo.Database)
	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("AMQP_URL", &c.AMQP.URL)
	setString("JWT_SECRET", &c.Auth.JWTSecret)
	setString("LOG_LEVEL", &c.Logger.LogLevel)
	setString("LOG_TYPE", &c.Logger.LogType)
	setString("LOG_FILE", &c.Logger.FilePath)

	if v := getenv("JWT_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_TTL %q: %w", v, err)
		}
		c.Auth.JWTTTL = ttl
	}
	if v := getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		c.Auth.BcryptCost = cost
	}
	if v := getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowOrigins = origins
	}
	return nil
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed for Config: %w", err)
	}
	return c.Logger.Validate()
}
