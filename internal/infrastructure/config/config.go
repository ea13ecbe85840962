package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// JWTConfig holds the signing material. Key, Issuer and Audience have no
// defaults on purpose: a deployment missing any of them must fail at startup
// rather than issue misconfigured tokens.
type JWTConfig struct {
	Key           string `env:"JWT_KEY"`
	Issuer        string `env:"JWT_ISSUER"`
	Audience      string `env:"JWT_AUDIENCE"`
	ExpireMinutes int    `env:"JWT_EXPIRE_MINUTES, default=30"`
}

type AuthConfig struct {
	BcryptCost         int           `env:"BCRYPT_COST, default=13"`
	BootstrapRoles     []string      `env:"BOOTSTRAP_ROLES"`
	AuditWorkers       int           `env:"AUDIT_WORKERS, default=4"`
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES, default=5"`
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=safevault"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Validate rejects configurations the token issuer cannot safely run with.
// Callers must treat a non-nil error as fatal.
func (c *Config) Validate() error {
	switch {
	case c.JWT.Key == "":
		return errors.New("JWT_KEY is required")
	case c.JWT.Issuer == "":
		return errors.New("JWT_ISSUER is required")
	case c.JWT.Audience == "":
		return errors.New("JWT_AUDIENCE is required")
	}
	return nil
}

// TokenTTL returns the configured token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpireMinutes) * time.Minute
}
