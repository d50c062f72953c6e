package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const defaultConfigFile = "config.yaml"

// Config holds application level configuration. Values come from an optional
// YAML file and are overridden by environment variables of the same name in
// upper case (server_port -> SERVER_PORT).
type Config struct {
	ServerPort  string `koanf:"server_port"`
	MySQLDSN    string `koanf:"mysql_dsn"`
	RedisAddr   string `koanf:"redis_addr"`
	RedisDB     int    `koanf:"redis_db"`
	RedisPass   string `koanf:"redis_password"`
	SwaggerHost string `koanf:"swagger_host"`
	ResetDB     bool   `koanf:"reset_db"`

	// JWTSecret signs every bearer token. It is read once at startup.
	JWTSecret string        `koanf:"jwt_secret"`
	JWTTTL    time.Duration `koanf:"jwt_ttl"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	BcryptCost        int           `koanf:"bcrypt_cost"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	LoginRateLimit    float64       `koanf:"login_rate_limit"`
	OptimisticRetries int           `koanf:"optimistic_retries"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		ServerPort:        "8080",
		MySQLDSN:          "user:password@tcp(localhost:3306)/svge?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:         "localhost:6379",
		JWTSecret:         "change-me",
		LogLevel:          "info",
		LogFormat:         "json",
		BcryptCost:        12,
		CacheTTL:          5 * time.Minute,
		LoginRateLimit:    5,
		OptimisticRetries: 3,
	}
}

// Load builds Config from CONFIG_FILE (or config.yaml) and the environment.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = defaultConfigFile
	}
	return LoadFile(path)
}

// LoadFile builds Config from the YAML file at path, if it exists, then
// applies environment overrides and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	known := knownKeys()
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(key)
			if _, ok := known[key]; !ok {
				return "", nil
			}
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load env variables: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: jwt_secret must not be empty")
	}
	if c.ServerPort == "" {
		return fmt.Errorf("config: server_port must not be empty")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: bcrypt_cost %d out of range", c.BcryptCost)
	}
	if c.OptimisticRetries < 1 {
		c.OptimisticRetries = 1
	}
	return nil
}

func knownKeys() map[string]struct{} {
	return map[string]struct{}{
		"server_port":        {},
		"mysql_dsn":          {},
		"redis_addr":         {},
		"redis_db":           {},
		"redis_password":     {},
		"swagger_host":       {},
		"reset_db":           {},
		"jwt_secret":         {},
		"jwt_ttl":            {},
		"log_level":          {},
		"log_format":         {},
		"bcrypt_cost":        {},
		"cache_ttl":          {},
		"login_rate_limit":   {},
		"optimistic_retries": {},
	}
}
