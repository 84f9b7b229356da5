package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SessionStoreDB    = "db"
	SessionStoreRedis = "redis"
)

type Config struct {
	ServiceName string `yaml:"service_name"`
	ServerPort  int    `yaml:"server_port"`
	LogLevel    string `yaml:"log_level"`

	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`

	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SessionStore  string        `yaml:"session_store"`
	CookieSecure  bool          `yaml:"cookie_secure"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	KafkaBrokers []string `yaml:"kafka_brokers"`

	ESURL      string `yaml:"es_url"`
	ESUser     string `yaml:"es_user"`
	ESPassword string `yaml:"es_password"`
	ESIndex    string `yaml:"es_index"`

	CartEnabled bool `yaml:"cart_enabled"`
	EmptyListOK bool `yaml:"empty_list_ok"`
}

func Defaults() Config {
	return Config{
		ServiceName:  "mini_shop",
		ServerPort:   8080,
		LogLevel:     "info",
		DBDriver:     "sqlite",
		DatabaseURL:  "ecommerce.db",
		SessionTTL:   24 * time.Hour,
		SessionStore: SessionStoreDB,
		CookieSecure: true,
		ESIndex:      "products",
		CartEnabled:  true,
	}
}

// Load builds the config from defaults, an optional YAML file named by
// CONFIG_FILE and the environment, in that order of precedence.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	if err := errors.Join(checkEnv(), cfg.Validate()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = EnvDefault("SERVICE_NAME", cfg.ServiceName)
	cfg.ServerPort = EnvIntDefault("SERVER_PORT", cfg.ServerPort)
	cfg.LogLevel = EnvDefault("LOG_LEVEL", cfg.LogLevel)

	cfg.DBDriver = EnvDefault("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseURL = EnvDefault("DATABASE_URL", cfg.DatabaseURL)

	cfg.SessionSecret = EnvDefault("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = EnvDurationDefault("SESSION_TTL", cfg.SessionTTL)
	cfg.SessionStore = EnvDefault("SESSION_STORE", cfg.SessionStore)
	cfg.CookieSecure = EnvBoolDefault("COOKIE_SECURE", cfg.CookieSecure)

	cfg.RedisAddr = EnvDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = EnvDefault("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = EnvIntDefault("REDIS_DB", cfg.RedisDB)

	if brokers := CSV(os.Getenv("KAFKA_BROKERS")); brokers != nil {
		cfg.KafkaBrokers = brokers
	}

	cfg.ESURL = EnvDefault("ES_URL", cfg.ESURL)
	cfg.ESUser = EnvDefault("ES_USER", cfg.ESUser)
	cfg.ESPassword = EnvDefault("ES_PASSWORD", cfg.ESPassword)
	cfg.ESIndex = EnvDefault("ES_INDEX", cfg.ESIndex)

	cfg.CartEnabled = EnvBoolDefault("CART_ENABLED", cfg.CartEnabled)
	cfg.EmptyListOK = EnvBoolDefault("EMPTY_LIST_OK", cfg.EmptyListOK)
}

var (
	intKeys      = []string{"SERVER_PORT", "REDIS_DB"}
	boolKeys     = []string{"COOKIE_SECURE", "CART_ENABLED", "EMPTY_LIST_OK"}
	durationKeys = []string{"SESSION_TTL"}
)

// checkEnv reports typed variables that are set but do not parse. The Env*
// helpers fall back to the default for those, so Load refuses to start.
func checkEnv() error {
	var errs []error
	check := func(keys []string, kind string, parse func(string) error) {
		for _, key := range keys {
			v := os.Getenv(key)
			if v == "" {
				continue
			}
			if err := parse(v); err != nil {
				errs = append(errs, fmt.Errorf("%s=%q is not a valid %s", key, v, kind))
			}
		}
	}
	check(intKeys, "integer", func(v string) error { _, err := strconv.Atoi(v); return err })
	check(boolKeys, "boolean", func(v string) error { _, err := strconv.ParseBool(v); return err })
	check(durationKeys, "duration", func(v string) error { _, err := time.ParseDuration(v); return err })
	return errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("missing required env SESSION_SECRET"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	switch c.SessionStore {
	case SessionStoreDB:
	case SessionStoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("SESSION_STORE=redis requires REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
