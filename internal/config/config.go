package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
)

type Config struct {
	DB           DBConfig
	Server       ServerConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	JWT          JWTConfig
	LLM          LLMConfig
	Ingest       IngestConfig
	CacheTTLs    CacheTTLConfig
	ParentalGate ParentalGateConfig
}

type RedisConfig struct {
	Address     string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

// DBConfig selects the Oracle driver: "oracle" (go-ora, pure Go) or "godror" (OCI).
type DBConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	MaxOpenConns int
	MaxIdleConns int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimitMB  int
	StaticDir    string
}

type LoggerConfig struct {
	Level string
	Env   string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// LLMConfig describes the vision/text model endpoint. APIKey is the global
// fallback key used when neither the user nor their parent configured one.
type LLMConfig struct {
	Provider        string
	BaseURL         string
	Model           string
	APIKey          string
	Referer         string
	Title           string
	Timeout         time.Duration
	MaxTokens       int
	OllamaServerURL string
}

type IngestConfig struct {
	BatchSize      int
	MaxConcurrency int
}

type CacheTTLConfig struct {
	Stats            string
	APIKeyValidation string
}

type ParentalGateConfig struct {
	MaxAttempts int
	Lockout     time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 180)
	v.SetDefault("server.body_limit_mb", 50)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("db.driver", "oracle")
	v.SetDefault("db.port", 1521)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("jwt.access_token_ttl", "24h")
	v.SetDefault("jwt.refresh_token_ttl", "168h")

	v.SetDefault("llm.provider", "openrouter")
	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "google/gemini-2.5-flash")
	v.SetDefault("llm.referer", "https://reviflow.app")
	v.SetDefault("llm.title", "Reviflow")
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.max_tokens", 8192)
	v.SetDefault("llm.ollama_server_url", "http://localhost:11434")

	v.SetDefault("ingest.batch_size", 5)
	v.SetDefault("ingest.max_concurrency", 2)

	v.SetDefault("cache_ttls.stats", "5m")
	v.SetDefault("cache_ttls.api_key_validation", "10m")

	v.SetDefault("parental_gate.max_attempts", 5)
	v.SetDefault("parental_gate.lockout", "15m")
}

// LoadConfig reads config.yaml (optional) and overlays APP_* environment
// variables, e.g. APP_DB_HOST or APP_JWT_SECRET_KEY.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		DB: DBConfig{
			Driver:       v.GetString("db.driver"),
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			DBName:       v.GetString("db.name"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			MaxIdleConns: v.GetInt("db.max_idle_conns"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			BodyLimitMB:  v.GetInt("server.body_limit_mb"),
			StaticDir:    v.GetString("server.static_dir"),
		},
		Redis: RedisConfig{
			Address:     v.GetString("redis.address"),
			Password:    v.GetString("redis.password"),
			DB:          v.GetInt("redis.db"),
			PoolSize:    v.GetInt("redis.pool_size"),
			DialTimeout: ParseTTLStringOrDefault(v.GetString("redis.dial_timeout"), 5*time.Second),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		JWT: JWTConfig{
			SecretKey:       v.GetString("jwt.secret_key"),
			AccessTokenTTL:  ParseTTLStringOrDefault(v.GetString("jwt.access_token_ttl"), 24*time.Hour),
			RefreshTokenTTL: ParseTTLStringOrDefault(v.GetString("jwt.refresh_token_ttl"), 7*24*time.Hour),
		},
		LLM: LLMConfig{
			Provider:        v.GetString("llm.provider"),
			BaseURL:         v.GetString("llm.base_url"),
			Model:           v.GetString("llm.model"),
			APIKey:          v.GetString("llm.api_key"),
			Referer:         v.GetString("llm.referer"),
			Title:           v.GetString("llm.title"),
			Timeout:         ParseTTLStringOrDefault(v.GetString("llm.timeout"), 120*time.Second),
			MaxTokens:       v.GetInt("llm.max_tokens"),
			OllamaServerURL: v.GetString("llm.ollama_server_url"),
		},
		Ingest: IngestConfig{
			BatchSize:      v.GetInt("ingest.batch_size"),
			MaxConcurrency: v.GetInt("ingest.max_concurrency"),
		},
		CacheTTLs: CacheTTLConfig{
			Stats:            v.GetString("cache_ttls.stats"),
			APIKeyValidation: v.GetString("cache_ttls.api_key_validation"),
		},
		ParentalGate: ParentalGateConfig{
			MaxAttempts: v.GetInt("parental_gate.max_attempts"),
			Lockout:     ParseTTLStringOrDefault(v.GetString("parental_gate.lockout"), 15*time.Minute),
		},
	}

	// OPENROUTER_API_KEY is the conventional variable for the global key.
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if len(c.JWT.SecretKey) < 32 {
		return errors.New("jwt.secret_key must be at least 32 bytes long")
	}
	switch c.DB.Driver {
	case "oracle", "godror":
	default:
		return fmt.Errorf("unsupported db.driver %q (expected oracle or godror)", c.DB.Driver)
	}
	switch c.LLM.Provider {
	case "openrouter", "ollama":
	default:
		return fmt.Errorf("unsupported llm.provider %q (expected openrouter or ollama)", c.LLM.Provider)
	}
	if c.Ingest.BatchSize <= 0 {
		return errors.New("ingest.batch_size must be positive")
	}
	return nil
}

// GetDSN builds the data source name for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == "godror" {
		return fmt.Sprintf(`user="%s" password="%s" connectString="%s:%d/%s"`,
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
		)
	}
	return go_ora.BuildUrl(c.DB.Host, c.DB.Port, c.DB.DBName, c.DB.User, c.DB.Password, nil)
}

// ParseTTLStringOrDefault parses a Go duration string, falling back to def
// when the string is empty or malformed.
func ParseTTLStringOrDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
