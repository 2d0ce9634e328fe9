package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		IdleTimeout     time.Duration `yaml:"idleTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
		MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
		AllowedOrigins  []string      `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	AI struct {
		Provider      string        `yaml:"provider"`
		TextTimeout   time.Duration `yaml:"textTimeout"`
		ImageTimeout  time.Duration `yaml:"imageTimeout"`
		DisableImages bool          `yaml:"disableImages"`

		Gemini struct {
			APIKey     string `yaml:"apiKey"`
			BaseURL    string `yaml:"baseURL"`
			TextModel  string `yaml:"textModel"`
			ImageModel string `yaml:"imageModel"`
		} `yaml:"gemini"`

		OpenAI struct {
			APIKey     string `yaml:"apiKey"`
			BaseURL    string `yaml:"baseURL"`
			TextModel  string `yaml:"textModel"`
			ImageModel string `yaml:"imageModel"`
			ImageSize  string `yaml:"imageSize"`
		} `yaml:"openai"`
	} `yaml:"ai"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	// Illustrations override or extend the built-in illustration table.
	// A value of "asset:<key>" points at an object in the MinIO bucket.
	Illustrations map[string]string `yaml:"illustrations"`
}

// Load baca file config.yaml (boleh tidak ada), lalu .env dan environment
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.setDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	// analysis plus two image calls can take minutes
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 180 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 64 << 10
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderGemini
	}
	if c.AI.TextTimeout == 0 {
		c.AI.TextTimeout = 90 * time.Second
	}
	if c.AI.ImageTimeout == 0 {
		c.AI.ImageTimeout = 60 * time.Second
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "illustrations"
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.AI.Provider, "AI_PROVIDER")
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))

	// API_KEY kept for older deployments; GEMINI_API_KEY wins
	setString(&c.AI.Gemini.APIKey, "API_KEY")
	setString(&c.AI.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.AI.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.AI.OpenAI.BaseURL, "OPENAI_BASE_URL")

	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Minio.BucketName, "MINIO_BUCKET")
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		ssl, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MINIO_USE_SSL: %w", err)
		}
		c.Minio.UseSSL = ssl
	}
	return nil
}

// Validate collects every configuration problem so startup fails once with
// the full list.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got: %d)", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.maxBodyBytes must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.Gemini.APIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
		}
	case ProviderOpenAI:
		if c.AI.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("ai.provider must be one of: gemini, openai (got: %s)", c.AI.Provider))
	}
	if c.AI.TextTimeout <= 0 || c.AI.ImageTimeout <= 0 {
		errs = append(errs, errors.New("ai timeouts must be positive"))
	}

	if c.Minio.Endpoint != "" && c.Minio.BucketName == "" {
		errs = append(errs, errors.New("minio.bucketName is required when minio.endpoint is set"))
	}
	for id, url := range c.Illustrations {
		if strings.HasPrefix(url, "asset:") && c.Minio.Endpoint == "" {
			errs = append(errs, fmt.Errorf("illustrations.%s uses an asset key but minio.endpoint is not set", id))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}
	return nil
}

// Addr returns the listen address for http.Server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// MinioEnabled reports whether the illustration asset store is configured.
func (c *Config) MinioEnabled() bool {
	return c.Minio.Endpoint != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
