package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"persona-relay/internal/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Имя файла секрета с ключом Gemini API.
const geminiAPIKeySecret = "gemini_api_key"

// Config содержит конфигурацию relay-сервиса.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"8000"` // Unity клиент ходит на 127.0.0.1:8000

	// CORS Settings
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Настройки AI
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"gemini"` // gemini | openai
	AIModel      string        `envconfig:"AI_MODEL" default:"gemini-2.0-flash"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL"` // Пусто - адрес по умолчанию для выбранного клиента
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`

	SecretsDir string `envconfig:"SECRETS_DIR" default:"/run/secrets"`

	// Ключ берется из файла секрета, env используется только если файла нет.
	AIAPIKey string `envconfig:"GEMINI_API_KEY"`
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	origins := strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
	result := make([]string, 0, len(origins))
	for _, o := range origins {
		if o != "" {
			result = append(result, o)
		}
	}
	return result
}

// AllowAllOrigins сообщает, разрешены ли запросы с любого origin.
func (c *Config) AllowAllOrigins() bool {
	for _, o := range c.GetAllowedOrigins() {
		if o == "*" {
			return true
		}
	}
	return false
}

// IsDevelopment is true for local runs.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// LoadConfig загружает конфигурацию из .env (если есть), переменных окружения и секретов.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			} else {
				log.Printf("Loaded configuration from %s", envFilePath)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	// Секрет из файла имеет приоритет над env
	apiKey, err := utils.ReadSecretFrom(cfg.SecretsDir, geminiAPIKeySecret)
	switch {
	case err == nil:
		cfg.AIAPIKey = apiKey
	case errors.Is(err, utils.ErrSecretNotFound), errors.Is(err, utils.ErrSecretEmpty):
		if errors.Is(err, utils.ErrSecretEmpty) {
			log.Printf("Warning: %v, falling back to GEMINI_API_KEY", err)
		}
		if cfg.AIAPIKey == "" {
			return nil, fmt.Errorf("gemini api key not configured: neither secret %q nor GEMINI_API_KEY is set", geminiAPIKeySecret)
		}
	default:
		return nil, err
	}

	if cfg.AITimeout <= 0 {
		return nil, fmt.Errorf("AI_TIMEOUT must be positive, got %v", cfg.AITimeout)
	}

	log.Printf("Конфигурация загружена:")
	log.Printf("  Env: %s", cfg.Env)
	log.Printf("  Port: %s", cfg.ServerPort)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  AI Client Type: %s", cfg.AIClientType)
	log.Printf("  AI Model: %s", cfg.AIModel)
	log.Printf("  AI Base URL: %s", cfg.AIBaseURL)
	log.Printf("  AI Timeout: %v", cfg.AITimeout)
	log.Printf("  AI API Key: %s", utils.MaskSecret(cfg.AIAPIKey))

	return &cfg, nil
}
