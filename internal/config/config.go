package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	LLM        LLMConfig
	Evaluation EvaluationConfig
	Storage    StorageConfig
	Logger     LoggerConfig

	// EnvFileLoaded is false when no .env file was found; logging is not
	// initialized yet at load time, so callers report it.
	EnvFileLoaded bool
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// LLMConfig selects the completion provider. Keys here are only fallbacks;
// a credential supplied with a request always wins.
type LLMConfig struct {
	Provider      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
	Model         string
}

type EvaluationConfig struct {
	Profile           string
	TextStyle         string
	QuestionThreshold int
}

type StorageConfig struct {
	MaxFileSize int64
}

type LoggerConfig struct {
	Level string
	Env   string
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

func Load() *Config {
	// A missing .env is normal outside local development.
	envLoaded := godotenv.Load() == nil

	env := getEnv("ENV", "development")
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  env,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hr_validator"),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:         getEnv("LLM_MODEL", ""),
		},
		Evaluation: EvaluationConfig{
			Profile:           getEnv("PROMPT_PROFILE", "tags-v2"),
			TextStyle:         getEnv("CV_TEXT_STYLE", "markdown"),
			QuestionThreshold: getEnvAsInt("QUESTION_THRESHOLD", 60),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			Env:   env,
		},
		EnvFileLoaded: envLoaded,
	}

	return cfg
}

// Validate reports configuration values that make the service unusable.
// Missing API keys are not fatal here: every request may bring its own.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.Evaluation.TextStyle {
	case "markdown", "plain":
	default:
		return fmt.Errorf("unsupported CV_TEXT_STYLE %q", c.Evaluation.TextStyle)
	}

	if c.Evaluation.QuestionThreshold < 0 || c.Evaluation.QuestionThreshold > 100 {
		return fmt.Errorf("QUESTION_THRESHOLD must be between 0 and 100, got %d", c.Evaluation.QuestionThreshold)
	}

	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return nil
}

// DefaultCredential returns the environment-provided key for the configured provider.
func (c *Config) DefaultCredential() string {
	if c.LLM.Provider == ProviderGemini {
		return c.LLM.GeminiAPIKey
	}
	return c.LLM.OpenAIAPIKey
}

// HistoryEnabled reports whether evaluation records should be persisted.
func (c *Config) HistoryEnabled() bool {
	return c.Database.Host != ""
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}
