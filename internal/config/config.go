package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/planea/back/internal/clients"
)

// AppConfig is the process configuration read from the environment.
type AppConfig struct {
	Port         string
	LogMode      string
	SchoolName   string
	CORSOrigins  []string
	CatalogFile  string
	PromptDir    string
	MaxUploadMiB int

	GeminiAPIKey    string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	AITimeout       time.Duration

	Gateway           clients.GatewayConfig
	ChatModel         string
	ChatFallbackModel string

	DatabaseEnabled bool
	Database        *DatabaseConfig
	SMTP            *SMTPConfig
}

// SMTPConfig configures parent e-mail delivery. Host empty disables it.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (c *SMTPConfig) Enabled() bool {
	return c != nil && c.Host != "" && c.From != ""
}

// Load reads the configuration from environment variables.
func Load() *AppConfig {
	return &AppConfig{
		Port:         getEnv("PORT", "8080"),
		LogMode:      getEnv("LOG_MODE", "dev"),
		SchoolName:   getEnv("SCHOOL_NAME", "Colegio Cristiano"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		CatalogFile:  getEnv("CATALOG_FILE", ""),
		PromptDir:    getEnv("PROMPT_DIR", ""),
		MaxUploadMiB: getEnvInt("MAX_UPLOAD_MIB", 15),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", os.Getenv("CLAUDE_API_KEY")),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AITimeout:       time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 120)) * time.Second,

		Gateway: clients.GatewayConfig{
			DefaultModel:   getEnv("AI_DEFAULT_MODEL", "gemini-2.5-flash"),
			FallbackModels: splitList(getEnv("AI_FALLBACK_MODELS", "gemini-2.5-pro,gemini-2.0-flash")),
			Tasks:          clients.DefaultTasks(),
		},
		ChatModel:         getEnv("CHAT_MODEL", "gemini-2.5-flash"),
		ChatFallbackModel: getEnv("CHAT_FALLBACK_MODEL", "gemini-2.5-pro"),

		DatabaseEnabled: getEnvBool("DB_ENABLED", false),
		Database:        LoadDatabaseConfig(),
		SMTP: &SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}
}

// ChatModels is the chat cascade: fast model first, then the slower one.
func (c *AppConfig) ChatModels() []string {
	return clients.CandidateModels(c.ChatModel, []string{c.ChatFallbackModel})
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
