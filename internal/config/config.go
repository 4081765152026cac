package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Speech  SpeechConfig
	Storage StorageConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Speech: speech, Storage: storage}, nil
}

// ServerConfig describes the HTTP listener and cross-origin policy.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	Development    bool
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	origins := []string{"http://localhost:3000"}
	if raw := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return ServerConfig{
		Addr:           addr,
		AllowedOrigins: origins,
		Development:    strings.EqualFold(getEnvOrDefault("APP_ENV", "production"), "development"),
	}, nil
}

// AIConfig describes the generative-model call and prompt composition.
type AIConfig struct {
	APIKey           string
	Model            string
	Timeout          time.Duration
	MaxMessageLength int
	PromptPath       string
	TimeZone         *time.Location
}

// Enabled reports whether the required API key is present.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadAIConfig() (AIConfig, error) {
	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("GEMINI_TIMEOUT"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AIConfig{}, fmt.Errorf("GEMINI_TIMEOUT must be positive, got %d", *override)
		}
		timeoutSeconds = *override
	}

	maxLen := 5000
	if override, err := parseOptionalIntEnv("MAX_MESSAGE_LENGTH"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		maxLen = *override
	}

	zoneName := getEnvOrDefault("TIME_ZONE", "Africa/Nairobi")
	zone, err := time.LoadLocation(zoneName)
	if err != nil {
		return AIConfig{}, fmt.Errorf("invalid TIME_ZONE value %q: %w", zoneName, err)
	}

	return AIConfig{
		APIKey:           strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:            getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		Timeout:          time.Duration(timeoutSeconds) * time.Second,
		MaxMessageLength: maxLen,
		PromptPath:       strings.TrimSpace(os.Getenv("CORTEX_PROMPT_PATH")),
		TimeZone:         zone,
	}, nil
}

// SpeechConfig describes text-to-speech synthesis.
type SpeechConfig struct {
	Voice   string
	Format  string
	TempDir string
	Enabled bool
}

func loadSpeechConfig() (SpeechConfig, error) {
	enabled, err := parseBoolEnv("TTS_ENABLED", true)
	if err != nil {
		return SpeechConfig{}, err
	}

	tempDir := getEnvOrDefault("TTS_TEMP_DIR", "")
	if tempDir == "" {
		tempDir = os.TempDir() + string(os.PathSeparator) + "cortex-audio"
	}

	return SpeechConfig{
		Voice:   getEnvOrDefault("TTS_VOICE", "en-US-AvaNeural"),
		Format:  getEnvOrDefault("TTS_FORMAT", "audio-24khz-96kbitrate-mono-mp3"),
		TempDir: tempDir,
		Enabled: enabled,
	}, nil
}

// StorageConfig describes chat-history persistence.
type StorageConfig struct {
	DBPath        string
	RetentionDays int
}

func loadStorageConfig() (StorageConfig, error) {
	retention := 0
	if override, err := parseOptionalIntEnv("CHAT_RETENTION_DAYS"); err != nil {
		return StorageConfig{}, err
	} else if override != nil {
		if *override < 0 {
			return StorageConfig{}, fmt.Errorf("CHAT_RETENTION_DAYS cannot be negative, got %d", *override)
		}
		retention = *override
	}

	return StorageConfig{
		DBPath:        getEnvOrDefault("CHAT_DB_PATH", "./data/cortex.db"),
		RetentionDays: retention,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
