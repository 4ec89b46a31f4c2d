package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates the service configuration.
type Config struct {
	Server ServerConfig
	Chat   ChatConfig
	Upload UploadConfig
	CORS   CORSConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// ChatConfig describes the chat core.
type ChatConfig struct {
	DefaultRoom  string
	HistoryLimit int
	PageSize     int
	SendBuffer   int
}

// UploadConfig describes file upload storage.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// CORSConfig describes the allowed browser origin.
type CORSConfig struct {
	Origin string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	chatCfg, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	upload, err := loadUploadConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Chat:   chatCfg,
		Upload: upload,
		CORS:   CORSConfig{Origin: getEnvOrDefault("CLIENT_URL", "*")},
	}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func loadChatConfig() (ChatConfig, error) {
	historyLimit, err := parsePositiveIntEnv("CHAT_HISTORY_LIMIT", 500)
	if err != nil {
		return ChatConfig{}, err
	}

	pageSize, err := parsePositiveIntEnv("CHAT_PAGE_SIZE", 20)
	if err != nil {
		return ChatConfig{}, err
	}

	sendBuffer, err := parsePositiveIntEnv("CHAT_SEND_BUFFER", 64)
	if err != nil {
		return ChatConfig{}, err
	}

	return ChatConfig{
		DefaultRoom:  getEnvOrDefault("CHAT_DEFAULT_ROOM", "global"),
		HistoryLimit: historyLimit,
		PageSize:     pageSize,
		SendBuffer:   sendBuffer,
	}, nil
}

func loadUploadConfig() (UploadConfig, error) {
	maxBytes, err := parsePositiveIntEnv("UPLOAD_MAX_BYTES", 10<<20)
	if err != nil {
		return UploadConfig{}, err
	}

	return UploadConfig{
		Dir:      getEnvOrDefault("UPLOAD_DIR", "uploads"),
		MaxBytes: int64(maxBytes),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parsePositiveIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val < 1 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, val)
	}
	return val, nil
}
