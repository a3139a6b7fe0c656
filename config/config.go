package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs at startup. Values come from the
// environment, optionally preloaded from a .env file.
type Config struct {
	Addr         string
	DatabasePath string
	UploadDir    string
	GinMode      string

	// Reply generation backend: "template" (default) or "openai".
	ReplyBackend string
	OpenAIBase   string
	OpenAIKey    string
	OpenAIModel  string

	SessionTTL       time.Duration
	AttachmentMaxLen int64
}

// Load reads configuration from the environment. A missing .env file is not an
// error; explicit environment variables always win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("NAVID_ADDR", ":8080"),
		DatabasePath:     envOr("NAVID_DB_PATH", "data/navid.db"),
		UploadDir:        envOr("NAVID_UPLOAD_DIR", "data/uploads"),
		GinMode:          envOr("GIN_MODE", "debug"),
		ReplyBackend:     envOr("NAVID_REPLY_BACKEND", "template"),
		OpenAIBase:       envOr("OPENAI_BASE_URL", "http://localhost:11434/v1/"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      envOr("OPENAI_MODEL", "llama3.1:8b"),
		SessionTTL:       envDurationOr("NAVID_SESSION_TTL", 24*time.Hour),
		AttachmentMaxLen: envInt64Or("NAVID_ATTACHMENT_MAX_BYTES", 10<<20),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
