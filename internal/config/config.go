package config

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	return fromEnv(os.LookupEnv)
}

func fromEnv(lookup func(string) (string, bool)) Config {
	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}
	getEnvDefault := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	timeout, err := time.ParseDuration(getEnvDefault("ADVISOR_TIMEOUT", "30s"))
	if err != nil {
		log.Fatalf("Error: ADVISOR_TIMEOUT is not a valid duration: %v", err)
	}

	backend := getEnvDefault("KV_BACKEND", BackendSQL)
	switch backend {
	case BackendSQL, BackendMemory:
	case BackendRedis:
		// Redis needs its URL, the other backends don't.
		getEnv("REDIS_URL")
	default:
		log.Fatalf("Error: KV_BACKEND must be one of sql, redis, memory, got %q", backend)
	}

	cfg := Config{
		Port:      getEnvDefault("PORT", "8080"),
		DBName:    getEnvDefault("DB_NAME", "levelup.db"),
		KVBackend: backend,
		RedisURL:  getEnvDefault("REDIS_URL", ""),
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		Admin: AdminConfig{
			Name:  getEnv("ADMIN_NAME"),
			Phone: getEnv("ADMIN_PHONE"),
		},
		Advisor: AdvisorConfig{
			APIKey:  getEnvDefault("GEMINI_API_KEY", ""),
			Model:   getEnvDefault("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout: timeout,
		},
		Slack: SlackConfig{
			Token:     getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvDefault("SLACK_CHANNEL_ID", ""),
		},
		ProjectID: getEnvDefault("GCP_PROJECT", ""),
		PushToken: getEnvDefault("PUBSUB_PUSH_TOKEN", ""),
	}
	return cfg
}
