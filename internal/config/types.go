package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	Port      string
	DBName    string
	KVBackend string
	RedisURL  string
	Turso     TursoConfig
	Admin     AdminConfig
	Advisor   AdvisorConfig
	Slack     SlackConfig
	ProjectID string
	// PushToken must be sent as ?token= by the Pub/Sub push subscription.
	PushToken string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// AdminConfig identifies the conventional admin seeded at startup.
type AdminConfig struct {
	Name  string
	Phone string
}

type AdvisorConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Storage backends for the kv snapshots.
const (
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)
