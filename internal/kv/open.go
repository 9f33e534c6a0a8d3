package kv

import (
	"fmt"

	"github.com/JocaCola1972/LevelUP-Connect/internal/database"
	"github.com/charmbracelet/log"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string // "sql", "redis" or "memory"
	DBName     string
	TursoURL   string
	TursoToken string
	RedisURL   string
}

// Open creates the configured backend. The returned teardown releases its connections.
func Open(opts Options) (Store, func(), error) {
	switch opts.Backend {
	case "", "sql":
		db, teardown, err := database.InitDB(opts.DBName, opts.TursoURL, opts.TursoToken)
		if err != nil {
			return nil, nil, err
		}
		return NewSQL(db), teardown, nil
	case "redis":
		r, err := NewRedis(opts.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		teardown := func() {
			if err := r.Close(); err != nil {
				log.Error("Failed to close redis client", "error", err)
			}
		}
		return r, teardown, nil
	case "memory":
		log.Warn("Using in-memory storage, nothing will survive a restart")
		return NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown kv backend %q", opts.Backend)
	}
}
