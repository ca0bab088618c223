package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Neio/wordmaster/internal/platform/cache"
	"github.com/Neio/wordmaster/internal/platform/database"
)

const (
	EngineMemory   = "memory"
	EngineFile     = "file"
	EngineSQLite   = "sqlite"
	EngineRedis    = "redis"
	EnginePostgres = "postgres"
)

// Options selects and configures a storage engine.
type Options struct {
	Engine      string
	Path        string // file and sqlite engines
	KeyPrefix   string // redis engine
	CacheURL    string
	DatabaseURL string
	PoolSize    database.PoolSize
}

// Open returns the Store for opts.Engine.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case EngineMemory:
		return NewMemoryStore(), nil
	case "", EngineFile:
		s, err := NewFileStore(opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case EngineSQLite:
		s, err := NewSQLiteStore(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case EngineRedis:
		client, err := cache.Connect(ctx, opts.CacheURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, opts.KeyPrefix), nil
	case EnginePostgres:
		pool, err := database.Connect(ctx, opts.DatabaseURL, opts.PoolSize)
		if err != nil {
			return nil, err
		}
		s, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage engine: %q", opts.Engine)
	}
}
