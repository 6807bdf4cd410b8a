package remote

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// StoreType represents the backend holding marker documents.
type StoreType string

const (
	// StoreTypeFirebase represents a Firebase realtime database reached over REST.
	StoreTypeFirebase StoreType = "firebase"
	// StoreTypePostgres represents a PostgreSQL table with one jsonb document per code.
	StoreTypePostgres StoreType = "postgres"
)

// PostgresConfig holds connection settings for the postgres backend.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// StoreConfig holds configuration for creating a remote store.
type StoreConfig struct {
	Type        StoreType     // Type of backend to create
	URLTemplate string        // Document URL template (firebase)
	Timeout     time.Duration // HTTP client timeout (firebase)
	RateLimit   int           // Requests per second, 0 for unlimited (firebase)
	Postgres    PostgresConfig
	Logger      *slog.Logger
}

// NewStore creates a remote store for the configured backend. The returned func
// releases the backend's resources and is never nil.
func NewStore(ctx context.Context, config StoreConfig) (Store, func(), error) {
	switch config.Type {
	case StoreTypeFirebase, "":
		return newFirebaseStore(config), func() {}, nil
	case StoreTypePostgres:
		return newPostgresStore(ctx, config)
	default:
		return nil, func() {}, fmt.Errorf("unsupported remote store type: %s", config.Type)
	}
}

func newFirebaseStore(config StoreConfig) Store {
	const defaultTimeout = 10 * time.Second

	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
		config.Logger.Warn("Remote timeout not set, using default", "value", config.Timeout)
	}

	return NewFirebaseStore(config.URLTemplate, config.Timeout, config.RateLimit, config.Logger)
}

func newPostgresStore(ctx context.Context, config StoreConfig) (Store, func(), error) {
	pg := config.Postgres

	pool, err := NewDatabase(ctx, pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	if err != nil {
		return nil, func() {}, err
	}

	store := NewPostgresStore(pool, config.Logger)
	if err = store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, func() {}, err
	}

	return store, pool.Close, nil
}
