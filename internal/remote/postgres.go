package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of a pgx pool used by PostgresStore.
type Database interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

const (
	createSchemaQuery = `
		CREATE TABLE IF NOT EXISTS marker_documents (
			code       TEXT PRIMARY KEY,
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	loadDocumentQuery = `
		SELECT document
		FROM marker_documents
		WHERE code = $1;
	`
	saveDocumentQuery = `
		INSERT INTO marker_documents (code, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (code) DO UPDATE
		SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at;
	`
)

// NewDatabase opens a pgx connection pool and verifies it with a ping.
func NewDatabase(ctx context.Context, host string, port int, user, password, dbname string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", user, password, host, port, dbname)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// PostgresStore keeps one marker document per access code in a jsonb column.
type PostgresStore struct {
	db  Database
	log *slog.Logger
}

// NewPostgresStore creates a store on top of db. Call EnsureSchema before first use.
func NewPostgresStore(db Database, log *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log}
}

// EnsureSchema creates the marker_documents table when it does not exist.
func (ps *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := ps.db.Exec(ctx, createSchemaQuery); err != nil {
		return fmt.Errorf("failed to create marker_documents table: %w", err)
	}

	return nil
}

// Load returns the document stored for code, or an empty collection when there is none.
func (ps *PostgresStore) Load(ctx context.Context, code string) ([]models.Marker, error) {
	var document []byte

	err := ps.db.QueryRow(ctx, loadDocumentQuery, code).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		ps.log.DebugContext(ctx, "No marker document stored for code")
		return []models.Marker{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query marker document: %w", ErrNetwork, err)
	}

	return decodeDocument(bytes.NewReader(document))
}

// Save upserts the document for code.
func (ps *PostgresStore) Save(ctx context.Context, code string, markers []models.Marker) error {
	document, err := encodeDocument(markers)
	if err != nil {
		return fmt.Errorf("failed to encode markers: %w", err)
	}

	if _, err = ps.db.Exec(ctx, saveDocumentQuery, code, document); err != nil {
		return fmt.Errorf("%w: failed to save marker document: %w", ErrNetwork, err)
	}

	ps.log.DebugContext(ctx, "Marker document saved", "count", len(markers))

	return nil
}

// Ping checks the database connection.
func (ps *PostgresStore) Ping(ctx context.Context) error {
	return ps.db.Ping(ctx)
}
