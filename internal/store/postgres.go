package store

import (
	"context"
	_ "embed"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/braze-track-service/internal/logsink"
)

// schemaSQL is embedded so the service can self-bootstrap its log table.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the Postgres warehouse for invocation logs.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Warehouse = (*PostgresStore)(nil)

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// InsertLog stores one log row. Empty JSON columns and a zero status code
// are stored as NULL.
func (p *PostgresStore) InsertLog(ctx context.Context, row logsink.Row) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO braze_logs(
			tag_name, type, trace_id, event_name, message, reason,
			request_method, request_url, request_body,
			response_status_code, response_headers, response_body,
			timestamp, ts
		)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, NULLIF($9, '')::jsonb,
			NULLIF($10, 0), NULLIF($11, '')::jsonb, NULLIF($12, '')::jsonb,
			$13, $14
		)
	`,
		row.TagName, row.Type, row.TraceID, row.EventName, row.Message, row.Reason,
		row.RequestMethod, row.RequestURL, row.RequestBody,
		row.ResponseStatusCode, row.ResponseHeaders, row.ResponseBody,
		row.Timestamp, time.UnixMilli(row.Timestamp).UTC(),
	)
	return err
}

// CountLogs returns the number of rows for eventName in the window [from,to).
// An empty logType counts every record type.
// Using a half-open interval avoids double counting at window boundaries.
func (p *PostgresStore) CountLogs(
	ctx context.Context,
	eventName string,
	logType string,
	from time.Time,
	to time.Time,
) (int64, error) {

	var count int64
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM braze_logs
		WHERE event_name=$1
		  AND ($2::text = '' OR type = $2)
		  AND ts >= $3
		  AND ts <  $4
	`, eventName, logType, from, to).Scan(&count)

	return count, err
}
