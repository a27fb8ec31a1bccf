package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/PratikDhanave/braze-track-service/internal/logsink"
)

const clickHouseSchema = `
	CREATE TABLE IF NOT EXISTS braze_logs (
		tag_name String,
		type LowCardinality(String),
		trace_id String,
		event_name String,
		message String,
		reason String,
		request_method LowCardinality(String),
		request_url String,
		request_body String,
		response_status_code UInt16,
		response_headers String,
		response_body String,
		timestamp Int64,
		ts DateTime64(3, 'UTC')
	) ENGINE = MergeTree()
	ORDER BY (event_name, ts)
`

// ClickHouseStore is the ClickHouse warehouse for invocation logs.
type ClickHouseStore struct {
	conn driver.Conn
}

var _ Warehouse = (*ClickHouseStore)(nil)

// NewClickHouseStore connects using a clickhouse:// DSN and fails fast if the
// server is unreachable.
func NewClickHouseStore(dsn string) (*ClickHouseStore, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.Compression == nil {
		opts.Compression = &clickhouse.Compression{Method: clickhouse.CompressionLZ4}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &ClickHouseStore{conn: conn}, nil
}

// EnsureSchema creates the log table if it does not exist.
func (c *ClickHouseStore) EnsureSchema(ctx context.Context) error {
	return c.conn.Exec(ctx, clickHouseSchema)
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() {
	if err := c.conn.Close(); err != nil {
		slog.Warn("closing clickhouse connection", "err", err)
	}
}

// InsertLog appends one row through a single-row batch.
func (c *ClickHouseStore) InsertLog(ctx context.Context, row logsink.Row) error {
	batch, err := c.conn.PrepareBatch(ctx, `
		INSERT INTO braze_logs
		(tag_name, type, trace_id, event_name, message, reason,
		 request_method, request_url, request_body,
		 response_status_code, response_headers, response_body,
		 timestamp, ts)
	`)
	if err != nil {
		return err
	}

	if err := batch.Append(
		row.TagName,
		row.Type,
		row.TraceID,
		row.EventName,
		row.Message,
		row.Reason,
		row.RequestMethod,
		row.RequestURL,
		row.RequestBody,
		uint16(row.ResponseStatusCode),
		row.ResponseHeaders,
		row.ResponseBody,
		row.Timestamp,
		time.UnixMilli(row.Timestamp).UTC(),
	); err != nil {
		_ = batch.Abort()
		return err
	}

	return batch.Send()
}

// CountLogs returns the number of rows for eventName in the window [from,to).
func (c *ClickHouseStore) CountLogs(ctx context.Context, eventName, logType string, from, to time.Time) (int64, error) {
	var count uint64
	err := c.conn.QueryRow(ctx, `
		SELECT count()
		FROM braze_logs
		WHERE event_name = ?
		  AND (? = '' OR type = ?)
		  AND ts >= ?
		  AND ts <  ?
	`, eventName, logType, logType, from, to).Scan(&count)

	return int64(count), err
}
