// Package store persists invocation log rows in a warehouse table.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/PratikDhanave/braze-track-service/internal/config"
	"github.com/PratikDhanave/braze-track-service/internal/logsink"
)

// Warehouse is a log table backend.
type Warehouse interface {
	logsink.RowWriter
	EnsureSchema(ctx context.Context) error
	CountLogs(ctx context.Context, eventName, logType string, from, to time.Time) (int64, error)
	Ping(ctx context.Context) error
	Close()
}

// Open connects to the warehouse selected by driver. It returns nil and no
// error when no driver is configured.
func Open(driver, url string) (Warehouse, error) {
	var (
		wh  Warehouse
		err error
	)
	switch driver {
	case config.WarehouseNone:
		return nil, nil
	case config.WarehousePostgres:
		wh, err = NewPostgresStore(url)
	case config.WarehouseClickHouse:
		wh, err = NewClickHouseStore(url)
	default:
		return nil, fmt.Errorf("unknown warehouse driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s warehouse: %w", driver, err)
	}
	return wh, nil
}
