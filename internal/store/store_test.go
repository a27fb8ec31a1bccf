package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/braze-track-service/internal/logsink"
)

func TestOpenWithoutDriver(t *testing.T) {
	wh, err := Open("", "")
	require.NoError(t, err)
	assert.Nil(t, wh)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("sqlite", "file.db")
	assert.EqualError(t, err, `unknown warehouse driver "sqlite"`)
}

// exerciseWarehouse inserts rows and checks windowed counts.
func exerciseWarehouse(t *testing.T, wh Warehouse) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, wh.EnsureSchema(ctx))
	require.NoError(t, wh.EnsureSchema(ctx), "schema must be reapplicable")

	event := fmt.Sprintf("/users/track-%d", time.Now().UnixNano())
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := []logsink.Row{
		{TagName: "t", Type: logsink.TypeRequest, EventName: event, RequestBody: `{"events":[]}`, Timestamp: base.UnixMilli()},
		{TagName: "t", Type: logsink.TypeResponse, EventName: event, ResponseStatusCode: 201, ResponseBody: `{"message":"success"}`, Timestamp: base.Add(time.Second).UnixMilli()},
		{TagName: "t", Type: logsink.TypeRequest, EventName: event, Timestamp: base.Add(time.Hour).UnixMilli()},
	}
	for _, row := range rows {
		require.NoError(t, wh.InsertLog(ctx, row))
	}

	n, err := wh.CountLogs(ctx, event, "", base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "upper bound is exclusive")

	n, err = wh.CountLogs(ctx, event, logsink.TypeRequest, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, wh.Ping(ctx))
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("WAREHOUSE_TEST_URL")
	if url == "" {
		t.Skip("WAREHOUSE_TEST_URL not set")
	}
	wh, err := Open("postgres", url)
	require.NoError(t, err)
	defer wh.Close()

	exerciseWarehouse(t, wh)
}

func TestClickHouseStore(t *testing.T) {
	url := os.Getenv("CLICKHOUSE_TEST_URL")
	if url == "" {
		t.Skip("CLICKHOUSE_TEST_URL not set")
	}
	wh, err := Open("clickhouse", url)
	require.NoError(t, err)
	defer wh.Close()

	exerciseWarehouse(t, wh)
}
