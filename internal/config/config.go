package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Warehouse drivers accepted in WAREHOUSE_DRIVER.
const (
	WarehouseNone       = ""
	WarehousePostgres   = "postgres"
	WarehouseClickHouse = "clickhouse"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Port    string
	APIKeys map[string]string // apiKey -> tenantID

	TagsFile string
	Tags     Tags

	WarehouseDriver string
	WarehouseURL    string

	DebugMode   bool
	LogLevel    string
	HTTPTimeout time.Duration
}

// Load reads runtime values from environment variables and the tag file.
// API_KEYS format: "tenant1:key1,tenant2:key2"
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		TagsFile:        getEnv("TAGS_FILE", "tags.yaml"),
		WarehouseDriver: strings.ToLower(strings.TrimSpace(os.Getenv("WAREHOUSE_DRIVER"))),
		WarehouseURL:    strings.TrimSpace(os.Getenv("WAREHOUSE_URL")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HTTPTimeout:     10 * time.Second,
	}

	apiKeys, err := parseAPIKeys(os.Getenv("API_KEYS"))
	if err != nil {
		return Config{}, err
	}
	cfg.APIKeys = apiKeys

	switch cfg.WarehouseDriver {
	case WarehouseNone:
	case WarehousePostgres, WarehouseClickHouse:
		if cfg.WarehouseURL == "" {
			return Config{}, errors.New("WAREHOUSE_URL required when WAREHOUSE_DRIVER is set")
		}
	default:
		return Config{}, fmt.Errorf("unknown WAREHOUSE_DRIVER %q", cfg.WarehouseDriver)
	}

	if raw := strings.TrimSpace(os.Getenv("DEBUG_MODE")); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("DEBUG_MODE: %w", err)
		}
		cfg.DebugMode = debug
	}

	if raw := strings.TrimSpace(os.Getenv("HTTP_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = timeout
	}

	tags, err := LoadTags(cfg.TagsFile)
	if err != nil {
		return Config{}, err
	}
	cfg.Tags = tags

	return cfg, nil
}

func parseAPIKeys(raw string) (map[string]string, error) {
	apiKeys := map[string]string{}

	raw = strings.TrimSpace(raw)
	if raw != "" {
		pairs := strings.Split(raw, ",")
		for _, p := range pairs {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			parts := strings.SplitN(p, ":", 2)
			if len(parts) != 2 {
				return nil, errors.New(`API_KEYS must be "tenant:key,tenant:key"`)
			}
			tenant := strings.TrimSpace(parts[0])
			key := strings.TrimSpace(parts[1])
			if tenant == "" || key == "" {
				return nil, errors.New(`API_KEYS must be "tenant:key,tenant:key"`)
			}
			apiKeys[key] = tenant
		}
	}

	// Local dev fallback so the service runs out-of-the-box.
	if len(apiKeys) == 0 {
		apiKeys["tenant-key-123"] = "tenant1"
	}

	return apiKeys, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
