package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection and pool settings.
type Config struct {
	Address      string // Redis server address (host:port)
	Password     string // Redis password (empty if no password)
	DB           int    // Redis database number (0-15)
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

var sharedClient *redis.Client

// Init dials Redis with the provided configuration, verifies the
// connection, and stores the shared client. Unset pool settings fall back
// to defaults.
func Init(cfg Config) error {
	if cfg.Address == "" {
		return fmt.Errorf("redis address cannot be empty")
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 10
	}
	if cfg.MinIdleConns <= 0 {
		cfg.MinIdleConns = 5
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 3 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	sharedClient = client
	return nil
}

// Client returns the shared Redis client instance.
// Returns nil if Init() hasn't been called successfully.
func Client() *redis.Client {
	return sharedClient
}

// Close closes the shared Redis connection
func Close() error {
	if sharedClient == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	if err := sharedClient.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}

	sharedClient = nil
	return nil
}

// IsInitialized checks if the shared Redis client has been initialized
func IsInitialized() bool {
	return sharedClient != nil
}
