package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/AntonCapusta25/email-validator/internal/core"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of the CacheRepository interface
type MySQLCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS validation_cache (
			address VARCHAR(320) PRIMARY KEY,
			record TEXT,
			last_seen TIMESTAMP,
			expires_at TIMESTAMP,
			INDEX idx_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached entry for an address
func (c *MySQLCache) Get(ctx context.Context, address string) (*core.CacheEntry, error) {
	var recordJSON string
	var lastSeen, expiresAt time.Time

	err := c.db.QueryRowContext(ctx, `
		SELECT record, last_seen, expires_at
		FROM validation_cache
		WHERE address = ? AND expires_at > NOW()
	`, address).Scan(&recordJSON, &lastSeen, &expiresAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		c.logger.Error("Failed to query cache", zap.Error(err), zap.String("address", address))
		return nil, err
	}

	var record core.ValidationRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		c.logger.Error("Failed to decode cached record", zap.Error(err))
		return nil, err
	}

	return &core.CacheEntry{
		Address:   address,
		Record:    record,
		LastSeen:  lastSeen,
		ExpiresAt: expiresAt,
	}, nil
}

// Set stores a cache entry
func (c *MySQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	recordJSON, err := json.Marshal(entry.Record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		REPLACE INTO validation_cache (address, record, last_seen, expires_at)
		VALUES (?, ?, ?, ?)
	`, entry.Address, string(recordJSON), entry.LastSeen, entry.ExpiresAt)

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("address", entry.Address))
		return err
	}
	return nil
}

// Delete removes a cache entry
func (c *MySQLCache) Delete(ctx context.Context, address string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM validation_cache WHERE address = ?`, address)
	return err
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM validation_cache WHERE expires_at <= NOW()`)
	if err != nil {
		return fmt.Errorf("failed to clean up cache: %w", err)
	}

	if removed, err := result.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", removed))
	}
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MySQLCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
