package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AntonCapusta25/email-validator/internal/core"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite implementation of the CacheRepository interface.
// The validation record is stored as a JSON blob: the verdict is nested
// (embedded AI assessment, pattern list) and is only ever read back whole.
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS validation_cache (
			address TEXT PRIMARY KEY,
			record TEXT,
			last_seen TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index on expires_at for faster cleanup
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_expires_at ON validation_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
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
func (c *SQLiteCache) Get(ctx context.Context, address string) (*core.CacheEntry, error) {
	var recordJSON string
	var lastSeen, expiresAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT record, last_seen, expires_at
		FROM validation_cache
		WHERE address = ? AND expires_at > datetime('now')
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

	seen, err := time.Parse(time.RFC3339, lastSeen)
	if err != nil {
		c.logger.Error("Failed to parse last_seen timestamp", zap.Error(err))
		return nil, err
	}
	expires, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		c.logger.Error("Failed to parse expires_at timestamp", zap.Error(err))
		return nil, err
	}

	return &core.CacheEntry{
		Address:   address,
		Record:    record,
		LastSeen:  seen,
		ExpiresAt: expires,
	}, nil
}

// Set stores a cache entry
func (c *SQLiteCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	recordJSON, err := json.Marshal(entry.Record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO validation_cache (address, record, last_seen, expires_at)
		VALUES (?, ?, ?, ?)
	`, entry.Address, string(recordJSON),
		entry.LastSeen.Format(time.RFC3339), entry.ExpiresAt.Format(time.RFC3339))

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("address", entry.Address))
		return err
	}
	return nil
}

// Delete removes a cache entry
func (c *SQLiteCache) Delete(ctx context.Context, address string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM validation_cache WHERE address = ?`, address)
	return err
}

// Cleanup removes expired entries
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM validation_cache WHERE expires_at <= datetime('now')`)
	if err != nil {
		return fmt.Errorf("failed to clean up cache: %w", err)
	}

	if removed, err := result.RowsAffected(); err == nil {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", removed))
	}
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *SQLiteCache) startCleanupTask() {
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
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
