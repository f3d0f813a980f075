// Package sqlite provides SQLite-backed persistence for the bot service.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/filmgate/filmgate/internal/platform/storage/sqlitemigrate"
	"github.com/filmgate/filmgate/internal/services/bot/storage"
	"github.com/filmgate/filmgate/internal/services/bot/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for catalog and user state.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a bot SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(context.Background(), s.sqlDB, migrations.FS)
}

// PutItem unconditionally upserts one catalog item record.
func (s *Store) PutItem(ctx context.Context, record storage.ItemRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeItemRecord(record)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
	INSERT INTO catalog_items (
		id, poster_ref, description, payload_path, companion_ref, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		poster_ref = excluded.poster_ref,
		description = excluded.description,
		payload_path = excluded.payload_path,
		companion_ref = excluded.companion_ref,
		updated_at = excluded.updated_at
	`,
		normalized.ID,
		normalized.PosterRef,
		normalized.Description,
		normalized.PayloadPath,
		normalized.CompanionRef,
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put catalog item: %w", err)
	}
	return nil
}

// GetItem loads one catalog item record by id.
func (s *Store) GetItem(ctx context.Context, id string) (storage.ItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ItemRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ItemRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.ItemRecord{}, storage.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, poster_ref, description, payload_path, companion_ref, created_at, updated_at
FROM catalog_items
WHERE id = ?
`, id)
	var record storage.ItemRecord
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(
		&record.ID,
		&record.PosterRef,
		&record.Description,
		&record.PayloadPath,
		&record.CompanionRef,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ItemRecord{}, storage.ErrNotFound
		}
		return storage.ItemRecord{}, fmt.Errorf("get catalog item: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// DeleteItem removes one catalog item record; deleting a missing id succeeds.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM catalog_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete catalog item: %w", err)
	}
	return nil
}

// SetLanguage upserts one user's language preference.
func (s *Store) SetLanguage(ctx context.Context, userID int64, language string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	language = strings.TrimSpace(language)
	if userID == 0 {
		return fmt.Errorf("user id is required")
	}
	if language == "" {
		return fmt.Errorf("language is required")
	}

	now := time.Now().UTC()
	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO user_locales (user_id, language, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		language = excluded.language,
		updated_at = excluded.updated_at
	`, userID, language, toMillis(now))
	if err != nil {
		return fmt.Errorf("set user language: %w", err)
	}
	return nil
}

// GetLanguage returns the stored language preference for one user.
func (s *Store) GetLanguage(ctx context.Context, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	if userID == 0 {
		return "", storage.ErrNotFound
	}

	var language string
	row := s.sqlDB.QueryRowContext(ctx, `SELECT language FROM user_locales WHERE user_id = ?`, userID)
	if err := row.Scan(&language); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get user language: %w", err)
	}
	return language, nil
}

// RegisterUser appends one user to the recipient set; repeats are no-ops.
func (s *Store) RegisterUser(ctx context.Context, userID int64, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if userID == 0 {
		return fmt.Errorf("user id is required")
	}
	if at.IsZero() {
		return fmt.Errorf("registration time is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT OR IGNORE INTO registered_users (user_id, registered_at)
	VALUES (?, ?)
	`, userID, toMillis(at))
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}

// ListRegistered returns every registered user in registration order.
func (s *Store) ListRegistered(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT user_id
FROM registered_users
ORDER BY registered_at ASC, user_id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list registered users: %w", err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan registered user row: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registered user rows: %w", err)
	}
	return userIDs, nil
}

func normalizeItemRecord(record storage.ItemRecord) (storage.ItemRecord, error) {
	record.ID = strings.TrimSpace(record.ID)
	record.PosterRef = strings.TrimSpace(record.PosterRef)
	record.Description = strings.TrimSpace(record.Description)
	record.PayloadPath = strings.TrimSpace(record.PayloadPath)
	record.CompanionRef = strings.TrimSpace(record.CompanionRef)
	if record.ID == "" {
		return storage.ItemRecord{}, fmt.Errorf("item id is required")
	}
	if record.Description == "" {
		return storage.ItemRecord{}, fmt.Errorf("item description is required")
	}
	if record.PayloadPath == "" {
		return storage.ItemRecord{}, fmt.Errorf("item payload path is required")
	}
	if record.CompanionRef == "" {
		return storage.ItemRecord{}, fmt.Errorf("item companion ref is required")
	}
	if record.CreatedAt.IsZero() {
		return storage.ItemRecord{}, fmt.Errorf("created_at is required")
	}
	if record.UpdatedAt.IsZero() {
		return storage.ItemRecord{}, fmt.Errorf("updated_at is required")
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}
