// Package storage defines the persistence boundary for the bot service.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested catalog or user record is missing.
	ErrNotFound = errors.New("record not found")
)

// ItemRecord stores one distributable catalog item.
//
// PosterRef is empty when the originating message carried no preview image.
type ItemRecord struct {
	ID           string
	PosterRef    string
	Description  string
	PayloadPath  string
	CompanionRef string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CatalogStore persists catalog item records.
//
// Each method is a single atomic record operation; no multi-record
// transactions are offered.
type CatalogStore interface {
	// PutItem unconditionally overwrites the record with the same ID.
	PutItem(ctx context.Context, record ItemRecord) error
	// GetItem returns ErrNotFound when no record exists for id.
	GetItem(ctx context.Context, id string) (ItemRecord, error)
	// DeleteItem succeeds even when the id was never stored.
	DeleteItem(ctx context.Context, id string) error
}

// UserStore persists user locale preferences and the broadcast recipient set.
type UserStore interface {
	// SetLanguage upserts the user's language preference.
	SetLanguage(ctx context.Context, userID int64, language string) error
	// GetLanguage returns ErrNotFound when the user never chose a language.
	GetLanguage(ctx context.Context, userID int64) (string, error)
	// RegisterUser is idempotent; repeat registrations are no-ops.
	RegisterUser(ctx context.Context, userID int64, at time.Time) error
	// ListRegistered returns recipients in registration order.
	ListRegistered(ctx context.Context) ([]int64, error)
}
