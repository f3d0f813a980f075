// Package domain implements the gated media-distribution workflow: catalog
// ingestion, membership-gated delivery with timed revocation, operator
// broadcast, and the user-facing locale commands.
package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/filmgate/filmgate/internal/services/bot/render"
	"github.com/filmgate/filmgate/internal/services/bot/storage"
)

var (
	// ErrNotOperator indicates a privileged command from a non-operator.
	ErrNotOperator = errors.New("caller is not an operator")
	// ErrNotMember indicates the requester is not a public-channel member.
	ErrNotMember = errors.New("user is not a channel member")
	// ErrItemNotFound indicates a catalog lookup miss.
	ErrItemNotFound = errors.New("item not found")
	// ErrDeliveryFailed indicates the payload could not be transmitted.
	ErrDeliveryFailed = errors.New("item delivery failed")
)

const defaultRevokeAfter = 120 * time.Second

// revokeCallTimeout bounds the revocation delete call itself, not the wait
// before it.
const revokeCallTimeout = 30 * time.Second

// Config wires the domain service dependencies and immutable settings.
type Config struct {
	Catalog      storage.CatalogStore
	Users        storage.UserStore
	Messenger    Messenger
	Membership   MembershipChecker
	PublicChatID int64
	Operators    []int64
	ContentDir   string
	CompanionRef string
	RevokeAfter  time.Duration
}

// Service orchestrates the media-distribution workflow.
type Service struct {
	catalog      storage.CatalogStore
	users        storage.UserStore
	msgr         Messenger
	membership   MembershipChecker
	publicChatID int64
	operators    map[int64]struct{}
	contentDir   string
	companionRef string
	revokeAfter  time.Duration

	clock         func() time.Time
	schedule      func(d time.Duration, fn func())
	openPayload   func(path string) (io.ReadCloser, error)
	removePayload func(path string) error
	localize      func(lang string) render.Localizer
}

// NewService constructs the bot domain service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("catalog store is required")
	}
	if cfg.Users == nil {
		return nil, errors.New("user store is required")
	}
	if cfg.Messenger == nil {
		return nil, errors.New("messenger is required")
	}
	if cfg.Membership == nil {
		return nil, errors.New("membership checker is required")
	}
	if cfg.PublicChatID == 0 {
		return nil, errors.New("public chat id is required")
	}
	if cfg.ContentDir == "" {
		return nil, errors.New("content directory is required")
	}
	if cfg.CompanionRef == "" {
		return nil, errors.New("companion asset ref is required")
	}

	revokeAfter := cfg.RevokeAfter
	if revokeAfter <= 0 {
		revokeAfter = defaultRevokeAfter
	}
	operators := make(map[int64]struct{}, len(cfg.Operators))
	for _, id := range cfg.Operators {
		operators[id] = struct{}{}
	}

	return &Service{
		catalog:      cfg.Catalog,
		users:        cfg.Users,
		msgr:         cfg.Messenger,
		membership:   cfg.Membership,
		publicChatID: cfg.PublicChatID,
		operators:    operators,
		contentDir:   cfg.ContentDir,
		companionRef: cfg.CompanionRef,
		revokeAfter:  revokeAfter,
		clock:        time.Now,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		openPayload: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		removePayload: os.Remove,
		localize:      render.ForLanguage,
	}, nil
}

// IsOperator reports whether userID is on the configured operator allow-list.
func (s *Service) IsOperator(userID int64) bool {
	_, ok := s.operators[userID]
	return ok
}

// requireOperator enforces the authorization gate for privileged commands.
// On failure it emits the localized refusal and performs no further action.
func (s *Service) requireOperator(ctx context.Context, userID int64, chatID int64) error {
	if s.IsOperator(userID) {
		return nil
	}
	loc := s.localizerFor(ctx, userID)
	if _, err := s.msgr.SendText(ctx, chatID, loc.Sprintf(render.KeyNotOperator)); err != nil {
		return fmt.Errorf("send unauthorized notice: %w", err)
	}
	return ErrNotOperator
}

func (s *Service) localizerFor(ctx context.Context, userID int64) render.Localizer {
	lang, err := s.users.GetLanguage(ctx, userID)
	if err != nil {
		lang = render.DefaultLanguage
	}
	return s.localize(lang)
}

func (s *Service) nowUTC() time.Time {
	return s.clock().UTC()
}
