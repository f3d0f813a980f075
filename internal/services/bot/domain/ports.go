package domain

import (
	"context"
	"io"
	"time"
)

// MessageRef identifies one message delivered through the chat platform.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Button is one inline action attached to an announcement.
type Button struct {
	Label string
	Data  string
}

// DeliverySession is the bounded-lifetime grant of one transmitted payload.
// It exists only in memory between delivery and revocation.
type DeliverySession struct {
	UserID   int64
	Message  MessageRef
	RevokeAt time.Time
}

// Messenger is the chat-platform capability boundary.
//
// Every call may block on network I/O and fail independently; callers treat
// each as a suspend point.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) (MessageRef, error)
	// SendChoices sends text with a one-time reply keyboard of options.
	SendChoices(ctx context.Context, chatID int64, text string, choices []string) (MessageRef, error)
	// SendAnnouncement posts the public preview: poster (may be empty),
	// caption, and one actionable button. The transport decides how to
	// render a missing poster.
	SendAnnouncement(ctx context.Context, chatID int64, posterRef string, caption string, button Button) (MessageRef, error)
	SendDocument(ctx context.Context, chatID int64, name string, payload io.Reader) (MessageRef, error)
	SendSticker(ctx context.Context, chatID int64, stickerRef string) (MessageRef, error)
	EditMessageText(ctx context.Context, ref MessageRef, text string) error
	DeleteMessage(ctx context.Context, ref MessageRef) error
	// AnswerCallback acknowledges a button press so the client stops its
	// spinner; it carries no user-visible content.
	AnswerCallback(ctx context.Context, callbackID string) error
}

// MembershipChecker answers whether a user belongs to the public channel.
//
// A (false, err) result distinguishes not-member-by-query-failure from an
// explicit non-member role; both deny delivery.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
}
