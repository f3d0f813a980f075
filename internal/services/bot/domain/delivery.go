package domain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/filmgate/filmgate/internal/services/bot/render"
	"github.com/filmgate/filmgate/internal/services/bot/storage"
)

// ItemRequest is one button activation asking for an item's full file.
type ItemRequest struct {
	CallbackID string
	UserID     int64
	// Origin is the announcement message carrying the pressed button; denial
	// outcomes rewrite its text.
	Origin MessageRef
	ItemID string
}

// DeliverItem runs one delivery attempt end to end: acknowledge, gate on
// membership, resolve the catalog, transmit, and schedule revocation.
//
// Repeat activations are independent attempts; there is no dedupe or
// single-flight guarantee, and a prior grant still inside its revocation
// window does not block a new one.
func (s *Service) DeliverItem(ctx context.Context, req ItemRequest) error {
	// Ack first so the client UI unblocks before any slow work.
	_ = s.msgr.AnswerCallback(ctx, req.CallbackID)

	loc := s.localizerFor(ctx, req.UserID)

	member, err := s.membership.IsMember(ctx, req.UserID)
	if err != nil || !member {
		_ = s.msgr.EditMessageText(ctx, req.Origin, loc.Sprintf(render.KeyMustJoin))
		if err != nil {
			return fmt.Errorf("membership check for user %d: %w", req.UserID, err)
		}
		return ErrNotMember
	}

	item, err := s.catalog.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = s.msgr.EditMessageText(ctx, req.Origin, loc.Sprintf(render.KeyFileNotFound))
			return fmt.Errorf("resolve item %s: %w", req.ItemID, ErrItemNotFound)
		}
		return fmt.Errorf("resolve item %s: %w", req.ItemID, err)
	}

	if err := s.deliver(ctx, req.UserID, loc, item); err != nil {
		// Delivery failures share the not-found copy at the user-visible
		// layer; the returned error keeps the causes distinct.
		_ = s.msgr.EditMessageText(ctx, req.Origin, loc.Sprintf(render.KeyFileNotFound))
		return fmt.Errorf("deliver item %s to user %d: %w: %v", req.ItemID, req.UserID, ErrDeliveryFailed, err)
	}
	return nil
}

func (s *Service) deliver(ctx context.Context, userID int64, loc render.Localizer, item storage.ItemRecord) error {
	payload, err := s.openPayload(item.PayloadPath)
	if err != nil {
		return fmt.Errorf("open payload: %w", err)
	}
	defer payload.Close()

	sent, err := s.msgr.SendDocument(ctx, userID, filepath.Base(item.PayloadPath), payload)
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	if _, err := s.msgr.SendSticker(ctx, userID, item.CompanionRef); err != nil {
		return fmt.Errorf("send companion asset: %w", err)
	}
	if _, err := s.msgr.SendText(ctx, userID, loc.Sprintf(render.KeyCountdown, s.revokeMinutes())); err != nil {
		return fmt.Errorf("send countdown notice: %w", err)
	}

	s.scheduleRevocation(DeliverySession{
		UserID:   userID,
		Message:  sent,
		RevokeAt: s.nowUTC().Add(s.revokeAfter),
	})
	return nil
}

// scheduleRevocation arms one independent timer per grant. The wait never
// blocks other request processing, and revocation failures are absorbed.
func (s *Service) scheduleRevocation(session DeliverySession) {
	s.schedule(s.revokeAfter, func() {
		ctx, cancel := context.WithTimeout(context.Background(), revokeCallTimeout)
		defer cancel()
		_ = s.msgr.DeleteMessage(ctx, session.Message)
	})
}

func (s *Service) revokeMinutes() int {
	minutes := int(s.revokeAfter.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
