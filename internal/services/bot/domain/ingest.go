package domain

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/filmgate/filmgate/internal/services/bot/render"
	"github.com/filmgate/filmgate/internal/services/bot/storage"
)

// IngestInput describes one new-item event from the staging channel.
type IngestInput struct {
	// MessageID is the staging message identifier; the catalog id derives
	// from it, so concurrent ingestions of distinct events never collide.
	MessageID int
	// PosterRef is the preview image handle, empty when absent.
	PosterRef string
	// Caption is the free-text description, empty when absent.
	Caption string
}

// IngestItem catalogs one staging upload and announces it publicly.
//
// The catalog write is the source of truth: announcement failure is logged
// and absorbed, never rolled back.
func (s *Service) IngestItem(ctx context.Context, input IngestInput) (string, error) {
	if input.MessageID == 0 {
		return "", fmt.Errorf("staging message id is required")
	}

	id := strconv.Itoa(input.MessageID)
	description := strings.TrimSpace(input.Caption)
	if description == "" {
		description = s.localize(render.DefaultLanguage).Sprintf(render.KeyNoDescription)
	}

	now := s.nowUTC()
	record := storage.ItemRecord{
		ID:           id,
		PosterRef:    strings.TrimSpace(input.PosterRef),
		Description:  description,
		PayloadPath:  s.payloadPath(id),
		CompanionRef: s.companionRef,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.catalog.PutItem(ctx, record); err != nil {
		return "", fmt.Errorf("catalog item %s: %w", id, err)
	}

	button := Button{
		Label: s.localize(render.DefaultLanguage).Sprintf(render.KeyGetFileButton),
		Data:  id,
	}
	if _, err := s.msgr.SendAnnouncement(ctx, s.publicChatID, record.PosterRef, record.Description, button); err != nil {
		log.Printf("announce item %s: %v", id, err)
	}
	return id, nil
}

func (s *Service) payloadPath(id string) string {
	return filepath.Join(s.contentDir, id+".mp4")
}
