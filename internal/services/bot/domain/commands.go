package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/filmgate/filmgate/internal/services/bot/render"
)

// Reply-keyboard labels for the language picker. The flags make the two
// options recognizable regardless of the viewer's current locale.
const (
	languageOptionPersian = "🇮🇷 فارسی"
	languageOptionEnglish = "🇺🇸 English"
)

// HandleStart registers the user and sends the localized welcome.
func (s *Service) HandleStart(ctx context.Context, userID int64, chatID int64) error {
	if err := s.users.RegisterUser(ctx, userID, s.nowUTC()); err != nil {
		return fmt.Errorf("register user %d: %w", userID, err)
	}
	loc := s.localizerFor(ctx, userID)
	if _, err := s.msgr.SendText(ctx, chatID, loc.Sprintf(render.KeyWelcome)); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

// HandleLanguagePrompt presents the two-option language picker.
func (s *Service) HandleLanguagePrompt(ctx context.Context, userID int64, chatID int64) error {
	loc := s.localizerFor(ctx, userID)
	choices := []string{languageOptionPersian, languageOptionEnglish}
	if _, err := s.msgr.SendChoices(ctx, chatID, loc.Sprintf(render.KeyLanguagePrompt), choices); err != nil {
		return fmt.Errorf("send language picker: %w", err)
	}
	return nil
}

// HandleLanguageText applies a language choice typed or picked as free text.
// It reports false when the text names no supported language.
func (s *Service) HandleLanguageText(ctx context.Context, userID int64, chatID int64, text string) (bool, error) {
	var lang string
	switch {
	case strings.Contains(text, "فارسی"):
		lang = render.LanguagePersian
	case strings.Contains(text, "English"):
		lang = render.LanguageEnglish
	default:
		return false, nil
	}

	if err := s.users.SetLanguage(ctx, userID, lang); err != nil {
		return true, fmt.Errorf("set language for user %d: %w", userID, err)
	}
	// Confirm in the language just chosen, not the previous one.
	if _, err := s.msgr.SendText(ctx, chatID, s.localize(lang).Sprintf(render.KeyLanguageSet)); err != nil {
		return true, fmt.Errorf("confirm language: %w", err)
	}
	return true, nil
}

// Broadcast fans one operator message out to every registered user.
//
// Per-recipient failures are counted and never abort the iteration; the
// operator receives a sent/failed report when the sweep completes.
func (s *Service) Broadcast(ctx context.Context, operatorID int64, chatID int64, text string) error {
	if err := s.requireOperator(ctx, operatorID, chatID); err != nil {
		return err
	}
	loc := s.localizerFor(ctx, operatorID)

	if strings.TrimSpace(text) == "" {
		if _, err := s.msgr.SendText(ctx, chatID, loc.Sprintf(render.KeyBroadcastUsage)); err != nil {
			return fmt.Errorf("send broadcast usage: %w", err)
		}
		return nil
	}

	recipients, err := s.users.ListRegistered(ctx)
	if err != nil {
		return fmt.Errorf("list broadcast recipients: %w", err)
	}

	sent, failed := 0, 0
	for _, recipient := range recipients {
		if _, err := s.msgr.SendText(ctx, recipient, text); err != nil {
			failed++
			continue
		}
		sent++
	}

	if _, err := s.msgr.SendText(ctx, chatID, loc.Sprintf(render.KeyBroadcastReport, sent, failed)); err != nil {
		return fmt.Errorf("send broadcast report: %w", err)
	}
	return nil
}

// DeleteItem removes one catalog record and best-effort removes its payload
// file. Payload removal failure never fails the record deletion.
func (s *Service) DeleteItem(ctx context.Context, operatorID int64, chatID int64, itemID string) error {
	if err := s.requireOperator(ctx, operatorID, chatID); err != nil {
		return err
	}
	loc := s.localizerFor(ctx, operatorID)

	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		if _, err := s.msgr.SendText(ctx, chatID, loc.Sprintf(render.KeyDeleteUsage)); err != nil {
			return fmt.Errorf("send delete usage: %w", err)
		}
		return nil
	}

	if err := s.catalog.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	// Best effort: the record deletion stands even when the file is gone
	// or unremovable.
	_ = s.removePayload(s.payloadPath(itemID))

	if _, err := s.msgr.SendText(ctx, chatID, loc.Sprintf(render.KeyItemDeleted, itemID)); err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	return nil
}
