// Package telegram adapts the Telegram Bot API to the domain capability
// interfaces and translates inbound updates into dispatcher events.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/filmgate/filmgate/internal/services/bot/app"
	"github.com/filmgate/filmgate/internal/services/bot/domain"
)

// Client wraps a Telegram bot connection. It implements domain.Messenger
// and domain.MembershipChecker against the public chat it was built with.
type Client struct {
	api          *tgbotapi.BotAPI
	publicChatID int64
}

// New authenticates against the Telegram Bot API.
func New(token string, publicChatID int64) (*Client, error) {
	if token == "" {
		return nil, errors.New("bot token is required")
	}
	if publicChatID == 0 {
		return nil, errors.New("public chat id is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authenticate bot: %w", err)
	}
	return &Client{api: api, publicChatID: publicChatID}, nil
}

// Events long-polls Telegram for updates and emits one normalized event per
// update until ctx is cancelled. The returned channel closes when polling
// stops.
func (c *Client) Events(ctx context.Context) <-chan app.Event {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := c.api.GetUpdatesChan(cfg)

	out := make(chan app.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				c.api.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				event, ok := translate(update)
				if !ok {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					c.api.StopReceivingUpdates()
					return
				}
			}
		}
	}()
	return out
}

// translate maps a raw Telegram update onto a dispatcher event. Updates
// that carry neither a message nor a callback are dropped.
func translate(update tgbotapi.Update) (app.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		event := app.Event{
			Kind:         app.EventCallback,
			UserID:       cb.From.ID,
			CallbackID:   cb.ID,
			CallbackData: cb.Data,
		}
		if cb.Message != nil {
			event.ChatID = cb.Message.Chat.ID
			event.MessageID = cb.Message.MessageID
		}
		return event, true
	case update.Message != nil:
		msg := update.Message
		event := app.Event{
			Kind:      app.EventMessage,
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Caption:   msg.Caption,
			Text:      msg.Text,
		}
		if msg.From != nil {
			event.UserID = msg.From.ID
		}
		if msg.IsCommand() {
			event.Command = msg.Command()
			event.Args = msg.CommandArguments()
			event.Text = ""
		}
		switch {
		case len(msg.Photo) > 0:
			event.HasMedia = true
			// Sizes arrive smallest first; reuse the largest as poster.
			event.PosterRef = msg.Photo[len(msg.Photo)-1].FileID
		case isVideoDocument(msg.Document):
			// Full movie files arrive as documents, not native videos.
			event.HasMedia = true
			if msg.Document.Thumbnail != nil {
				event.PosterRef = msg.Document.Thumbnail.FileID
			}
		case msg.Video != nil:
			event.HasMedia = true
			if msg.Video.Thumbnail != nil {
				event.PosterRef = msg.Video.Thumbnail.FileID
			}
		}
		return event, true
	}
	return app.Event{}, false
}

func isVideoDocument(doc *tgbotapi.Document) bool {
	return doc != nil && strings.HasPrefix(doc.MimeType, "video/")
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) (domain.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.MessageRef{}, err
	}
	sent, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("send text to chat %d: %w", chatID, err)
	}
	return refOf(sent), nil
}

func (c *Client) SendChoices(ctx context.Context, chatID int64, text string, choices []string) (domain.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.MessageRef{}, err
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(choices))
	for _, choice := range choices {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(choice)))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	sent, err := c.api.Send(msg)
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("send choices to chat %d: %w", chatID, err)
	}
	return refOf(sent), nil
}

func (c *Client) SendAnnouncement(ctx context.Context, chatID int64, posterRef string, caption string, button domain.Button) (domain.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.MessageRef{}, err
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Data),
		),
	)

	// Without a poster the announcement degrades to a captioned text post.
	if posterRef == "" {
		msg := tgbotapi.NewMessage(chatID, caption)
		msg.ReplyMarkup = keyboard
		sent, err := c.api.Send(msg)
		if err != nil {
			return domain.MessageRef{}, fmt.Errorf("announce to chat %d: %w", chatID, err)
		}
		return refOf(sent), nil
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(posterRef))
	photo.Caption = caption
	photo.ReplyMarkup = keyboard
	sent, err := c.api.Send(photo)
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("announce to chat %d: %w", chatID, err)
	}
	return refOf(sent), nil
}

func (c *Client) SendDocument(ctx context.Context, chatID int64, name string, payload io.Reader) (domain.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.MessageRef{}, err
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{Name: name, Reader: payload})
	sent, err := c.api.Send(doc)
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("send document %q to chat %d: %w", name, chatID, err)
	}
	return refOf(sent), nil
}

func (c *Client) SendSticker(ctx context.Context, chatID int64, stickerRef string) (domain.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return domain.MessageRef{}, err
	}
	sent, err := c.api.Send(tgbotapi.NewSticker(chatID, tgbotapi.FileID(stickerRef)))
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("send sticker to chat %d: %w", chatID, err)
	}
	return refOf(sent), nil
}

func (c *Client) EditMessageText(ctx context.Context, ref domain.MessageRef, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Send(tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)); err != nil {
		return fmt.Errorf("edit message %d in chat %d: %w", ref.MessageID, ref.ChatID, err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, ref domain.MessageRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
		return fmt.Errorf("delete message %d in chat %d: %w", ref.MessageID, ref.ChatID, err)
	}
	return nil
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback %s: %w", callbackID, err)
	}
	return nil
}

// IsMember reports whether the user holds a present role in the public chat.
// Users who left, were kicked, or are restricted do not count.
func (c *Client) IsMember(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: c.publicChatID,
			UserID: userID,
		},
	})
	if err != nil {
		return false, fmt.Errorf("query membership of user %d: %w", userID, err)
	}
	return isPresentStatus(member.Status), nil
}

func isPresentStatus(status string) bool {
	switch status {
	case "creator", "administrator", "member":
		return true
	}
	return false
}

func refOf(msg tgbotapi.Message) domain.MessageRef {
	return domain.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.MessageID}
}
