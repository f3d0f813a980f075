// Package app routes inbound chat-platform events to the domain service.
package app

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/filmgate/filmgate/internal/services/bot/domain"
)

// EventKind discriminates inbound platform events.
type EventKind int

const (
	// EventMessage is a chat message, command or free text.
	EventMessage EventKind = iota
	// EventCallback is a button activation.
	EventCallback
)

// Event is one normalized inbound platform event.
type Event struct {
	Kind      EventKind
	ChatID    int64
	UserID    int64
	MessageID int

	// Command is the bare command name when the message is a command.
	Command string
	// Args is the remainder of a command message.
	Args string
	// Text is the full message text for non-command messages.
	Text string

	// PosterRef and HasMedia describe an image or video-class attachment.
	PosterRef string
	HasMedia  bool
	Caption   string

	CallbackID   string
	CallbackData string
}

// Handlers is the domain surface the dispatcher drives.
type Handlers interface {
	HandleStart(ctx context.Context, userID int64, chatID int64) error
	HandleLanguagePrompt(ctx context.Context, userID int64, chatID int64) error
	HandleLanguageText(ctx context.Context, userID int64, chatID int64, text string) (bool, error)
	Broadcast(ctx context.Context, operatorID int64, chatID int64, text string) error
	DeleteItem(ctx context.Context, operatorID int64, chatID int64, itemID string) error
	IngestItem(ctx context.Context, input domain.IngestInput) (string, error)
	DeliverItem(ctx context.Context, req domain.ItemRequest) error
}

// Dispatcher consumes platform events and fans each out to its handler.
//
// Handlers run in their own goroutines so one slow handler (a membership
// query, a file transmission, a pending revocation) never blocks dispatch
// of the next event.
type Dispatcher struct {
	handlers      Handlers
	stagingChatID int64
}

// NewDispatcher constructs the event dispatcher.
func NewDispatcher(handlers Handlers, stagingChatID int64) (*Dispatcher, error) {
	if handlers == nil {
		return nil, errors.New("handlers are required")
	}
	if stagingChatID == 0 {
		return nil, errors.New("staging chat id is required")
	}
	return &Dispatcher{handlers: handlers, stagingChatID: stagingChatID}, nil
}

// Run consumes events until the channel closes or ctx is cancelled, then
// waits for in-flight handlers to finish.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				d.dispatch(ctx, event)
			}()
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, event Event) {
	var err error
	switch event.Kind {
	case EventCallback:
		err = d.handlers.DeliverItem(ctx, domain.ItemRequest{
			CallbackID: event.CallbackID,
			UserID:     event.UserID,
			Origin:     domain.MessageRef{ChatID: event.ChatID, MessageID: event.MessageID},
			ItemID:     event.CallbackData,
		})
	case EventMessage:
		err = d.dispatchMessage(ctx, event)
	}

	if err != nil && !isExpectedOutcome(err) {
		log.Printf("handle event in chat %d: %v", event.ChatID, err)
	}
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, event Event) error {
	// Only the configured staging chat feeds the catalog, and only with
	// media-bearing messages.
	if event.ChatID == d.stagingChatID {
		if !event.HasMedia {
			return nil
		}
		_, err := d.handlers.IngestItem(ctx, domain.IngestInput{
			MessageID: event.MessageID,
			PosterRef: event.PosterRef,
			Caption:   event.Caption,
		})
		return err
	}

	switch event.Command {
	case "start":
		return d.handlers.HandleStart(ctx, event.UserID, event.ChatID)
	case "language":
		return d.handlers.HandleLanguagePrompt(ctx, event.UserID, event.ChatID)
	case "broadcast":
		return d.handlers.Broadcast(ctx, event.UserID, event.ChatID, event.Args)
	case "delete_item":
		return d.handlers.DeleteItem(ctx, event.UserID, event.ChatID, event.Args)
	case "":
		_, err := d.handlers.HandleLanguageText(ctx, event.UserID, event.ChatID, event.Text)
		return err
	default:
		// Unknown commands are ignored.
		return nil
	}
}

// isExpectedOutcome filters steady-state denials out of the error log.
func isExpectedOutcome(err error) bool {
	return errors.Is(err, domain.ErrNotMember) ||
		errors.Is(err, domain.ErrItemNotFound) ||
		errors.Is(err, domain.ErrNotOperator) ||
		errors.Is(err, domain.ErrDeliveryFailed)
}
