package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/filmgate/filmgate/internal/services/bot/storage"
)

func TestHandleStartRegistersAndWelcomes(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	users := newFakeUsers()
	svc := newTestService(t, msgr, newFakeCatalog(), users, &fakeMembership{member: true})

	if err := svc.HandleStart(context.Background(), 42, 42); err != nil {
		t.Fatalf("handle start: %v", err)
	}
	if err := svc.HandleStart(context.Background(), 42, 42); err != nil {
		t.Fatalf("repeat start: %v", err)
	}

	if len(users.registered) != 1 || users.registered[0] != 42 {
		t.Fatalf("expected single idempotent registration, got %v", users.registered)
	}
	if texts := msgr.textsTo(42); len(texts) != 2 {
		t.Fatalf("expected a welcome per start, got %v", texts)
	}
}

func TestHandleStartUsesStoredLanguage(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	users := newFakeUsers()
	users.languages[42] = "en"
	svc := newTestService(t, msgr, newFakeCatalog(), users, &fakeMembership{member: true})

	if err := svc.HandleStart(context.Background(), 42, 42); err != nil {
		t.Fatalf("handle start: %v", err)
	}
	texts := msgr.textsTo(42)
	if len(texts) != 1 || !strings.Contains(texts[0], "Hi!") {
		t.Fatalf("expected English welcome, got %v", texts)
	}
}

func TestHandleLanguageTextSetsLocale(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		text     string
		wantLang string
		handled  bool
	}{
		{"persian option", languageOptionPersian, "fa", true},
		{"english option", languageOptionEnglish, "en", true},
		{"bare english word", "English please", "en", true},
		{"unrelated text", "hello there", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			msgr := newFakeMessenger()
			users := newFakeUsers()
			svc := newTestService(t, msgr, newFakeCatalog(), users, &fakeMembership{member: true})

			handled, err := svc.HandleLanguageText(context.Background(), 42, 42, tc.text)
			if err != nil {
				t.Fatalf("handle language text: %v", err)
			}
			if handled != tc.handled {
				t.Fatalf("handled = %v, want %v", handled, tc.handled)
			}
			if tc.handled {
				if users.languages[42] != tc.wantLang {
					t.Fatalf("stored language = %q, want %q", users.languages[42], tc.wantLang)
				}
				if texts := msgr.textsTo(42); len(texts) != 1 {
					t.Fatalf("expected one confirmation, got %v", texts)
				}
			} else if len(users.languages) != 0 {
				t.Fatalf("unhandled text must not mutate locale, got %v", users.languages)
			}
		})
	}
}

func TestHandleLanguagePromptSendsPicker(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	svc := newTestService(t, msgr, newFakeCatalog(), newFakeUsers(), &fakeMembership{member: true})

	if err := svc.HandleLanguagePrompt(context.Background(), 42, 42); err != nil {
		t.Fatalf("handle language prompt: %v", err)
	}
	if texts := msgr.textsTo(42); len(texts) != 1 {
		t.Fatalf("expected one picker message, got %v", texts)
	}
}

func TestBroadcastCountsFailuresWithoutAborting(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	users := newFakeUsers()
	users.languages[testOperatorID] = "en"
	svc := newTestService(t, msgr, newFakeCatalog(), users, &fakeMembership{member: true})

	for _, uid := range []int64{1, 2, 3, 4} {
		if err := users.RegisterUser(context.Background(), uid, svc.nowUTC()); err != nil {
			t.Fatalf("register recipient: %v", err)
		}
	}
	msgr.textErrFor[2] = errTransportDown
	msgr.textErrFor[3] = errTransportDown

	operatorChat := int64(500)
	if err := svc.Broadcast(context.Background(), testOperatorID, operatorChat, "hello"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	// Recipients after the failing ones still receive the message.
	if texts := msgr.textsTo(4); len(texts) != 1 || texts[0] != "hello" {
		t.Fatalf("expected recipient 4 to receive broadcast, got %v", texts)
	}
	report := msgr.textsTo(operatorChat)
	if len(report) != 1 {
		t.Fatalf("expected one report to operator, got %v", report)
	}
	if report[0] != "📤 Sent: 2 - Failed: 2" {
		t.Fatalf("expected sent/failed counts of 2 in report, got %q", report[0])
	}
}

func TestBroadcastAllSucceeding(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	users := newFakeUsers()
	users.languages[testOperatorID] = "en"
	svc := newTestService(t, msgr, newFakeCatalog(), users, &fakeMembership{member: true})

	for _, uid := range []int64{1, 2, 3} {
		if err := users.RegisterUser(context.Background(), uid, svc.nowUTC()); err != nil {
			t.Fatalf("register recipient: %v", err)
		}
	}

	operatorChat := int64(500)
	if err := svc.Broadcast(context.Background(), testOperatorID, operatorChat, "update"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	report := msgr.textsTo(operatorChat)
	if len(report) != 1 || report[0] != "📤 Sent: 3 - Failed: 0" {
		t.Fatalf("unexpected report: %v", report)
	}
}

func TestBroadcastRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	users := newFakeUsers()
	svc := newTestService(t, msgr, newFakeCatalog(), users, &fakeMembership{member: true})
	if err := users.RegisterUser(context.Background(), 1, svc.nowUTC()); err != nil {
		t.Fatalf("register recipient: %v", err)
	}

	operatorChat := int64(500)
	if err := svc.Broadcast(context.Background(), testOperatorID, operatorChat, "   "); err != nil {
		t.Fatalf("broadcast usage path: %v", err)
	}

	if texts := msgr.textsTo(1); len(texts) != 0 {
		t.Fatalf("usage error must not consume a broadcast attempt, got %v", texts)
	}
	if report := msgr.textsTo(operatorChat); len(report) != 1 {
		t.Fatalf("expected usage message to operator, got %v", report)
	}
}

func TestPrivilegedCommandsDenyNonOperators(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	catalog := newFakeCatalog()
	users := newFakeUsers()
	svc := newTestService(t, msgr, catalog, users, &fakeMembership{member: true})

	itemID := ingestTestItem(t, svc, 501, "Movie A")
	if err := users.RegisterUser(context.Background(), 1, svc.nowUTC()); err != nil {
		t.Fatalf("register recipient: %v", err)
	}

	if err := svc.Broadcast(context.Background(), 42, 42, "spam"); !errors.Is(err, ErrNotOperator) {
		t.Fatalf("expected ErrNotOperator from broadcast, got %v", err)
	}
	if err := svc.DeleteItem(context.Background(), 42, 42, itemID); !errors.Is(err, ErrNotOperator) {
		t.Fatalf("expected ErrNotOperator from delete, got %v", err)
	}

	// No state mutated, no broadcast sent; only the refusal messages exist.
	if _, err := catalog.GetItem(context.Background(), itemID); err != nil {
		t.Fatalf("catalog record must survive unauthorized delete: %v", err)
	}
	if texts := msgr.textsTo(1); len(texts) != 0 {
		t.Fatalf("unauthorized broadcast must send nothing, got %v", texts)
	}
	refusals := msgr.textsTo(42)
	if len(refusals) != 2 {
		t.Fatalf("expected two refusal messages, got %v", refusals)
	}
	for _, text := range refusals {
		if !strings.Contains(text, "⛔") {
			t.Fatalf("unexpected refusal copy: %q", text)
		}
	}
}

func TestDeleteItemRemovesRecordAndPayload(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	catalog := newFakeCatalog()
	svc := newTestService(t, msgr, catalog, newFakeUsers(), &fakeMembership{member: true})
	itemID := ingestTestItem(t, svc, 501, "Movie A")

	var removedPath string
	svc.removePayload = func(path string) error {
		removedPath = path
		return nil
	}

	if err := svc.DeleteItem(context.Background(), testOperatorID, testOperatorID, itemID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	if _, err := catalog.GetItem(context.Background(), itemID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected catalog miss after delete, got %v", err)
	}
	if !strings.HasSuffix(removedPath, "501.mp4") {
		t.Fatalf("expected payload removal attempt, got %q", removedPath)
	}
	if texts := msgr.textsTo(testOperatorID); len(texts) != 1 {
		t.Fatalf("expected one delete confirmation, got %v", texts)
	}
}

func TestDeleteItemSurvivesPayloadRemovalFailure(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	catalog := newFakeCatalog()
	svc := newTestService(t, msgr, catalog, newFakeUsers(), &fakeMembership{member: true})
	itemID := ingestTestItem(t, svc, 501, "Movie A")

	svc.removePayload = func(string) error { return errTransportDown }

	if err := svc.DeleteItem(context.Background(), testOperatorID, testOperatorID, itemID); err != nil {
		t.Fatalf("delete must succeed despite payload removal failure: %v", err)
	}
	if _, ok := catalog.items[itemID]; ok {
		t.Fatal("expected catalog record removed")
	}
}

func TestDeleteItemWithoutArgumentReportsUsage(t *testing.T) {
	t.Parallel()

	msgr := newFakeMessenger()
	catalog := newFakeCatalog()
	svc := newTestService(t, msgr, catalog, newFakeUsers(), &fakeMembership{member: true})
	itemID := ingestTestItem(t, svc, 501, "Movie A")

	if err := svc.DeleteItem(context.Background(), testOperatorID, testOperatorID, ""); err != nil {
		t.Fatalf("usage path: %v", err)
	}
	if _, err := catalog.GetItem(context.Background(), itemID); err != nil {
		t.Fatalf("usage error must not delete anything: %v", err)
	}
	if texts := msgr.textsTo(testOperatorID); len(texts) != 1 {
		t.Fatalf("expected usage message, got %v", texts)
	}
}
