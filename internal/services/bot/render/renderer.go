// Package render resolves localized user-facing copy for the bot.
package render

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported language codes. Persian is the default for users who never
// picked a language, matching the audience the bot was built for.
const (
	LanguagePersian = "fa"
	LanguageEnglish = "en"

	DefaultLanguage = LanguagePersian
)

// Message keys shared by every locale catalog.
const (
	KeyWelcome         = "bot.welcome"
	KeyMustJoin        = "bot.must_join"
	KeyFileNotFound    = "bot.file_not_found"
	KeyNotOperator     = "bot.not_operator"
	KeyCountdown       = "bot.countdown"
	KeyNoDescription   = "bot.no_description"
	KeyGetFileButton   = "bot.get_file_button"
	KeyLanguagePrompt  = "bot.language_prompt"
	KeyLanguageSet     = "bot.language_set"
	KeyBroadcastUsage  = "bot.broadcast_usage"
	KeyBroadcastReport = "bot.broadcast_report"
	KeyDeleteUsage     = "bot.delete_usage"
	KeyItemDeleted     = "bot.item_deleted"
)

// Localizer is the minimal message-printer contract required by callers.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Normalize maps a stored language code to a supported one, falling back
// to the default language for anything unknown.
func Normalize(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case LanguageEnglish:
		return LanguageEnglish
	case LanguagePersian:
		return LanguagePersian
	default:
		return DefaultLanguage
	}
}

// ForLanguage returns a Localizer for the given language code.
func ForLanguage(lang string) Localizer {
	switch Normalize(lang) {
	case LanguageEnglish:
		return message.NewPrinter(language.English)
	default:
		return message.NewPrinter(language.Persian)
	}
}
