package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, KeyWelcome, "Hi! You can receive the movie files by clicking the buttons.")
	message.SetString(lang, KeyMustJoin, "Please join the public group first.")
	message.SetString(lang, KeyFileNotFound, "❌ File not found.")
	message.SetString(lang, KeyNotOperator, "⛔ This command is for admins only.")
	message.SetString(lang, KeyCountdown, "⌛ This file will be deleted in %d minutes.")
	message.SetString(lang, KeyNoDescription, "No description provided")
	message.SetString(lang, KeyGetFileButton, "🎬 Get the full file")
	message.SetString(lang, KeyLanguagePrompt, "زبان خود را انتخاب کنید / Choose your language:")
	message.SetString(lang, KeyLanguageSet, "✅ Language set to English.")
	message.SetString(lang, KeyBroadcastUsage, "❗ Usage: /broadcast your message")
	message.SetString(lang, KeyBroadcastReport, "📤 Sent: %d - Failed: %d")
	message.SetString(lang, KeyDeleteUsage, "❗ Usage: /delete_item <item_id>")
	message.SetString(lang, KeyItemDeleted, "✅ Item %s deleted.")
}
