package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Persian

	message.SetString(lang, KeyWelcome, "سلام! با کلیک روی دکمه‌ها می‌تونی فایل فیلم رو دریافت کنی.")
	message.SetString(lang, KeyMustJoin, "ابتدا عضو گروه عمومی شوید.")
	message.SetString(lang, KeyFileNotFound, "❌ فایل پیدا نشد.")
	message.SetString(lang, KeyNotOperator, "⛔ این دستور فقط برای مدیران است.")
	message.SetString(lang, KeyCountdown, "⌛ این فایل تا %d دقیقه دیگر حذف می‌شود.")
	message.SetString(lang, KeyNoDescription, "توضیحی وارد نشده")
	message.SetString(lang, KeyGetFileButton, "🎬 دریافت فایل کامل")
	message.SetString(lang, KeyLanguagePrompt, "زبان خود را انتخاب کنید / Choose your language:")
	message.SetString(lang, KeyLanguageSet, "✅ زبان به فارسی تنظیم شد.")
	message.SetString(lang, KeyBroadcastUsage, "❗ استفاده: /broadcast پیام شما")
	message.SetString(lang, KeyBroadcastReport, "📤 ارسال موفق: %d - ناموفق: %d")
	message.SetString(lang, KeyDeleteUsage, "❗ استفاده: /delete_item <item_id>")
	message.SetString(lang, KeyItemDeleted, "✅ فیلم %s حذف شد.")
}
