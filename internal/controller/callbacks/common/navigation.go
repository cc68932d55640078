package common

import (
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot/models"
)

// Callback data главного меню
const (
	MenuBook       = "book_start"
	MenuMyBookings = "my_bookings"
	MenuAdmin      = "adm"
)

// MainMenuScreen главное меню. Администратор видит вход в панель.
func MainMenuScreen(isAdmin bool) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📝 Записаться", MenuBook)).
		Row(keyboard.Button("📋 Мои записи", MenuMyBookings))
	if isAdmin {
		kb.Row(keyboard.Button("🛠 Админ-панель", MenuAdmin))
	}

	text := "📋 <b>Главное меню</b>\n\n" +
		"📝 Записаться: выбрать услугу, дату и время\n" +
		"📋 Мои записи: предстоящие визиты\n" +
		"❓ /help: справка"

	return text, kb.Build()
}

// HandleBackToMain возвращает пользователя к главному меню.
// Незавершённый мастер записи отбрасывается, если запись не отправляется прямо сейчас.
func HandleBackToMain(hc *HandlerContext) {
	hc.ResetDialog()
	hc.DropWizard()
	isAdmin := hc.Handler.IsAdmin != nil && hc.Handler.IsAdmin(hc.TelegramID)
	text, kb := MainMenuScreen(isAdmin)
	Render(hc, text, kb, "")
}
