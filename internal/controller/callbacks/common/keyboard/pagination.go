package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "adm_appts_page:")
// currentPage - текущая страница (0-based)
// totalPages - всего страниц
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Noop(fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages)))

	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	return b.Row(PaginationButtons(prefix, currentPage, totalPages)...)
}

// WeekPagination создаёт пагинацию по неделям в пределах [0, maxOffset].
// maxOffset < 0 снимает верхнюю границу, нижней границы нет при allowPast.
func WeekPagination(prefix string, weekOffset, maxOffset int, allowPast bool) []models.InlineKeyboardButton {
	var buttons []models.InlineKeyboardButton
	if weekOffset > 0 || allowPast {
		buttons = append(buttons, Button("◀️ Раньше", fmt.Sprintf("%s%d", prefix, weekOffset-1)))
	}
	if maxOffset < 0 || weekOffset < maxOffset {
		buttons = append(buttons, Button("Позже ▶️", fmt.Sprintf("%s%d", prefix, weekOffset+1)))
	}
	return buttons
}
