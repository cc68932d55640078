package keyboard

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(row []models.InlineKeyboardButton) []string {
	out := make([]string, 0, len(row))
	for _, b := range row {
		out = append(out, b.Text)
	}
	return out
}

func TestBuilder_Grid(t *testing.T) {
	buttons := []models.InlineKeyboardButton{
		Button("1", "a"), Button("2", "b"), Button("3", "c"), Button("4", "d"), Button("5", "e"),
	}

	kb := NewBuilder().Grid(buttons, 2).AddBackButton("back").Build()
	require.Len(t, kb.InlineKeyboard, 4)
	assert.Equal(t, []string{"1", "2"}, labels(kb.InlineKeyboard[0]))
	assert.Equal(t, []string{"5"}, labels(kb.InlineKeyboard[2]))
	assert.Equal(t, "back", kb.InlineKeyboard[3][0].CallbackData)
}

func TestBuilder_SkipsEmptyRows(t *testing.T) {
	kb := NewBuilder().Row().AddRows([][]models.InlineKeyboardButton{nil, {Button("x", "y")}}).Build()
	assert.Len(t, kb.InlineKeyboard, 1)
}

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons("p:", 0, 1))

	first := PaginationButtons("p:", 0, 3)
	assert.Equal(t, []string{"📄 1/3", "➡️"}, labels(first))
	assert.Equal(t, NoopData, first[0].CallbackData)
	assert.Equal(t, "p:1", first[1].CallbackData)

	middle := PaginationButtons("p:", 1, 3)
	assert.Equal(t, "p:0", middle[0].CallbackData)
	assert.Equal(t, "p:2", middle[2].CallbackData)
}

func TestWeekPagination(t *testing.T) {
	assert.Equal(t, []string{"Позже ▶️"}, labels(WeekPagination("w:", 0, 10, false)))
	assert.Equal(t, []string{"◀️ Раньше"}, labels(WeekPagination("w:", 10, 10, false)))

	both := WeekPagination("w:", 0, -1, true)
	require.Len(t, both, 2)
	assert.Equal(t, "w:-1", both[0].CallbackData)
	assert.Equal(t, "w:1", both[1].CallbackData)
}
