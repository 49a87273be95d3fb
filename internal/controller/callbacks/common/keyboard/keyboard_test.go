package keyboard

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Grid(t *testing.T) {
	buttons := []models.InlineKeyboardButton{
		Button("a", "a"), Button("b", "b"), Button("c", "c"), Button("d", "d"), Button("e", "e"),
	}

	markup := NewBuilder().
		Row().
		Grid(buttons, 2).
		AddBackToMainButton().
		Build()

	require.Len(t, markup.InlineKeyboard, 4)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[2], 1)
	assert.Equal(t, "e", markup.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, CallbackBackToMain, markup.InlineKeyboard[3][0].CallbackData)
}

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons("p:", 0, 1))

	first := PaginationButtons("p:", 0, 3)
	require.Len(t, first, 2)
	assert.Equal(t, CallbackNoop, first[0].CallbackData)
	assert.Equal(t, "p:1", first[1].CallbackData)

	middle := PaginationButtons("p:", 1, 3)
	require.Len(t, middle, 3)
	assert.Equal(t, "p:0", middle[0].CallbackData)
	assert.Equal(t, "📄 2/3", middle[1].Text)
}

func TestPageBounds(t *testing.T) {
	start, end, page := PageBounds(1, 12, 5)
	assert.Equal(t, []int{5, 10, 1}, []int{start, end, page})

	start, end, page = PageBounds(7, 12, 5)
	assert.Equal(t, []int{10, 12, 2}, []int{start, end, page})

	start, end, page = PageBounds(0, 0, 5)
	assert.Equal(t, []int{0, 0, 0}, []int{start, end, page})
}
