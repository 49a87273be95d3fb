package formatting

import (
	"strings"

	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/model"
)

// StatusDisplay отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetCellStatusDisplay emoji и текст для ячейки сетки дня
func GetCellStatusDisplay(status calendar.CellStatus) StatusDisplay {
	displays := map[calendar.CellStatus]StatusDisplay{
		calendar.CellBooked:    {"🚗", "Lesson"},
		calendar.CellAvailable: {"✅", "Available"},
		calendar.CellPast:      {"▪️", "Past"},
		calendar.CellFree:      {"⬜️", "Free"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Unknown"}
}

// PendingDisplay ячейка, ожидающая ответа сервера
var PendingDisplay = StatusDisplay{"⏳", "Saving"}

// GetServiceStatusDisplay emoji и текст для статуса услуги
func GetServiceStatusDisplay(status string) StatusDisplay {
	switch status {
	case model.ServiceStatusActive:
		return StatusDisplay{"🟢", status}
	case model.ServiceStatusPending:
		return StatusDisplay{"🟡", status}
	case "":
		return StatusDisplay{"❓", "Unknown"}
	default:
		return StatusDisplay{"⚪️", status}
	}
}

// GetRatingDisplay emoji для уровня оценки
func GetRatingDisplay(level model.RatingLevel) StatusDisplay {
	emojis := []string{"🔴", "🟠", "🟡", "🟢", "🌟"}
	rank := level.Rank()
	if rank < 1 || rank > len(emojis) {
		return StatusDisplay{"▫️", "Not rated"}
	}
	return StatusDisplay{emojis[rank-1], string(level)}
}

// Stars "★★★☆☆"
func Stars(rating, max int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > max {
		rating = max
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", max-rating)
}
