package student

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/kreno_bot/internal/apperr"
	"github.com/Freeeeeet/kreno_bot/internal/calendar"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/kreno_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// parseDay дата из callback data с префиксом
func parseDay(hc *common.HandlerContext, prefix string) (time.Time, error) {
	date, err := common.ParseArg(hc.Callback.Data, prefix)
	if err != nil {
		return time.Time{}, err
	}
	return hc.Handler.CalendarService.ParseDay(date)
}

// renderDay перерисовывает сообщение сеткой дня
func renderDay(hc *common.HandlerContext, day time.Time) error {
	view, err := hc.Handler.CalendarService.Day(hc.Ctx, hc.TelegramID, day)
	if err != nil {
		return err
	}
	text, kb := common.DayScreen(view, hc.Handler.CalendarService.Today())
	return hc.EditMessage(text, kb)
}

// HandleCalendarDay показывает сетку выбранного дня
func HandleCalendarDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		day, err := parseDay(hc, common.CallbackCalendarDay)
		if err != nil {
			common.HandleError(hc, err, "calendar_day")
			return
		}
		if err := renderDay(hc, day); err != nil {
			common.HandleError(hc, err, "calendar_day")
			return
		}
		hc.Answer("")
	})
}

// HandleCalendarRefresh принудительно перезагружает данные дня
func HandleCalendarRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		day, err := parseDay(hc, common.CallbackCalendarRefresh)
		if err != nil {
			common.HandleError(hc, err, "calendar_refresh")
			return
		}
		if err := h.CalendarService.Refresh(ctx, hc.TelegramID); err != nil {
			common.HandleError(hc, err, "calendar_refresh")
			return
		}
		if err := renderDay(hc, day); err != nil {
			common.HandleError(hc, err, "calendar_refresh")
			return
		}
		hc.Answer("🔄 Updated")
	})
}

// HandleCalendarSlot переключает доступность слота
func HandleCalendarSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.ParseArgs(callback.Data, common.CallbackCalendarSlot, 2)
		if err != nil {
			common.HandleError(hc, err, "calendar_slot")
			return
		}
		date, start := args[0], args[1]

		action, err := h.CalendarService.ToggleSlot(ctx, hc.TelegramID, date, start)
		if err != nil {
			common.HandleError(hc, err, "calendar_slot")
			// сетка могла устареть, показываем актуальную
			if day, dayErr := h.CalendarService.ParseDay(date); dayErr == nil && !apperr.IsKind(err, apperr.KindNetwork) {
				if renderErr := renderDay(hc, day); renderErr != nil {
					h.Logger.Debug("Failed to re-render day", zap.Error(renderErr))
				}
			}
			return
		}

		day, err := h.CalendarService.ParseDay(date)
		if err == nil {
			err = renderDay(hc, day)
		}
		if err != nil {
			h.Logger.Warn("Failed to render day after slot change", zap.Error(err))
		}

		switch action {
		case service.SlotAdded:
			common.LogAndAnswer(hc, "Availability slot added", fmt.Sprintf("✅ Available at %s", start))
		case service.SlotRemoved:
			common.LogAndAnswer(hc, "Availability slot removed", fmt.Sprintf("🗑 %s removed", start))
		}
	})
}

// HandleCalendarLesson детали урока во всплывающем окне
func HandleCalendarLesson(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		lessonID, err := common.ParseArg(callback.Data, common.CallbackCalendarLesson)
		if err != nil {
			common.HandleError(hc, err, "calendar_lesson")
			return
		}
		lesson, err := h.CalendarService.Lesson(ctx, hc.TelegramID, lessonID)
		if err != nil {
			common.HandleError(hc, err, "calendar_lesson")
			return
		}
		hc.AnswerAlert(common.LessonAlert(lesson, h.SessionService.Location()))
	})
}

// HandleCalendarWeek обзор недели
func HandleCalendarWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		day, err := parseDay(hc, common.CallbackCalendarWeek)
		if err != nil {
			common.HandleError(hc, err, "calendar_week")
			return
		}

		week, err := h.CalendarService.Week(ctx, hc.TelegramID, day)
		if err != nil {
			common.HandleError(hc, err, "calendar_week")
			return
		}

		text, kb := common.WeekScreen(week.Days, week.Lessons, h.CalendarService.Today())
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "calendar_week")
			return
		}
		hc.Answer("")
	})
}

// HandleCalendarImage отправляет сетку дня картинкой
func HandleCalendarImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		day, err := parseDay(hc, common.CallbackCalendarImage)
		if err != nil {
			common.HandleError(hc, err, "calendar_image")
			return
		}

		hc.Answer("🖼 Rendering…")

		data, err := h.CalendarService.DayImage(ctx, hc.TelegramID, day)
		if err != nil {
			h.Logger.Error("Failed to render day image", zap.Int64("telegram_id", hc.TelegramID), zap.Error(err))
			_ = hc.SendMessage(common.ErrorMessage(err), nil)
			return
		}

		kb := keyboard.NewBuilder().
			Row(keyboard.Button("📅 Open day", common.DayCallback(day))).
			Build()
		filename := fmt.Sprintf("day_%s.png", day.Format(calendar.DateLayout))
		if err := hc.SendPhoto(filename, data, common.DayImageCaption(day, h.CalendarService.Today()), kb); err != nil {
			h.Logger.Error("Failed to send day image", zap.Int64("telegram_id", hc.TelegramID), zap.Error(err))
		}
	})
}
