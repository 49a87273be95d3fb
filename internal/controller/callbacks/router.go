package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/student"
	"github.com/Freeeeeet/kreno_bot/internal/metrics"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// CallbackFunc обработчик одного вида callback
type CallbackFunc func(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler)

type route struct {
	name   string
	data   string
	prefix bool
	handle CallbackFunc
}

// routes порядок важен: точные совпадения раньше префиксов с общим началом
var routes = []route{
	// ===== Common Navigation =====
	{"back_to_main", keyboard.CallbackBackToMain, false, common.HandleBackToMain},
	{"noop", keyboard.CallbackNoop, false, handleNoop},

	// ===== Dashboard =====
	{"dashboard_refresh", common.CallbackDashboardRefresh, false, student.HandleDashboardRefresh},
	{"lessons", common.CallbackLessonsPage, true, student.HandleLessonsPage},
	{"services", common.CallbackServices, false, student.HandleServices},

	// ===== Calendar =====
	{"calendar_day", common.CallbackCalendarDay, true, student.HandleCalendarDay},
	{"calendar_slot", common.CallbackCalendarSlot, true, student.HandleCalendarSlot},
	{"calendar_lesson", common.CallbackCalendarLesson, true, student.HandleCalendarLesson},
	{"calendar_week", common.CallbackCalendarWeek, true, student.HandleCalendarWeek},
	{"calendar_image", common.CallbackCalendarImage, true, student.HandleCalendarImage},
	{"calendar_refresh", common.CallbackCalendarRefresh, true, student.HandleCalendarRefresh},

	// ===== Evaluations =====
	{"evaluations", common.CallbackEvaluations, false, student.HandleEvaluations},
	{"evaluation_open", common.CallbackEvaluationOpen, true, student.HandleEvaluationOpen},
	{"evaluation_edit", common.CallbackEvaluationEdit, true, student.HandleEvaluationEdit},
	{"evaluation_rate", common.CallbackEvaluationRate, true, student.HandleEvaluationRate},
	{"evaluation_overall", common.CallbackEvaluationOverall, true, student.HandleEvaluationOverall},
	{"evaluation_submit", common.CallbackEvaluationSubmit, false, student.HandleEvaluationSubmit},
	{"evaluation_cancel", common.CallbackEvaluationCancel, false, student.HandleEvaluationCancel},

	// ===== Theory =====
	{"theory", common.CallbackTheory, false, student.HandleTheory},
	{"theory_category", common.CallbackTheoryCategory, true, student.HandleTheoryCategory},
	{"theory_answer", common.CallbackTheoryAnswer, true, student.HandleTheoryAnswer},
	{"theory_skip", common.CallbackTheorySkip, true, student.HandleTheorySkip},
	{"theory_abort", common.CallbackTheoryAbort, false, student.HandleTheoryAbort},
}

func (r route) match(data string) bool {
	if r.prefix {
		return strings.HasPrefix(data, r.data)
	}
	return data == r.data
}

// Match находит обработчик для callback data
func Match(data string) (name string, handle CallbackFunc, ok bool) {
	for _, r := range routes {
		if r.match(data) {
			return r.name, r.handle, true
		}
	}
	return "", nil, false
}

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	name, handle, ok := Match(callback.Data)
	if !ok {
		h.Logger.Warn("Unknown callback",
			zap.String("data", callback.Data),
			zap.Int64("telegram_id", callback.From.ID))
		metrics.RecordUpdate("callback_unknown", nil)
		common.AnswerCallback(ctx, b, callback.ID, "⌛ This button is no longer supported")
		return
	}

	metrics.RecordUpdate("callback_"+name, nil)
	handle(ctx, b, callback, h)
}

// handleNoop просто подтверждает callback
func handleNoop(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.AnswerCallback(ctx, b, callback.ID, "")
}
