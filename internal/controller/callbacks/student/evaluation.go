package student

import (
	"context"
	"strconv"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func evaluationsKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("⭐ Evaluations", common.CallbackEvaluations)).
		AddBackToMainButton().
		Build()
}

// HandleEvaluations список уроков для оценки
func HandleEvaluations(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		overview, err := h.EvaluationService.Overview(ctx, hc.TelegramID)
		if err != nil {
			common.HandleError(hc, err, "evaluations")
			return
		}

		text, kb := common.EvaluationsScreen(overview, h.EvaluationService.EditWindow())
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "render_evaluations")
			return
		}
		hc.Answer("")
	})
}

// startEvaluation открывает форму оценки урока
func startEvaluation(hc *common.HandlerContext, lessonID string, editing bool) {
	form, err := hc.Handler.EvaluationService.Form(hc.Ctx, hc.TelegramID, lessonID)
	if err != nil {
		common.HandleError(hc, err, "evaluation_form")
		return
	}

	flow := common.NewEvaluationFlow(form, editing)
	hc.ClearState()
	hc.SetState(callbacktypes.StateEvaluationRating)
	hc.SetData(common.KeyEvaluationFlow, flow)

	text, kb := common.EvaluationStepScreen(flow)
	if err := hc.EditMessage(text, kb); err != nil {
		common.HandleError(hc, err, "render_evaluation")
		return
	}
	hc.Answer("")
}

// HandleEvaluationOpen начинает оценку урока
func HandleEvaluationOpen(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		lessonID, err := common.ParseArg(callback.Data, common.CallbackEvaluationOpen)
		if err != nil {
			common.HandleError(hc, err, "evaluation_open")
			return
		}
		startEvaluation(hc, lessonID, false)
	})
}

// HandleEvaluationEdit редактирование оценки в пределах окна редактирования
func HandleEvaluationEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		lessonID, err := common.ParseArg(callback.Data, common.CallbackEvaluationEdit)
		if err != nil {
			common.HandleError(hc, err, "evaluation_edit")
			return
		}

		userID := hc.Session.Session.User.UserID
		if _, err := h.EvaluationService.CanEdit(ctx, userID, lessonID, h.SessionService.Now()); err != nil {
			common.HandleError(hc, err, "evaluation_edit")
			return
		}
		startEvaluation(hc, lessonID, true)
	})
}

// HandleEvaluationRate оценка текущей категории
func HandleEvaluationRate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.ParseArgs(callback.Data, common.CallbackEvaluationRate, 2)
		if err != nil {
			common.HandleError(hc, err, "evaluation_rate")
			return
		}
		step, errStep := strconv.Atoi(args[0])
		rank, errRank := strconv.Atoi(args[1])
		if errStep != nil || errRank != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "evaluation_rate")
			return
		}

		flow, err := common.LoadEvaluationFlow(h.StateManager, hc.TelegramID)
		if err != nil {
			common.HandleError(hc, err, "evaluation_rate")
			return
		}
		if err := flow.Rate(step, rank); err != nil {
			common.HandleError(hc, err, "evaluation_rate")
			return
		}

		text, kb := common.EvaluationStepScreen(flow)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "render_evaluation")
			return
		}
		hc.Answer("")
	})
}

// HandleEvaluationOverall общая оценка, затем запрос комментария
func HandleEvaluationOverall(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		rating, err := common.ParseIntArg(callback.Data, common.CallbackEvaluationOverall)
		if err != nil {
			common.HandleError(hc, err, "evaluation_overall")
			return
		}

		flow, err := common.LoadEvaluationFlow(h.StateManager, hc.TelegramID)
		if err != nil {
			common.HandleError(hc, err, "evaluation_overall")
			return
		}
		if !flow.RatingsDone() {
			common.HandleError(hc, common.ErrStaleButton, "evaluation_overall")
			return
		}
		if err := flow.SetOverall(rating); err != nil {
			common.HandleError(hc, err, "evaluation_overall")
			return
		}

		hc.SetState(callbacktypes.StateEvaluationComment)

		text, kb := common.EvaluationCommentScreen(flow)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "render_evaluation")
			return
		}
		hc.Answer("")
	})
}

// HandleEvaluationSubmit отправляет или обновляет оценку
func HandleEvaluationSubmit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		flow, err := common.LoadEvaluationFlow(h.StateManager, hc.TelegramID)
		if err != nil {
			common.HandleError(hc, err, "evaluation_submit")
			return
		}

		// форма остаётся в состоянии, чтобы можно было повторить отправку
		if err := h.EvaluationService.Submit(ctx, hc.TelegramID, flow.Form, flow.Draft); err != nil {
			common.HandleError(hc, err, "evaluation_submit")
			return
		}
		hc.ClearState()

		if err := hc.EditMessage(common.EvaluationDoneText(flow), evaluationsKeyboard()); err != nil {
			h.Logger.Warn("Failed to render evaluation result", zap.Error(err))
		}
		common.LogAndAnswer(hc, "Evaluation sent", "✅ Sent")
	})
}

// HandleEvaluationCancel отменяет заполнение формы
func HandleEvaluationCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	hc.ClearState()

	if err := hc.EditMessage("❌ Evaluation cancelled.", evaluationsKeyboard()); err != nil {
		h.Logger.Warn("Failed to render evaluation cancel", zap.Error(err))
	}
	hc.Answer("")
}
