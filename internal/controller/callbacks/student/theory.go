package student

import (
	"context"
	"strconv"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/kreno_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTheory выбор категории теста
func HandleTheory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		text, kb := common.TheoryCategoriesScreen(h.TheoryService.Categories())
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "theory")
			return
		}
		hc.Answer("")
	})
}

// HandleTheoryCategory начинает тест по категории
func HandleTheoryCategory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		categoryID, err := common.ParseArg(callback.Data, common.CallbackTheoryCategory)
		if err != nil {
			common.HandleError(hc, err, "theory_start")
			return
		}

		run, err := h.TheoryService.Start(ctx, hc.TelegramID, categoryID)
		if err != nil {
			common.HandleError(hc, err, "theory_start")
			return
		}

		text, kb := common.TheoryQuestionScreen(run)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "render_theory")
			return
		}
		hc.Answer("")
	})
}

// showNextOrFinish следующий вопрос или итог теста
func showNextOrFinish(hc *common.HandlerContext, run *service.TestRun, answer string) {
	if !run.Done() {
		text, kb := common.TheoryQuestionScreen(run)
		if err := hc.EditMessage(text, kb); err != nil {
			hc.Handler.Logger.Warn("Failed to render question", zap.Error(err))
		}
		hc.Answer(answer)
		return
	}

	finished, err := hc.Handler.TheoryService.Finish(hc.Ctx, hc.TelegramID)
	if finished == nil {
		common.HandleError(hc, err, "theory_finish")
		return
	}

	text, kb := common.TheoryResultScreen(finished, err)
	if editErr := hc.EditMessage(text, kb); editErr != nil {
		hc.Handler.Logger.Warn("Failed to render test result", zap.Error(editErr))
	}
	hc.Answer(answer)
}

// HandleTheoryAnswer ответ на текущий вопрос
func HandleTheoryAnswer(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.ParseArgs(callback.Data, common.CallbackTheoryAnswer, 2)
		if err != nil {
			common.HandleError(hc, err, "theory_answer")
			return
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "theory_answer")
			return
		}

		run, correct, err := h.TheoryService.Answer(hc.TelegramID, index, args[1])
		if err != nil {
			common.HandleError(hc, err, "theory_answer")
			return
		}

		answered := run.Answered[len(run.Answered)-1]
		showNextOrFinish(hc, run, common.AnswerFeedback(answered.Question, correct))
	})
}

// HandleTheorySkip пропуск вопроса
func HandleTheorySkip(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		index, err := common.ParseIntArg(callback.Data, common.CallbackTheorySkip)
		if err != nil {
			common.HandleError(hc, err, "theory_skip")
			return
		}

		run, err := h.TheoryService.Skip(hc.TelegramID, index)
		if err != nil {
			common.HandleError(hc, err, "theory_skip")
			return
		}
		showNextOrFinish(hc, run, "⏭ Skipped")
	})
}

// HandleTheoryAbort прерывает тест без сохранения результата
func HandleTheoryAbort(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	h.TheoryService.Abort(hc.TelegramID)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🧠 Categories", common.CallbackTheory)).
		AddBackToMainButton().
		Build()
	if err := hc.EditMessage("🛑 Test stopped. Your answers were not saved.", kb); err != nil {
		h.Logger.Warn("Failed to render test abort", zap.Error(err))
	}
	hc.Answer("")
}
