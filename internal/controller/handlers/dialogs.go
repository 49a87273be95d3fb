package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/kreno_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/kreno_bot/internal/controller/state"
)

// validEmail проверка формата email
func (h *Handlers) validEmail(email string) bool {
	return h.validate.Var(email, "required,email") == nil
}

// handleLoginEmailStep шаг 1 входа: email
func (h *Handlers) handleLoginEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	email := strings.TrimSpace(update.Message.Text)

	if !h.validEmail(email) {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ That does not look like an email address.\n\nTry again:")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyEmail, email)
	h.stateManager.SetState(telegramID, state.StateLoginPassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Step 2 of 2: send your password.\n\nThe message with the password will be deleted.")
}

// handleLoginPasswordStep шаг 2 входа: пароль и вход
func (h *Handlers) handleLoginPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	h.deleteMessage(ctx, b, update.Message)

	email, ok := h.stateManager.GetString(telegramID, state.KeyEmail)
	h.stateManager.ClearState(telegramID)
	if !ok {
		h.sendMessage(ctx, b, chatID, "❌ Login expired. Start again with /login")
		return
	}

	session, err := h.sessionService.Login(ctx, telegramID, chatID, email, password)
	if err != nil {
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err)+"\n\nUse /login to try again.")
		return
	}

	h.logger.Info("Student logged in via bot",
		zap.Int64("telegram_id", telegramID),
		zap.String("user_id", session.User.UserID))

	h.sendScreen(ctx, b, chatID, fmt.Sprintf("✅ Logged in as <b>%s</b>", html.EscapeString(session.User.DisplayName())), nil)
	h.HandleDashboard(ctx, b, update)
}

// handleEvaluationCommentStep комментарий к оценке, затем итог с кнопкой отправки
func (h *Handlers) handleEvaluationCommentStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	comment := strings.TrimSpace(update.Message.Text)

	flow, err := common.LoadEvaluationFlow(h.stateManager, telegramID)
	if err != nil {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, err)
		return
	}

	length := utf8.RuneCountInString(comment)
	if length < CommentMinLength {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("❌ The comment is too short. At least %d characters.\n\nTry again:", CommentMinLength))
		return
	}
	if length > CommentMaxLength {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("❌ The comment is too long. At most %d characters.\n\nTry again:", CommentMaxLength))
		return
	}

	flow.SetComment(comment)

	text, kb := common.EvaluationSummaryScreen(flow)
	h.sendScreen(ctx, b, chatID, text+"\n\n<i>Send another message to change the comment.</i>", kb)
}

// handleProfileEmailStep шаг 1 профиля: новый email
func (h *Handlers) handleProfileEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	email := strings.TrimSpace(update.Message.Text)

	if email == KeepValue {
		email = ""
	} else if !h.validEmail(email) {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ That does not look like an email address.\n\nTry again:")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyEmail, email)
	h.stateManager.SetState(telegramID, state.StateProfilePassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"Step 2 of 2: send a new password, or %q to keep it.\n\nThe message with the password will be deleted.", KeepValue))
}

// handleProfilePasswordStep шаг 2 профиля: новый пароль и сохранение
func (h *Handlers) handleProfilePasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	h.deleteMessage(ctx, b, update.Message)

	if strings.TrimSpace(password) == KeepValue {
		password = ""
	} else if utf8.RuneCountInString(password) < PasswordMinLength {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("❌ The password is too short. At least %d characters.\n\nTry again:", PasswordMinLength))
		return
	}

	email, _ := h.stateManager.GetString(telegramID, state.KeyEmail)
	h.stateManager.ClearState(telegramID)

	if err := h.sessionService.UpdateProfile(ctx, telegramID, email, password); err != nil {
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err)+"\n\nUse /profile to try again.")
		return
	}

	h.theoryService.Abort(telegramID)
	h.sendMessage(ctx, b, chatID, "✅ Profile updated.\n\nPlease sign in again with /login.")
}
