package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
	"github.com/NikTak777/stankin-multitool-bot/internal/store"
)

// Router wires Telegram updates to handlers.
type Router struct {
	bot     *tgbotapi.BotAPI
	log     *zap.Logger
	repo    store.Repo
	adminID int64
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, adminID int64) *Router {
	return &Router{bot: bot, log: log, repo: repo, adminID: adminID}
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil && upd.Message.IsCommand() {
		msg := upd.Message
		// Command() strips the @botname suffix used in group chats.
		switch msg.Command() {
		case "start":
			r.handleStart(ctx, msg)
		case "tasks":
			r.handleTasks(ctx, msg)
		case "register":
			r.handleRegister(ctx, msg)
		case "sethour":
			r.handleSetHour(ctx, msg)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		data := cb.Data
		switch {
		case data == "menu":
			r.handleMenuCallback(cb)
		case strings.HasPrefix(data, "task:"):
			r.handleTaskCallback(ctx, cb, strings.TrimPrefix(data, "task:"))
		}
		return
	}
}

func (r *Router) sendText(chatID int64, text string) {
	_, _ = r.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) answerCallback(id string) {
	_, _ = r.bot.Request(tgbotapi.NewCallback(id, ""))
}

// ensureUser makes sure a user row exists for the sender of a private message.
func (r *Router) ensureUser(ctx context.Context, from *tgbotapi.User) (*domain.User, error) {
	u, err := r.repo.GetUser(ctx, from.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	u = &domain.User{
		ID:       from.ID,
		Tag:      from.UserName,
		Name:     name,
		Subgroup: domain.SubgroupCommon,
	}
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.Chat.IsPrivate() {
		return
	}
	if _, err := r.ensureUser(ctx, msg.From); err != nil {
		r.log.Error("ensure user failed", zap.Int64("user", msg.From.ID), zap.Error(err))
		r.sendText(msg.Chat.ID, "Ошибка инициализации профиля. Попробуйте позже.")
		return
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, startText)
	reply.ReplyMarkup = menuKeyboard()
	_, _ = r.bot.Send(reply)
}

// handleTasks shows the admin-only background task toggle panel.
func (r *Router) handleTasks(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != r.adminID {
		r.sendText(msg.Chat.ID, notAdminText)
		return
	}
	statuses, err := r.repo.TaskStatuses(ctx)
	if err != nil {
		r.log.Error("read task statuses failed", zap.Error(err))
		r.sendText(msg.Chat.ID, "Не удалось прочитать состояние задач.")
		return
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, tasksTitle)
	reply.ReplyMarkup = tasksKeyboard(statuses)
	_, _ = r.bot.Send(reply)
}

// handleRegister binds a group chat to a class group name.
func (r *Router) handleRegister(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat.IsPrivate() {
		r.sendText(msg.Chat.ID, groupOnlyText)
		return
	}
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		r.sendText(msg.Chat.ID, "Использование: /register <название группы>")
		return
	}
	g := domain.Group{Name: name, ChatID: msg.Chat.ID, SendHour: -1}
	if err := r.repo.UpsertGroup(ctx, g); err != nil {
		r.log.Error("register group failed", zap.String("group", name), zap.Error(err))
		r.sendText(msg.Chat.ID, "Не удалось привязать чат к группе.")
		return
	}
	r.log.Info("group registered", zap.String("group", name), zap.Int64("chat", msg.Chat.ID))
	r.sendText(msg.Chat.ID, fmt.Sprintf(registeredFmt, name, "по умолчанию"))
}

// handleSetHour updates the registered group's broadcast hour.
func (r *Router) handleSetHour(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat.IsPrivate() {
		r.sendText(msg.Chat.ID, groupOnlyText)
		return
	}
	hour, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil || hour < 0 || hour > 23 {
		r.sendText(msg.Chat.ID, hourUsage)
		return
	}

	g, err := r.groupByChat(ctx, msg.Chat.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.sendText(msg.Chat.ID, noGroupText)
			return
		}
		r.log.Error("group lookup failed", zap.Int64("chat", msg.Chat.ID), zap.Error(err))
		r.sendText(msg.Chat.ID, "Не удалось обновить час рассылки.")
		return
	}

	g.SendHour = hour
	if err := r.repo.UpsertGroup(ctx, g); err != nil {
		r.log.Error("set hour failed", zap.String("group", g.Name), zap.Error(err))
		r.sendText(msg.Chat.ID, "Не удалось обновить час рассылки.")
		return
	}
	r.log.Info("broadcast hour updated", zap.String("group", g.Name), zap.Int("hour", hour))
	r.sendText(msg.Chat.ID, fmt.Sprintf(hourUpdatedFmt, hour))
}

func (r *Router) groupByChat(ctx context.Context, chatID int64) (domain.Group, error) {
	groups, err := r.repo.ListGroups(ctx)
	if err != nil {
		return domain.Group{}, err
	}
	for _, g := range groups {
		if g.ChatID == chatID {
			return g, nil
		}
	}
	return domain.Group{}, store.ErrNotFound
}

func (r *Router) handleMenuCallback(cb *tgbotapi.CallbackQuery) {
	r.answerCallback(cb.ID)
	reply := tgbotapi.NewMessage(cb.Message.Chat.ID, startText)
	reply.ReplyMarkup = menuKeyboard()
	_, _ = r.bot.Send(reply)
}

// handleTaskCallback flips one background task toggle and re-renders the panel.
func (r *Router) handleTaskCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, task string) {
	r.answerCallback(cb.ID)
	if cb.From.ID != r.adminID {
		return
	}
	if _, ok := taskTitles[task]; !ok {
		return
	}

	statuses, err := r.repo.TaskStatuses(ctx)
	if err != nil {
		r.log.Error("read task statuses failed", zap.Error(err))
		return
	}
	enabled, ok := statuses[task]
	if !ok {
		enabled = true
	}

	if err := r.repo.SetTaskEnabled(ctx, task, !enabled); err != nil {
		r.log.Error("toggle task failed", zap.String("task", task), zap.Error(err))
		return
	}
	r.log.Info("task toggled", zap.String("task", task), zap.Bool("enabled", !enabled))

	statuses[task] = !enabled
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID, tasksTitle, tasksKeyboard(statuses))
	_, _ = r.bot.Send(edit)
}
