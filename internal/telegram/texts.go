package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NikTak777/stankin-multitool-bot/internal/scheduler"
)

// UI texts shown to users and the admin.
const (
	startText = "👋 Привет! Я бот-помощник студенческой группы.\n\n" +
		"Я присылаю расписание занятий, напоминаю о парах,\n" +
		"поздравляю с днём рождения и не только.\n\n" +
		"Команды в чате группы:\n" +
		"• /register <группа> — привязать чат к группе\n" +
		"• /sethour <час> — час вечерней рассылки расписания"
	tasksTitle     = "⚙️ Фоновые задачи:"
	notAdminText   = "Эта команда доступна только администратору."
	groupOnlyText  = "Эта команда работает только в чате группы."
	registeredFmt  = "Чат привязан к группе %s. Час рассылки: %s."
	hourUsage      = "Использование: /sethour <0–23>"
	hourUpdatedFmt = "Час рассылки расписания: %02d:00."
	noGroupText    = "Чат не привязан к группе. Сначала выполните /register <группа>."
)

// taskTitles maps persisted task names to their display names.
var taskTitles = map[string]string{
	scheduler.TaskDailyBroadcast: "Рассылка расписания",
	scheduler.TaskBirthdayNotify: "Дни рождения",
	scheduler.TaskLessonNotify:   "Уведомления о парах",
	scheduler.TaskAnnualGreeting: "Новогоднее поздравление",
}

// menuKeyboard is attached to scheduler notifications so the user can jump
// back to the bot menu from any message.
func menuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Главное меню", "menu"),
		),
	)
}

// tasksKeyboard renders one toggle row per background task.
func tasksKeyboard(statuses map[string]bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range scheduler.Tasks {
		enabled, ok := statuses[name]
		if !ok {
			enabled = true // missing row means the task was never disabled
		}
		mark := "✅"
		if !enabled {
			mark = "⛔"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+taskTitles[name], "task:"+name),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
