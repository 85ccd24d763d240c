package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
)

// subgroup letters as shown to users
var subgroupNames = map[string]string{"A": "А", "B": "Б"}

func subgroupName(s string) string {
	if n, ok := subgroupNames[s]; ok {
		return n
	}
	return s
}

func orDash(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// FormatDayMonth renders a date as DD.MM.
func FormatDayMonth(t time.Time) string {
	return fmt.Sprintf("%02d.%02d", t.Day(), int(t.Month()))
}

// DaySchedule renders a group's lesson list for one date. HTML parse mode.
func DaySchedule(group string, date time.Time, lessons []domain.Lesson) string {
	formatted := FormatDayMonth(date)
	if len(lessons) == 0 {
		return fmt.Sprintf("📅 На %s у группы %s занятий нет.", formatted, group)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Расписание группы %s на %s:\n\n", group, formatted)
	for i, l := range lessons {
		if i > 0 {
			b.WriteString("\n")
		}
		subgroupInfo := ""
		if l.Subgroup != domain.SubgroupCommon {
			subgroupInfo = ", подгруппа " + subgroupName(l.Subgroup)
		}
		fmt.Fprintf(&b, "⏰ <b>%s — %s</b>%s\n %s (%s)\n %s, ауд. %s\n",
			domain.FormatMinutes(l.StartM), domain.FormatMinutes(l.EndM), subgroupInfo,
			l.Title, LessonTypeName(l.Type),
			orDash(l.Lecturer, "Не указан"), orDash(l.Room, "Не указана"))
	}
	return b.String()
}

// lessonDetails is the shared block naming a lesson with its time, lecturer and room.
func lessonDetails(l *domain.Lesson) string {
	return fmt.Sprintf(
		"В %s начнётся:\n"+
			"📚 %s (%s)\n"+
			"👨‍🏫 %s\n"+
			"📍 Аудитория: %s\n"+
			"🕐 %s - %s",
		domain.FormatMinutes(l.StartM),
		l.Title, LessonTypeName(l.Type),
		orDash(l.Lecturer, "Не указан"),
		orDash(l.Room, "Не указана"),
		domain.FormatMinutes(l.StartM), domain.FormatMinutes(l.EndM))
}

// LessonReminder is sent up to an hour before the first lesson of the day.
func LessonReminder(l *domain.Lesson) string {
	return "⏰ Напоминание о занятии\n\n" + lessonDetails(l)
}

// LessonEnded reports a finished lesson and, when known, the next one.
func LessonEnded(ended, next *domain.Lesson) string {
	// Seminar is masculine in Russian, the other types are feminine.
	endedWord := "закончилась"
	if ended.Type == domain.Seminar {
		endedWord = "закончился"
	}
	head := fmt.Sprintf("✅ %s (%s) %s\n\n", ended.Title, LessonTypeName(ended.Type), endedWord)
	if next == nil {
		return head + EndOfDay
	}
	return head + lessonDetails(next)
}
