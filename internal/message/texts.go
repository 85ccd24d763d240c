package message

import (
	"fmt"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
)

// NoWishlist is shown when an upcoming-birthday person left the wishlist empty.
const NoWishlist = "Отсутствует"

// EndOfDay closes the last "lesson ended" notice of a day.
const EndOfDay = "На сегодня с занятиями всё. Отдыхайте! 😊"

// LessonTypeName translates schedule-file lesson types for display.
func LessonTypeName(t domain.LessonType) string {
	switch t {
	case domain.Lecture:
		return "Лекция"
	case domain.Seminar:
		return "Семинар"
	case domain.Laboratory:
		return "Лабораторная"
	}
	return string(t)
}

// BirthdayGroup congratulates the birthday person in their class-group chat.
func BirthdayGroup(mention string) string {
	return fmt.Sprintf(
		"🎉 Дорогой(-ая) %s, поздравляем тебя с днём рождения! 🎂\n"+
			"Желаем здоровья, удачи и исполнения всех мечт!\n"+
			"Пусть каждый новый день будет полон позитивных эмоций и улыбок. 🎁",
		mention)
}

// CongratulateButton labels the inline button that opens a chat with the birthday person.
func CongratulateButton(name string) string {
	return fmt.Sprintf("🎉 Поздравить %s", name)
}

// BirthdayFriend tells a user that their friend has a birthday today.
func BirthdayFriend(mention string) string {
	return fmt.Sprintf(
		"🎉 Сегодня день рождения у твоего друга — %s! 🎂\n"+
			"Самое время написать поздравление! 🎁",
		mention)
}

// BirthdayPersonal congratulates the birthday person directly.
func BirthdayPersonal(name string) string {
	return fmt.Sprintf(
		"🎂 С днём рождения, %s! 🎉\n"+
			"Пусть этот год принесёт тебе успехов в учёбе, ярких событий и верных друзей! ✨",
		name)
}

// UpcomingGroup reminds the class-group chat about a birthday in a week.
func UpcomingGroup(mention, wishlist string) string {
	if wishlist == "" {
		wishlist = NoWishlist
	}
	return fmt.Sprintf(
		"📅 Ровно через неделю %s празднует свой день рождения! 🥳\n"+
			"Самое время готовить подарки! 🎁\n"+
			"🎈 Вишлист: %s",
		mention, wishlist)
}

// UpcomingFriend reminds a user about a friend's birthday in a week.
func UpcomingFriend(mention, wishlist string) string {
	if wishlist == "" {
		wishlist = NoWishlist
	}
	return fmt.Sprintf(
		"📅 Ровно через неделю твой друг %s празднует день рождения! 🥳\n"+
			"Самое время подумать о подарке! 🎁\n"+
			"🎈 Вишлист: %s",
		mention, wishlist)
}

// NewYearPersonal is the January 1st greeting for a single user.
func NewYearPersonal(name string) string {
	if name == "" {
		name = "студент"
	}
	return fmt.Sprintf(
		"🎄 Дорогой(-ая) %s! 🎄\n\n"+
			"🎉 Поздравляю тебя с Новым годом! 🎉\n"+
			"Пусть этот год принесет тебе только радость, вдохновение и множество ярких моментов! ✨\n\n"+
			"📚 Хочу пожелать тебе удачной сдачи сессии, которая еще впереди! Твоя упорная работа и старания обязательно принесут плоды! 🌟\n\n"+
			"💫 Желаю, чтобы в новом году сбылись все твои мечты, а каждый день дарил новые возможности для роста и развития. Пусть рядом будут верные друзья, а каждый день будет полон ярких событий! 🎊\n\n"+
			"🎁 Счастливого Нового года и удачи в будущем! 🎈",
		name)
}

// NewYearGroup is the January 1st greeting for a group chat.
func NewYearGroup(group string) string {
	return fmt.Sprintf(
		"🎄 Дорогие студенты группы %s! 🎄\n\n"+
			"🎉 Поздравляем вас с Новым годом! 🎉\n"+
			"Пусть этот год принесет вам только радость, вдохновение и множество ярких моментов! ✨\n\n"+
			"📚 Хотим пожелать вам удачной сдачи сессии, которая еще впереди! Ваша упорная работа и старания обязательно принесут плоды! 🌟\n\n"+
			"💫 Желаем, чтобы в новом году сбылись все ваши мечты, а каждый день дарил новые возможности для роста и развития. Пусть рядом будут верные друзья, а каждый день будет полон ярких событий! 🎊\n\n"+
			"🎁 Счастливого Нового года и удачи в будущем! 🎈",
		group)
}
