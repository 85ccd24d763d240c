package domain

// Subgroup value meaning "the whole group", used for both users and lessons.
const SubgroupCommon = "Common"

// User is a bot user profile as stored in the database.
// The notification core only reads it; all mutation happens in command handlers.
type User struct {
	ID       int64
	Tag      string // telegram @username, may be empty
	Name     string // telegram display name captured at registration
	RealName string // name the user entered themselves, preferred when set

	BirthDay   int // 0 when the user has not set a birthdate
	BirthMonth int
	BirthYear  int
	Wishlist   string

	Group    string // registered class group, e.g. "ИДБ-23-10"; empty if none
	Subgroup string // "A", "B" or SubgroupCommon

	Approved     bool // opted in to public birthday congratulations
	LessonNotify bool // opted in to per-lesson notifications

	FriendIDs []int64
}

// DisplayName returns the short name used in message texts.
func (u *User) DisplayName() string {
	if u.RealName != "" {
		return u.RealName
	}
	return u.Name
}

// Mention returns the name with the @tag appended when the user has one.
func (u *User) Mention() string {
	name := u.DisplayName()
	if u.Tag != "" {
		return name + " @" + u.Tag
	}
	return name
}

// HasBirthdate reports whether the user filled in a birthdate.
func (u *User) HasBirthdate() bool {
	return u.BirthDay > 0 && u.BirthMonth > 0
}

// Group is a registered class group with its broadcast settings.
type Group struct {
	Name     string
	ChatID   int64
	SendHour int // desired hour for the daily schedule broadcast, -1 when unset
}
