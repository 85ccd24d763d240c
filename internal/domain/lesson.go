package domain

import (
	"sort"
	"time"
)

// LessonType mirrors the values used in schedule data files.
type LessonType string

const (
	Lecture    LessonType = "Lecture"
	Seminar    LessonType = "Seminar"
	Laboratory LessonType = "Laboratory"
)

// Frequency is the recurrence rule variant attached to a lesson date entry.
type Frequency int

const (
	Once     Frequency = iota // exact calendar date
	Biweekly                  // every 14 days within [From, To]
	Weekly                    // every 7 days within [From, To]
)

// Occurrence is one recurrence descriptor. For Once only On is set;
// for Biweekly/Weekly the rule anchors on From and runs through To inclusive.
type Occurrence struct {
	Freq     Frequency
	On       time.Time // midnight UTC
	From, To time.Time // midnight UTC
}

// Lesson is a single timetable entry of a group.
type Lesson struct {
	Title    string
	Type     LessonType
	Lecturer string
	Room     string
	StartM   int // minutes since midnight
	EndM     int
	Subgroup string // "A", "B" or SubgroupCommon
	Dates    []Occurrence
}

// DateOf truncates t to its calendar date, re-anchored at midnight UTC so that
// day arithmetic against occurrence anchors is exact regardless of DST.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (o Occurrence) occursOn(date time.Time) bool {
	switch o.Freq {
	case Once:
		return o.On.Equal(date)
	case Biweekly:
		if date.Before(o.From) || date.After(o.To) {
			return false
		}
		return daysBetween(o.From, date)%14 == 0
	case Weekly:
		if date.Before(o.From) || date.After(o.To) {
			return false
		}
		return daysBetween(o.From, date)%7 == 0
	}
	return false
}

// OccursOn reports whether the lesson takes place on the given calendar date.
// Pure: evaluates recurrence descriptors only, no state.
func (l *Lesson) OccursOn(t time.Time) bool {
	date := DateOf(t)
	for _, o := range l.Dates {
		if o.occursOn(date) {
			return true
		}
	}
	return false
}

// VisibleTo reports whether a user of the given subgroup attends the lesson.
// A Common user attends everything; otherwise own subgroup plus Common entries.
func (l *Lesson) VisibleTo(subgroup string) bool {
	if subgroup == SubgroupCommon {
		return true
	}
	return l.Subgroup == SubgroupCommon || l.Subgroup == subgroup
}

// daysBetween returns whole days from a to b; both must be midnight UTC.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// LessonsOn filters a group timetable down to the lessons a user of the given
// subgroup has on the given date, sorted by start time.
func LessonsOn(all []Lesson, t time.Time, subgroup string) []Lesson {
	var day []Lesson
	for _, l := range all {
		if l.OccursOn(t) && l.VisibleTo(subgroup) {
			day = append(day, l)
		}
	}
	sort.SliceStable(day, func(i, j int) bool { return day[i].StartM < day[j].StartM })
	return day
}
