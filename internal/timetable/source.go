package timetable

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NikTak777/stankin-multitool-bot/internal/domain"
)

// ErrNotFound is returned when a group has no schedule file on disk.
var ErrNotFound = errors.New("schedule not found")

// Source loads per-group lesson schedules from JSON files in a directory.
// Files are named "<group>.json" and re-read on every call; admins replace
// them on disk without restarting the bot.
type Source struct {
	dir string
}

func New(dir string) *Source {
	return &Source{dir: dir}
}

// Exists reports whether a schedule file is on disk for the group.
func (s *Source) Exists(group string) bool {
	_, err := os.Stat(s.path(group))
	return err == nil
}

// GroupSchedule reads and validates the group's schedule file.
func (s *Source) GroupSchedule(group string) ([]domain.Lesson, error) {
	raw, err := os.ReadFile(s.path(group))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: group %s", ErrNotFound, group)
	}
	if err != nil {
		return nil, err
	}

	var entries []lessonJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", group, err)
	}

	lessons := make([]domain.Lesson, 0, len(entries))
	for i, e := range entries {
		l, err := e.toDomain()
		if err != nil {
			return nil, fmt.Errorf("schedule %s, entry %d (%s): %w", group, i, e.Title, err)
		}
		lessons = append(lessons, l)
	}
	return lessons, nil
}

func (s *Source) path(group string) string {
	return filepath.Join(s.dir, group+".json")
}

// lessonJSON mirrors the on-disk schedule entry shape. Validation happens
// once here; the rest of the bot works with typed domain.Lesson values.
type lessonJSON struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Lecturer string `json:"lecturer"`
	Room     string `json:"classroom"`
	Subgroup string `json:"subgroup"`
	Time     struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"time"`
	Dates []struct {
		Frequency string `json:"frequency"`
		Date      string `json:"date"`
	} `json:"dates"`
}

func (e lessonJSON) toDomain() (domain.Lesson, error) {
	startM, err := domain.ParseHHMM(e.Time.Start)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("start time: %w", err)
	}
	endM, err := domain.ParseHHMM(e.Time.End)
	if err != nil {
		return domain.Lesson{}, fmt.Errorf("end time: %w", err)
	}
	if endM <= startM {
		return domain.Lesson{}, fmt.Errorf("end %s not after start %s", e.Time.End, e.Time.Start)
	}

	subgroup := e.Subgroup
	if subgroup == "" {
		subgroup = domain.SubgroupCommon
	}

	l := domain.Lesson{
		Title:    e.Title,
		Type:     domain.LessonType(e.Type),
		Lecturer: e.Lecturer,
		Room:     e.Room,
		StartM:   startM,
		EndM:     endM,
		Subgroup: subgroup,
	}
	for _, d := range e.Dates {
		occ, err := parseOccurrence(d.Frequency, d.Date)
		if err != nil {
			return domain.Lesson{}, err
		}
		l.Dates = append(l.Dates, occ)
	}
	if len(l.Dates) == 0 {
		return domain.Lesson{}, errors.New("no dates")
	}
	return l, nil
}

func parseOccurrence(frequency, date string) (domain.Occurrence, error) {
	switch frequency {
	case "once":
		on, err := domain.ParseScheduleDate(date)
		if err != nil {
			return domain.Occurrence{}, err
		}
		return domain.Occurrence{Freq: domain.Once, On: on}, nil
	case "throughout":
		from, to, err := domain.ParseScheduleDateRange(date)
		if err != nil {
			return domain.Occurrence{}, err
		}
		return domain.Occurrence{Freq: domain.Biweekly, From: from, To: to}, nil
	case "every":
		from, to, err := domain.ParseScheduleDateRange(date)
		if err != nil {
			return domain.Occurrence{}, err
		}
		return domain.Occurrence{Freq: domain.Weekly, From: from, To: to}, nil
	default:
		return domain.Occurrence{}, fmt.Errorf("unknown frequency %q", frequency)
	}
}
