package course

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/elimu/core"
)

type Level string

// Levels
const (
	LevelBeginner     Level = "Débutant"
	LevelIntermediate Level = "Intermédiaire"
	LevelAdvanced     Level = "Avancé"
)

var (
	Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

	durationValueRegex = regexp.MustCompile(`\d+`)
)

func (l Level) IsValid() bool {
	for _, lvl := range Levels {
		if l == lvl {
			return true
		}
	}
	return false
}

type Course struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Level       Level       `json:"level"`
	Category    string      `json:"category"`
	Duration    string      `json:"duration"`
	Thumbnail   null.String `json:"thumbnail"`
	Lessons     []Lesson    `json:"lessons"`
	Quizzes     []Quiz      `json:"quizzes"`
	CreatedAt   time.Time   `json:"createdAt"` // UTC
	UpdatedAt   time.Time   `json:"updatedAt"` // UTC
}

// Lesson.Completed is kept for compatibility with stored data only; completion is tracked by the progress ledger.
type Lesson struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Duration  string `json:"duration"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
}

type Quiz struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

func (c Course) clone() Course {
	cpy := c
	cpy.Lessons = make([]Lesson, len(c.Lessons))
	copy(cpy.Lessons, c.Lessons)
	cpy.Quizzes = make([]Quiz, len(c.Quizzes))
	for i, q := range c.Quizzes {
		cpy.Quizzes[i] = q.clone()
	}
	return cpy
}

func (q Quiz) clone() Quiz {
	cpy := q
	cpy.Options = make([]string, len(q.Options))
	copy(cpy.Options, q.Options)
	return cpy
}

// HasLesson reports whether lessonID belongs to the course.
func (c Course) HasLesson(lessonID int) bool {
	return c.lessonIndex(lessonID) != -1
}

func (c Course) lessonIndex(lessonID int) int {
	for i, l := range c.Lessons {
		if l.ID == lessonID {
			return i
		}
	}
	return -1
}

func (c Course) quizIndex(quizID int) int {
	for i, q := range c.Quizzes {
		if q.ID == quizID {
			return i
		}
	}
	return -1
}

func (c *Course) sortLessons() {
	sort.SliceStable(c.Lessons, func(i, j int) bool { return c.Lessons[i].Order < c.Lessons[j].Order })
}

// DurationValue returns the first decimal run of the course duration ("4h" -> 4), 0 if there is none.
func (c Course) DurationValue() int {
	match := durationValueRegex.FindString(c.Duration)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description" validate:"required"`
	Level       Level       `json:"level" validate:"required,level"`
	Category    string      `json:"category" validate:"required"`
	Duration    string      `json:"duration" validate:"required,duration"`
	Thumbnail   null.String `json:"thumbnail" validate:"omitempty,url"`
}

func (nc *NewCourse) Clean() {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Category = core.CleanString(nc.Category)
	nc.Duration = core.CleanString(nc.Duration)
	nc.Thumbnail = cleanNullString(nc.Thumbnail)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Unset or blank fields are left untouched.
type UpdateCourse struct {
	Title       null.String `json:"title"`
	Description null.String `json:"description"`
	Level       null.String `json:"level" validate:"omitempty,level"`
	Category    null.String `json:"category"`
	Duration    null.String `json:"duration" validate:"omitempty,duration"`
	Thumbnail   null.String `json:"thumbnail" validate:"omitempty,url"`
}

func (uc *UpdateCourse) Clean() {
	uc.Title = cleanNullString(uc.Title)
	uc.Description = cleanNullString(uc.Description)
	uc.Level = cleanNullString(uc.Level)
	uc.Category = cleanNullString(uc.Category)
	uc.Duration = cleanNullString(uc.Duration)
	uc.Thumbnail = cleanNullString(uc.Thumbnail)
}

func (uc UpdateCourse) apply(c *Course) {
	if uc.Title.Valid {
		c.Title = uc.Title.String
	}
	if uc.Description.Valid {
		c.Description = uc.Description.String
	}
	if uc.Level.Valid {
		c.Level = Level(uc.Level.String)
	}
	if uc.Category.Valid {
		c.Category = uc.Category.String
	}
	if uc.Duration.Valid {
		c.Duration = uc.Duration.String
	}
	if uc.Thumbnail.Valid {
		c.Thumbnail = uc.Thumbnail
	}
}

type NewLesson struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Duration string `json:"duration"`
	Order    int    `json:"order" validate:"gte=0"`
}

func (nl *NewLesson) Clean() {
	nl.Title = core.CleanString(nl.Title)
	nl.Content = core.CleanString(nl.Content)
	nl.Duration = core.CleanString(nl.Duration)
}

// UpdateLesson defines what information may be provided to modify an existing Lesson.
type UpdateLesson struct {
	Title    null.String `json:"title"`
	Content  null.String `json:"content"`
	Duration null.String `json:"duration"`
	Order    null.Int    `json:"order" validate:"omitempty,gte=1"`
}

func (ul *UpdateLesson) Clean() {
	ul.Title = cleanNullString(ul.Title)
	ul.Content = cleanNullString(ul.Content)
	ul.Duration = cleanNullString(ul.Duration)
}

func (ul UpdateLesson) apply(l *Lesson) {
	if ul.Title.Valid {
		l.Title = ul.Title.String
	}
	if ul.Content.Valid {
		l.Content = ul.Content.String
	}
	if ul.Duration.Valid {
		l.Duration = ul.Duration.String
	}
	if ul.Order.Valid {
		l.Order = ul.Order.Int
	}
}

type NewQuiz struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" validate:"gte=0"`
}

func (nq *NewQuiz) Clean() {
	nq.Question = core.CleanString(nq.Question)
	for i, opt := range nq.Options {
		nq.Options[i] = core.CleanString(opt)
	}
}

// Sort keys
const SortByDurationKey = "duration"

// QueryFilter combines the catalog filters. Empty fields do not filter.
type QueryFilter struct {
	Search   string `query:"search"`
	Level    string `query:"level"`
	Category string `query:"category"`
	Sort     string `query:"sort"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Level = core.CleanString(qf.Level)
	qf.Category = core.CleanString(qf.Category)
	qf.Sort = core.CleanString(qf.Sort, true /* lower */)
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Level == "" && qf.Category == "" && qf.Sort == ""
}

func (c Course) matches(query string) bool {
	query = strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Title), query) ||
		strings.Contains(strings.ToLower(c.Description), query)
}

// cleanNullString trims a set value; a blank value is treated as unset.
func cleanNullString(s null.String) null.String {
	if !s.Valid {
		return s
	}
	if cleaned := core.CleanString(s.String); cleaned != "" {
		return null.StringFrom(cleaned)
	}
	return null.String{}
}
