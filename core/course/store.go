package course

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

const storageKey = "courses"

var (
	// errors
	ErrNotFound       = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrQuizNotFound   = errors.New("quiz not found")
)

// Observer is notified with the course ID after the lesson set of a course changed (or the course was deleted).
type Observer func(ctx context.Context, courseID int)

// Store owns the course collection. Every mutation rewrites the whole collection
// to the backing store before it is committed in memory.
type Store struct {
	mu        sync.RWMutex
	kv        core.KVStore
	logger    core.Logger
	courses   []Course
	observers []Observer
	now       func() time.Time
}

// NewStore loads the courses from kv, seeding (and persisting) the demonstration courses
// when nothing usable is stored.
func NewStore(ctx context.Context, kv core.KVStore, logger core.Logger) (*Store, error) {
	if err := vala.BeginValidation().Validate(
		core.IsNotNil(kv, "kv"),
		core.IsNotNil(logger, "logger"),
	).Check(); err != nil {
		return nil, err
	}

	s := &Store{
		kv:     kv,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	var courses []Course
	err := core.LoadJSON(ctx, s.kv, storageKey, &courses)
	if err == nil {
		err = sanitize(courses)
	}

	switch {
	case err == nil:
		s.courses = courses
		return nil
	case errors.Cause(err) == core.ErrKeyNotFound: // first run
	case core.IsCorrupted(err):
		s.logger.Warn("stored courses are unreadable, restoring the demonstration courses", err)
	default:
		return errors.Wrap(err, "loading courses")
	}
	return s.Seed(ctx)
}

// sanitize checks the shape of decoded courses and normalizes what the stored data may omit.
func sanitize(courses []Course) error {
	for i := range courses {
		c := &courses[i]
		if c.ID <= 0 {
			return core.NewCorruptedError(storageKey, errors.Errorf("invalid course id %d", c.ID))
		}
		if c.Lessons == nil {
			c.Lessons = []Lesson{}
		}
		if c.Quizzes == nil {
			c.Quizzes = []Quiz{}
		}
		for j := range c.Quizzes {
			if c.Quizzes[j].Options == nil {
				c.Quizzes[j].Options = []string{}
			}
		}
		c.CreatedAt = c.CreatedAt.UTC()
		c.UpdatedAt = c.UpdatedAt.UTC()
		c.sortLessons()
	}
	return nil
}

// Seed replaces every course with the demonstration courses.
func (s *Store) Seed(ctx context.Context) error {
	var ids []int
	err := s.mutate(ctx, func(courses []Course) ([]Course, error) {
		seed := SeedCourses()
		for _, c := range append(courses, seed...) {
			ids = append(ids, c.ID)
		}
		return seed, nil
	})
	if err != nil {
		return errors.Wrap(err, "seeding courses")
	}
	for _, id := range ids {
		s.notify(ctx, id)
	}
	return nil
}

// Subscribe registers an Observer. Observers must not be registered concurrently with mutations.
func (s *Store) Subscribe(obs Observer) {
	s.observers = append(s.observers, obs)
}

func (s *Store) notify(ctx context.Context, courseID int) {
	for _, obs := range s.observers {
		obs(ctx, courseID)
	}
}

// mutate applies fn to a deep copy of the courses, persists the result and only then commits it.
func (s *Store) mutate(ctx context.Context, fn func(courses []Course) ([]Course, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(cloneCourses(s.courses))
	if err != nil {
		return err
	}
	if err = core.SaveJSON(ctx, s.kv, storageKey, next); err != nil {
		return errors.Wrap(err, "saving courses")
	}
	s.courses = next
	return nil
}

// nextID returns the next ID of the ID space shared by courses, lessons and quizzes.
func nextID(courses []Course) int {
	var max int
	for _, c := range courses {
		if c.ID > max {
			max = c.ID
		}
		for _, l := range c.Lessons {
			if l.ID > max {
				max = l.ID
			}
		}
		for _, q := range c.Quizzes {
			if q.ID > max {
				max = q.ID
			}
		}
	}
	return max + 1
}

func indexOf(courses []Course, id int) int {
	for i, c := range courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneCourses(courses []Course) []Course {
	cpy := make([]Course, len(courses))
	for i, c := range courses {
		cpy[i] = c.clone()
	}
	return cpy
}

func (s *Store) filter(keep func(c Course) bool) []Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]Course, 0, len(s.courses))
	for _, c := range s.courses {
		if keep(c) {
			courses = append(courses, c.clone())
		}
	}
	return courses
}

// List returns a copy of every course.
func (s *Store) List() []Course {
	return s.filter(func(Course) bool { return true })
}

func (s *Store) Get(id int) (Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.courses, id); i != -1 {
		return s.courses[i].clone(), nil
	}
	return Course{}, ErrNotFound
}

func (s *Store) Lesson(courseID, lessonID int) (Lesson, error) {
	c, err := s.Get(courseID)
	if err != nil {
		return Lesson{}, err
	}
	if i := c.lessonIndex(lessonID); i != -1 {
		return c.Lessons[i], nil
	}
	return Lesson{}, ErrLessonNotFound
}

// Search does a case-insensitive match of query on the title or the description.
// An empty query matches every course.
func (s *Store) Search(query string) []Course {
	return s.filter(func(c Course) bool { return c.matches(query) })
}

func (s *Store) FilterByLevel(level Level) []Course {
	return s.filter(func(c Course) bool { return c.Level == level })
}

func (s *Store) FilterByCategory(category string) []Course {
	return s.filter(func(c Course) bool { return c.Category == category })
}

// Query applies the search, level and category filters then the sort of filter, in that order.
func (s *Store) Query(filter QueryFilter) []Course {
	courses := s.filter(func(c Course) bool {
		if filter.Search != "" && !c.matches(filter.Search) {
			return false
		}
		if filter.Level != "" && c.Level != Level(filter.Level) {
			return false
		}
		if filter.Category != "" && c.Category != filter.Category {
			return false
		}
		return true
	})
	if filter.Sort == SortByDurationKey {
		SortByDuration(courses)
	}
	return courses
}

// SortByDuration sorts courses in place by ascending DurationValue, keeping the order of equal durations.
func SortByDuration(courses []Course) []Course {
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].DurationValue() < courses[j].DurationValue() })
	return courses
}

func (s *Store) Create(ctx context.Context, nc NewCourse) (Course, error) {
	var course Course
	err := s.mutate(ctx, func(courses []Course) ([]Course, error) {
		now := s.now()
		course = Course{
			ID:          nextID(courses),
			Title:       nc.Title,
			Description: nc.Description,
			Level:       nc.Level,
			Category:    nc.Category,
			Duration:    nc.Duration,
			Thumbnail:   nc.Thumbnail,
			Lessons:     []Lesson{},
			Quizzes:     []Quiz{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return append(courses, course.clone()), nil
	})
	if err != nil {
		return Course{}, err
	}
	return course, nil
}

func (s *Store) Update(ctx context.Context, id int, uc UpdateCourse) (Course, error) {
	var course Course
	err := s.mutate(ctx, func(courses []Course) ([]Course, error) {
		i := indexOf(courses, id)
		if i == -1 {
			return nil, ErrNotFound
		}
		uc.apply(&courses[i])
		courses[i].UpdatedAt = s.now()
		course = courses[i].clone()
		return courses, nil
	})
	if err != nil {
		return Course{}, err
	}
	return course, nil
}

// Delete removes the course along with its lessons and quizzes.
func (s *Store) Delete(ctx context.Context, id int) error {
	err := s.mutate(ctx, func(courses []Course) ([]Course, error) {
		i := indexOf(courses, id)
		if i == -1 {
			return nil, ErrNotFound
		}
		return append(courses[:i], courses[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.notify(ctx, id)
	return nil
}

// AddLesson appends a lesson to the course, keeping lessons sorted by order.
func (s *Store) AddLesson(ctx context.Context, courseID int, nl NewLesson) (Lesson, error) {
	var lesson Lesson
	err := s.mutate(ctx, func(courses []Course) ([]Course, error) {
		i := indexOf(courses, courseID)
		if i == -1 {
			return nil, ErrNotFound
		}
		lesson = Lesson{
			ID:       nextID(courses),
			Title:    nl.Title,
			Content:  nl.Content,
			Duration: nl.Duration,
			Order:    nl.Order,
		}
		c := &courses[i]
		c.Lessons = append(c.Lessons, lesson)
		c.sortLessons()
		c.UpdatedAt = s.now()
		return courses, nil
	})
	if err != nil {
		return Lesson{}, err
	}
	s.notify(ctx, courseID)
	return lesson, nil
}

func (s *Store) UpdateLesson(ctx context.Context, courseID, lessonID int, ul UpdateLesson) (Lesson, error) {
	var lesson Lesson
	err := s.mutate(ctx, func(courses []Course) ([]Course, error) {
		i := indexOf(courses, courseID)
		if i == -1 {
			return nil, ErrNotFound
		}
		c := &courses[i]
		j := c.lessonIndex(lessonID)
		if j == -1 {
			return nil, ErrLessonNotFound
		}
		ul.apply(&c.Lessons[j])
		lesson = c.Lessons[j]
		c.sortLessons()
		c.UpdatedAt = s.now()
		return courses, nil
	})
	if err != nil {
		return Lesson{}, err
	}
	return lesson, nil
}

func (s *Store) DeleteLesson(ctx context.Context, courseID, lessonID int) error {
	err := s.mutate(ctx, func(courses []Course) ([]Course, error) {
		i := indexOf(courses, courseID)
		if i == -1 {
			return nil, ErrNotFound
		}
		c := &courses[i]
		j := c.lessonIndex(lessonID)
		if j == -1 {
			return nil, ErrLessonNotFound
		}
		c.Lessons = append(c.Lessons[:j], c.Lessons[j+1:]...)
		c.UpdatedAt = s.now()
		return courses, nil
	})
	if err != nil {
		return err
	}
	s.notify(ctx, courseID)
	return nil
}

func (s *Store) AddQuiz(ctx context.Context, courseID int, nq NewQuiz) (Quiz, error) {
	var quiz Quiz
	err := s.mutate(ctx, func(courses []Course) ([]Course, error) {
		i := indexOf(courses, courseID)
		if i == -1 {
			return nil, ErrNotFound
		}
		quiz = Quiz{
			ID:            nextID(courses),
			Question:      nq.Question,
			Options:       append([]string{}, nq.Options...),
			CorrectAnswer: nq.CorrectAnswer,
		}
		c := &courses[i]
		c.Quizzes = append(c.Quizzes, quiz.clone())
		c.UpdatedAt = s.now()
		return courses, nil
	})
	if err != nil {
		return Quiz{}, err
	}
	return quiz, nil
}

func (s *Store) DeleteQuiz(ctx context.Context, courseID, quizID int) error {
	return s.mutate(ctx, func(courses []Course) ([]Course, error) {
		i := indexOf(courses, courseID)
		if i == -1 {
			return nil, ErrNotFound
		}
		c := &courses[i]
		j := c.quizIndex(quizID)
		if j == -1 {
			return nil, ErrQuizNotFound
		}
		c.Quizzes = append(c.Quizzes[:j], c.Quizzes[j+1:]...)
		c.UpdatedAt = s.now()
		return courses, nil
	})
}
