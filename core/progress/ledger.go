package progress

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/course"
)

const storageKey = "student_progress"

var ErrNotEnrolled = errors.New("course not enrolled")

// CourseFinder is what the ledger needs from the course store.
type CourseFinder interface {
	Get(id int) (course.Course, error)
}

// Ledger tracks enrollments and completed lessons, keyed by course ID.
// Every mutation rewrites the whole ledger to the backing store before it is committed in memory.
type Ledger struct {
	mu      sync.RWMutex
	kv      core.KVStore
	courses CourseFinder
	logger  core.Logger
	records map[int]StudentProgress
	now     func() time.Time
}

func NewLedger(ctx context.Context, kv core.KVStore, courses CourseFinder, logger core.Logger) (*Ledger, error) {
	if err := vala.BeginValidation().Validate(
		core.IsNotNil(kv, "kv"),
		core.IsNotNil(courses, "courses"),
		core.IsNotNil(logger, "logger"),
	).Check(); err != nil {
		return nil, err
	}

	l := &Ledger{
		kv:      kv,
		courses: courses,
		logger:  logger,
		records: make(map[int]StudentProgress),
		now:     func() time.Time { return time.Now().UTC() },
	}
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// load reads the stored records; unreadable data is logged and the ledger starts empty.
// Stored percentages are recomputed from the current course lessons.
func (l *Ledger) load(ctx context.Context) error {
	var pairs []pair
	err := core.LoadJSON(ctx, l.kv, storageKey, &pairs)
	switch {
	case err == nil:
	case errors.Cause(err) == core.ErrKeyNotFound:
		return nil
	case core.IsCorrupted(err):
		l.logger.Error("stored progress is unreadable, starting with an empty ledger", err)
		return nil
	default:
		return errors.Wrap(err, "loading progress")
	}

	records := make(map[int]StudentProgress, len(pairs))
	for _, p := range pairs {
		if p.courseID <= 0 {
			l.logger.Error("stored progress is unreadable, starting with an empty ledger",
				core.NewCorruptedError(storageKey, fmt.Errorf("invalid course id %d", p.courseID)))
			return nil
		}
		rec := p.progress
		rec.CourseID = p.courseID
		rec.IsEnrolled = true
		if rec.CompletedLessons == nil {
			rec.CompletedLessons = []int{}
		}
		rec.StartedAt = rec.StartedAt.UTC()
		rec.LastAccessedAt = rec.LastAccessedAt.UTC()
		rec.CompletionPercentage = l.percentage(rec)
		records[p.courseID] = rec
	}
	l.records = records
	return nil
}

func (l *Ledger) save(ctx context.Context, records map[int]StudentProgress) error {
	pairs := make([]pair, 0, len(records))
	for id, rec := range records {
		pairs = append(pairs, pair{courseID: id, progress: rec})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].courseID < pairs[j].courseID })
	return core.SaveJSON(ctx, l.kv, storageKey, pairs)
}

// mutate applies fn to a copy of the records, persists the result and only then commits it.
func (l *Ledger) mutate(ctx context.Context, fn func(records map[int]StudentProgress) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make(map[int]StudentProgress, len(l.records))
	for id, rec := range l.records {
		next[id] = rec.clone()
	}
	if err := fn(next); err != nil {
		return err
	}
	if err := l.save(ctx, next); err != nil {
		return errors.Wrap(err, "saving progress")
	}
	l.records = next
	return nil
}

func (l *Ledger) newRecord(courseID int) StudentProgress {
	now := l.now()
	return StudentProgress{
		CourseID:         courseID,
		CompletedLessons: []int{},
		StartedAt:        now,
		LastAccessedAt:   now,
		IsEnrolled:       true,
	}
}

// percentage is the share of the course lessons found in the completed set.
// A course with no lessons (or one that no longer exists) is at 0%.
func (l *Ledger) percentage(rec StudentProgress) int {
	c, err := l.courses.Get(rec.CourseID)
	if err != nil {
		return 0
	}
	var done int
	for _, lsn := range c.Lessons {
		if rec.HasCompleted(lsn.ID) {
			done++
		}
	}
	return core.Percent(done, len(c.Lessons))
}

// Enroll creates the record of courseID; enrolling twice keeps the existing record.
func (l *Ledger) Enroll(ctx context.Context, courseID int) (StudentProgress, error) {
	var rec StudentProgress
	err := l.mutate(ctx, func(records map[int]StudentProgress) error {
		if existing, ok := records[courseID]; ok {
			rec = existing
			return nil
		}
		rec = l.newRecord(courseID)
		records[courseID] = rec
		return nil
	})
	if err != nil {
		return StudentProgress{}, err
	}
	return rec.clone(), nil
}

// Unenroll deletes the record of courseID along with its progress.
func (l *Ledger) Unenroll(ctx context.Context, courseID int) error {
	return l.mutate(ctx, func(records map[int]StudentProgress) error {
		delete(records, courseID)
		return nil
	})
}

func (l *Ledger) IsEnrolled(courseID int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.records[courseID]
	return ok
}

// Get returns the record of courseID, false when not enrolled.
func (l *Ledger) Get(courseID int) (StudentProgress, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.records[courseID]
	if !ok {
		return StudentProgress{}, false
	}
	return rec.clone(), true
}

func (l *Ledger) IsLessonCompleted(courseID, lessonID int) bool {
	rec, ok := l.Get(courseID)
	return ok && rec.HasCompleted(lessonID)
}

// ToggleLesson marks lessonID completed, or not completed if it already was.
// The course is enrolled first when needed, within the same write.
func (l *Ledger) ToggleLesson(ctx context.Context, courseID, lessonID int) (StudentProgress, error) {
	var rec StudentProgress
	err := l.mutate(ctx, func(records map[int]StudentProgress) error {
		var ok bool
		if rec, ok = records[courseID]; !ok {
			rec = l.newRecord(courseID)
		}
		if i := rec.lessonIndex(lessonID); i != -1 {
			rec.CompletedLessons = append(rec.CompletedLessons[:i], rec.CompletedLessons[i+1:]...)
		} else {
			rec.CompletedLessons = append(rec.CompletedLessons, lessonID)
		}
		rec.LastAccessedAt = l.now()
		rec.CompletionPercentage = l.percentage(rec)
		records[courseID] = rec
		return nil
	})
	if err != nil {
		return StudentProgress{}, err
	}
	return rec.clone(), nil
}

// Percentage returns the completion percentage of courseID, 0 when not enrolled.
func (l *Ledger) Percentage(courseID int) int {
	rec, _ := l.Get(courseID)
	return rec.CompletionPercentage
}

// AllEnrolled returns every record, in no particular order.
func (l *Ledger) AllEnrolled() []StudentProgress {
	l.mu.RLock()
	defer l.mu.RUnlock()

	recs := make([]StudentProgress, 0, len(l.records))
	for _, rec := range l.records {
		recs = append(recs, rec.clone())
	}
	return recs
}

func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var (
		stats Stats
		sum   int
	)
	for _, rec := range l.records {
		stats.TotalCoursesEnrolled++
		if rec.IsCompleted() {
			stats.TotalCoursesCompleted++
		}
		stats.TotalLessonsCompleted += len(rec.CompletedLessons)
		sum += rec.CompletionPercentage
	}
	stats.AverageProgress = core.RoundDiv(sum, stats.TotalCoursesEnrolled)
	return stats
}

// Reset clears the completed lessons of courseID, keeping the enrollment.
func (l *Ledger) Reset(ctx context.Context, courseID int) (StudentProgress, error) {
	var rec StudentProgress
	err := l.mutate(ctx, func(records map[int]StudentProgress) error {
		var ok bool
		if rec, ok = records[courseID]; !ok {
			return ErrNotEnrolled
		}
		rec.CompletedLessons = []int{}
		rec.CompletionPercentage = 0
		rec.LastAccessedAt = l.now()
		records[courseID] = rec
		return nil
	})
	if err != nil {
		return StudentProgress{}, err
	}
	return rec.clone(), nil
}

// ResetAll deletes every record.
func (l *Ledger) ResetAll(ctx context.Context) error {
	return l.mutate(ctx, func(records map[int]StudentProgress) error {
		for id := range records {
			delete(records, id)
		}
		return nil
	})
}

// Recompute refreshes the percentage of courseID from the current lessons of the course.
// Nothing is written when the course is not enrolled or the percentage did not change.
func (l *Ledger) Recompute(ctx context.Context, courseID int) error {
	if rec, ok := l.Get(courseID); !ok || rec.CompletionPercentage == l.percentage(rec) {
		return nil
	}
	return l.mutate(ctx, func(records map[int]StudentProgress) error {
		if rec, ok := records[courseID]; ok {
			rec.CompletionPercentage = l.percentage(rec)
			records[courseID] = rec
		}
		return nil
	})
}

// CourseChanged is a course.Observer keeping percentages in sync with the course lessons.
func (l *Ledger) CourseChanged(ctx context.Context, courseID int) {
	if err := l.Recompute(ctx, courseID); err != nil {
		l.logger.Error(fmt.Sprintf("recomputing progress of course %d", courseID), err)
	}
}

// Dashboard joins the records with their course; records of deleted courses are skipped.
func (l *Ledger) Dashboard() Dashboard {
	recs := l.AllEnrolled()
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].LastAccessedAt.Equal(recs[j].LastAccessedAt) {
			return recs[i].CourseID < recs[j].CourseID
		}
		return recs[i].LastAccessedAt.After(recs[j].LastAccessedAt)
	})

	dash := Dashboard{
		Stats:      l.Stats(),
		Courses:    []Entry{},
		Completed:  []Entry{},
		InProgress: []Entry{},
		NotStarted: []Entry{},
	}
	for _, rec := range recs {
		c, err := l.courses.Get(rec.CourseID)
		if err != nil {
			continue
		}
		entry := Entry{Course: c, Progress: rec}
		dash.Courses = append(dash.Courses, entry)
		switch {
		case rec.IsCompleted():
			dash.Completed = append(dash.Completed, entry)
		case rec.IsInProgress():
			dash.InProgress = append(dash.InProgress, entry)
		default:
			dash.NotStarted = append(dash.NotStarted, entry)
		}
	}
	return dash
}
