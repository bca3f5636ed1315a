package progress

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/tests"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type coursesStub map[int]course.Course

func (s coursesStub) Get(id int) (course.Course, error) {
	c, ok := s[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	return c, nil
}

func withLessons(id int, lessonIDs ...int) course.Course {
	c := course.Course{ID: id, Title: "Course", Lessons: []course.Lesson{}}
	for i, lid := range lessonIDs {
		c.Lessons = append(c.Lessons, course.Lesson{ID: lid, Order: i + 1})
	}
	return c
}

func testCourses() coursesStub {
	return coursesStub{
		1: withLessons(1, 11, 12, 13, 14),
		2: withLessons(2, 21, 22, 23),
		3: withLessons(3),
	}
}

// newTestLedger returns a ledger whose clock moves forward one minute on every read.
func newTestLedger(t *testing.T, kv *testutil.KV, courses CourseFinder) (*Ledger, *testutil.Logger) {
	logger := testutil.NewLogger()
	l, err := NewLedger(context.Background(), kv, courses, logger)
	require.NoError(t, err)

	now := testNow
	l.now = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	return l, logger
}

func TestNewLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("nil args", func(t *testing.T) {
		_, err := NewLedger(ctx, nil, testCourses(), testutil.NewLogger())
		assert.Error(t, err)
		_, err = NewLedger(ctx, testutil.NewKV(), nil, testutil.NewLogger())
		assert.Error(t, err)
		_, err = NewLedger(ctx, testutil.NewKV(), testCourses(), nil)
		assert.Error(t, err)
		_, err = NewLedger(ctx, testutil.NewKV(), coursesStub(nil), testutil.NewLogger())
		assert.Error(t, err)
	})

	t.Run("value store and course finder", func(t *testing.T) {
		kv := testutil.ValueKV{KV: testutil.NewKV()}
		l, err := NewLedger(ctx, kv, singleCourse{withLessons(1, 11, 12)}, testutil.NewLogger())
		require.NoError(t, err)
		rec, err := l.ToggleLesson(ctx, 1, 11)
		require.NoError(t, err)
		assert.Equal(t, 50, rec.CompletionPercentage)
	})

	t.Run("starts empty", func(t *testing.T) {
		kv := testutil.NewKV()
		l, _ := newTestLedger(t, kv, testCourses())

		assert.Empty(t, l.AllEnrolled())
		assert.Equal(t, 0, kv.Sets())
	})

	t.Run("loads stored pairs", func(t *testing.T) {
		kv := testutil.NewKV()
		kv.Put(storageKey, []byte(`[[2,{"courseId":2,"completedLessons":[21],"startedAt":"2026-01-01T10:00:00+02:00",
			"lastAccessedAt":"2026-01-02T10:00:00Z","completionPercentage":33,"isEnrolled":true}],
			[1,{"completedLessons":null}]]`))
		l, logger := newTestLedger(t, kv, testCourses())

		rec, ok := l.Get(2)
		require.True(t, ok)
		assert.Equal(t, []int{21}, rec.CompletedLessons)
		assert.Equal(t, 33, rec.CompletionPercentage)
		assert.Equal(t, time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC), rec.StartedAt)
		assert.Equal(t, time.UTC, rec.StartedAt.Location())

		rec, ok = l.Get(1)
		require.True(t, ok)
		assert.Equal(t, 1, rec.CourseID)
		assert.Equal(t, []int{}, rec.CompletedLessons)
		assert.True(t, rec.IsEnrolled)
		assert.Empty(t, logger.Entries())
	})

	t.Run("recomputes stored percentages", func(t *testing.T) {
		kv := testutil.NewKV()
		kv.Put(storageKey, []byte(`[[1,{"completedLessons":[11],"completionPercentage":100}],
			[2,{"completedLessons":[21,22,29],"completionPercentage":0}],
			[42,{"completedLessons":[1],"completionPercentage":80}]]`))
		l, _ := newTestLedger(t, kv, testCourses())

		assert.Equal(t, 25, l.Percentage(1))
		assert.Equal(t, 67, l.Percentage(2))
		assert.Equal(t, 0, l.Percentage(42), "course no longer exists")
		assert.Equal(t, 0, kv.Sets())
		assert.Equal(t, Stats{TotalCoursesEnrolled: 3, TotalLessonsCompleted: 5, AverageProgress: 31}, l.Stats())
	})

	tests := []struct {
		name string
		blob string
	}{
		{name: "malformed", blob: `{"1":`},
		{name: "not pairs", blob: `[[1]]`},
		{name: "invalid course id", blob: `[[0,{}]]`},
		{name: "invalid progress", blob: `[[1,"nope"]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := testutil.NewKV()
			kv.Put(storageKey, []byte(tt.blob))
			l, logger := newTestLedger(t, kv, testCourses())

			assert.Empty(t, l.AllEnrolled())
			assert.Len(t, logger.Entries("ERROR"), 1)
		})
	}

	t.Run("backing failure", func(t *testing.T) {
		_, err := NewLedger(ctx, failingGetKV{testutil.NewKV()}, testCourses(), testutil.NewLogger())
		assert.Equal(t, testutil.ErrKVDown, errors.Cause(err))
	})
}

type singleCourse struct {
	c course.Course
}

func (s singleCourse) Get(id int) (course.Course, error) {
	if id != s.c.ID {
		return course.Course{}, course.ErrNotFound
	}
	return s.c, nil
}

type failingGetKV struct {
	*testutil.KV
}

func (failingGetKV) Get(context.Context, string) ([]byte, error) {
	return nil, testutil.ErrKVDown
}

func TestLedger_Enroll(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewKV()
	l, _ := newTestLedger(t, kv, testCourses())

	assert.False(t, l.IsEnrolled(1))
	rec, err := l.Enroll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StudentProgress{
		CourseID:         1,
		CompletedLessons: []int{},
		StartedAt:        testNow.Add(time.Minute),
		LastAccessedAt:   testNow.Add(time.Minute),
		IsEnrolled:       true,
	}, rec)
	assert.True(t, l.IsEnrolled(1))

	_, err = l.ToggleLesson(ctx, 1, 11)
	require.NoError(t, err)

	again, err := l.Enroll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{11}, again.CompletedLessons, "enrolling twice keeps the record")
	assert.Equal(t, rec.StartedAt, again.StartedAt)

	require.NoError(t, l.Unenroll(ctx, 1))
	assert.False(t, l.IsEnrolled(1))
	require.NoError(t, l.Unenroll(ctx, 1))

	rec, err = l.Enroll(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rec.CompletedLessons, "re-enrolling starts over")
	assert.Equal(t, 0, rec.CompletionPercentage)
}

func TestLedger_ToggleLesson(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewKV()
	l, _ := newTestLedger(t, kv, testCourses())

	rec, err := l.ToggleLesson(ctx, 1, 11)
	require.NoError(t, err)
	assert.Equal(t, 1, kv.Sets(), "enrolled and toggled within one write")
	assert.True(t, rec.IsEnrolled)
	assert.Equal(t, []int{11}, rec.CompletedLessons)
	assert.Equal(t, 25, rec.CompletionPercentage)
	assert.True(t, l.IsLessonCompleted(1, 11))

	for _, lid := range []int{12, 13} {
		_, err = l.ToggleLesson(ctx, 1, lid)
		require.NoError(t, err)
	}
	assert.Equal(t, 75, l.Percentage(1))

	rec, err = l.ToggleLesson(ctx, 1, 14)
	require.NoError(t, err)
	assert.Equal(t, 100, rec.CompletionPercentage)
	assert.True(t, rec.IsCompleted())

	rec, err = l.ToggleLesson(ctx, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 13, 14}, rec.CompletedLessons)
	assert.Equal(t, 75, rec.CompletionPercentage)
	assert.False(t, l.IsLessonCompleted(1, 12))

	_, err = l.ToggleLesson(ctx, 1, 12)
	require.NoError(t, err)
	rec, err = l.ToggleLesson(ctx, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 13, 14}, rec.CompletedLessons, "toggling twice restores the set")
	assert.True(t, rec.LastAccessedAt.After(rec.StartedAt))
}

func TestLedger_percentage(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, testutil.NewKV(), testCourses())

	tests := []struct {
		name     string
		courseID int
		lessonID int
		want     int
	}{
		{name: "one of three", courseID: 2, lessonID: 21, want: 33},
		{name: "two of three", courseID: 2, lessonID: 22, want: 67},
		{name: "unknown lesson is not counted", courseID: 2, lessonID: 99, want: 67},
		{name: "no lessons", courseID: 3, lessonID: 31, want: 0},
		{name: "missing course", courseID: 42, lessonID: 1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := l.ToggleLesson(ctx, tt.courseID, tt.lessonID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.CompletionPercentage)
		})
	}
	assert.Equal(t, 0, l.Percentage(5), "not enrolled")
}

func TestLedger_Stats(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, testutil.NewKV(), testCourses())

	assert.Equal(t, Stats{}, l.Stats())

	for _, lid := range []int{11, 12, 13, 14} {
		_, err := l.ToggleLesson(ctx, 1, lid)
		require.NoError(t, err)
	}
	_, err := l.ToggleLesson(ctx, 2, 21)
	require.NoError(t, err)
	_, err = l.Enroll(ctx, 3)
	require.NoError(t, err)

	// (100 + 33 + 0) / 3
	assert.Equal(t, Stats{
		TotalCoursesEnrolled:  3,
		TotalCoursesCompleted: 1,
		TotalLessonsCompleted: 5,
		AverageProgress:       44,
	}, l.Stats())
}

func TestLedger_Reset(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewKV()
	l, _ := newTestLedger(t, kv, testCourses())

	_, err := l.Reset(ctx, 1)
	assert.Equal(t, ErrNotEnrolled, err)
	assert.Equal(t, 0, kv.Sets())

	_, err = l.ToggleLesson(ctx, 1, 11)
	require.NoError(t, err)
	_, err = l.ToggleLesson(ctx, 2, 21)
	require.NoError(t, err)

	rec, err := l.Reset(ctx, 1)
	require.NoError(t, err)
	assert.True(t, rec.IsEnrolled)
	assert.Equal(t, []int{}, rec.CompletedLessons)
	assert.Equal(t, 0, rec.CompletionPercentage)
	assert.True(t, l.IsEnrolled(1))

	require.NoError(t, l.ResetAll(ctx))
	assert.Empty(t, l.AllEnrolled())
	assert.JSONEq(t, `[]`, string(kv.Raw(storageKey)))
}

func TestLedger_Recompute(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewKV()
	courses := testCourses()
	l, logger := newTestLedger(t, kv, courses)

	for _, lid := range []int{11, 12} {
		_, err := l.ToggleLesson(ctx, 1, lid)
		require.NoError(t, err)
	}
	sets := kv.Sets()

	require.NoError(t, l.Recompute(ctx, 1))
	require.NoError(t, l.Recompute(ctx, 2))
	assert.Equal(t, sets, kv.Sets(), "nothing changed")

	courses[1] = withLessons(1, 11, 12, 13) // lesson 14 deleted
	l.CourseChanged(ctx, 1)
	assert.Equal(t, 67, l.Percentage(1))
	assert.Equal(t, sets+1, kv.Sets())

	delete(courses, 1)
	kv.FailSets(true)
	l.CourseChanged(ctx, 1)
	assert.Equal(t, 67, l.Percentage(1), "failed write is not committed")
	assert.Len(t, logger.Entries("ERROR"), 1)

	kv.FailSets(false)
	l.CourseChanged(ctx, 1)
	rec, ok := l.Get(1)
	require.True(t, ok, "records of deleted courses are kept")
	assert.Equal(t, 0, rec.CompletionPercentage)
}

func TestLedger_failedWrite(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewKV()
	l, _ := newTestLedger(t, kv, testCourses())
	_, err := l.ToggleLesson(ctx, 1, 11)
	require.NoError(t, err)
	kv.FailSets(true)

	_, err = l.Enroll(ctx, 2)
	assert.Equal(t, testutil.ErrKVDown, errors.Cause(err))
	_, err = l.ToggleLesson(ctx, 1, 12)
	assert.Equal(t, testutil.ErrKVDown, errors.Cause(err))
	err = l.Unenroll(ctx, 1)
	assert.Equal(t, testutil.ErrKVDown, errors.Cause(err))
	err = l.ResetAll(ctx)
	assert.Equal(t, testutil.ErrKVDown, errors.Cause(err))

	assert.False(t, l.IsEnrolled(2))
	rec, ok := l.Get(1)
	require.True(t, ok)
	assert.Equal(t, []int{11}, rec.CompletedLessons)
}

func TestLedger_Dashboard(t *testing.T) {
	ctx := context.Background()
	courses := testCourses()
	courses[4] = withLessons(4, 41)
	l, _ := newTestLedger(t, testutil.NewKV(), courses)

	steps := []struct {
		courseID, lessonID int
	}{
		{2, 21}, // in progress
		{1, 11}, // in progress, accessed last
		{4, 41}, // completed
	}
	for _, s := range steps {
		_, err := l.ToggleLesson(ctx, s.courseID, s.lessonID)
		require.NoError(t, err)
	}
	_, err := l.Enroll(ctx, 3) // not started
	require.NoError(t, err)
	_, err = l.ToggleLesson(ctx, 1, 12)
	require.NoError(t, err)
	_, err = l.Enroll(ctx, 42) // missing course
	require.NoError(t, err)

	dash := l.Dashboard()

	courseIDs := func(entries []Entry) []int {
		res := make([]int, len(entries))
		for i, e := range entries {
			res[i] = e.Course.ID
		}
		return res
	}
	assert.Equal(t, []int{1, 3, 4, 2}, courseIDs(dash.Courses))
	assert.Equal(t, []int{4}, courseIDs(dash.Completed))
	assert.Equal(t, []int{1, 2}, courseIDs(dash.InProgress))
	assert.Equal(t, []int{3}, courseIDs(dash.NotStarted))
	assert.Equal(t, 5, dash.Stats.TotalCoursesEnrolled)
	assert.Equal(t, 50, dash.Courses[0].Progress.CompletionPercentage)
}

func TestLedger_storageFormat(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewKV()
	l, _ := newTestLedger(t, kv, testCourses())

	_, err := l.ToggleLesson(ctx, 2, 21)
	require.NoError(t, err)
	_, err = l.Enroll(ctx, 1)
	require.NoError(t, err)

	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(kv.Raw(storageKey), &raw))
	require.Len(t, raw, 2)
	assert.JSONEq(t, `[1,{
		"courseId": 1,
		"completedLessons": [],
		"startedAt": "2026-03-01T12:03:00Z",
		"lastAccessedAt": "2026-03-01T12:03:00Z",
		"completionPercentage": 0,
		"isEnrolled": true
	}]`, string(raw[0]))
	assert.JSONEq(t, `[2,{
		"courseId": 2,
		"completedLessons": [21],
		"startedAt": "2026-03-01T12:01:00Z",
		"lastAccessedAt": "2026-03-01T12:02:00Z",
		"completionPercentage": 33,
		"isEnrolled": true
	}]`, string(raw[1]))

	reloaded, _ := newTestLedger(t, kv, testCourses())
	assert.ElementsMatch(t, l.AllEnrolled(), reloaded.AllEnrolled())
}
