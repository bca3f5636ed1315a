package progress

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/course"
)

// StudentProgress is the enrollment record of one course.
// CompletionPercentage is derived from CompletedLessons and refreshed on every relevant change.
type StudentProgress struct {
	CourseID             int       `json:"courseId"`
	CompletedLessons     []int     `json:"completedLessons"`
	StartedAt            time.Time `json:"startedAt"`      // UTC
	LastAccessedAt       time.Time `json:"lastAccessedAt"` // UTC
	CompletionPercentage int       `json:"completionPercentage"`
	IsEnrolled           bool      `json:"isEnrolled"`
}

func (p StudentProgress) clone() StudentProgress {
	cpy := p
	cpy.CompletedLessons = append([]int{}, p.CompletedLessons...)
	return cpy
}

func (p StudentProgress) lessonIndex(lessonID int) int {
	for i, id := range p.CompletedLessons {
		if id == lessonID {
			return i
		}
	}
	return -1
}

func (p StudentProgress) HasCompleted(lessonID int) bool {
	return p.lessonIndex(lessonID) != -1
}

func (p StudentProgress) IsCompleted() bool { return p.CompletionPercentage == 100 }
func (p StudentProgress) IsInProgress() bool {
	return p.CompletionPercentage > 0 && p.CompletionPercentage < 100
}
func (p StudentProgress) IsNotStarted() bool { return p.CompletionPercentage == 0 }

type Stats struct {
	TotalCoursesEnrolled  int `json:"totalCoursesEnrolled"`
	TotalCoursesCompleted int `json:"totalCoursesCompleted"`
	TotalLessonsCompleted int `json:"totalLessonsCompleted"`
	AverageProgress       int `json:"averageProgress"`
}

// Entry is an enrolled course along with its progress.
type Entry struct {
	Course   course.Course   `json:"course"`
	Progress StudentProgress `json:"progress"`
}

// Dashboard lists enrolled courses by most recent access first.
type Dashboard struct {
	Stats      Stats   `json:"stats"`
	Courses    []Entry `json:"courses"`
	Completed  []Entry `json:"completed"`
	InProgress []Entry `json:"inProgress"`
	NotStarted []Entry `json:"notStarted"`
}

// pair is how a record is stored: [courseId, progress].
type pair struct {
	courseID int
	progress StudentProgress
}

func (p pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.courseID, p.progress})
}

func (p *pair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return errors.Errorf("expected a [courseId, progress] pair, got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.courseID); err != nil {
		return errors.Wrap(err, "decoding courseId")
	}
	if err := json.Unmarshal(raw[1], &p.progress); err != nil {
		return errors.Wrap(err, "decoding progress")
	}
	return nil
}
