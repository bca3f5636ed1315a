package course

import (
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

// NoAnswer marks a question that has not been answered yet.
const NoAnswer = -1

var (
	ErrIncomplete    = errors.New("every question must be answered")
	ErrInvalidOption = errors.New("invalid option")
)

type Result struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Score   int `json:"score"` // rounded percentage
}

// Score grades answers (one option index per quiz, in order).
// Unanswered questions yield ErrIncomplete, indexes outside the options ErrInvalidOption.
func Score(quizzes []Quiz, answers []int) (Result, error) {
	if len(answers) != len(quizzes) {
		return Result{}, ErrIncomplete
	}
	res := Result{Total: len(quizzes)}
	for i, q := range quizzes {
		if answers[i] == NoAnswer {
			return Result{}, ErrIncomplete
		}
		if answers[i] < 0 || answers[i] >= len(q.Options) {
			return Result{}, ErrInvalidOption
		}
		if answers[i] == q.CorrectAnswer {
			res.Correct++
		}
	}
	res.Score = core.Percent(res.Correct, res.Total)
	return res, nil
}

// Attempt walks through the quizzes of a course, one question at a time.
type Attempt struct {
	quizzes []Quiz
	answers []int
	index   int
	result  *Result
}

func NewAttempt(quizzes []Quiz) *Attempt {
	a := &Attempt{quizzes: make([]Quiz, len(quizzes))}
	for i, q := range quizzes {
		a.quizzes[i] = q.clone()
	}
	a.Restart()
	return a
}

// Restart clears every answer and the result, and goes back to the first question.
func (a *Attempt) Restart() {
	a.answers = make([]int, len(a.quizzes))
	for i := range a.answers {
		a.answers[i] = NoAnswer
	}
	a.index = 0
	a.result = nil
}

func (a *Attempt) Len() int   { return len(a.quizzes) }
func (a *Attempt) Index() int { return a.index }

// Current returns the question at the current index, false when there are no questions.
func (a *Attempt) Current() (Quiz, bool) {
	if len(a.quizzes) == 0 {
		return Quiz{}, false
	}
	return a.quizzes[a.index], true
}

// Answer returns the option selected for question i, NoAnswer if none.
func (a *Attempt) Answer(i int) int {
	if i < 0 || i >= len(a.answers) {
		return NoAnswer
	}
	return a.answers[i]
}

// Select answers the current question.
func (a *Attempt) Select(option int) error {
	q, ok := a.Current()
	if !ok || option < 0 || option >= len(q.Options) {
		return ErrInvalidOption
	}
	a.answers[a.index] = option
	return nil
}

// Next moves to the next question; false on the last one.
func (a *Attempt) Next() bool {
	if a.index >= len(a.quizzes)-1 {
		return false
	}
	a.index++
	return true
}

// Previous moves to the previous question; false on the first one.
func (a *Attempt) Previous() bool {
	if a.index <= 0 {
		return false
	}
	a.index--
	return true
}

func (a *Attempt) Answered() int {
	var n int
	for _, ans := range a.answers {
		if ans != NoAnswer {
			n++
		}
	}
	return n
}

func (a *Attempt) CanSubmit() bool {
	return a.Answered() == len(a.answers)
}

func (a *Attempt) Submit() (Result, error) {
	res, err := Score(a.quizzes, a.answers)
	if err != nil {
		return Result{}, err
	}
	a.result = &res
	return res, nil
}

// Result returns the result of the last submission.
func (a *Attempt) Result() (Result, bool) {
	if a.result == nil {
		return Result{}, false
	}
	return *a.result, true
}
