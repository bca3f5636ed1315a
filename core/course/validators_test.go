package course

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/elimu/core"
)

type categoriesStub []string

func (c categoriesStub) Exists(name string) bool {
	for _, n := range c {
		if n == name {
			return true
		}
	}
	return false
}

func (c categoriesStub) Suggest(name string) string {
	return core.ClosestMatch(name, c, .6)
}

func newValidator() (*validator.Validate, func(err error) map[string]string) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	return validate, func(err error) map[string]string {
		switch e := errors.Cause(err).(type) {
		case nil:
			return nil
		case validator.ValidationErrors:
			return core.TranslateErrors(e, translator)
		case *core.ValidationError:
			return e.FieldErrors()
		default:
			return map[string]string{"": err.Error()}
		}
	}
}

func TestNewCourse_Validate(t *testing.T) {
	validate, fieldErrors := newValidator()
	categories := categoriesStub{"Design", "Programmation"}
	valid := func() NewCourse {
		return NewCourse{Title: " Go ", Description: "d", Level: LevelBeginner, Category: "Design", Duration: "90min"}
	}

	tests := []struct {
		name string
		mod  func(nc *NewCourse)
		want map[string]string
	}{
		{name: "valid", mod: func(nc *NewCourse) {}},
		{name: "valid thumbnail", mod: func(nc *NewCourse) { nc.Thumbnail = null.StringFrom("https://example.com/a.png") }},
		{name: "blank thumbnail is unset", mod: func(nc *NewCourse) { nc.Thumbnail = null.StringFrom("  ") }},
		{name: "blank title", mod: func(nc *NewCourse) { nc.Title = "  " }, want: map[string]string{"title": "this field is required"}},
		{name: "invalid level", mod: func(nc *NewCourse) { nc.Level = "Beginner" }, want: map[string]string{"level": "must be one of: Débutant, Intermédiaire, Avancé"}},
		{name: "invalid duration", mod: func(nc *NewCourse) { nc.Duration = "1 h" }, want: map[string]string{"duration": "invalid format (e.g. 4h, 30min)"}},
		{name: "bare number duration", mod: func(nc *NewCourse) { nc.Duration = "4" }},
		{name: "unknown category", mod: func(nc *NewCourse) { nc.Category = "Cuisine" }, want: map[string]string{"category": "unknown category"}},
		{name: "category suggestion", mod: func(nc *NewCourse) { nc.Category = "design" }, want: map[string]string{"category": `unknown category; did you mean "Design"?`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nc := valid()
			tt.mod(&nc)
			assert.Equal(t, tt.want, fieldErrors(nc.Validate(validate, categories)))
		})
	}

	nc := valid()
	nc.Thumbnail = null.StringFrom("  ")
	_ = nc.Validate(validate, categories)
	assert.Equal(t, "Go", nc.Title, "Validate cleans the form")
	assert.False(t, nc.Thumbnail.Valid)
}

func TestUpdateCourse_Validate(t *testing.T) {
	validate, fieldErrors := newValidator()
	categories := categoriesStub{"Design"}

	tests := []struct {
		name string
		uc   UpdateCourse
		want map[string]string
	}{
		{name: "empty", uc: UpdateCourse{}},
		{name: "blank values are ignored", uc: UpdateCourse{Level: null.StringFrom(" "), Duration: null.StringFrom("")}},
		{name: "invalid level", uc: UpdateCourse{Level: null.StringFrom("Expert")}, want: map[string]string{"level": "must be one of: Débutant, Intermédiaire, Avancé"}},
		{name: "invalid duration", uc: UpdateCourse{Duration: null.StringFrom("long")}, want: map[string]string{"duration": "invalid format (e.g. 4h, 30min)"}},
		{name: "invalid thumbnail", uc: UpdateCourse{Thumbnail: null.StringFrom("lol")}, want: map[string]string{"thumbnail": "thumbnail must be a valid URL"}},
		{name: "unknown category", uc: UpdateCourse{Category: null.StringFrom("Cuisine")}, want: map[string]string{"category": "unknown category"}},
		{name: "valid", uc: UpdateCourse{Title: null.StringFrom("T"), Level: null.StringFrom(string(LevelAdvanced)), Category: null.StringFrom("Design")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldErrors(tt.uc.Validate(validate, categories)))
		})
	}
}

func TestNewLesson_Validate(t *testing.T) {
	validate, fieldErrors := newValidator()

	tests := []struct {
		name string
		nl   NewLesson
		want map[string]string
	}{
		{name: "valid", nl: NewLesson{Title: "T", Content: "C"}},
		{name: "empty", nl: NewLesson{}, want: map[string]string{"title": "this field is required", "content": "this field is required"}},
		{name: "negative order", nl: NewLesson{Title: "T", Content: "C", Order: -1}, want: map[string]string{"order": "order must be 0 or greater"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldErrors(tt.nl.Validate(validate)))
		})
	}
}

func TestUpdateLesson_Validate(t *testing.T) {
	validate, fieldErrors := newValidator()

	assert.Nil(t, fieldErrors((&UpdateLesson{}).Validate(validate)))
	assert.Nil(t, fieldErrors((&UpdateLesson{Order: null.IntFrom(3)}).Validate(validate)))
	assert.Equal(t,
		map[string]string{"order": "order must be 1 or greater"},
		fieldErrors((&UpdateLesson{Order: null.IntFrom(-2)}).Validate(validate)),
	)
}

func TestNewQuiz_Validate(t *testing.T) {
	validate, fieldErrors := newValidator()

	tests := []struct {
		name string
		nq   NewQuiz
		want map[string]string
	}{
		{name: "valid", nq: NewQuiz{Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: 1}},
		{name: "no question", nq: NewQuiz{Options: []string{"a", "b"}}, want: map[string]string{"question": "this field is required"}},
		{
			name: "correct answer out of range", nq: NewQuiz{Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: 2},
			want: map[string]string{"correctAnswer": "must be the index of one of the options"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldErrors(tt.nq.Validate(validate)))
		})
	}
}
