package course

import (
	"fmt"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/elimu/core"
)

var (
	levelTag  = "level"
	levelText = "must be one of: " + joinLevels()

	durationTag   = "duration"
	durationText  = "invalid format (e.g. 4h, 30min)"
	durationRegex = regexp.MustCompile(`^\d+(h|min)?$`)

	optionIndexTag  = "optionindex"
	optionIndexText = "must be the index of one of the options"

	unknownCategoryText = "unknown category"
)

// CategoryLookup is what course validation needs from the category registry.
type CategoryLookup interface {
	Exists(name string) bool
	Suggest(name string) string
}

// InitValidators registers the course validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(levelTag, levelValidation)
	core.RegisterCustomTranslation(validate, translator, levelTag, levelText)

	_ = validate.RegisterValidation(durationTag, durationValidation)
	core.RegisterCustomTranslation(validate, translator, durationTag, durationText)

	validate.RegisterStructValidation(quizStructValidation, NewQuiz{})
	core.RegisterCustomTranslation(validate, translator, optionIndexTag, optionIndexText)
}

func joinLevels() string {
	lvls := make([]string, len(Levels))
	for i, lvl := range Levels {
		lvls[i] = string(lvl)
	}
	return strings.Join(lvls, ", ")
}

// Custom Validators

func levelValidation(fl validator.FieldLevel) bool {
	return Level(fl.Field().String()).IsValid()
}

func durationValidation(fl validator.FieldLevel) bool {
	return durationRegex.MatchString(fl.Field().String())
}

// quizStructValidation checks that the correct answer points at an existing option.
func quizStructValidation(sl validator.StructLevel) {
	if nq, ok := sl.Current().Interface().(NewQuiz); ok {
		if nq.CorrectAnswer >= len(nq.Options) {
			sl.ReportError(nq.CorrectAnswer, "correctAnswer", "CorrectAnswer", optionIndexTag, "")
		}
	}
}

// checkCategory checks that category exists at creation (or update) time.
func checkCategory(category string, categories CategoryLookup) error {
	if categories.Exists(category) {
		return nil
	}
	msg := unknownCategoryText
	if suggestion := categories.Suggest(category); suggestion != "" {
		msg = fmt.Sprintf("%s; did you mean %q?", msg, suggestion)
	}
	return core.NewValidationError(nil, core.FieldError{Field: "category", Error: msg})
}

func (nc *NewCourse) Validate(validate *validator.Validate, categories CategoryLookup) error {
	nc.Clean()
	if err := validate.Struct(nc); err != nil {
		return err
	}
	return checkCategory(nc.Category, categories)
}

func (uc *UpdateCourse) Validate(validate *validator.Validate, categories CategoryLookup) error {
	uc.Clean()
	if err := validate.Struct(uc); err != nil {
		return err
	}
	if uc.Category.Valid {
		return checkCategory(uc.Category.String, categories)
	}
	return nil
}

func (nl *NewLesson) Validate(validate *validator.Validate) error {
	nl.Clean()
	return validate.Struct(nl)
}

func (ul *UpdateLesson) Validate(validate *validator.Validate) error {
	ul.Clean()
	return validate.Struct(ul)
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Clean()
	return validate.Struct(nq)
}
