package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/category"
	"github.com/trezcool/elimu/core/course"
)

type courseApi struct {
	courses    *course.Store
	categories *category.Registry
	validate   *validator.Validate
	translator ut.Translator
}

// QuizAttemptRequest holds one option index per quiz of the course, in order.
type QuizAttemptRequest struct {
	Answers []int `json:"answers"`
}

// registerCourseAPI mounts the course endpoints and returns the course detail group.
func registerCourseAPI(g *echo.Group, deps *Deps) *echo.Group {
	api := courseApi{
		courses:    deps.Courses,
		categories: deps.Categories,
		validate:   deps.Validate,
		translator: deps.Translator,
	}

	cg := g.Group("/courses")
	cg.GET("", api.query)
	cg.POST("", api.create)

	// detail endpoints
	dg := cg.Group("/:id", courseMiddleware(api.courses))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)

	dg.POST("/lessons", api.createLesson)
	dg.PUT("/lessons/:lessonId", api.updateLesson)
	dg.DELETE("/lessons/:lessonId", api.destroyLesson)

	dg.POST("/quizzes", api.createQuiz)
	dg.DELETE("/quizzes/:quizId", api.destroyQuiz)
	dg.POST("/quiz-attempts", api.attemptQuizzes)

	return dg
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.courses.Query(bindQueryFilter(ctx)))
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate, api.categories); err != nil {
		return err
	}

	c, err := api.courses.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}

	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err = data.Validate(api.validate, api.categories); err != nil {
		return err
	}

	c, err = api.courses.Update(ctx.Request().Context(), c.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	if err = api.courses.Delete(ctx.Request().Context(), c.ID); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) createLesson(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}

	var data course.NewLesson
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	if data.Order == 0 { // append
		data.Order = len(c.Lessons) + 1
	}

	lsn, err := api.courses.AddLesson(ctx.Request().Context(), c.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding lesson")
	}
	return ctx.JSON(http.StatusCreated, lsn)
}

func (api *courseApi) updateLesson(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	lessonID, err := intParam(ctx, "lessonId")
	if err != nil {
		return err
	}

	var data course.UpdateLesson
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	lsn, err := api.courses.UpdateLesson(ctx.Request().Context(), c.ID, lessonID, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api *courseApi) destroyLesson(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	lessonID, err := intParam(ctx, "lessonId")
	if err != nil {
		return err
	}
	if err = api.courses.DeleteLesson(ctx.Request().Context(), c.ID, lessonID); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) createQuiz(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}

	var data course.NewQuiz
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuiz")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	quiz, err := api.courses.AddQuiz(ctx.Request().Context(), c.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding quiz")
	}
	return ctx.JSON(http.StatusCreated, quiz)
}

func (api *courseApi) destroyQuiz(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	quizID, err := intParam(ctx, "quizId")
	if err != nil {
		return err
	}
	if err = api.courses.DeleteQuiz(ctx.Request().Context(), c.ID, quizID); err != nil {
		return errors.Wrap(err, "deleting quiz")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) attemptQuizzes(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}

	var data QuizAttemptRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizAttemptRequest")
	}

	res, err := course.Score(c.Quizzes, data.Answers)
	if err != nil {
		if cause := errors.Cause(err); cause == course.ErrIncomplete || cause == course.ErrInvalidOption {
			return core.NewValidationError(nil, core.FieldError{Field: "answers", Error: err.Error()})
		}
		return errors.Wrap(err, "scoring quizzes")
	}
	return ctx.JSON(http.StatusOK, res)
}
