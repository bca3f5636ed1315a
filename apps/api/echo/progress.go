package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/progress"
)

type progressApi struct {
	ledger *progress.Ledger
}

// registerProgressAPI mounts the ledger endpoints; courseGroup is the course detail group.
func registerProgressAPI(g, courseGroup *echo.Group, deps *Deps) {
	api := progressApi{ledger: deps.Ledger}

	pg := g.Group("/progress")
	pg.GET("", api.query)
	pg.DELETE("", api.destroyAll)
	pg.GET("/stats", api.stats)
	pg.GET("/dashboard", api.dashboard)

	courseGroup.GET("/progress", api.retrieve)
	courseGroup.POST("/progress/reset", api.reset)
	courseGroup.POST("/enrollment", api.enroll)
	courseGroup.DELETE("/enrollment", api.unenroll)
	courseGroup.POST("/lessons/:lessonId/toggle", api.toggleLesson)
}

// Handlers

func (api *progressApi) query(ctx echo.Context) error {
	recs := api.ledger.AllEnrolled()
	sort.Slice(recs, func(i, j int) bool { return recs[i].CourseID < recs[j].CourseID })
	return ctx.JSON(http.StatusOK, recs)
}

func (api *progressApi) destroyAll(ctx echo.Context) error {
	if err := api.ledger.ResetAll(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "resetting all progress")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *progressApi) stats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.ledger.Stats())
}

func (api *progressApi) dashboard(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.ledger.Dashboard())
}

func (api *progressApi) retrieve(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	rec, ok := api.ledger.Get(c.ID)
	if !ok {
		return progress.ErrNotEnrolled
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *progressApi) reset(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	rec, err := api.ledger.Reset(ctx.Request().Context(), c.ID)
	if err != nil {
		return errors.Wrap(err, "resetting progress")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *progressApi) enroll(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	rec, err := api.ledger.Enroll(ctx.Request().Context(), c.ID)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *progressApi) unenroll(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	if !api.ledger.IsEnrolled(c.ID) {
		return progress.ErrNotEnrolled
	}
	if err = api.ledger.Unenroll(ctx.Request().Context(), c.ID); err != nil {
		return errors.Wrap(err, "unenrolling")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *progressApi) toggleLesson(ctx echo.Context) error {
	c, err := getContextCourse(ctx)
	if err != nil {
		return err
	}
	lessonID, err := intParam(ctx, "lessonId")
	if err != nil {
		return err
	}
	if !c.HasLesson(lessonID) {
		return course.ErrLessonNotFound
	}

	rec, err := api.ledger.ToggleLesson(ctx.Request().Context(), c.ID, lessonID)
	if err != nil {
		return errors.Wrap(err, "toggling lesson")
	}
	return ctx.JSON(http.StatusOK, rec)
}
