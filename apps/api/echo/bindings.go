package echoapi

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/course"
)

var errCourseNotFoundInCtx = errors.New("course object not found in echo.Context")

// intParam returns the positive int path param name; anything else is a 404.
func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

func stringParam(ctx echo.Context, name string) string {
	val := ctx.Param(name)
	if unescaped, err := url.PathUnescape(val); err == nil {
		return unescaped
	}
	return val
}

func bindQueryFilter(ctx echo.Context) course.QueryFilter {
	var filter course.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return course.QueryFilter{}
	}
	filter.Clean()
	return filter
}

func getContextCourse(ctx echo.Context) (course.Course, error) {
	c, ok := ctx.Get("object").(course.Course)
	if !ok {
		return course.Course{}, errors.Wrap(errCourseNotFoundInCtx, "retrieving object from context")
	}
	return c, nil
}
