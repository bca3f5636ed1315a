package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/elimu/core/course"
)

// courseMiddleware loads the course of the `:id` path param into the context as "object".
func courseMiddleware(courses *course.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := intParam(ctx, "id")
			if err != nil {
				return err
			}
			c, err := courses.Get(id)
			if err != nil {
				return err
			}
			ctx.Set("object", c)
			return next(ctx)
		}
	}
}
