package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/category"
)

type categoryApi struct {
	categories *category.Registry
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func registerCategoryAPI(g *echo.Group, deps *Deps) {
	api := categoryApi{categories: deps.Categories}

	cg := g.Group("/categories")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.DELETE("/:name", api.destroy)
}

// Handlers

func (api *categoryApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.categories.List())
}

func (api *categoryApi) create(ctx echo.Context) error {
	var data CategoryRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CategoryRequest")
	}

	name, err := api.categories.Add(ctx.Request().Context(), data.Name)
	if err != nil {
		if cause := errors.Cause(err); cause == category.ErrExists || cause == category.ErrInvalidName {
			return core.NewValidationError(nil, core.FieldError{Field: "name", Error: cause.Error()})
		}
		return errors.Wrap(err, "adding category")
	}
	return ctx.JSON(http.StatusCreated, CategoryRequest{Name: name})
}

func (api *categoryApi) destroy(ctx echo.Context) error {
	if err := api.categories.Delete(ctx.Request().Context(), stringParam(ctx, "name")); err != nil {
		return errors.Wrap(err, "deleting category")
	}
	return ctx.NoContent(http.StatusNoContent)
}
