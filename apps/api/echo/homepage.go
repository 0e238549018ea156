package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core/homepage"
)

type homepageApi[T homepage.Item] struct {
	resolver *homepage.Resolver[T]
}

// registerHomepageAPI exposes one homepage section at `/homepage-<kind>`.
func registerHomepageAPI[T homepage.Item](g *echo.Group, jwt echo.MiddlewareFunc, resolver *homepage.Resolver[T]) {
	api := homepageApi[T]{resolver: resolver}

	admin := adminMiddleware()

	hg := g.Group("/homepage-" + string(resolver.Kind()))
	hg.GET("", api.resolve)
	hg.GET("/selection", api.active, jwt, admin)
	hg.POST("", api.save, jwt, admin)
	hg.PUT("", api.save, jwt, admin)
	hg.DELETE("", api.reset, jwt, admin)
}

// Handlers

func (api *homepageApi[T]) resolve(ctx echo.Context) error {
	res, err := api.resolver.Resolve(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "resolving homepage section")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *homepageApi[T]) active(ctx echo.Context) error {
	sel, err := api.resolver.Active(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting active selection")
	}
	return ctx.JSON(http.StatusOK, sel)
}

func (api *homepageApi[T]) save(ctx echo.Context) error {
	var data homepage.SaveSelection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveSelection")
	}

	sel, err := api.resolver.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving selection")
	}
	code := http.StatusOK
	if ctx.Request().Method == http.MethodPost {
		code = http.StatusCreated
	}
	return ctx.JSON(code, sel)
}

func (api *homepageApi[T]) reset(ctx echo.Context) error {
	if err := api.resolver.Reset(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "resetting selection")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Homepage section reset to the latest items."})
}
