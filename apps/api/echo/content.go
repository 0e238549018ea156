package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core/content"
)

type contentApi struct {
	svc *content.Service
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *content.Service) {
	api := contentApi{svc: svc}
	admin := adminMiddleware()

	ng := g.Group("/news")
	ng.GET("", api.queryNews)
	ng.GET("/:id", api.retrieveNews)
	ng.POST("", api.createNews, jwt, admin)
	ng.PUT("/:id", api.updateNews, jwt, admin)
	ng.DELETE("/:id", api.destroyNews, jwt, admin)

	gg := g.Group("/gallery")
	gg.GET("", api.queryGallery)
	gg.GET("/:id", api.retrieveGalleryImage)
	gg.POST("", api.createGalleryImage, jwt, admin)
	gg.PUT("/:id", api.updateGalleryImage, jwt, admin)
	gg.DELETE("/:id", api.destroyGalleryImage, jwt, admin)
}

// News handlers

func (api *contentApi) queryNews(ctx echo.Context) error {
	var filter content.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Orderings = bindOrderings(ctx)

	news, err := api.svc.QueryNews(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying news")
	}
	return ctx.JSON(http.StatusOK, news)
}

func (api *contentApi) retrieveNews(ctx echo.Context) error {
	news, err := api.svc.GetNews(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting news")
	}
	return ctx.JSON(http.StatusOK, news)
}

func (api *contentApi) createNews(ctx echo.Context) error {
	var data content.NewNews
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNews")
	}

	news, err := api.svc.CreateNews(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating news")
	}
	return ctx.JSON(http.StatusCreated, news)
}

func (api *contentApi) updateNews(ctx echo.Context) error {
	var data content.UpdateNews
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateNews")
	}

	news, err := api.svc.UpdateNews(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating news")
	}
	return ctx.JSON(http.StatusOK, news)
}

func (api *contentApi) destroyNews(ctx echo.Context) error {
	if err := api.svc.DeleteNews(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting news")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Gallery handlers

func (api *contentApi) queryGallery(ctx echo.Context) error {
	var filter content.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Orderings = bindOrderings(ctx)

	images, err := api.svc.QueryGalleryImages(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying gallery images")
	}
	return ctx.JSON(http.StatusOK, images)
}

func (api *contentApi) retrieveGalleryImage(ctx echo.Context) error {
	img, err := api.svc.GetGalleryImage(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting gallery image")
	}
	return ctx.JSON(http.StatusOK, img)
}

func (api *contentApi) createGalleryImage(ctx echo.Context) error {
	var data content.NewGalleryImage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGalleryImage")
	}

	img, err := api.svc.CreateGalleryImage(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating gallery image")
	}
	return ctx.JSON(http.StatusCreated, img)
}

func (api *contentApi) updateGalleryImage(ctx echo.Context) error {
	var data content.UpdateGalleryImage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGalleryImage")
	}

	img, err := api.svc.UpdateGalleryImage(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating gallery image")
	}
	return ctx.JSON(http.StatusOK, img)
}

func (api *contentApi) destroyGalleryImage(ctx echo.Context) error {
	if err := api.svc.DeleteGalleryImages(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting gallery image")
	}
	return ctx.NoContent(http.StatusNoContent)
}
