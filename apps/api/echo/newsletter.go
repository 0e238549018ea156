package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core/newsletter"
)

type newsletterApi struct {
	svc        *newsletter.Service
	dispatcher *newsletter.Dispatcher
}

func registerNewsletterAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *newsletter.Service, dispatcher *newsletter.Dispatcher) {
	api := newsletterApi{svc: svc, dispatcher: dispatcher}

	admin := adminMiddleware()
	ng := g.Group("/newsletter")

	// un-authed endpoints
	ng.POST("/subscribe", api.subscribe)
	ng.POST("/unsubscribe", api.unsubscribe)

	// admin endpoints
	ng.POST("/notify", api.notify, jwt, admin)
	ng.GET("/subscribers", api.query, jwt, admin)
	ng.DELETE("/subscribers/:id", api.destroy, jwt, admin)
}

// Handlers

func (api *newsletterApi) subscribe(ctx echo.Context) error {
	var data newsletter.SubscriptionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubscriptionRequest")
	}

	sub, err := api.svc.Subscribe(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "subscribing")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *newsletterApi) unsubscribe(ctx echo.Context) error {
	var data newsletter.SubscriptionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubscriptionRequest")
	}

	if err := api.svc.Unsubscribe(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "unsubscribing")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "You have been unsubscribed from the newsletter."})
}

// notify sends a notification to every active subscriber and waits for the deliveries.
func (api *newsletterApi) notify(ctx echo.Context) error {
	var data newsletter.NotificationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NotificationRequest")
	}

	res, err := api.dispatcher.Dispatch(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "dispatching notification")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *newsletterApi) query(ctx echo.Context) error {
	var filter newsletter.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	subs, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying subscribers")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *newsletterApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting subscriber")
	}
	return ctx.NoContent(http.StatusNoContent)
}
