package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core/academic"
)

type academicApi struct {
	svc *academic.Service
}

// registerAcademicAPI exposes the academic records. Creating one notifies the newsletter subscribers
// in the background: the response never waits for the emails.
func registerAcademicAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *academic.Service) {
	api := academicApi{svc: svc}
	admin := adminMiddleware()

	g.GET("/exam-results", api.queryExamResults)
	g.POST("/exam-results", api.createExamResult, jwt, admin)

	g.GET("/scholarships", api.queryScholarships)
	g.POST("/scholarships", api.createScholarship, jwt, admin)

	g.GET("/absences", api.queryAbsences, jwt, admin)
	g.POST("/absences", api.createAbsence, jwt, admin)
}

// Handlers

func (api *academicApi) queryExamResults(ctx echo.Context) error {
	var filter academic.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	results, err := api.svc.QueryExamResults(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying exam results")
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *academicApi) createExamResult(ctx echo.Context) error {
	var data academic.NewExamResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExamResult")
	}

	res, err := api.svc.CreateExamResult(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating exam result")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *academicApi) queryScholarships(ctx echo.Context) error {
	var filter academic.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	list, err := api.svc.QueryScholarships(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying scholarships")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *academicApi) createScholarship(ctx echo.Context) error {
	var data academic.NewScholarship
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScholarship")
	}

	sch, err := api.svc.CreateScholarship(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating scholarship")
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *academicApi) queryAbsences(ctx echo.Context) error {
	var filter academic.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	list, err := api.svc.QueryAbsences(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying absences")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *academicApi) createAbsence(ctx echo.Context) error {
	var data academic.NewAbsence
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAbsence")
	}

	abs, err := api.svc.CreateAbsence(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating absence")
	}
	return ctx.JSON(http.StatusCreated, abs)
}
