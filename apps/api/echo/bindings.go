package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/madrasa/core"
)

const orderingParam = "ordering"

// bindOrderings parses `?ordering=-published_at,created_at` into DBOrderings, a leading "-" meaning descending.
func bindOrderings(ctx echo.Context) []core.DBOrdering {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return nil
	}

	var orderings []core.DBOrdering
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		orderings = append(orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
	return orderings
}
