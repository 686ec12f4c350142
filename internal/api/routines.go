package api

import (
	"net/http"

	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"
)

func (h *handlers) registerRoutineEndpoints(rest *echo.Echo) {
	group := rest.Group("/routine")

	group.GET("/", h.getRoutines)
	group.GET("/:"+urlParamId+"/", h.getRoutine)
}

func (h *handlers) getRoutines(c echo.Context) error {
	if len(h.deps.Routines) <= 0 {
		return c.JSONPretty(http.StatusOK, []configuration.RoutineConfig{}, indentationChar)
	}
	data := reprint.This(h.deps.Routines)
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (h *handlers) getRoutine(c echo.Context) error {
	id := c.Param(urlParamId)
	for _, routine := range h.deps.Routines {
		if routine.ID == id {
			return c.JSONPretty(http.StatusOK, reprint.This(routine), indentationChar)
		}
	}
	return returnNotFound(c, id)
}
