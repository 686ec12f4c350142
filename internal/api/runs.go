package api

import (
	"errors"
	"net/http"

	"github.com/drive2go/drive2go/internal/motion"
	"github.com/drive2go/drive2go/internal/persistence"
	"github.com/labstack/echo/v4"
)

type runView struct {
	Run     persistence.Run `json:"run"`
	Results []motion.Result `json:"results"`
}

func (h *handlers) registerRunEndpoints(rest *echo.Echo) {
	group := rest.Group("/run")

	group.GET("/", h.getRuns)
	group.GET("/:"+urlParamId+"/", h.getRun)
}

func (h *handlers) getRuns(c echo.Context) error {
	if h.deps.Persistence == nil {
		return returnUnavailable(c, "persistence")
	}
	runs, err := h.deps.Persistence.ListRuns()
	if err != nil {
		return returnError(c, err)
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	return c.JSONPretty(http.StatusOK, runs, indentationChar)
}

func (h *handlers) getRun(c echo.Context) error {
	if h.deps.Persistence == nil {
		return returnUnavailable(c, "persistence")
	}
	id := c.Param(urlParamId)

	run, err := h.deps.Persistence.LoadRun(id)
	if errors.Is(err, persistence.ErrNotFound) {
		return returnNotFound(c, id)
	} else if err != nil {
		return returnError(c, err)
	}

	results, err := h.deps.Persistence.LoadResults(id)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return returnError(c, err)
	}
	if results == nil {
		results = []motion.Result{}
	}
	return c.JSONPretty(http.StatusOK, runView{Run: run, Results: results}, indentationChar)
}
