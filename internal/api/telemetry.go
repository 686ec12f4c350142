package api

import (
	"net/http"

	"github.com/drive2go/drive2go/internal/telemetry"
	"github.com/labstack/echo/v4"
)

type telemetryView struct {
	Heading *telemetry.HeadingStatistics `json:"heading,omitempty"`
	Motion  *telemetry.Snapshot          `json:"motion,omitempty"`
}

func (h *handlers) registerTelemetryEndpoints(rest *echo.Echo) {
	rest.GET("/telemetry/", h.getTelemetry)
}

func (h *handlers) getTelemetry(c echo.Context) error {
	if h.deps.Monitor == nil && h.deps.Recorder == nil {
		return returnUnavailable(c, "telemetry")
	}
	view := telemetryView{}
	if h.deps.Monitor != nil {
		statistics := h.deps.Monitor.Statistics()
		view.Heading = &statistics
	}
	if h.deps.Recorder != nil {
		snapshot := h.deps.Recorder.Snapshot()
		view.Motion = &snapshot
	}
	return c.JSONPretty(http.StatusOK, view, indentationChar)
}
