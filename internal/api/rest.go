package api

import (
	"net/http"

	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/persistence"
	"github.com/drive2go/drive2go/internal/telemetry"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamId      = "id"
	indentationChar = "  "
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// Dependencies are the data sources of the REST service. Nil fields disable
// the endpoints that need them.
type Dependencies struct {
	Routines    []configuration.RoutineConfig
	Persistence persistence.Persistence
	Recorder    *telemetry.Recorder
	Monitor     *telemetry.HeadingMonitor
	// Registerer for request metrics, nil disables them
	Registerer prometheus.Registerer
}

type handlers struct {
	deps Dependencies
}

func CreateRestService(deps Dependencies) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())

	if deps.Registerer != nil {
		echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "drive2go",
			Subsystem:  "api",
			Registerer: deps.Registerer,
		}))
	}

	h := &handlers{deps: deps}

	echoRest.GET("/alive/", isAlive)

	h.registerActuatorEndpoints(echoRest)
	h.registerSensorEndpoints(echoRest)
	h.registerRoutineEndpoints(echoRest)
	h.registerRunEndpoints(echoRest)
	h.registerTelemetryEndpoints(echoRest)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}

func returnUnavailable(c echo.Context, what string) error {
	return c.JSONPretty(http.StatusServiceUnavailable, &Result{
		Name:    "Unavailable",
		Message: what + " is not enabled",
	}, indentationChar)
}
