package api

import (
	"net/http"

	"github.com/drive2go/drive2go/internal/actuators"
	"github.com/drive2go/drive2go/internal/util"
	"github.com/labstack/echo/v4"
)

type actuatorView struct {
	Id       string   `json:"id"`
	Command  float64  `json:"command"`
	Position *float64 `json:"position,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func newActuatorView(actuator actuators.Actuator) actuatorView {
	view := actuatorView{
		Id:      actuator.GetId(),
		Command: actuator.GetLastCommand(),
	}
	position, err := actuator.GetPositionEstimate()
	if err != nil {
		view.Error = err.Error()
	} else {
		view.Position = &position
	}
	return view
}

func (h *handlers) registerActuatorEndpoints(rest *echo.Echo) {
	group := rest.Group("/actuator")

	group.GET("/", h.getActuators)
	group.GET("/:"+urlParamId+"/", h.getActuator)
}

// returns a list of all currently configured actuators
func (h *handlers) getActuators(c echo.Context) error {
	items := actuators.ActuatorMap.Items()
	data := []actuatorView{}
	for _, id := range util.SortedKeys(items) {
		data = append(data, newActuatorView(items[id]))
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (h *handlers) getActuator(c echo.Context) error {
	id := c.Param(urlParamId)
	actuator, exists := actuators.ActuatorMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, newActuatorView(actuator), indentationChar)
}
