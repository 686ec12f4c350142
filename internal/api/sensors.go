package api

import (
	"net/http"

	"github.com/drive2go/drive2go/internal/sensors"
	"github.com/drive2go/drive2go/internal/util"
	"github.com/labstack/echo/v4"
)

type sensorView struct {
	Id      string   `json:"id"`
	Heading *float64 `json:"heading,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func newSensorView(sensor sensors.HeadingSensor) sensorView {
	view := sensorView{Id: sensor.GetId()}
	heading, err := sensor.GetHeading()
	if err != nil {
		view.Error = err.Error()
	} else {
		view.Heading = &heading
	}
	return view
}

func (h *handlers) registerSensorEndpoints(rest *echo.Echo) {
	group := rest.Group("/sensor")

	group.GET("/", h.getSensors)
	group.GET("/:"+urlParamId+"/", h.getSensor)
}

func (h *handlers) getSensors(c echo.Context) error {
	items := sensors.SensorMap.Items()
	data := []sensorView{}
	for _, id := range util.SortedKeys(items) {
		data = append(data, newSensorView(items[id]))
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (h *handlers) getSensor(c echo.Context) error {
	id := c.Param(urlParamId)

	sensor, exists := sensors.SensorMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, newSensorView(sensor), indentationChar)
}
