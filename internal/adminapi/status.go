package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brickstore/brickstore/internal/metrics"
	"github.com/brickstore/brickstore/internal/report"
	"github.com/brickstore/brickstore/internal/webserver"
)

func registerStatusRoutes() {
	webserver.ApiGET("/status", getStatus)
	webserver.ApiGET("/status/history", getStatusHistory)
}

func getStatus(c echo.Context) error {
	sets, err := GetApp(c).Cache().List(c.Request().Context())
	if err != nil {
		return failCollection(c, err)
	}
	st, err := report.Summarize(sets)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to summarize collection", err.Error())
	}
	return ok(c, map[string]interface{}{
		"system":     GetApp(c).SystemStatus(),
		"collection": st,
	})
}

// getStatusHistory returns the recorded gauges, ?window=24h by default.
func getStatusHistory(c echo.Context) error {
	window := 24 * time.Hour
	if w := c.QueryParam("window"); w != "" {
		d, err := time.ParseDuration(w)
		if err != nil || d <= 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid window", w)
		}
		window = d
	}

	history := make(map[string][]metrics.Point)
	for _, name := range []string{
		metrics.CollectionSets, metrics.CollectionPieces, metrics.CollectionValue,
		metrics.ProcessMemUse, metrics.ProcessCPUUse,
	} {
		points, err := metrics.Query(name, window)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to query metrics", err.Error())
		}
		history[name] = points
	}
	return ok(c, history)
}
