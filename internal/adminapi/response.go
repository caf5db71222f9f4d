package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brickstore/brickstore/internal/app"
	"github.com/brickstore/brickstore/internal/webserver"
)

// Response is the success envelope.
type Response struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func created(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusCreated, Response{Data: data, Message: message})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

// GetApp returns the application bound to the request.
func GetApp(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}
