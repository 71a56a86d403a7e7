package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var now = time.Now

// DataResponse writes a successful envelope with status and data.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

// ErrorResponse writes a failed envelope. details may be nil.
func ErrorResponse(c echo.Context, statusCode int, message string, details interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Success:   false,
		Error:     message,
		Details:   details,
		Timestamp: now(),
	})
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// MessageResponse writes success response with a human readable message.
func MessageResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

// BadRequestResponse writes bad request error.
func BadRequestResponse(c echo.Context, details interface{}) error {
	return ErrorResponse(c, http.StatusBadRequest, "Invalid request", details)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "Something went wrong", nil)
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Status == 0 {
		return InternalServerErrorResponse(c)
	}
	if !appErr.Expose() {
		return ErrorResponse(c, appErr.Status, http.StatusText(appErr.Status), nil)
	}
	return ErrorResponse(c, appErr.Status, appErr.Message, []*AppError{appErr})
}

// ErrorHandler renders errors returned by handlers and echo itself
// (unknown routes, bad methods) as the standard envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if he.Code == http.StatusNotFound {
			msg = "Endpoint not found"
		} else if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		_ = ErrorResponse(c, he.Code, msg, nil)
		return
	}
	_ = AppErrorResponse(c, err)
}
