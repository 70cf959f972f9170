package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func envelope(c echo.Context, status int, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

// SuccessResponse writes data inside a 200 envelope.
func SuccessResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusOK, data)
}

// CreatedResponse writes data inside a 201 envelope.
func CreatedResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusCreated, data)
}

// ListResponse writes a page of rows with the total count.
func ListResponse(c echo.Context, rows interface{}, total int64) error {
	return envelope(c, http.StatusOK, &ListDataResponse{
		Rows:  rows,
		Total: total,
	})
}

// BadRequestResponse writes validation failures inside a 400 envelope.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusBadRequest, data)
}

// InternalServerErrorResponse writes a generic 500 envelope.
func InternalServerErrorResponse(c echo.Context) error {
	return envelope(c, http.StatusInternalServerError, "Something went wrong")
}

// AppErrorResponse writes an AppError with its own status, or a generic
// 500 for anything else.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return envelope(c, appErr.Status, []*AppError{appErr})
	}
	return InternalServerErrorResponse(c)
}
