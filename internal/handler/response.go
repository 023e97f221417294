package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, map[string]interface{}{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes the standard error envelope.
func ErrorResponse(c echo.Context, code int, message, errCode, detail string) error {
	errBody := map[string]string{"code": errCode}
	if detail != "" {
		errBody["detail"] = detail
	}

	return c.JSON(code, map[string]interface{}{
		"success": false,
		"message": message,
		"error":   errBody,
	})
}

// currentUserID reads the authenticated user id set by the JWT middleware.
func currentUserID(c echo.Context) int64 {
	id, _ := c.Get("user_id").(int64)
	return id
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
