package handler

import "github.com/labstack/echo/v4"

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// viewer pulls the identity the auth middleware stored on the context.
func viewer(c echo.Context) (uid string, admin bool) {
	uid, _ = c.Get("uid").(string)
	admin, _ = c.Get("admin").(bool)
	return uid, admin
}
