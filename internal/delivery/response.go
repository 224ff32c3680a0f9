package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// mapErrorToStatus translates domain-phrased errors into HTTP statuses.
// Payment failures map distinctly so the client can retry payment
// without treating it as a validation problem.
func mapErrorToStatus(err error) int {
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "payment declined") {
		return http.StatusPaymentRequired
	}
	if strings.Contains(errMsg, "payment service") || strings.Contains(errMsg, "payment authorization failed") || strings.Contains(errMsg, "payment client token") {
		return http.StatusBadGateway
	}
	if strings.Contains(errMsg, "invalid email or") {
		return http.StatusUnauthorized
	}
	if strings.Contains(errMsg, "not found") || strings.Contains(errMsg, "no photo") {
		return http.StatusNotFound
	}
	if strings.Contains(errMsg, "already exists") || strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint") {
		return http.StatusConflict
	}
	if strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "cannot be empty") || strings.Contains(errMsg, "cannot be negative") ||
		strings.Contains(errMsg, "must be") || strings.Contains(errMsg, "is required") || strings.Contains(errMsg, "constraint violation") ||
		strings.Contains(errMsg, "less than 1mb") {
		return http.StatusBadRequest
	}
	if strings.Contains(errMsg, "does not exist") {
		// Bad reference supplied by the caller (e.g. category id).
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
