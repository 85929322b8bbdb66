package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apiError "github.com/mindboosthq/mindboost-api/errors"
)

// JSON writes the standard response envelope to the context
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	responseData := gin.H{
		"message": message,
		"data":    data,
		"status":  http.StatusText(status),
	}
	if err != nil {
		responseData["errors"] = err.Error()
	}
	c.JSON(status, responseData)
}

// HandleErrors inspects the error type and responds with the right status code
func HandleErrors(c *gin.Context, err error) {
	if apiErr, ok := err.(*apiError.Error); ok {
		JSON(c, "", apiErr.Status, nil, apiErr)
		return
	}
	JSON(c, "", http.StatusInternalServerError, nil, err)
}
