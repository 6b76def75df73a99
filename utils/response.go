package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondOK writes a success envelope {ok:true, data}
func RespondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"ok":   true,
		"data": data,
	})
}

// RespondError writes a failure envelope {ok:false, code, message}
func RespondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"ok":      false,
		"code":    code,
		"message": message,
	})
}

// RespondValidationError adds binding details to a 400 envelope
func RespondValidationError(c *gin.Context, message string, err error) {
	body := gin.H{
		"ok":      false,
		"code":    "VALIDATION_ERROR",
		"message": message,
	}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

// AbortWithError writes a failure envelope and stops the handler chain
func AbortWithError(c *gin.Context, status int, code, message string) {
	RespondError(c, status, code, message)
	c.Abort()
}
