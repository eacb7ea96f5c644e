package response

import "github.com/gin-gonic/gin"

// The API contract pins exact top-level response shapes, so success payloads
// go out as-is instead of wrapped in an envelope.

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"error": message})
}
