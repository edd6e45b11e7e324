package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONOutcome reports a mutating operation together with the state reloaded
// after it, so the caller can redraw whether or not the operation succeeded.
func JSONOutcome(c *gin.Context, code int, message string, data interface{}) {
	body := gin.H{"success": code < 400, "data": data}
	if code < 400 {
		body["message"] = message
	} else {
		body["error"] = message
	}
	c.JSON(code, body)
}
