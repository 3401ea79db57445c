// Package middleware holds the gin middleware chain of the REST API.
package middleware

import "github.com/gin-gonic/gin"

// abort writes the error envelope shared with the handlers and stops the chain.
func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   code,
		"message": message,
	})
}
