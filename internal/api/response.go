// Package api defines the JSON response envelope shared by all handlers.
// Successful bodies are {"success": true, ...}; failures are
// {"success": false, "message": ..., "error": ...} where the error detail is
// only included while debugging (gin debug mode) so internals stay hidden in
// production.
package api

import "github.com/gin-gonic/gin"

// OK writes a success envelope merged with the given payload.
func OK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail writes a failure envelope with a client-safe message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// FailErr is Fail with an underlying error attached in debug mode.
func FailErr(c *gin.Context, status int, message string, err error) {
	body := gin.H{"success": false, "message": message}
	if err != nil && gin.IsDebugging() {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

// Abort writes a failure envelope and stops the handler chain. Used by
// middleware so no downstream handler runs after a rejected request.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}
