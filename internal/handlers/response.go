package handlers

import "github.com/gin-gonic/gin"

// apiResponse is the envelope every endpoint returns. Message text is
// user-facing and must stay stable; the client renders it in banners.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondData(c *gin.Context, code int, data any) {
	c.JSON(code, apiResponse{Success: true, Data: data})
}

func respondMessage(c *gin.Context, code int, message string, data any) {
	c.JSON(code, apiResponse{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, apiResponse{Success: false, Message: message})
}

func abortError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, apiResponse{Success: false, Message: message})
}
