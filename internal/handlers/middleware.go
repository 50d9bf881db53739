package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gin context keys set by middleware.
const (
	ctxUserIDKey    = "userId"
	ctxUsernameKey  = "username"
	ctxRequestIDKey = "requestId"
)

const requestIDHeader = "X-Request-Id"

const bearerPrefix = "Bearer "

// requestID tags every request with an identifier for log correlation,
// honoring one supplied by the client.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(ctxRequestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

// extractBearerToken pulls the token out of an Authorization header value.
// Returns "" when there is no usable bearer token.
func extractBearerToken(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// authenticate guards protected routes: it resolves the bearer token to a
// caller identity and stores it in the request context.
func (h *Handler) authenticate(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" {
		abortError(c, http.StatusUnauthorized, errNoToken)
		return
	}

	ident, err := h.services.ParseToken(token)
	if err != nil {
		abortError(c, http.StatusUnauthorized, errInvalidToken)
		return
	}

	c.Set(ctxUserIDKey, ident.UserID)
	c.Set(ctxUsernameKey, ident.Username)
	c.Next()
}

// callerID returns the authenticated user's id set by authenticate.
func callerID(c *gin.Context) int {
	return c.GetInt(ctxUserIDKey)
}
