package middleware

import "github.com/gin-gonic/gin"

// contextKey is a private key type for values stored in request contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
)

// GetUserIDFromContext retrieves the authenticated staff member's ID from the
// Gin context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(userIDKey)
		if ctxVal != nil {
			userID, ok := ctxVal.(string)
			return userID, ok
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}
