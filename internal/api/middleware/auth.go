package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rohit-sabapathi/linkup-chat/internal/auth"
	"github.com/rohit-sabapathi/linkup-chat/internal/models"
)

// UserKey is the gin context key the authenticated user is stored under.
const UserKey = "user"

// RequireAuth validates the Authorization header and attaches the
// resolved user to the request context. Requests without a valid bearer
// token are rejected with 401.
func RequireAuth(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticator.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser fetches the authenticated user set by RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(UserKey).(*models.User)
}
