package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sayidabyan/s-drive-server/models"
	"github.com/sayidabyan/s-drive-server/services"
	"github.com/sayidabyan/s-drive-server/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Auth resolves the bearer token to a live user and attaches it as the
// request principal. Tokens of deleted users fail here because the lookup
// goes back to the store on every request.
func Auth(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, http.StatusUnauthorized, "missing authentication token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(c, http.StatusUnauthorized, "malformed authentication token")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			utils.Error(c, http.StatusUnauthorized, "could not validate credentials")
			c.Abort()
			return
		}

		user, err := auth.GetCurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			// a store failure is not a credential failure; keep its code
			var appErr *services.AppError
			if errors.As(err, &appErr) {
				utils.Error(c, appErr.HTTPCode, appErr.Message)
			} else {
				utils.Error(c, http.StatusUnauthorized, "could not validate credentials")
			}
			c.Abort()
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// AdminOnly rejects principals without the admin flag.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Principal(c)
		if !ok || !user.IsAdmin {
			utils.Error(c, http.StatusForbidden, "action not authorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func Principal(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
