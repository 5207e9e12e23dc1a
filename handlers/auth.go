package handlers

import (
	"net/http"

	"github.com/sayidabyan/s-drive-server/middleware"
	"github.com/sayidabyan/s-drive-server/services"
	"github.com/sayidabyan/s-drive-server/utils"

	"github.com/gin-gonic/gin"
)

// Login exchanges form credentials for a bearer token.
func Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		utils.Error(c, http.StatusBadRequest, "username and password are required")
		return
	}

	out, err := getServices().Auth.Login(c.Request.Context(), services.LoginInput{
		Username: username,
		Password: password,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func GetCurrentUser(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		utils.Error(c, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	utils.Success(c, user)
}
