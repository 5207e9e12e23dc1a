package handlers

import (
	"net/http"

	"github.com/sayidabyan/s-drive-server/services"
	"github.com/sayidabyan/s-drive-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
	Password string `json:"password" binding:"required,min=1"`
	IsAdmin  bool   `json:"is_admin"`
}

func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := getServices().User.CreateUser(c.Request.Context(), services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, user)
}

func DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := getServices().User.DeleteUser(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}

	utils.SuccessWithMessage(c, "user deleted", user)
}

func ListUsers(c *gin.Context) {
	users, err := getServices().User.ListUsers(c.Request.Context())
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, users)
}
