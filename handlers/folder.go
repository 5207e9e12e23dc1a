package handlers

import (
	"net/http"

	"github.com/sayidabyan/s-drive-server/middleware"
	"github.com/sayidabyan/s-drive-server/services"
	"github.com/sayidabyan/s-drive-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateFolderRequest struct {
	FolderName string     `json:"folder_name" binding:"required,max=255"`
	ParentID   *uuid.UUID `json:"parent_id"`
}

func GetFolderChildren(c *gin.Context) {
	user, _ := middleware.Principal(c)
	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid folder id")
		return
	}

	out, err := getServices().Folder.GetChildren(c.Request.Context(), user, folderID)
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, out)
}

func CreateFolder(c *gin.Context) {
	user, _ := middleware.Principal(c)

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	folder, err := getServices().Folder.CreateFolder(c.Request.Context(), user, services.CreateFolderInput{
		FolderName: req.FolderName,
		ParentID:   req.ParentID,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, folder)
}

func DeleteFolder(c *gin.Context) {
	user, _ := middleware.Principal(c)
	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid folder id")
		return
	}

	folder, err := getServices().Folder.DeleteFolder(c.Request.Context(), user, folderID)
	if respondServiceError(c, err) {
		return
	}

	utils.SuccessWithMessage(c, "folder deleted", folder)
}
