package handlers

import (
	"net/http"

	"github.com/sayidabyan/s-drive-server/middleware"
	"github.com/sayidabyan/s-drive-server/services"
	"github.com/sayidabyan/s-drive-server/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func UploadFile(c *gin.Context) {
	user, _ := middleware.Principal(c)

	folderID, err := uuid.Parse(c.PostForm("folder_id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid folder id")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "file is required")
		return
	}

	src, err := header.Open()
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer src.Close()

	file, err := getServices().File.Upload(c.Request.Context(), user, services.UploadFileInput{
		FolderID: folderID,
		Filename: header.Filename,
		Content:  src,
	})
	if respondServiceError(c, err) {
		return
	}

	utils.Success(c, file)
}

func DownloadFile(c *gin.Context) {
	user, _ := middleware.Principal(c)
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid file id")
		return
	}

	out, err := getServices().File.GetDownloadInfo(c.Request.Context(), user, fileID)
	if respondServiceError(c, err) {
		return
	}

	c.Header("Content-Type", out.ContentType)
	c.FileAttachment(out.AbsPath, out.File.Filename)
}

func DeleteFile(c *gin.Context) {
	user, _ := middleware.Principal(c)
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid file id")
		return
	}

	file, err := getServices().File.DeleteFile(c.Request.Context(), user, fileID)
	if respondServiceError(c, err) {
		return
	}

	utils.SuccessWithMessage(c, "file deleted", file)
}
