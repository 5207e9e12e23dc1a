package services

import (
	"github.com/sayidabyan/s-drive-server/repositories"
	"github.com/sayidabyan/s-drive-server/storage"
)

type Container struct {
	Auth   AuthService
	User   UserService
	Folder FolderService
	File   FileService
}

func NewContainer(repos repositories.Container, mirror storage.Mirror) *Container {
	return &Container{
		Auth:   NewAuthService(repos.Users, repos.LoginThrottle),
		User:   NewUserService(repos.TxManager, repos.Users, repos.Folders, repos.Files, mirror),
		Folder: NewFolderService(repos.TxManager, repos.Folders, repos.Files, mirror),
		File:   NewFileService(repos.TxManager, repos.Folders, repos.Files, mirror),
	}
}
