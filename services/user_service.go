package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/sayidabyan/s-drive-server/logger"
	"github.com/sayidabyan/s-drive-server/models"
	"github.com/sayidabyan/s-drive-server/repositories"
	"github.com/sayidabyan/s-drive-server/storage"
	"github.com/sayidabyan/s-drive-server/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Username string
	Password string
	IsAdmin  bool
}

type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type userService struct {
	txManager TxManager
	users     repositories.UserRepository
	folders   repositories.FolderRepository
	files     repositories.FileRepository
	mirror    storage.Mirror
}

func NewUserService(
	txManager TxManager,
	users repositories.UserRepository,
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	mirror storage.Mirror,
) UserService {
	return &userService{
		txManager: txManager,
		users:     users,
		folders:   folders,
		files:     files,
		mirror:    mirror,
	}
}

// CreateUser provisions the user row, its root folder (named after the
// user, no parent) and the physical root directory in one transaction. If
// the directory cannot be created the rows are rolled back, so a user is
// never observable without a usable top folder.
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (models.User, error) {
	count, err := s.users.CountByUsername(ctx, nil, in.Username)
	if err != nil {
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to check username", err)
	}
	if count > 0 {
		return models.User{}, newAppError(http.StatusConflict, "username already exists", nil)
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to hash password", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Username: in.Username,
		Password: hashedPassword,
		IsAdmin:  in.IsAdmin,
	}
	rootFolder := models.Folder{
		ID:         uuid.New(),
		FolderName: in.Username,
		OwnerID:    user.ID,
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.users.Create(ctx, tx, &user); err != nil {
			return err
		}
		if err := s.folders.Create(ctx, tx, &rootFolder); err != nil {
			return err
		}
		if err := s.users.SetTopFolder(ctx, tx, user.ID, rootFolder.ID); err != nil {
			return err
		}
		_, err := s.mirror.EnsureFolderLocation(user.ID, rootFolder.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, newAppError(http.StatusConflict, "username already exists", nil)
		}
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to create user", err)
	}

	user.TopFolderID = &rootFolder.ID
	logger.Infof("user created: %s", user.Username)
	return user, nil
}

// DeleteUser removes the user and every folder and file they own in one
// transaction, then purges the physical subtree best effort.
func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, newAppError(http.StatusNotFound, "user doesn't exist", nil)
		}
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.files.DeleteByOwner(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.folders.DeleteByOwner(ctx, tx, userID); err != nil {
			return err
		}
		return s.users.DeleteByID(ctx, tx, userID)
	})
	if err != nil {
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to delete user", err)
	}

	s.mirror.DeleteLocation(s.mirror.UserLocation(userID))
	logger.Infof("user deleted: %s", user.Username)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx, nil)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to list users", err)
	}
	return users, nil
}
