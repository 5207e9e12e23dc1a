package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/sayidabyan/s-drive-server/models"
	"github.com/sayidabyan/s-drive-server/repositories"
	"github.com/sayidabyan/s-drive-server/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FolderChildrenOutput struct {
	models.Folder
	ChildFolders []models.Folder `json:"child_folders"`
	Files        []models.File   `json:"files"`
}

type CreateFolderInput struct {
	FolderName string
	// ParentID nil means "under the requester's top folder".
	ParentID *uuid.UUID
}

type FolderService interface {
	GetChildren(ctx context.Context, requester models.User, folderID uuid.UUID) (FolderChildrenOutput, error)
	CreateFolder(ctx context.Context, requester models.User, in CreateFolderInput) (models.Folder, error)
	DeleteFolder(ctx context.Context, requester models.User, folderID uuid.UUID) (models.Folder, error)
}

type folderService struct {
	txManager TxManager
	folders   repositories.FolderRepository
	files     repositories.FileRepository
	mirror    storage.Mirror
}

func NewFolderService(
	txManager TxManager,
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	mirror storage.Mirror,
) FolderService {
	return &folderService{txManager: txManager, folders: folders, files: files, mirror: mirror}
}

// getOwnedFolder fuses the existence and ownership checks: a folder that
// exists but belongs to someone else is reported exactly like one that does
// not exist.
func (s *folderService) getOwnedFolder(ctx context.Context, tx *gorm.DB, requesterID uuid.UUID, folderID uuid.UUID) (models.Folder, error) {
	folder, err := s.folders.GetByIDAndOwner(ctx, tx, folderID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Folder{}, newAppError(http.StatusNotFound, "folder not found", nil)
		}
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to query folder", err)
	}
	return folder, nil
}

func (s *folderService) GetChildren(ctx context.Context, requester models.User, folderID uuid.UUID) (FolderChildrenOutput, error) {
	folder, err := s.getOwnedFolder(ctx, nil, requester.ID, folderID)
	if err != nil {
		return FolderChildrenOutput{}, err
	}

	childFolders, err := s.folders.ListByParent(ctx, nil, requester.ID, folder.ID)
	if err != nil {
		return FolderChildrenOutput{}, newAppError(http.StatusInternalServerError, "failed to list child folders", err)
	}
	files, err := s.files.ListByFolder(ctx, nil, folder.ID)
	if err != nil {
		return FolderChildrenOutput{}, newAppError(http.StatusInternalServerError, "failed to list files", err)
	}

	if childFolders == nil {
		childFolders = []models.Folder{}
	}
	if files == nil {
		files = []models.File{}
	}
	return FolderChildrenOutput{Folder: folder, ChildFolders: childFolders, Files: files}, nil
}

func (s *folderService) CreateFolder(ctx context.Context, requester models.User, in CreateFolderInput) (models.Folder, error) {
	parentID := in.ParentID
	if parentID == nil {
		parentID = requester.TopFolderID
	}
	if parentID == nil {
		return models.Folder{}, newAppError(http.StatusNotFound, "folder not found", nil)
	}

	parent, err := s.getOwnedFolder(ctx, nil, requester.ID, *parentID)
	if err != nil {
		return models.Folder{}, err
	}

	count, err := s.folders.CountByParentAndName(ctx, nil, parent.ID, in.FolderName)
	if err != nil {
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to check folder name", err)
	}
	if count > 0 {
		return models.Folder{}, newAppError(http.StatusConflict, "folder with this name already exists in the parent folder", nil)
	}

	folder := models.Folder{
		ID:         uuid.New(),
		FolderName: in.FolderName,
		OwnerID:    requester.ID,
		ParentID:   &parent.ID,
	}
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		// the parent may have been deleted between the pre-check and this
		// transaction; a child row must never outlive its parent
		if _, err := s.folders.GetByIDAndOwner(ctx, tx, parent.ID, requester.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newAppError(http.StatusNotFound, "folder not found", nil)
			}
			return err
		}
		if err := s.folders.Create(ctx, tx, &folder); err != nil {
			return err
		}
		_, err := s.mirror.EnsureFolderLocation(requester.ID, folder.ID)
		return err
	})
	if err != nil {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return models.Folder{}, appErr
		}
		// the unique index settles concurrent same-name creates
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Folder{}, newAppError(http.StatusConflict, "folder with this name already exists in the parent folder", nil)
		}
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to create folder", err)
	}

	return folder, nil
}

// DeleteFolder removes the folder and every descendant folder and file in a
// single transaction, walking the tree level by level over parent edges.
// Physical cleanup happens after commit and never fails the call.
func (s *folderService) DeleteFolder(ctx context.Context, requester models.User, folderID uuid.UUID) (models.Folder, error) {
	folder, err := s.getOwnedFolder(ctx, nil, requester.ID, folderID)
	if err != nil {
		return models.Folder{}, err
	}
	if folder.ParentID == nil {
		return models.Folder{}, newAppError(http.StatusBadRequest, "root folder cannot be deleted", nil)
	}

	var subtreeIDs []uuid.UUID
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		subtreeIDs = []uuid.UUID{folder.ID}
		frontier := []uuid.UUID{folder.ID}
		for len(frontier) > 0 {
			children, err := s.folders.ListChildIDs(ctx, tx, frontier)
			if err != nil {
				return err
			}
			subtreeIDs = append(subtreeIDs, children...)
			frontier = children
		}

		if err := s.files.DeleteByFolderIDs(ctx, tx, subtreeIDs); err != nil {
			return err
		}
		return s.folders.DeleteByIDs(ctx, tx, subtreeIDs)
	})
	if err != nil {
		return models.Folder{}, newAppError(http.StatusInternalServerError, "failed to delete folder", err)
	}

	for _, id := range subtreeIDs {
		s.mirror.DeleteLocation(s.mirror.FolderLocation(requester.ID, id))
	}
	return folder, nil
}
