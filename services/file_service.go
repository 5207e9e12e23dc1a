package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sayidabyan/s-drive-server/models"
	"github.com/sayidabyan/s-drive-server/repositories"
	"github.com/sayidabyan/s-drive-server/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadFileInput struct {
	FolderID uuid.UUID
	Filename string
	Content  io.Reader
}

type FileAccessOutput struct {
	File        models.File
	AbsPath     string
	ContentType string
}

type FileService interface {
	Upload(ctx context.Context, requester models.User, in UploadFileInput) (models.File, error)
	GetDownloadInfo(ctx context.Context, requester models.User, fileID uuid.UUID) (FileAccessOutput, error)
	DeleteFile(ctx context.Context, requester models.User, fileID uuid.UUID) (models.File, error)
}

type fileService struct {
	txManager TxManager
	folders   repositories.FolderRepository
	files     repositories.FileRepository
	mirror    storage.Mirror
}

func NewFileService(
	txManager TxManager,
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	mirror storage.Mirror,
) FileService {
	return &fileService{txManager: txManager, folders: folders, files: files, mirror: mirror}
}

// sanitizeFilename keeps only the final path segment of a declared name so
// an upload can never escape its folder location.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return "unnamed"
	}
	return name
}

func (s *fileService) getOwnedFile(ctx context.Context, requesterID uuid.UUID, fileID uuid.UUID) (models.File, error) {
	file, err := s.files.GetByIDAndOwner(ctx, nil, fileID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.File{}, newAppError(http.StatusNotFound, "file not found", nil)
		}
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}
	return file, nil
}

// Upload writes the blob and inserts the metadata row in one transaction:
// the row commits only after the blob landed, and a blob failure rolls the
// row back. A name clash is a hard conflict, the existing file keeps its
// content untouched.
func (s *fileService) Upload(ctx context.Context, requester models.User, in UploadFileInput) (models.File, error) {
	folder, err := s.folders.GetByIDAndOwner(ctx, nil, in.FolderID, requester.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.File{}, newAppError(http.StatusNotFound, "folder not found", nil)
		}
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to query folder", err)
	}

	filename := sanitizeFilename(in.Filename)

	count, err := s.files.CountByFolderAndName(ctx, nil, folder.ID, filename)
	if err != nil {
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to check filename", err)
	}
	if count > 0 {
		return models.File{}, newAppError(http.StatusConflict, "a file with this name already exists in the folder", nil)
	}

	file := models.File{
		ID:       uuid.New(),
		Filename: filename,
		OwnerID:  requester.ID,
		FolderID: folder.ID,
	}
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.files.Create(ctx, tx, &file); err != nil {
			return err
		}
		written, err := s.mirror.WriteFileBlob(requester.ID, folder.ID, filename, in.Content)
		if err != nil {
			return err
		}
		file.Size = written
		return s.files.UpdateSize(ctx, tx, file.ID, written)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.File{}, newAppError(http.StatusConflict, "a file with this name already exists in the folder", nil)
		}
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to store file", err)
	}

	return file, nil
}

func (s *fileService) GetDownloadInfo(ctx context.Context, requester models.User, fileID uuid.UUID) (FileAccessOutput, error) {
	file, err := s.getOwnedFile(ctx, requester.ID, fileID)
	if err != nil {
		return FileAccessOutput{}, err
	}

	path, err := s.mirror.BlobPath(requester.ID, file.FolderID, file.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return FileAccessOutput{}, newAppError(http.StatusNotFound, "stored file not found", nil)
		}
		return FileAccessOutput{}, newAppError(http.StatusInternalServerError, "failed to resolve stored file", err)
	}

	return FileAccessOutput{
		File:        file,
		AbsPath:     path,
		ContentType: "application/octet-stream",
	}, nil
}

// DeleteFile removes the metadata row first; blob removal is best effort
// and never blocks the delete from succeeding.
func (s *fileService) DeleteFile(ctx context.Context, requester models.User, fileID uuid.UUID) (models.File, error) {
	file, err := s.getOwnedFile(ctx, requester.ID, fileID)
	if err != nil {
		return models.File{}, err
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		return s.files.DeleteByID(ctx, tx, file.ID)
	})
	if err != nil {
		return models.File{}, newAppError(http.StatusInternalServerError, "failed to delete file", err)
	}

	if path, err := s.mirror.BlobPath(requester.ID, file.FolderID, file.Filename); err == nil {
		s.mirror.DeleteLocation(path)
	}
	return file, nil
}
