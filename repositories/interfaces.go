package repositories

import (
	"context"

	"github.com/sayidabyan/s-drive-server/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	CountByUsername(ctx context.Context, tx *gorm.DB, username string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (models.User, error)
	List(ctx context.Context, tx *gorm.DB) ([]models.User, error)
	SetTopFolder(ctx context.Context, tx *gorm.DB, userID uuid.UUID, folderID uuid.UUID) error
	DeleteByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type FolderRepository interface {
	GetByIDAndOwner(ctx context.Context, tx *gorm.DB, folderID uuid.UUID, ownerID uuid.UUID) (models.Folder, error)
	Create(ctx context.Context, tx *gorm.DB, folder *models.Folder) error
	ListByParent(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, parentID uuid.UUID) ([]models.Folder, error)
	CountByParentAndName(ctx context.Context, tx *gorm.DB, parentID uuid.UUID, name string) (int64, error)
	// ListChildIDs returns the ids of folders whose parent is any of the
	// given ids. Used to walk a subtree level by level inside one
	// transaction.
	ListChildIDs(ctx context.Context, tx *gorm.DB, parentIDs []uuid.UUID) ([]uuid.UUID, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, folderIDs []uuid.UUID) error
	DeleteByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) error
}

type FileRepository interface {
	GetByIDAndOwner(ctx context.Context, tx *gorm.DB, fileID uuid.UUID, ownerID uuid.UUID) (models.File, error)
	Create(ctx context.Context, tx *gorm.DB, file *models.File) error
	ListByFolder(ctx context.Context, tx *gorm.DB, folderID uuid.UUID) ([]models.File, error)
	CountByFolderAndName(ctx context.Context, tx *gorm.DB, folderID uuid.UUID, filename string) (int64, error)
	UpdateSize(ctx context.Context, tx *gorm.DB, fileID uuid.UUID, size int64) error
	DeleteByID(ctx context.Context, tx *gorm.DB, fileID uuid.UUID) error
	DeleteByFolderIDs(ctx context.Context, tx *gorm.DB, folderIDs []uuid.UUID) error
	DeleteByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) error
}

// LoginThrottleRepository counts failed login attempts per username inside a
// sliding window backed by volatile storage.
type LoginThrottleRepository interface {
	RegisterFailure(ctx context.Context, username string, windowSeconds int) (int64, error)
	Reset(ctx context.Context, username string) error
}

type Container struct {
	TxManager     TxManager
	Users         UserRepository
	Folders       FolderRepository
	Files         FileRepository
	LoginThrottle LoginThrottleRepository
}
