package repositories

import (
	"context"

	"github.com/sayidabyan/s-drive-server/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormFolderRepository struct {
	db *gorm.DB
}

func NewGormFolderRepository(db *gorm.DB) *GormFolderRepository {
	return &GormFolderRepository{db: db}
}

func (r *GormFolderRepository) GetByIDAndOwner(_ context.Context, tx *gorm.DB, folderID uuid.UUID, ownerID uuid.UUID) (models.Folder, error) {
	var folder models.Folder
	err := useTx(r.db, tx).Where("id = ? AND owner_id = ?", folderID, ownerID).First(&folder).Error
	return folder, err
}

func (r *GormFolderRepository) Create(_ context.Context, tx *gorm.DB, folder *models.Folder) error {
	return useTx(r.db, tx).Create(folder).Error
}

func (r *GormFolderRepository) ListByParent(_ context.Context, tx *gorm.DB, ownerID uuid.UUID, parentID uuid.UUID) ([]models.Folder, error) {
	var folders []models.Folder
	err := useTx(r.db, tx).Where("owner_id = ? AND parent_id = ?", ownerID, parentID).
		Order("folder_name ASC").Find(&folders).Error
	return folders, err
}

func (r *GormFolderRepository) CountByParentAndName(_ context.Context, tx *gorm.DB, parentID uuid.UUID, name string) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.Folder{}).
		Where("parent_id = ? AND folder_name = ?", parentID, name).
		Count(&count).Error
	return count, err
}

func (r *GormFolderRepository) ListChildIDs(_ context.Context, tx *gorm.DB, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := useTx(r.db, tx).Model(&models.Folder{}).
		Where("parent_id IN ?", parentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *GormFolderRepository) DeleteByIDs(_ context.Context, tx *gorm.DB, folderIDs []uuid.UUID) error {
	if len(folderIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Where("id IN ?", folderIDs).Delete(&models.Folder{}).Error
}

func (r *GormFolderRepository) DeleteByOwner(_ context.Context, tx *gorm.DB, ownerID uuid.UUID) error {
	return useTx(r.db, tx).Where("owner_id = ?", ownerID).Delete(&models.Folder{}).Error
}
