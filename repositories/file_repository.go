package repositories

import (
	"context"

	"github.com/sayidabyan/s-drive-server/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormFileRepository struct {
	db *gorm.DB
}

func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

func (r *GormFileRepository) GetByIDAndOwner(_ context.Context, tx *gorm.DB, fileID uuid.UUID, ownerID uuid.UUID) (models.File, error) {
	var file models.File
	err := useTx(r.db, tx).Where("id = ? AND owner_id = ?", fileID, ownerID).First(&file).Error
	return file, err
}

func (r *GormFileRepository) Create(_ context.Context, tx *gorm.DB, file *models.File) error {
	return useTx(r.db, tx).Create(file).Error
}

func (r *GormFileRepository) ListByFolder(_ context.Context, tx *gorm.DB, folderID uuid.UUID) ([]models.File, error) {
	var files []models.File
	err := useTx(r.db, tx).Where("folder_id = ?", folderID).
		Order("filename ASC").Find(&files).Error
	return files, err
}

func (r *GormFileRepository) CountByFolderAndName(_ context.Context, tx *gorm.DB, folderID uuid.UUID, filename string) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.File{}).
		Where("folder_id = ? AND filename = ?", folderID, filename).
		Count(&count).Error
	return count, err
}

func (r *GormFileRepository) UpdateSize(_ context.Context, tx *gorm.DB, fileID uuid.UUID, size int64) error {
	return useTx(r.db, tx).Model(&models.File{}).Where("id = ?", fileID).Update("size", size).Error
}

func (r *GormFileRepository) DeleteByID(_ context.Context, tx *gorm.DB, fileID uuid.UUID) error {
	return useTx(r.db, tx).Where("id = ?", fileID).Delete(&models.File{}).Error
}

func (r *GormFileRepository) DeleteByFolderIDs(_ context.Context, tx *gorm.DB, folderIDs []uuid.UUID) error {
	if len(folderIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Where("folder_id IN ?", folderIDs).Delete(&models.File{}).Error
}

func (r *GormFileRepository) DeleteByOwner(_ context.Context, tx *gorm.DB, ownerID uuid.UUID) error {
	return useTx(r.db, tx).Where("owner_id = ?", ownerID).Delete(&models.File{}).Error
}
