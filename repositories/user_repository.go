package repositories

import (
	"context"

	"github.com/sayidabyan/s-drive-server/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CountByUsername(_ context.Context, tx *gorm.DB, username string) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) Create(_ context.Context, tx *gorm.DB, user *models.User) error {
	return useTx(r.db, tx).Create(user).Error
}

func (r *GormUserRepository) GetByUsername(_ context.Context, tx *gorm.DB, username string) (models.User, error) {
	var user models.User
	err := useTx(r.db, tx).Where("username = ?", username).First(&user).Error
	return user, err
}

func (r *GormUserRepository) GetByID(_ context.Context, tx *gorm.DB, userID uuid.UUID) (models.User, error) {
	var user models.User
	err := useTx(r.db, tx).Where("id = ?", userID).First(&user).Error
	return user, err
}

func (r *GormUserRepository) List(_ context.Context, tx *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := useTx(r.db, tx).Order("username ASC").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) SetTopFolder(_ context.Context, tx *gorm.DB, userID uuid.UUID, folderID uuid.UUID) error {
	return useTx(r.db, tx).Model(&models.User{}).Where("id = ?", userID).
		Update("top_folder_id", folderID).Error
}

func (r *GormUserRepository) DeleteByID(_ context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return useTx(r.db, tx).Where("id = ?", userID).Delete(&models.User{}).Error
}
