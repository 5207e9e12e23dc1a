package models

import (
	"time"

	"github.com/google/uuid"
)

// File is a leaf: one owner, one parent folder, filename unique within the
// folder via the composite index.
type File struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Filename  string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_filename_folder" json:"filename"`
	OwnerID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	FolderID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:uq_filename_folder" json:"folder_id"`
	Folder    *Folder   `gorm:"foreignKey:FolderID;constraint:OnDelete:CASCADE" json:"-"`
	Size      int64     `gorm:"not null;default:0" json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
