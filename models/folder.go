package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a node in a per-user tree. The root folder has a nil ParentID;
// every other folder has exactly one parent owned by the same user. Sibling
// names are unique, enforced by the composite index so concurrent creates
// cannot both succeed.
type Folder struct {
	ID         uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	FolderName string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_folder_name_parent" json:"folder_name"`
	OwnerID    uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	ParentID   *uuid.UUID `gorm:"type:varchar(36);uniqueIndex:uq_folder_name_parent" json:"parent_id"`
	Parent     *Folder    `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
