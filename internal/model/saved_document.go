package model

import "time"

// SavedDocument is a file a customer stored in their portal locker,
// backed by an object in the storage bucket.
type SavedDocument struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserUID    string    `gorm:"column:user_uid;size:128;index" json:"userUid"`
	FileName   string    `gorm:"column:file_name;size:255;not null" json:"fileName"`
	FileType   *string   `gorm:"column:file_type;size:128" json:"fileType,omitempty"`
	FileSize   *int64    `gorm:"column:file_size" json:"fileSize,omitempty"`
	FileURL    string    `gorm:"column:file_url;size:1024;not null" json:"fileUrl"`
	FolderPath *string   `gorm:"column:folder_path;size:255" json:"folderPath,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (SavedDocument) TableName() string {
	return "saved_documents"
}
