package models

import "time"

const (
	DocumentKindFile = "file"
	DocumentKindLink = "link"
)

// Document is either a stored object (file_path set) or an external link
// (source_url set). Deleting a link never touches object storage.
type Document struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RoomID      string    `gorm:"column:room_id;type:uuid;index;not null" json:"room_id"`
	UploaderID  string    `gorm:"column:uploader_id;type:uuid;not null" json:"uploader_id"`
	Kind        string    `gorm:"column:kind;size:10;not null;default:'file'" json:"kind"`
	FileName    string    `gorm:"column:file_name;size:255;not null" json:"file_name"`
	FilePath    *string   `gorm:"column:file_path;size:500" json:"file_path,omitempty"`
	ContentType *string   `gorm:"column:content_type;size:100" json:"content_type,omitempty"`
	FileSize    *int64    `gorm:"column:file_size" json:"file_size,omitempty"`
	SourceURL   *string   `gorm:"column:source_url;size:2000" json:"source_url,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Document) TableName() string {
	return "documents"
}
