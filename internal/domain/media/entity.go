// internal/domain/media/entity.go
package media

import "time"

// UploadedAsset records an asset that was pushed through the gate, so the
// admin dashboard can list and reclaim media independently of the entities
// that reference it.
type UploadedAsset struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	URL          string    `gorm:"not null;size:500" json:"url"`
	MediaID      string    `gorm:"not null;size:255;uniqueIndex" json:"mediaId"`
	Folder       string    `gorm:"size:100;index" json:"folder"`
	OriginalName string    `gorm:"size:255" json:"originalName"`
	Size         int64     `json:"size"`
	UploadedBy   uint      `gorm:"index" json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName overrides the table name
func (UploadedAsset) TableName() string {
	return "uploaded_assets"
}
