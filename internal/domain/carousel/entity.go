// internal/domain/carousel/entity.go
package carousel

import "time"

// Image is one homepage carousel slide hosted on the external media host
type Image struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	MediaID   string    `gorm:"not null;size:255" json:"mediaId"`
	SortOrder int       `gorm:"default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name
func (Image) TableName() string {
	return "carousel_images"
}
