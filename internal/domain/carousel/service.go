// internal/domain/carousel/service.go
package carousel

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/media"
	"gorm.io/gorm"
)

// ErrImageNotFound is returned when a carousel image id does not resolve
var ErrImageNotFound = errors.New("carousel image not found")

// Service manages the homepage carousel
type Service struct {
	db   *gorm.DB
	gate media.Gate
	log  *logrus.Logger
}

// NewService creates a new carousel service
func NewService(db *gorm.DB, gate media.Gate, log *logrus.Logger) *Service {
	return &Service{db: db, gate: gate, log: log}
}

// ListURLs returns the slide URLs in display order
func (s *Service) ListURLs() ([]string, error) {
	images, err := s.List()
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
	}
	return urls, nil
}

// List returns the full slide records in display order
func (s *Service) List() ([]Image, error) {
	var images []Image
	err := s.db.Order("sort_order ASC, id ASC").Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list carousel images: %w", err)
	}
	return images, nil
}

// Create uploads a slide through the media gate and appends it to the
// carousel
func (s *Service) Create(ctx context.Context, file *multipart.FileHeader) (*Image, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	asset, err := s.gate.Upload(ctx, src, file.Filename, "carousel")
	if err != nil {
		return nil, err
	}

	var maxOrder int
	s.db.Model(&Image{}).Select("COALESCE(MAX(sort_order), -1)").Scan(&maxOrder)

	image := Image{URL: asset.URL, MediaID: asset.MediaID, SortOrder: maxOrder + 1}
	if err := s.db.Create(&image).Error; err != nil {
		return nil, fmt.Errorf("failed to save carousel image: %w", err)
	}
	return &image, nil
}

// Delete removes a slide and destroys its media asset
func (s *Service) Delete(ctx context.Context, id uint) error {
	var image Image
	err := s.db.Where("id = ?", id).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to find carousel image: %w", err)
	}

	if err := s.gate.Destroy(ctx, image.MediaID); err != nil {
		s.log.WithError(err).WithField("media_id", image.MediaID).Warn("failed to destroy carousel image")
	}

	if err := s.db.Delete(&image).Error; err != nil {
		return fmt.Errorf("failed to delete carousel image: %w", err)
	}
	return nil
}
