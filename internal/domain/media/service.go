// internal/domain/media/service.go
package media

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrAssetNotFound is returned when an asset id has no record
var ErrAssetNotFound = errors.New("asset not found")

// Service uploads files through the gate and keeps the asset ledger
type Service struct {
	db   *gorm.DB
	gate Gate
	log  *logrus.Logger
}

// NewService creates a new media service
func NewService(db *gorm.DB, gate Gate, log *logrus.Logger) *Service {
	return &Service{
		db:   db,
		gate: gate,
		log:  log,
	}
}

// UploadFile pushes a multipart file through the gate and records the asset
func (s *Service) UploadFile(ctx context.Context, header *multipart.FileHeader, folder string, uploadedBy uint) (*Asset, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	asset, err := s.gate.Upload(ctx, file, header.Filename, folder)
	if err != nil {
		return nil, err
	}

	record := UploadedAsset{
		URL:          asset.URL,
		MediaID:      asset.MediaID,
		Folder:       folder,
		OriginalName: header.Filename,
		Size:         header.Size,
		UploadedBy:   uploadedBy,
	}
	if err := s.db.Create(&record).Error; err != nil {
		// The asset exists on the host either way; a missing ledger row only
		// hides it from the admin media library.
		s.log.WithError(err).WithField("media_id", asset.MediaID).Warn("failed to record uploaded asset")
	}

	return asset, nil
}

// ListAssets returns the asset ledger, newest first
func (s *Service) ListAssets(page, limit int) ([]UploadedAsset, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&UploadedAsset{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	var assets []UploadedAsset
	err := s.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&assets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assets: %w", err)
	}

	return assets, total, nil
}

// DeleteAsset destroys the asset on the host and removes the ledger row
func (s *Service) DeleteAsset(ctx context.Context, id uint) error {
	var asset UploadedAsset
	if err := s.db.Where("id = ?", id).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssetNotFound
		}
		return fmt.Errorf("failed to load asset: %w", err)
	}

	if err := s.gate.Destroy(ctx, asset.MediaID); err != nil {
		return err
	}

	return s.db.Delete(&asset).Error
}
