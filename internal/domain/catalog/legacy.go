// internal/domain/catalog/legacy.go
package catalog

import "time"

// The catalog predates the unified products table: each homepage section
// ("top selling", "new arrivals", "discounts", plus a general add-product
// dashboard) kept its own collection with its own shape. Writes go to the
// unified table only; these models exist so reads can still find rows that
// were never backfilled. Once backfill completes they can be dropped along
// with the fallback probing in Store.Resolve.

// LegacyTopProduct is a row in the old top-selling collection
type LegacyTopProduct struct {
	ID               uint      `gorm:"primaryKey"`
	Brand            string    `gorm:"not null;size:255"`
	Name             string    `gorm:"not null;size:255"`
	Price            int64     `gorm:"not null"`
	ImageURL         string    `gorm:"not null;size:500"`
	ImageMediaID     string    `gorm:"not null;size:255"`
	HoverImageURL    string    `gorm:"size:500"`
	HoverImageMediaID string   `gorm:"size:255"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LegacyNewProduct is a row in the old new-arrivals collection
type LegacyNewProduct struct {
	ID               uint      `gorm:"primaryKey"`
	Brand            string    `gorm:"not null;size:255"`
	Name             string    `gorm:"not null;size:255"`
	Category         []string  `gorm:"serializer:json;type:text"`
	Price            int64     `gorm:"not null"`
	ImageURL         string    `gorm:"not null;size:500"`
	ImageMediaID     string    `gorm:"not null;size:255"`
	HoverImageURL    string    `gorm:"size:500"`
	HoverImageMediaID string   `gorm:"size:255"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LegacyDiscountProduct is a row in the old discounts collection. It stores
// the discounted price directly rather than a percentage.
type LegacyDiscountProduct struct {
	ID             uint           `gorm:"primaryKey"`
	Brand          string         `gorm:"not null;size:255"`
	Name           string         `gorm:"not null;size:255"`
	Category       []string       `gorm:"serializer:json;type:text"`
	Price          int64          `gorm:"not null"`
	DiscountPrice  int64          `gorm:"not null"`
	Images         []LegacyImage  `gorm:"serializer:json;type:text"`
	HoverImageURL  string         `gorm:"size:500"`
	ThumbnailIndex int            `gorm:"default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LegacyAddProduct is a row in the old general add-product collection
type LegacyAddProduct struct {
	ID               uint      `gorm:"primaryKey"`
	Brand            string    `gorm:"not null;size:255"`
	Name             string    `gorm:"not null;size:255"`
	Category         []string  `gorm:"serializer:json;type:text"`
	Price            int64     `gorm:"not null"`
	ImageURL         string    `gorm:"not null;size:500"`
	ImageMediaID     string    `gorm:"not null;size:255"`
	HoverImageURL    string    `gorm:"size:500"`
	HoverImageMediaID string   `gorm:"size:255"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LegacyImage mirrors the embedded image shape of the old discount rows
type LegacyImage struct {
	URL     string `json:"url"`
	MediaID string `json:"mediaId"`
}

// TableName overrides
func (LegacyTopProduct) TableName() string      { return "legacy_top_products" }
func (LegacyNewProduct) TableName() string      { return "legacy_new_products" }
func (LegacyDiscountProduct) TableName() string { return "legacy_discount_products" }
func (LegacyAddProduct) TableName() string      { return "legacy_add_products" }

func (p *LegacyTopProduct) toProduct() *Product {
	return &Product{
		ID:          p.ID,
		Brand:       p.Brand,
		Name:        p.Name,
		Category:    []string{},
		ProductType: []string{TypeTop},
		Price:       p.Price,
		Images:      pairImages(p.ImageURL, p.ImageMediaID, p.HoverImageURL, p.HoverImageMediaID),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (p *LegacyNewProduct) toProduct() *Product {
	return &Product{
		ID:          p.ID,
		Brand:       p.Brand,
		Name:        p.Name,
		Category:    p.Category,
		ProductType: []string{TypeNew},
		Price:       p.Price,
		Images:      pairImages(p.ImageURL, p.ImageMediaID, p.HoverImageURL, p.HoverImageMediaID),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (p *LegacyDiscountProduct) toProduct() *Product {
	images := make([]ProductImage, 0, len(p.Images))
	for i, img := range p.Images {
		images = append(images, ProductImage{
			URL:       img.URL,
			MediaID:   img.MediaID,
			SortOrder: i,
		})
	}

	prod := &Product{
		ID:                 p.ID,
		Brand:              p.Brand,
		Name:               p.Name,
		Category:           p.Category,
		ProductType:        []string{TypeDiscount},
		Price:              p.Price,
		DiscountPercentage: discountPercentageOf(p.Price, p.DiscountPrice),
		Images:             images,
		ThumbnailIndex:     p.ThumbnailIndex,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	prod.ClampThumbnail()
	return prod
}

func (p *LegacyAddProduct) toProduct() *Product {
	return &Product{
		ID:          p.ID,
		Brand:       p.Brand,
		Name:        p.Name,
		Category:    p.Category,
		ProductType: []string{TypeRegular},
		Price:       p.Price,
		Images:      pairImages(p.ImageURL, p.ImageMediaID, p.HoverImageURL, p.HoverImageMediaID),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// pairImages builds the canonical image list from the legacy main/hover pair
func pairImages(mainURL, mainID, hoverURL, hoverID string) []ProductImage {
	images := []ProductImage{{URL: mainURL, MediaID: mainID, SortOrder: 0}}
	if hoverURL != "" {
		images = append(images, ProductImage{URL: hoverURL, MediaID: hoverID, SortOrder: 1})
	}
	return images
}

// discountPercentageOf derives a percentage from the legacy stored
// discounted price
func discountPercentageOf(price, discounted int64) float64 {
	if price <= 0 || discounted >= price {
		return 0
	}
	if discounted < 0 {
		discounted = 0
	}
	return float64(price-discounted) * 100 / float64(price)
}
