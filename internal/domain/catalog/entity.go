// internal/domain/catalog/entity.go
package catalog

import (
	"time"
)

// Product type tags used on the homepage sections. A product may carry
// several tags at once (e.g. both "new" and "discount").
const (
	TypeRegular  = "regular"
	TypeNew      = "new"
	TypeDiscount = "discount"
	TypeTop      = "top"
)

// ValidType reports whether tag is a known product type tag
func ValidType(tag string) bool {
	switch tag {
	case TypeRegular, TypeNew, TypeDiscount, TypeTop:
		return true
	}
	return false
}

// Product is the canonical product record in the unified collection.
// Legacy per-type rows are normalized into this shape at the store boundary
// and never leak past it.
type Product struct {
	ID                 uint     `gorm:"primaryKey" json:"id"`
	Brand              string   `gorm:"not null;size:255" json:"brand"`
	Name               string   `gorm:"not null;size:255" json:"name"`
	Category           []string `gorm:"serializer:json;type:text" json:"category"`
	ProductType        []string `gorm:"serializer:json;type:text" json:"productType"`
	Price              int64    `gorm:"not null" json:"price"` // Price in minor units
	DiscountPercentage float64  `gorm:"default:0" json:"discountPercentage"`
	ThumbnailIndex     int      `gorm:"default:0" json:"thumbnailIndex"`

	Description      string `gorm:"type:text" json:"description"`
	FeaturesDetails  string `gorm:"type:text" json:"featuresDetails"`
	Ingredients      string `gorm:"type:text" json:"ingredients"`
	ActiveIngredients string `gorm:"type:text" json:"activeIngredients"`
	Directions       string `gorm:"type:text" json:"directions"`
	Benefits         string `gorm:"type:text" json:"benefits"`
	RecommendedUses  string `gorm:"type:text" json:"recommendedUses"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// ProductImage is one image of a product on the external media host
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ProductID uint      `gorm:"not null;index" json:"-"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	MediaID   string    `gorm:"not null;size:255" json:"mediaId"`
	SortOrder int       `gorm:"default:0" json:"-"`
	CreatedAt time.Time `json:"-"`
}

// TableName overrides
func (Product) TableName() string      { return "products" }
func (ProductImage) TableName() string { return "product_images" }

// ClampThumbnail forces ThumbnailIndex back into [0, len(Images)).
// Must be called whenever an image is removed.
func (p *Product) ClampThumbnail() {
	if p.ThumbnailIndex < 0 || p.ThumbnailIndex >= len(p.Images) {
		p.ThumbnailIndex = 0
	}
}

// Normalized is the product shape every endpoint returns, regardless of
// which collection the record came from. DiscountPrice is always computed,
// never stored.
type Normalized struct {
	ID                 uint     `json:"id"`
	Brand              string   `json:"brand"`
	Name               string   `json:"name"`
	Category           []string `json:"category"`
	ProductType        []string `json:"productType"`
	Price              int64    `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	DiscountPrice      int64    `json:"discountPrice"`
	Images             []ProductImage `json:"images"`
	ThumbnailIndex     int      `json:"thumbnailIndex"`
	HoverImageURL      string   `json:"hoverImageUrl,omitempty"`

	Description       string `json:"description"`
	FeaturesDetails   string `json:"featuresDetails"`
	Ingredients       string `json:"ingredients"`
	ActiveIngredients string `json:"activeIngredients"`
	Directions        string `json:"directions"`
	Benefits          string `json:"benefits"`
	RecommendedUses   string `json:"recommendedUses"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize converts a canonical product into the response shape
func Normalize(p *Product) *Normalized {
	n := &Normalized{
		ID:                 p.ID,
		Brand:              p.Brand,
		Name:               p.Name,
		Category:           p.Category,
		ProductType:        p.ProductType,
		Price:              p.Price,
		DiscountPercentage: ClampDiscount(p.DiscountPercentage),
		DiscountPrice:      EffectivePrice(p.Price, p.DiscountPercentage),
		Images:             p.Images,
		ThumbnailIndex:     p.ThumbnailIndex,
		Description:        p.Description,
		FeaturesDetails:    p.FeaturesDetails,
		Ingredients:        p.Ingredients,
		ActiveIngredients:  p.ActiveIngredients,
		Directions:         p.Directions,
		Benefits:           p.Benefits,
		RecommendedUses:    p.RecommendedUses,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}

	if len(n.ProductType) == 0 {
		n.ProductType = []string{TypeRegular}
	}
	if n.Category == nil {
		n.Category = []string{}
	}
	if n.Images == nil {
		n.Images = []ProductImage{}
	}
	// Second image doubles as the hover image on listing cards
	if len(p.Images) > 1 {
		n.HoverImageURL = p.Images[1].URL
	}
	if n.ThumbnailIndex < 0 || n.ThumbnailIndex >= len(n.Images) {
		n.ThumbnailIndex = 0
	}

	return n
}
