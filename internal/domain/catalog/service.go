// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/media"
	"gorm.io/gorm"
)

// ErrInvalidProduct is returned when product data fails validation
var ErrInvalidProduct = errors.New("invalid product data")

// Sort orders accepted by the listing endpoint
const (
	SortLatest        = "latest"
	SortPriceLowHigh  = "priceLowHigh"
	SortPriceHighLow  = "priceHighLow"
	SortBrandAZ       = "brandAZ"
	SortBrandZA       = "brandZA"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	store  *Store
	gate   media.Gate
	config *config.Config
	log    *logrus.Logger
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, store *Store, gate media.Gate, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		store:  store,
		gate:   gate,
		config: cfg,
		log:    log,
	}
}

// ListRequest represents product list query parameters
type ListRequest struct {
	Category    string `form:"category"`
	Brand       string `form:"brand"`
	ProductType string `form:"productType"`
	MinPrice    int64  `form:"minPrice"`
	MaxPrice    int64  `form:"maxPrice"`
	Sort        string `form:"sort,default=latest"`
	Page        int    `form:"page,default=1"`
	Limit       int    `form:"limit,default=12"`
}

// ListResponse represents the paginated listing payload
type ListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
	Products []*Normalized `json:"products"`
}

// CreateRequest represents product creation data. Images are uploaded through
// the media gate by the handler before the service is invoked.
type CreateRequest struct {
	Brand              string
	Name               string
	Category           []string
	ProductType        []string
	Price              int64
	DiscountPercentage float64
	ThumbnailIndex     int
	Description        string
	FeaturesDetails    string
	Ingredients        string
	ActiveIngredients  string
	Directions         string
	Benefits           string
	RecommendedUses    string
	Images             []media.Asset
}

// UpdateRequest represents partial product update data
type UpdateRequest struct {
	Brand              *string
	Name               *string
	Category           []string
	ProductType        []string
	Price              *int64
	DiscountPercentage *float64
	ThumbnailIndex     *int
	Description        *string
	FeaturesDetails    *string
	Ingredients        *string
	ActiveIngredients  *string
	Directions         *string
	Benefits           *string
	RecommendedUses    *string

	// ReplaceImages swaps the whole image set; DeleteImageMediaID removes a
	// single image. Both destroy the superseded assets on the media host.
	ReplaceImages      []media.Asset
	DeleteImageMediaID string
}

// List retrieves unified-collection products with filtering, sorting and
// pagination
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 12
	}

	query := s.db.Model(&Product{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})

	if req.Category != "" {
		query = query.Where("category LIKE ?", jsonElementPattern(req.Category))
	}
	if req.Brand != "" {
		query = query.Where("brand = ?", req.Brand)
	}
	if req.ProductType != "" {
		query = query.Where("product_type LIKE ?", jsonElementPattern(req.ProductType))
	}
	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}
	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	err := query.Order(sortClause(req.Sort)).
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	normalized := make([]*Normalized, len(products))
	for i := range products {
		normalized[i] = Normalize(&products[i])
	}

	return &ListResponse{
		Total:    total,
		Page:     req.Page,
		Limit:    req.Limit,
		Products: normalized,
	}, nil
}

// Get resolves a single product by id across all collections
func (s *Service) Get(id uint) (*Normalized, error) {
	product, err := s.store.Resolve(id)
	if err != nil {
		return nil, err
	}
	return Normalize(product), nil
}

// Search matches products by name, brand, description or category,
// case-insensitive, capped at 20 results
func (s *Service) Search(q string) ([]*Normalized, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*Normalized{}, nil
	}

	pattern := "%" + strings.ToLower(q) + "%"

	var products []Product
	err := s.db.Model(&Product{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern, pattern).
		Limit(20).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	normalized := make([]*Normalized, len(products))
	for i := range products {
		normalized[i] = Normalize(&products[i])
	}
	return normalized, nil
}

// Categories returns the distinct categories across all collections
func (s *Service) Categories() ([]string, error) {
	return s.store.Categories()
}

// Brands returns the distinct brands across all collections
func (s *Service) Brands() ([]string, error) {
	return s.store.Brands()
}

// Create inserts a new product into the unified collection. Writes never
// touch the legacy tables.
func (s *Service) Create(req *CreateRequest) (*Normalized, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	productType := req.ProductType
	if len(productType) == 0 {
		productType = []string{TypeRegular}
	}

	images := make([]ProductImage, len(req.Images))
	for i, asset := range req.Images {
		images[i] = ProductImage{URL: asset.URL, MediaID: asset.MediaID, SortOrder: i}
	}

	product := Product{
		Brand:              req.Brand,
		Name:               req.Name,
		Category:           req.Category,
		ProductType:        productType,
		Price:              req.Price,
		DiscountPercentage: ClampDiscount(req.DiscountPercentage),
		ThumbnailIndex:     req.ThumbnailIndex,
		Description:        req.Description,
		FeaturesDetails:    req.FeaturesDetails,
		Ingredients:        req.Ingredients,
		ActiveIngredients:  req.ActiveIngredients,
		Directions:         req.Directions,
		Benefits:           req.Benefits,
		RecommendedUses:    req.RecommendedUses,
		Images:             images,
	}
	product.ClampThumbnail()

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return Normalize(&product), nil
}

// Update applies a partial update to a unified-collection product
func (s *Service) Update(ctx context.Context, id uint, req *UpdateRequest) (*Normalized, error) {
	var product Product
	err := s.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if len(req.Category) > 0 {
		product.Category = req.Category
	}
	if len(req.ProductType) > 0 {
		for _, tag := range req.ProductType {
			if !ValidType(tag) {
				return nil, fmt.Errorf("%w: unknown product type %q", ErrInvalidProduct, tag)
			}
		}
		product.ProductType = req.ProductType
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
		}
		product.Price = *req.Price
	}
	if req.DiscountPercentage != nil {
		product.DiscountPercentage = ClampDiscount(*req.DiscountPercentage)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.FeaturesDetails != nil {
		product.FeaturesDetails = *req.FeaturesDetails
	}
	if req.Ingredients != nil {
		product.Ingredients = *req.Ingredients
	}
	if req.ActiveIngredients != nil {
		product.ActiveIngredients = *req.ActiveIngredients
	}
	if req.Directions != nil {
		product.Directions = *req.Directions
	}
	if req.Benefits != nil {
		product.Benefits = *req.Benefits
	}
	if req.RecommendedUses != nil {
		product.RecommendedUses = *req.RecommendedUses
	}

	if len(req.ReplaceImages) > 0 {
		if err := s.replaceImages(ctx, &product, req.ReplaceImages); err != nil {
			return nil, err
		}
	}

	if req.ThumbnailIndex != nil {
		product.ThumbnailIndex = *req.ThumbnailIndex
	}

	if req.DeleteImageMediaID != "" {
		if err := s.deleteImage(ctx, &product, req.DeleteImageMediaID); err != nil {
			return nil, err
		}
	}

	product.ClampThumbnail()

	if err := s.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return Normalize(&product), nil
}

// Delete removes a unified-collection product and destroys its media assets
func (s *Service) Delete(ctx context.Context, id uint) error {
	var product Product
	err := s.db.Preload("Images").Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to find product: %w", err)
	}

	for _, img := range product.Images {
		if err := s.gate.Destroy(ctx, img.MediaID); err != nil {
			s.log.WithError(err).WithField("media_id", img.MediaID).Warn("failed to destroy product image")
		}
	}

	if err := s.db.Where("product_id = ?", product.ID).Delete(&ProductImage{}).Error; err != nil {
		return fmt.Errorf("failed to delete product images: %w", err)
	}
	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// replaceImages swaps the whole image set and destroys the old assets
func (s *Service) replaceImages(ctx context.Context, product *Product, assets []media.Asset) error {
	for _, img := range product.Images {
		if err := s.gate.Destroy(ctx, img.MediaID); err != nil {
			s.log.WithError(err).WithField("media_id", img.MediaID).Warn("failed to destroy replaced product image")
		}
	}

	if err := s.db.Where("product_id = ?", product.ID).Delete(&ProductImage{}).Error; err != nil {
		return fmt.Errorf("failed to remove old product images: %w", err)
	}

	images := make([]ProductImage, len(assets))
	for i, asset := range assets {
		images[i] = ProductImage{ProductID: product.ID, URL: asset.URL, MediaID: asset.MediaID, SortOrder: i}
	}
	product.Images = images
	return nil
}

// deleteImage removes a single image, keeping the thumbnail index pointing at
// the same image where possible
func (s *Service) deleteImage(ctx context.Context, product *Product, mediaID string) error {
	idx := -1
	for i, img := range product.Images {
		if img.MediaID == mediaID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	if len(product.Images) == 1 {
		return fmt.Errorf("%w: a product needs at least one image", ErrInvalidProduct)
	}

	if err := s.gate.Destroy(ctx, mediaID); err != nil {
		s.log.WithError(err).WithField("media_id", mediaID).Warn("failed to destroy deleted product image")
	}
	if err := s.db.Where("product_id = ? AND media_id = ?", product.ID, mediaID).Delete(&ProductImage{}).Error; err != nil {
		return fmt.Errorf("failed to delete product image: %w", err)
	}

	product.Images = append(product.Images[:idx], product.Images[idx+1:]...)
	if product.ThumbnailIndex == idx {
		product.ThumbnailIndex = 0
	} else if product.ThumbnailIndex > idx {
		product.ThumbnailIndex--
	}
	return nil
}

func validateCreate(req *CreateRequest) error {
	if strings.TrimSpace(req.Brand) == "" {
		return fmt.Errorf("%w: brand is required", ErrInvalidProduct)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if len(req.Category) == 0 {
		return fmt.Errorf("%w: category is required", ErrInvalidProduct)
	}
	if req.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
	}
	if len(req.Images) == 0 {
		return fmt.Errorf("%w: at least one product image is required", ErrInvalidProduct)
	}
	for _, tag := range req.ProductType {
		if !ValidType(tag) {
			return fmt.Errorf("%w: unknown product type %q", ErrInvalidProduct, tag)
		}
	}
	return nil
}

// sortClause maps the public sort names onto ORDER BY clauses
func sortClause(sort string) string {
	switch sort {
	case SortPriceLowHigh:
		return "price ASC"
	case SortPriceHighLow:
		return "price DESC"
	case SortBrandAZ:
		return "brand ASC"
	case SortBrandZA:
		return "brand DESC"
	case SortLatest:
		fallthrough
	default:
		return "created_at DESC"
	}
}

// jsonElementPattern builds a LIKE pattern matching one element of a
// JSON-serialized string array column
func jsonElementPattern(value string) string {
	return `%"` + value + `"%`
}
