// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/media"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	service      *catalog.Service
	mediaService *media.Service
	config       *config.Config
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *catalog.Service, mediaService *media.Service, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		service:      service,
		mediaService: mediaService,
		config:       cfg,
	}
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var req catalog.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.service.List(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.service.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Search handles GET /products/search
func (h *ProductHandler) Search(c *gin.Context) {
	results, err := h.service.Search(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": results})
}

// Categories handles GET /products/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Brands handles GET /products/brands
func (h *ProductHandler) Brands(c *gin.Context) {
	brands, err := h.service.Brands()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// Create handles POST /products (admin, multipart)
func (h *ProductHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one product image is required"})
		return
	}
	if len(files) > h.config.Upload.MaxImagesPerItem {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many images"})
		return
	}

	price, err := strconv.ParseInt(c.PostForm("price"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		return
	}
	discountPct, _ := strconv.ParseFloat(c.DefaultPostForm("discountPercentage", "0"), 64)
	thumbnailIndex, _ := strconv.Atoi(c.DefaultPostForm("thumbnailIndex", "0"))

	userID, _ := middleware.GetUserIDFromContext(c)

	assets := make([]media.Asset, 0, len(files))
	for _, file := range files {
		asset, err := h.mediaService.UploadFile(c.Request.Context(), file, h.config.Media.Folder, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		assets = append(assets, *asset)
	}

	req := catalog.CreateRequest{
		Brand:              c.PostForm("brand"),
		Name:               c.PostForm("name"),
		Category:           formValues(c, "category"),
		ProductType:        formValues(c, "productType"),
		Price:              price,
		DiscountPercentage: discountPct,
		ThumbnailIndex:     thumbnailIndex,
		Description:        c.PostForm("description"),
		FeaturesDetails:    c.PostForm("featuresDetails"),
		Ingredients:        c.PostForm("ingredients"),
		ActiveIngredients:  c.PostForm("activeIngredients"),
		Directions:         c.PostForm("directions"),
		Benefits:           c.PostForm("benefits"),
		RecommendedUses:    c.PostForm("recommendedUses"),
		Images:             assets,
	}

	product, err := h.service.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    product,
	})
}

// Update handles PUT /products/:id (admin, multipart)
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateRequest
	if v, exists := c.GetPostForm("brand"); exists {
		req.Brand = &v
	}
	if v, exists := c.GetPostForm("name"); exists {
		req.Name = &v
	}
	req.Category = formValues(c, "category")
	req.ProductType = formValues(c, "productType")
	if v, exists := c.GetPostForm("price"); exists {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}
		req.Price = &price
	}
	if v, exists := c.GetPostForm("discountPercentage"); exists {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount percentage"})
			return
		}
		req.DiscountPercentage = &pct
	}
	if v, exists := c.GetPostForm("thumbnailIndex"); exists {
		idx, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thumbnail index"})
			return
		}
		req.ThumbnailIndex = &idx
	}
	if v, exists := c.GetPostForm("description"); exists {
		req.Description = &v
	}
	if v, exists := c.GetPostForm("featuresDetails"); exists {
		req.FeaturesDetails = &v
	}
	if v, exists := c.GetPostForm("ingredients"); exists {
		req.Ingredients = &v
	}
	if v, exists := c.GetPostForm("activeIngredients"); exists {
		req.ActiveIngredients = &v
	}
	if v, exists := c.GetPostForm("directions"); exists {
		req.Directions = &v
	}
	if v, exists := c.GetPostForm("benefits"); exists {
		req.Benefits = &v
	}
	if v, exists := c.GetPostForm("recommendedUses"); exists {
		req.RecommendedUses = &v
	}
	req.DeleteImageMediaID = c.PostForm("deleteImageMediaId")

	if form, err := c.MultipartForm(); err == nil {
		files := form.File["images"]
		if len(files) > h.config.Upload.MaxImagesPerItem {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Too many images"})
			return
		}
		userID, _ := middleware.GetUserIDFromContext(c)
		for _, file := range files {
			asset, err := h.mediaService.UploadFile(c.Request.Context(), file, h.config.Media.Folder, userID)
			if err != nil {
				respondError(c, err)
				return
			}
			req.ReplaceImages = append(req.ReplaceImages, *asset)
		}
	}

	product, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    product,
	})
}

// Delete handles DELETE /products/:id (admin)
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// parseID parses a numeric path parameter, responding 400 on failure
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// formValues reads a repeated form field, also accepting a single
// comma-separated value
func formValues(c *gin.Context, name string) []string {
	values := c.PostFormArray(name)
	if len(values) == 1 && strings.Contains(values[0], ",") {
		parts := strings.Split(values[0], ",")
		values = values[:0]
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				values = append(values, trimmed)
			}
		}
	}
	return values
}
