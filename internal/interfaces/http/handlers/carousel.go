// internal/interfaces/http/handlers/carousel.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/carousel"
)

// CarouselHandler handles homepage carousel endpoints
type CarouselHandler struct {
	service *carousel.Service
}

// NewCarouselHandler creates a new carousel handler
func NewCarouselHandler(service *carousel.Service) *CarouselHandler {
	return &CarouselHandler{service: service}
}

// List handles GET /carousel-images
func (h *CarouselHandler) List(c *gin.Context) {
	urls, err := h.service.ListURLs()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": urls})
}

// Create handles POST /carousel-images (admin, multipart)
func (h *CarouselHandler) Create(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	image, err := h.service.Create(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Carousel image added successfully",
		"data":    image,
	})
}

// Delete handles DELETE /carousel-images/:id (admin)
func (h *CarouselHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Carousel image deleted successfully"})
}
