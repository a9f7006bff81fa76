// internal/interfaces/http/handlers/guest_cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/domain/cart"
)

const sessionCookieName = "cart_session_id"

// GuestCartHandler handles the anonymous session cart kept in Redis. The
// session is identified by a cookie and drained into the user cart at login.
type GuestCartHandler struct {
	cache *cart.GuestCache
}

// NewGuestCartHandler creates a new guest cart handler
func NewGuestCartHandler(cache *cart.GuestCache) *GuestCartHandler {
	return &GuestCartHandler{cache: cache}
}

// GetCart handles GET /guest-cart
func (h *GuestCartHandler) GetCart(c *gin.Context) {
	sessionID, err := c.Cookie(sessionCookieName)
	if err != nil || sessionID == "" {
		c.JSON(http.StatusOK, gin.H{"items": []cart.Line{}})
		return
	}

	lines, err := h.cache.Load(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": lines})
}

// SaveCart handles PUT /guest-cart, replacing the whole session cart
func (h *GuestCartHandler) SaveCart(c *gin.Context) {
	var lines []cart.Line
	if err := c.ShouldBindJSON(&lines); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
			return
		}
	}

	sessionID := h.getOrCreateSessionID(c)
	if err := h.cache.Save(c.Request.Context(), sessionID, lines); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": lines})
}

// ClearCart handles DELETE /guest-cart
func (h *GuestCartHandler) ClearCart(c *gin.Context) {
	sessionID, err := c.Cookie(sessionCookieName)
	if err == nil && sessionID != "" {
		if _, err := h.cache.Drain(c.Request.Context(), sessionID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": []cart.Line{}})
}

func (h *GuestCartHandler) getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(sessionCookieName)
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		c.SetCookie(sessionCookieName, sessionID, 86400, "/", "", false, true)
	}
	return sessionID
}
