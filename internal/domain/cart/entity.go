// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// CartItem is one persisted cart line for a signed-in user. The composite
// unique index backs the atomic add-or-increment upsert, so rows are
// hard-deleted.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"-"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// Line is a bare cart line as sent by clients (guest cart payloads, merge
// requests)
type Line struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// HydratedLine is a cart line joined with its resolved product
type HydratedLine struct {
	ProductID uint                `json:"productId"`
	Quantity  int                 `json:"quantity"`
	Product   *catalog.Normalized `json:"product"`
}

// View is the cart payload returned to clients. Subtotal sums quantity
// times effective price over the hydrated lines.
type View struct {
	UserID   uint           `json:"userId"`
	Items    []HydratedLine `json:"items"`
	Subtotal int64          `json:"subtotal"`
}
