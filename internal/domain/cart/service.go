// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrLineNotFound is returned when a quantity update targets a product
	// that is not in the cart
	ErrLineNotFound = errors.New("cart line not found")
	// ErrInvalidQuantity is returned for non-positive quantities
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Service handles cart business logic for signed-in users
type Service struct {
	db    *gorm.DB
	store *catalog.Store
	log   *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, store *catalog.Store, log *logrus.Logger) *Service {
	return &Service{
		db:    db,
		store: store,
		log:   log,
	}
}

// GetCart returns the user's cart with each line hydrated against the
// catalog. Lines whose product no longer resolves are omitted from the view
// but kept in storage.
func (s *Service) GetCart(userID uint) (*View, error) {
	var items []CartItem
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	view := &View{UserID: userID, Items: make([]HydratedLine, 0, len(items))}
	for _, item := range items {
		product, err := s.store.Resolve(item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				s.log.WithFields(logrus.Fields{
					"user_id":    userID,
					"product_id": item.ProductID,
				}).Warn("cart line references unknown product, omitting")
				continue
			}
			return nil, err
		}
		normalized := catalog.Normalize(product)
		view.Items = append(view.Items, HydratedLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   normalized,
		})
		view.Subtotal += int64(item.Quantity) * normalized.DiscountPrice
	}
	return view, nil
}

// Add adds a product to the cart, incrementing the quantity if the line
// already exists. The product must resolve in the catalog.
func (s *Service) Add(userID, productID uint, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.store.Resolve(productID); err != nil {
		return nil, err
	}
	if err := s.increment(userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// UpdateQuantity sets the absolute quantity of an existing cart line. Any
// quantity at or below zero removes the line. The line must exist either
// way; updating or zeroing an absent line returns ErrLineNotFound.
func (s *Service) UpdateQuantity(userID, productID uint, quantity int) (*View, error) {
	if quantity <= 0 {
		result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&CartItem{})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to remove cart line: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrLineNotFound
		}
		return s.GetCart(userID)
	}

	result := s.db.Model(&CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrLineNotFound
	}
	return s.GetCart(userID)
}

// Remove deletes a cart line. Removing an absent line is a no-op.
func (s *Service) Remove(userID, productID uint) (*View, error) {
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&CartItem{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart line: %w", err)
	}
	return s.GetCart(userID)
}

// Clear empties the user's cart
func (s *Service) Clear(userID uint) error {
	err := s.db.Where("user_id = ?", userID).Delete(&CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// increment is the single atomic add-or-increment statement behind Add and
// the merge path. The ON CONFLICT target is the composite user/product
// unique index.
func (s *Service) increment(userID, productID uint, quantity int) error {
	item := CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}
	return nil
}
