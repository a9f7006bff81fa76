// internal/domain/cart/reconciler.go
package cart

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Reconciler folds guest carts into a user's persisted cart at login. The
// merge is one-way: guest lines drain into the user cart and the guest cart
// is discarded afterwards.
type Reconciler struct {
	service *Service
	cache   *GuestCache
	log     *logrus.Logger
}

// NewReconciler creates a new cart reconciler
func NewReconciler(service *Service, cache *GuestCache, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		service: service,
		cache:   cache,
		log:     log,
	}
}

// Merge adds each guest line into the user's cart, summing quantities with
// any existing line for the same product. Lines with non-positive quantities
// are skipped, and a failed line does not abort the rest. Merging an empty
// slice is a no-op.
func (r *Reconciler) Merge(userID uint, lines []Line) {
	for _, line := range lines {
		if line.Quantity < 1 {
			r.log.WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": line.ProductID,
				"quantity":   line.Quantity,
			}).Warn("skipping guest cart line with invalid quantity")
			continue
		}
		if err := r.service.increment(userID, line.ProductID, line.Quantity); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": line.ProductID,
			}).Warn("failed to merge guest cart line")
		}
	}
}

// MergeSession drains the Redis session cart for sessionID into the user's
// cart. A missing or unreadable session cart logs and merges nothing.
func (r *Reconciler) MergeSession(ctx context.Context, userID uint, sessionID string) {
	if sessionID == "" {
		return
	}
	lines, err := r.cache.Drain(ctx, sessionID)
	if err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"session_id": sessionID,
		}).Warn("failed to drain guest session cart")
		return
	}
	r.Merge(userID, lines)
}
