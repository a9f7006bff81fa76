// internal/domain/catalog/pricing.go
package catalog

import "math"

// ClampDiscount forces a discount percentage into [0, 100]. Stray negative or
// >100 values must never invert or exceed the base price.
func ClampDiscount(pct float64) float64 {
	if pct < 0 || math.IsNaN(pct) {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// EffectivePrice computes the price after discount. Pure function, invoked
// identically by listing, detail and cart hydration.
//
// The discount amount is rounded up, so any non-zero percentage yields a
// result strictly below the base price and a zero percentage returns the
// base price unchanged.
func EffectivePrice(price int64, pct float64) int64 {
	pct = ClampDiscount(pct)
	if pct == 0 {
		return price
	}

	discount := int64(math.Ceil(float64(price) * pct / 100))
	if discount > price {
		discount = price
	}
	return price - discount
}
