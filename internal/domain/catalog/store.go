// internal/domain/catalog/store.go
package catalog

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when no collection contains the product id
var ErrProductNotFound = errors.New("product not found")

// Store resolves product ids against the unified collection with read-side
// fallback to the legacy per-type collections.
type Store struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewStore creates a new catalog store
func NewStore(db *gorm.DB, log *logrus.Logger) *Store {
	return &Store{
		db:  db,
		log: log,
	}
}

// Resolve looks up a product id across all collections and returns the
// canonical record. The unified table is consulted first, then the legacy
// tables in fixed priority order (top, new, discount, add). The order is
// stable across calls: repeated resolution of the same id always yields the
// same record, so cart hydration never flickers between duplicates.
//
// A probe that fails with a storage error falls through to the next source
// rather than retrying; only a miss everywhere returns ErrProductNotFound.
func (s *Store) Resolve(id uint) (*Product, error) {
	var unified Product
	err := s.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&unified).Error
	if err == nil {
		return &unified, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.WithError(err).WithField("product_id", id).Warn("unified product lookup failed, probing legacy collections")
	}

	var top LegacyTopProduct
	if err := s.db.Where("id = ?", id).First(&top).Error; err == nil {
		return top.toProduct(), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.WithError(err).WithField("product_id", id).Warn("legacy top product lookup failed")
	}

	var newest LegacyNewProduct
	if err := s.db.Where("id = ?", id).First(&newest).Error; err == nil {
		return newest.toProduct(), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.WithError(err).WithField("product_id", id).Warn("legacy new product lookup failed")
	}

	var discount LegacyDiscountProduct
	if err := s.db.Where("id = ?", id).First(&discount).Error; err == nil {
		return discount.toProduct(), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.WithError(err).WithField("product_id", id).Warn("legacy discount product lookup failed")
	}

	var added LegacyAddProduct
	if err := s.db.Where("id = ?", id).First(&added).Error; err == nil {
		return added.toProduct(), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.WithError(err).WithField("product_id", id).Warn("legacy add product lookup failed")
	}

	return nil, ErrProductNotFound
}

// Categories returns the distinct set of categories across the unified and
// legacy collections
func (s *Store) Categories() ([]string, error) {
	set := map[string]struct{}{}

	for _, model := range []interface{}{&Product{}, &LegacyNewProduct{}, &LegacyDiscountProduct{}, &LegacyAddProduct{}} {
		var raws []string
		if err := s.db.Model(model).Distinct().Pluck("category", &raws).Error; err != nil {
			return nil, err
		}
		for _, raw := range raws {
			var values []string
			if err := json.Unmarshal([]byte(raw), &values); err != nil {
				continue
			}
			for _, v := range values {
				set[v] = struct{}{}
			}
		}
	}

	return setToSlice(set), nil
}

// Brands returns the distinct set of brands across the unified and legacy
// collections
func (s *Store) Brands() ([]string, error) {
	set := map[string]struct{}{}

	models := []interface{}{
		&Product{},
		&LegacyTopProduct{},
		&LegacyNewProduct{},
		&LegacyDiscountProduct{},
		&LegacyAddProduct{},
	}
	for _, model := range models {
		var brands []string
		if err := s.db.Model(model).Distinct().Pluck("brand", &brands).Error; err != nil {
			return nil, err
		}
		for _, b := range brands {
			if b != "" {
				set[b] = struct{}{}
			}
		}
	}

	return setToSlice(set), nil
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
