package cart

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	models := []interface{}{
		&catalog.Product{}, &catalog.ProductImage{},
		&catalog.LegacyTopProduct{}, &catalog.LegacyNewProduct{},
		&catalog.LegacyDiscountProduct{}, &catalog.LegacyAddProduct{},
		&CartItem{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newCartService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	store := catalog.NewStore(db, newTestLogger())
	return NewService(db, store, newTestLogger()), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64) uint {
	t.Helper()
	p := catalog.Product{Brand: "Acme", Name: name, Category: []string{"skincare"}, Price: price}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p.ID
}

func TestAddCreatesLine(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	view, err := svc.Add(1, pid, 2)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", view.Items)
	}
	if view.Items[0].Product == nil || view.Items[0].Product.Name != "Serum" {
		t.Fatal("expected hydrated product on the line")
	}
}

func TestAddSameProductIncrements(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	if _, err := svc.Add(1, pid, 2); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	view, err := svc.Add(1, pid, 3)
	if err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected a single line, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5 after increment, got %d", view.Items[0].Quantity)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	svc, _ := newCartService(t)

	_, err := svc.Add(1, 999, 1)
	if !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	for _, qty := range []int{0, -1} {
		if _, err := svc.Add(1, pid, qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity for %d, got %v", qty, err)
		}
	}
}

func TestAddResolvesLegacyProduct(t *testing.T) {
	svc, db := newCartService(t)
	legacy := catalog.LegacyTopProduct{ID: 50, Brand: "Old", Name: "Classic", Price: 700, ImageURL: "u", ImageMediaID: "m"}
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	view, err := svc.Add(1, 50, 1)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if view.Items[0].Product.Name != "Classic" {
		t.Fatalf("expected legacy product hydrated, got %+v", view.Items[0].Product)
	}
}

func TestUpdateQuantitySetsAbsolute(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	if _, err := svc.Add(1, pid, 5); err != nil {
		t.Fatalf("Add: %v", err)
	}
	view, err := svc.UpdateQuantity(1, pid, 2)
	if err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if view.Items[0].Quantity != 2 {
		t.Fatalf("expected absolute quantity 2, got %d", view.Items[0].Quantity)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	if _, err := svc.Add(1, pid, 5); err != nil {
		t.Fatalf("Add: %v", err)
	}
	view, err := svc.UpdateQuantity(1, pid, 0)
	if err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart after zero quantity, got %+v", view.Items)
	}
}

func TestUpdateQuantityNegativeRemovesLine(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	if _, err := svc.Add(1, pid, 5); err != nil {
		t.Fatalf("Add: %v", err)
	}
	view, err := svc.UpdateQuantity(1, pid, -1)
	if err != nil {
		t.Fatalf("negative quantity must remove the line, got %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart after negative quantity, got %+v", view.Items)
	}

	var count int64
	db.Model(&CartItem{}).Where("user_id = ?", 1).Count(&count)
	if count != 0 {
		t.Fatalf("line must be gone from storage, got %d rows", count)
	}
}

func TestUpdateQuantityZeroOnMissingLine(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	_, err := svc.UpdateQuantity(1, pid, 0)
	if !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound for absent line, got %v", err)
	}
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	_, err := svc.UpdateQuantity(1, pid, 2)
	if !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	if _, err := svc.Add(1, pid, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Remove(1, pid); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	view, err := svc.Remove(1, pid)
	if err != nil {
		t.Fatalf("second Remove must be a no-op, got %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Items)
	}
}

func TestClearEmptiesOnlyThatUser(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	if _, err := svc.Add(1, pid, 1); err != nil {
		t.Fatalf("Add user 1: %v", err)
	}
	if _, err := svc.Add(2, pid, 4); err != nil {
		t.Fatalf("Add user 2: %v", err)
	}

	if err := svc.Clear(1); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	view1, _ := svc.GetCart(1)
	if len(view1.Items) != 0 {
		t.Fatalf("user 1 cart should be empty, got %+v", view1.Items)
	}
	view2, _ := svc.GetCart(2)
	if len(view2.Items) != 1 || view2.Items[0].Quantity != 4 {
		t.Fatalf("user 2 cart should be untouched, got %+v", view2.Items)
	}
}

func TestGetCartOmitsUnresolvableLines(t *testing.T) {
	svc, db := newCartService(t)
	pid := seedProduct(t, db, "Serum", 1000)

	if _, err := svc.Add(1, pid, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Orphan line pointing at a product that no longer exists anywhere
	orphan := CartItem{UserID: 1, ProductID: 9999, Quantity: 3}
	if err := db.Create(&orphan).Error; err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	view, err := svc.GetCart(1)
	if err != nil {
		t.Fatalf("GetCart must succeed despite the orphan, got %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].ProductID != pid {
		t.Fatalf("expected only the resolvable line, got %+v", view.Items)
	}

	// The orphan row stays in storage
	var count int64
	db.Model(&CartItem{}).Where("user_id = ?", 1).Count(&count)
	if count != 2 {
		t.Fatalf("orphan line must remain stored, got %d rows", count)
	}
}

func TestSubtotalUsesEffectivePrice(t *testing.T) {
	svc, db := newCartService(t)
	p := catalog.Product{Brand: "Acme", Name: "Deal", Price: 1000, DiscountPercentage: 25}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	view, err := svc.Add(1, p.ID, 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if view.Subtotal != 1500 {
		t.Fatalf("expected subtotal 1500 (2 x 750), got %d", view.Subtotal)
	}
}
