package catalog

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
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
		&Product{}, &ProductImage{},
		&LegacyTopProduct{}, &LegacyNewProduct{},
		&LegacyDiscountProduct{}, &LegacyAddProduct{},
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

func TestResolveUnifiedFirst(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestLogger())

	unified := Product{
		Brand:       "Acme",
		Name:        "Unified Serum",
		Category:    []string{"skincare"},
		ProductType: []string{TypeNew},
		Price:       1200,
		Images: []ProductImage{
			{URL: "https://img/main.jpg", MediaID: "m1", SortOrder: 0},
		},
	}
	if err := db.Create(&unified).Error; err != nil {
		t.Fatalf("failed to seed unified product: %v", err)
	}
	// Same id in a legacy table must be shadowed by the unified row
	shadow := LegacyNewProduct{ID: unified.ID, Brand: "Old", Name: "Old Serum", Price: 999, ImageURL: "https://img/old.jpg", ImageMediaID: "old"}
	if err := db.Create(&shadow).Error; err != nil {
		t.Fatalf("failed to seed legacy product: %v", err)
	}

	got, err := store.Resolve(unified.ID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.Name != "Unified Serum" {
		t.Fatalf("expected unified record to win, got %q", got.Name)
	}
}

func TestResolveLegacyPriorityOrder(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestLogger())

	// The same id exists in new and discount; new sits earlier in the probe
	// order and must win on every call.
	legacyNew := LegacyNewProduct{ID: 7, Brand: "A", Name: "From New", Price: 100, ImageURL: "https://img/n.jpg", ImageMediaID: "n"}
	legacyDiscount := LegacyDiscountProduct{ID: 7, Brand: "B", Name: "From Discount", Price: 100, DiscountPrice: 50}
	if err := db.Create(&legacyNew).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(&legacyDiscount).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := 0; i < 5; i++ {
		got, err := store.Resolve(7)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if got.Name != "From New" {
			t.Fatalf("resolution order not deterministic: got %q on call %d", got.Name, i)
		}
	}
}

func TestResolveLegacyTopNormalization(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestLogger())

	top := LegacyTopProduct{
		ID: 3, Brand: "Heritage", Name: "Night Cream", Price: 3000,
		ImageURL: "https://img/main.jpg", ImageMediaID: "m",
		HoverImageURL: "https://img/hover.jpg", HoverImageMediaID: "h",
	}
	if err := db.Create(&top).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := store.Resolve(3)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(got.ProductType) != 1 || got.ProductType[0] != TypeTop {
		t.Fatalf("expected top type tag, got %v", got.ProductType)
	}
	if len(got.Images) != 2 {
		t.Fatalf("expected main+hover image pair, got %d images", len(got.Images))
	}
	if got.Category == nil {
		t.Fatal("legacy top rows have no category, expected empty slice not nil")
	}

	n := Normalize(got)
	if n.HoverImageURL != "https://img/hover.jpg" {
		t.Fatalf("expected hover image url, got %q", n.HoverImageURL)
	}
	if n.DiscountPrice != 3000 {
		t.Fatalf("no discount stored, expected discountPrice == price, got %d", n.DiscountPrice)
	}
}

func TestResolveLegacyDiscountDerivesPercentage(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestLogger())

	discount := LegacyDiscountProduct{
		ID: 9, Brand: "B", Name: "Eye Cream",
		Category: []string{"eye-care"},
		Price:    2000, DiscountPrice: 1500,
		Images: []LegacyImage{{URL: "https://img/e.jpg", MediaID: "e"}},
	}
	if err := db.Create(&discount).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := store.Resolve(9)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.DiscountPercentage != 25 {
		t.Fatalf("expected derived percentage 25, got %v", got.DiscountPercentage)
	}

	n := Normalize(got)
	if n.DiscountPrice != 1500 {
		t.Fatalf("expected recomputed discountPrice 1500, got %d", n.DiscountPrice)
	}
}

func TestResolveMissEverywhere(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestLogger())

	_, err := store.Resolve(12345)
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCategoriesUnionAcrossCollections(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestLogger())

	seed := []interface{}{
		&Product{Brand: "A", Name: "P1", Category: []string{"skincare", "serums"}, Price: 100},
		&LegacyNewProduct{Brand: "B", Name: "P2", Category: []string{"skincare", "cleansers"}, Price: 100, ImageURL: "u", ImageMediaID: "m"},
		&LegacyDiscountProduct{Brand: "C", Name: "P3", Category: []string{"eye-care"}, Price: 100, DiscountPrice: 50},
	}
	for _, s := range seed {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	categories, err := store.Categories()
	if err != nil {
		t.Fatalf("Categories returned error: %v", err)
	}
	want := []string{"cleansers", "eye-care", "serums", "skincare"}
	if len(categories) != len(want) {
		t.Fatalf("expected %v, got %v", want, categories)
	}
	for i, c := range want {
		if categories[i] != c {
			t.Fatalf("expected sorted union %v, got %v", want, categories)
		}
	}
}

func TestBrandsDistinctAcrossCollections(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db, newTestLogger())

	seed := []interface{}{
		&Product{Brand: "Acme", Name: "P1", Price: 100},
		&LegacyTopProduct{Brand: "Acme", Name: "P2", Price: 100, ImageURL: "u", ImageMediaID: "m"},
		&LegacyAddProduct{Brand: "Zenith", Name: "P3", Price: 100, ImageURL: "u", ImageMediaID: "m"},
	}
	for _, s := range seed {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	brands, err := store.Brands()
	if err != nil {
		t.Fatalf("Brands returned error: %v", err)
	}
	if len(brands) != 2 || brands[0] != "Acme" || brands[1] != "Zenith" {
		t.Fatalf("expected [Acme Zenith], got %v", brands)
	}
}
