// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/domain/carousel"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/media"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		// User domain
		&user.User{},

		// Catalog domain, unified collection first then the legacy tables
		&catalog.Product{},
		&catalog.ProductImage{},
		&catalog.LegacyTopProduct{},
		&catalog.LegacyNewProduct{},
		&catalog.LegacyDiscountProduct{},
		&catalog.LegacyAddProduct{},

		// Cart domain
		&cart.CartItem{},

		// Media ledger and carousel
		&media.UploadedAsset{},
		&carousel.Image{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_product_images_sort ON product_images(product_id, sort_order)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_created_at ON cart_items(created_at DESC)",

		// Media ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_uploaded_assets_folder ON uploaded_assets(folder)",
		"CREATE INDEX IF NOT EXISTS idx_uploaded_assets_created_at ON uploaded_assets(created_at DESC)",

		// Carousel indexes
		"CREATE INDEX IF NOT EXISTS idx_carousel_images_sort ON carousel_images(sort_order)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedSampleProducts(); err != nil {
		return fmt.Errorf("failed to seed sample products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		log.Println("⏭️ Admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := user.User{
		Email:     "admin@example.com",
		Password:  string(hashedPassword),
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("✅ Created admin user: admin@example.com (password: admin123)")
	return nil
}

// seedSampleProducts creates a few unified products plus one row per legacy
// table so the fallback resolution path is exercised in development
func (m *Migration) seedSampleProducts() error {
	log.Println("📦 Seeding sample products...")

	var count int64
	m.db.Model(&catalog.Product{}).Count(&count)
	if count > 0 {
		log.Println("⏭️ Products already exist, skipping")
		return nil
	}

	products := []catalog.Product{
		{
			Brand:              "Aurora Labs",
			Name:               "Hydrating Facial Serum",
			Category:           []string{"skincare", "serums"},
			ProductType:        []string{catalog.TypeNew},
			Price:              2499,
			DiscountPercentage: 0,
			Description:        "Lightweight daily serum with hyaluronic acid.",
			Images: []catalog.ProductImage{
				{URL: "https://media.example.com/serum-main.jpg", MediaID: "seed/serum-main", SortOrder: 0},
				{URL: "https://media.example.com/serum-hover.jpg", MediaID: "seed/serum-hover", SortOrder: 1},
			},
		},
		{
			Brand:              "Northwind",
			Name:               "Vitamin C Cleanser",
			Category:           []string{"skincare", "cleansers"},
			ProductType:        []string{catalog.TypeDiscount, catalog.TypeTop},
			Price:              1899,
			DiscountPercentage: 20,
			Description:        "Brightening gel cleanser for all skin types.",
			Images: []catalog.ProductImage{
				{URL: "https://media.example.com/cleanser-main.jpg", MediaID: "seed/cleanser-main", SortOrder: 0},
			},
		},
	}
	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return err
		}
	}

	// Legacy rows get ids above the unified range so they stay reachable
	// through the fallback probes instead of being shadowed
	legacyTop := catalog.LegacyTopProduct{
		ID:           101,
		Brand:        "Heritage Co",
		Name:         "Classic Night Cream",
		Price:        3299,
		ImageURL:     "https://media.example.com/night-cream.jpg",
		ImageMediaID: "seed/night-cream",
	}
	if err := m.db.Create(&legacyTop).Error; err != nil {
		return err
	}

	legacyDiscount := catalog.LegacyDiscountProduct{
		ID:            102,
		Brand:         "Heritage Co",
		Name:          "Renewal Eye Cream",
		Category:      []string{"skincare", "eye-care"},
		Price:         2000,
		DiscountPrice: 1500,
		Images: []catalog.LegacyImage{
			{URL: "https://media.example.com/eye-cream.jpg", MediaID: "seed/eye-cream"},
		},
	}
	if err := m.db.Create(&legacyDiscount).Error; err != nil {
		return err
	}

	log.Println("✅ Created sample products")
	return nil
}
