// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/butcher-shop-backend/internal/config"
	"github.com/your-org/butcher-shop-backend/internal/domain/cart"
	"github.com/your-org/butcher-shop-backend/internal/domain/order"
	"github.com/your-org/butcher-shop-backend/internal/domain/product"
	"github.com/your-org/butcher-shop-backend/internal/domain/user"
	"github.com/your-org/butcher-shop-backend/internal/domain/wishlist"
	"github.com/your-org/butcher-shop-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	config *config.Config
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config) *Migration {
	return &Migration{
		db:     db,
		config: cfg,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		// Catalog
		&product.Product{},

		// Customer mirror and back office
		&user.User{},
		&user.AdminAccount{},

		// Cart domain
		&cart.Cart{},
		&cart.CartItem{},

		// Wishlist domain
		&wishlist.WishlistItem{},

		// Order domain
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
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
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_on_sale ON products(on_sale, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_product ON cart_items(cart_id, product_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_guest_status ON orders(guest_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// User mirror indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
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

	if err := m.seedAdminAccount(); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	if err := m.seedCatalog(); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminAccount() error {
	log.Println("👤 Seeding admin account...")

	var existing user.AdminAccount
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		log.Println("⏭️ Admin account already exists")
		return nil
	}

	hashedPassword, err := auth.HashPassword("admin123", m.config.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := user.AdminAccount{
		Email:        "admin@example.com",
		PasswordHash: hashedPassword,
		Name:         "Shop Admin",
		IsActive:     true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Println("✅ Created admin account: admin@example.com (password: admin123)")
	return nil
}

func cents(v int64) *int64 { return &v }

func (m *Migration) seedCatalog() error {
	log.Println("🥩 Seeding catalog...")

	products := []product.Product{
		{
			Name:        "Ribeye Steak",
			Category:    product.CategoryBeef,
			Price:       2499,
			CostPrice:   cents(1650),
			Description: "Well-marbled ribeye, dry-aged 21 days. Sold per 300g steak.",
			IsActive:    true,
		},
		{
			Name:          "Beef Mince",
			Category:      product.CategoryBeef,
			Price:         899,
			OriginalPrice: 1099,
			OnSale:        true,
			CostPrice:     cents(540),
			Description:   "Coarse ground chuck, 80/20. Per 500g pack.",
			IsActive:      true,
		},
		{
			Name:        "Pork Belly",
			Category:    product.CategoryPork,
			Price:       1299,
			CostPrice:   cents(780),
			Description: "Skin-on pork belly, perfect for slow roasting. Per 500g.",
			IsActive:    true,
		},
		{
			Name:        "Lamb Chops",
			Category:    product.CategoryLamb,
			Price:       1899,
			CostPrice:   cents(1240),
			Description: "Frenched lamb loin chops, pack of four.",
			IsActive:    true,
		},
		{
			Name:        "Chicken Breast",
			Category:    product.CategoryPoultry,
			Price:       999,
			CostPrice:   cents(610),
			Description: "Free-range skinless chicken breast fillets. Per 500g.",
			IsActive:    true,
		},
		{
			Name:        "Cumberland Sausages",
			Category:    product.CategorySausage,
			Price:       749,
			Description: "Traditional coiled Cumberland sausage, made in house. Per 400g.",
			IsActive:    true,
		},
		{
			Name:        "Smoked Ham",
			Category:    product.CategoryDeli,
			Price:       649,
			CostPrice:   cents(390),
			Description: "Oak-smoked ham, sliced to order. Per 200g.",
			IsActive:    true,
		},
	}

	created := 0
	for _, p := range products {
		var existing product.Product
		result := m.db.Where("name = ?", p.Name).First(&existing)
		if result.Error == nil {
			continue
		}

		var maxCatalogID int64
		m.db.Model(&product.Product{}).Unscoped().
			Select("COALESCE(MAX(catalog_id), 0)").Scan(&maxCatalogID)
		p.CatalogID = uint(maxCatalogID) + 1

		if err := m.db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
		created++
	}

	log.Printf("✅ Seeded %d catalog products", created)
	return nil
}
