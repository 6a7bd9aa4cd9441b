// Command seed migrates the schema and creates an admin user plus a small
// set of demo master data.
package main

import (
	"context"
	"flag"
	"log"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "admin12345", "admin password")
	demo := flag.Bool("demo", false, "also seed demo categories, suppliers and products")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found")
	}

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Supplier{},
		&model.User{},
		&model.Product{},
		&model.Transaction{},
	); err != nil {
		log.Fatal("migration failed: ", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepo(db)

	if _, err := userRepo.FindByEmail(ctx, *email); err == nil {
		log.Printf("admin %s already exists", *email)
	} else if apperr.IsNotFound(err) {
		admin := model.NewUser("Administrator", *email, "", model.RoleAdmin)
		if err := admin.SetPassword(*password); err != nil {
			log.Fatal("hash password: ", err)
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			log.Fatal("create admin: ", err)
		}
		log.Printf("admin user created: %s", *email)
	} else {
		log.Fatal("lookup admin: ", err)
	}

	if *demo {
		seedDemoData(ctx, db)
	}
}

func seedDemoData(ctx context.Context, db *gorm.DB) {
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)

	var count int64
	db.Model(&model.Product{}).Count(&count)
	if count > 0 {
		log.Println("demo data skipped, products already present")
		return
	}

	beverages := &model.Category{Base: model.NewBase(), Name: "Beverages"}
	snacks := &model.Category{Base: model.NewBase(), Name: "Snacks"}
	for _, c := range []*model.Category{beverages, snacks} {
		if err := categoryRepo.Create(ctx, c); err != nil {
			log.Fatal("seed category: ", err)
		}
	}

	supplier := &model.Supplier{Base: model.NewBase(), Name: "Acme Wholesale", Address: "12 Dock Road"}
	if err := supplierRepo.Create(ctx, supplier); err != nil {
		log.Fatal("seed supplier: ", err)
	}

	products := []*model.Product{
		model.NewProduct("Sparkling Water 500ml", "BEV-001", 150, 0),
		model.NewProduct("Cold Brew Coffee", "BEV-002", 450, 0),
		model.NewProduct("Sea Salt Crisps", "SNK-001", 220, 0),
	}
	products[0].CategoryID = &beverages.ID
	products[1].CategoryID = &beverages.ID
	products[2].CategoryID = &snacks.ID

	for _, p := range products {
		if err := productRepo.Create(ctx, p); err != nil {
			log.Fatal("seed product: ", err)
		}
	}

	log.Printf("demo data seeded: %d products, supplier %q", len(products), supplier.Name)
}
