package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/gearghar/gearghar-backend/internal/products"
	"github.com/gearghar/gearghar-backend/internal/users"
	"github.com/gearghar/gearghar-backend/pkg/config"
	"github.com/gearghar/gearghar-backend/pkg/db"
	"github.com/gearghar/gearghar-backend/pkg/db/models"
	dbtypes "github.com/gearghar/gearghar-backend/pkg/db/types"
	"github.com/gearghar/gearghar-backend/pkg/enums"
	"github.com/gearghar/gearghar-backend/pkg/logger"
	"github.com/gearghar/gearghar-backend/pkg/security"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	var errs error
	errs = multierr.Append(errs, seedAdmin(ctx, cfg, logg, dbClient))
	if cfg.Seed.DemoProducts {
		errs = multierr.Append(errs, seedDemoProducts(ctx, logg, dbClient))
	}

	if errs != nil {
		logg.Error(ctx, "seeding finished with errors", errs)
		os.Exit(1)
	}
	logg.Info(ctx, "seeding complete")
}

func seedAdmin(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient *db.Client) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Seed.AdminEmail))
	if email == "" || cfg.Seed.AdminPassword == "" {
		logg.Info(ctx, "admin seed skipped: no credentials configured")
		return nil
	}

	repo := users.NewRepository(dbClient.DB())
	exists, err := repo.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin email: %w", err)
	}
	if exists {
		logg.Info(logg.WithField(ctx, "email", email), "admin already present")
		return nil
	}

	hash, err := security.HashPassword(cfg.Seed.AdminPassword, cfg.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		FirstName:    cfg.Seed.AdminFirstName,
		LastName:     cfg.Seed.AdminLastName,
		Role:         enums.UserRoleAdmin,
		Status:       enums.UserStatusActive,
	}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logg.Info(logg.WithField(ctx, "email", email), "admin user created")
	return nil
}

func seedDemoProducts(ctx context.Context, logg *logger.Logger, dbClient *db.Client) error {
	repo := products.NewRepository(dbClient.DB())

	demo := []models.Product{
		{
			Name:        "Summit Pro Hiking Boots",
			Description: "Waterproof leather boots with reinforced ankle support.",
			Price:       decimal.NewFromFloat(149.99),
			Category:    enums.ProductCategorySports,
			Brand:       "Ridgeline",
			SKU:         "RL-BOOT-001",
			Stock:       40,
			Status:      enums.ProductStatusActive,
			Tags:        dbtypes.StringArray{"hiking", "outdoor"},
		},
		{
			Name:        "Aurora Wireless Headphones",
			Description: "Over-ear headphones with 40 hour battery life.",
			Price:       decimal.NewFromFloat(89.95),
			Category:    enums.ProductCategoryElectronics,
			Brand:       "Soundvale",
			SKU:         "SV-HP-204",
			Stock:       120,
			Status:      enums.ProductStatusActive,
			Tags:        dbtypes.StringArray{"audio", "wireless"},
		},
		{
			Name:        "Cedar Grove Pour-Over Kettle",
			Description: "Gooseneck kettle with built-in thermometer.",
			Price:       decimal.NewFromFloat(42.50),
			Category:    enums.ProductCategoryHome,
			Brand:       "Cedar Grove",
			SKU:         "CG-KET-310",
			Stock:       65,
			Status:      enums.ProductStatusActive,
			Tags:        dbtypes.StringArray{"kitchen", "coffee"},
		},
	}

	var errs error
	for i := range demo {
		product := demo[i]
		if _, err := repo.Create(ctx, &product); err != nil {
			if db.IsUniqueViolation(err, "idx_products_sku") {
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("seed product %s: %w", product.SKU, err))
		}
	}
	if errs != nil {
		return errs
	}

	logg.Info(ctx, "demo products seeded")
	return nil
}
