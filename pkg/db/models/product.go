package models

import (
	"time"

	dbtypes "github.com/gearghar/gearghar-backend/pkg/db/types"
	"github.com/gearghar/gearghar-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Description string                `gorm:"column:description;not null"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Category    enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Brand       string                `gorm:"column:brand;not null"`
	SKU         string                `gorm:"column:sku;not null;uniqueIndex:idx_products_sku"`
	Stock       int                   `gorm:"column:stock;not null;default:0"`
	Images      dbtypes.StringArray   `gorm:"column:images;type:text[];not null;default:'{}'"`
	Status      enums.ProductStatus   `gorm:"column:status;type:text;not null;default:active"`
	Tags        dbtypes.StringArray   `gorm:"column:tags;type:text[];not null;default:'{}'"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// InStock reports whether the product can currently be purchased.
func (p *Product) InStock(quantity int) bool {
	return p.Status == enums.ProductStatusActive && p.Stock >= quantity && quantity > 0
}
