package products

import (
	"time"

	"github.com/gearghar/gearghar-backend/pkg/db/models"
	dbtypes "github.com/gearghar/gearghar-backend/pkg/db/types"
	"github.com/gearghar/gearghar-backend/pkg/enums"
	"github.com/gearghar/gearghar-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the transport shape for catalog listings.
type ProductDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Price       decimal.Decimal       `json:"price"`
	Category    enums.ProductCategory `json:"category"`
	Brand       string                `json:"brand"`
	SKU         string                `json:"sku"`
	Stock       int                   `json:"stock"`
	Images      []string              `json:"images"`
	Status      enums.ProductStatus   `json:"status"`
	Tags        []string              `json:"tags"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CreateProductRequest is the admin payload for adding a listing.
type CreateProductRequest struct {
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Price       decimal.Decimal       `json:"price" validate:"required"`
	Category    enums.ProductCategory `json:"category" validate:"required"`
	Brand       string                `json:"brand" validate:"required"`
	SKU         string                `json:"sku" validate:"required"`
	Stock       int                   `json:"stock" validate:"gte=0"`
	Images      []string              `json:"images,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
}

// UpdateProductRequest carries optional admin edits. Nil fields are left untouched.
type UpdateProductRequest struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Price       *decimal.Decimal       `json:"price,omitempty"`
	Category    *enums.ProductCategory `json:"category,omitempty"`
	Brand       *string                `json:"brand,omitempty"`
	Stock       *int                   `json:"stock,omitempty"`
	Images      []string               `json:"images,omitempty"`
	Status      *enums.ProductStatus   `json:"status,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
}

// ListParams filters the public catalog listing.
type ListParams struct {
	Category string
	Status   string
	Search   string
	Page     pagination.Params
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Brand:       p.Brand,
		SKU:         p.SKU,
		Stock:       p.Stock,
		Images:      append([]string(nil), p.Images...),
		Status:      p.Status,
		Tags:        append([]string(nil), p.Tags...),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (r CreateProductRequest) ToModel() *models.Product {
	return &models.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Brand:       r.Brand,
		SKU:         r.SKU,
		Stock:       r.Stock,
		Images:      dbtypes.StringArray(append([]string(nil), r.Images...)),
		Status:      enums.ProductStatusActive,
		Tags:        dbtypes.StringArray(append([]string(nil), r.Tags...)),
	}
}
