package dashboard

import (
	"context"
	"fmt"

	"github.com/gearghar/gearghar-backend/internal/orders"
	"github.com/gearghar/gearghar-backend/pkg/db/models"
	pkgerrors "github.com/gearghar/gearghar-backend/pkg/errors"
)

// Summary aggregates the headline numbers for the admin console.
type Summary struct {
	TotalUsers    int64             `json:"total_users"`
	TotalAdmins   int64             `json:"total_admins"`
	TotalProducts int64             `json:"total_products"`
	TotalOrders   int64             `json:"total_orders"`
	PaidRevenue   float64           `json:"paid_revenue"`
	RecentOrders  []orders.OrderDTO `json:"recent_orders"`
}

type userCounter interface {
	CountByRole(ctx context.Context) (map[string]int64, error)
}

type productCounter interface {
	Count(ctx context.Context) (int64, error)
}

type orderReader interface {
	Count(ctx context.Context) (int64, error)
	PaidRevenue(ctx context.Context) (float64, error)
	Recent(ctx context.Context, n int) ([]models.Order, error)
}

// Service produces the admin dashboard summary.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	users    userCounter
	products productCounter
	orders   orderReader
}

// ServiceParams bundles the dependencies required to build a dashboard service.
type ServiceParams struct {
	Users    userCounter
	Products productCounter
	Orders   orderReader
}

// NewService constructs the dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{
		users:    params.Users,
		products: params.Products,
		orders:   params.Orders,
	}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	roleCounts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}

	productCount, err := s.products.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}

	orderCount, err := s.orders.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}

	revenue, err := s.orders.PaidRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}

	recent, err := s.orders.Recent(ctx, 5)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recent orders")
	}

	return &Summary{
		TotalUsers:    roleCounts["user"],
		TotalAdmins:   roleCounts["admin"],
		TotalProducts: productCount,
		TotalOrders:   orderCount,
		PaidRevenue:   revenue,
		RecentOrders:  orders.FromModels(recent),
	}, nil
}
