package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/gearghar/gearghar-backend/internal/products"
	"github.com/gearghar/gearghar-backend/pkg/db"
	"github.com/gearghar/gearghar-backend/pkg/db/models"
	"github.com/gearghar/gearghar-backend/pkg/enums"
	pkgerrors "github.com/gearghar/gearghar-backend/pkg/errors"
	"github.com/gearghar/gearghar-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	taxRate               = decimal.NewFromFloat(0.10)
	shippingFlat          = decimal.NewFromFloat(9.99)
	freeShippingThreshold = decimal.NewFromInt(100)
)

// errOrderNumberTaken signals that a concurrent checkout claimed the same
// order number; the whole transaction is rerun with a fresh allocation.
var errOrderNumberTaken = errors.New("order number already taken")

const checkoutAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order behavior needed by the controllers.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderDTO, error)
	Get(ctx context.Context, actorID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderDTO, *pagination.Cursor, error)
	ListAll(ctx context.Context, status string, params pagination.Params) ([]OrderDTO, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderDTO, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds an orders service with the required dependencies.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Checkout places an order: stock is checked and decremented, line items are
// snapshotted, and totals are computed, all inside one transaction. Payment
// is simulated, so orders start out pending.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderDTO, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	var placed *models.Order
	var err error
	for attempt := 0; attempt < checkoutAttempts; attempt++ {
		placed, err = s.placeOrder(ctx, userID, req)
		if !errors.Is(err, errOrderNumberTaken) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, errOrderNumberTaken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate order number")
		}
		return nil, err
	}

	return FromModel(placed), nil
}

// placeOrder runs one checkout attempt inside its own transaction.
func (s *service) placeOrder(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*models.Order, error) {
	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := products.NewRepository(tx)
		orderRepo := NewRepository(tx)

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			product, err := productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}

			if err := productRepo.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, products.ErrInsufficientStock) {
					return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("insufficient stock for %s", product.Name))
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  line.Quantity,
			})
			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		subtotal = subtotal.Round(2)
		tax := subtotal.Mul(taxRate).Round(2)
		shipping := shippingFlat
		if subtotal.GreaterThan(freeShippingThreshold) {
			shipping = decimal.Zero
		}
		total := subtotal.Add(tax).Add(shipping)

		orderNumber, err := orderRepo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate order number")
		}

		order := &models.Order{
			OrderNumber:   orderNumber,
			UserID:        userID,
			Items:         items,
			Subtotal:      subtotal,
			Tax:           tax,
			Shipping:      shipping,
			Total:         total,
			Status:        enums.OrderStatusPending,
			PaymentStatus: enums.PaymentStatusPending,
			PaymentMethod: req.PaymentMethod,
			ShippingAddress: models.ShippingAddress{
				Street:  req.ShippingAddress.Street,
				City:    req.ShippingAddress.City,
				State:   req.ShippingAddress.State,
				ZipCode: req.ShippingAddress.ZipCode,
				Country: req.ShippingAddress.Country,
			},
			Notes: req.Notes,
		}

		placed, err = orderRepo.Create(ctx, order)
		if err != nil {
			if db.IsUniqueViolation(err, "idx_orders_order_number") {
				return errOrderNumberTaken
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// Get loads a single order. Non-admin callers only see their own; an order
// belonging to someone else reads as not found rather than forbidden.
func (s *service) Get(ctx context.Context, actorID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if !isAdmin && order.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderDTO, *pagination.Cursor, error) {
	rows, next, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return FromModels(rows), next, nil
}

func (s *service) ListAll(ctx context.Context, status string, params pagination.Params) ([]OrderDTO, *pagination.Cursor, error) {
	if status != "" {
		if _, err := enums.ParseOrderStatus(status); err != nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
	}
	rows, next, err := s.repo.List(ctx, status, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return FromModels(rows), next, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderDTO, error) {
	if req.Status == nil && req.PaymentStatus == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no status fields provided")
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if req.PaymentStatus != nil && !req.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	order, err := s.repo.UpdateStatus(ctx, orderID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
	}
	return FromModel(order), nil
}
