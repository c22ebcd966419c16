package orders

import (
	"context"
	"fmt"

	"github.com/gearghar/gearghar-backend/pkg/db/models"
	"github.com/gearghar/gearghar-backend/pkg/enums"
	"github.com/gearghar/gearghar-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the order together with its line items.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// NextOrderNumber produces the next sequential human-facing number from the
// highest one issued so far. Concurrent checkouts can still race to the same
// value; the unique index rejects the loser, whose transaction is retried
// with a fresh number.
func (r *Repository) NextOrderNumber(ctx context.Context) (string, error) {
	var last string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("order_number").
		Order("order_number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		var n int
		if _, err := fmt.Sscanf(last, "ORD-%d", &n); err != nil {
			return "", fmt.Errorf("malformed order number %q: %w", last, err)
		}
		next = n + 1
	}
	return fmt.Sprintf("ORD-%06d", next), nil
}

// FindByID loads an order and its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns a page of the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, *pagination.Cursor, error) {
	return r.list(ctx, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

// List returns a page of all orders for the admin console, optionally
// filtered by status.
func (r *Repository) List(ctx context.Context, status string, params pagination.Params) ([]models.Order, *pagination.Cursor, error) {
	return r.list(ctx, params, func(q *gorm.DB) *gorm.DB {
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	})
}

func (r *Repository) list(ctx context.Context, params pagination.Params, scope func(*gorm.DB) *gorm.DB) ([]models.Order, *pagination.Cursor, error) {
	query := scope(r.db.WithContext(ctx).Model(&models.Order{}))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.Order
	err = query.
		Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

// UpdateStatus applies the provided status fields and returns the fresh row.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateOrderStatusRequest) (*models.Order, error) {
	updates := map[string]any{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.PaymentStatus != nil {
		updates["payment_status"] = *req.PaymentStatus
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}

	return r.FindByID(ctx, id)
}

// Count tallies all orders, used by the dashboard.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

// PaidRevenue sums the total of orders whose payment settled.
func (r *Repository) PaidRevenue(ctx context.Context) (float64, error) {
	var revenue *float64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_status = ?", enums.PaymentStatusPaid).
		Select("SUM(total)").
		Scan(&revenue).Error
	if err != nil {
		return 0, err
	}
	if revenue == nil {
		return 0, nil
	}
	return *revenue, nil
}

// Recent returns the n most recent orders for the dashboard.
func (r *Repository) Recent(ctx context.Context, n int) ([]models.Order, error) {
	if n <= 0 {
		n = 5
	}
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(n).
		Find(&rows).Error
	return rows, err
}
