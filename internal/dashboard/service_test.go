package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/gearghar/gearghar-backend/pkg/db/models"
	pkgerrors "github.com/gearghar/gearghar-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubUserCounter struct {
	counts map[string]int64
	err    error
}

func (s stubUserCounter) CountByRole(context.Context) (map[string]int64, error) {
	return s.counts, s.err
}

type stubProductCounter struct {
	count int64
	err   error
}

func (s stubProductCounter) Count(context.Context) (int64, error) {
	return s.count, s.err
}

type stubOrderReader struct {
	count   int64
	revenue float64
	recent  []models.Order
	err     error
}

func (s stubOrderReader) Count(context.Context) (int64, error) {
	return s.count, s.err
}

func (s stubOrderReader) PaidRevenue(context.Context) (float64, error) {
	return s.revenue, s.err
}

func (s stubOrderReader) Recent(context.Context, int) ([]models.Order, error) {
	return s.recent, s.err
}

func TestSummaryAggregates(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Users:    stubUserCounter{counts: map[string]int64{"user": 12, "admin": 2}},
		Products: stubProductCounter{count: 40},
		Orders: stubOrderReader{
			count:   7,
			revenue: 1234.56,
			recent:  []models.Order{{ID: uuid.New(), OrderNumber: "ORD-000007"}},
		},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalUsers != 12 || summary.TotalAdmins != 2 {
		t.Fatalf("unexpected user counts %+v", summary)
	}
	if summary.TotalProducts != 40 || summary.TotalOrders != 7 {
		t.Fatalf("unexpected product/order counts %+v", summary)
	}
	if summary.PaidRevenue != 1234.56 {
		t.Fatalf("unexpected revenue %v", summary.PaidRevenue)
	}
	if len(summary.RecentOrders) != 1 || summary.RecentOrders[0].OrderNumber != "ORD-000007" {
		t.Fatalf("unexpected recent orders %+v", summary.RecentOrders)
	}
}

func TestSummaryPropagatesErrors(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Users:    stubUserCounter{err: errors.New("boom")},
		Products: stubProductCounter{},
		Orders:   stubOrderReader{},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Summary(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected missing dependency error")
	}
}
