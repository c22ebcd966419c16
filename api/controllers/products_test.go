package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearghar/gearghar-backend/internal/products"
	pkgerrors "github.com/gearghar/gearghar-backend/pkg/errors"
	"github.com/gearghar/gearghar-backend/pkg/pagination"
)

type stubProductsService struct {
	product    *products.ProductDTO
	getErr     error
	list       []products.ProductDTO
	listParams products.ListParams
	next       *pagination.Cursor
	listErr    error
}

func (s *stubProductsService) Get(context.Context, uuid.UUID) (*products.ProductDTO, error) {
	return s.product, s.getErr
}

func (s *stubProductsService) List(_ context.Context, params products.ListParams) ([]products.ProductDTO, *pagination.Cursor, error) {
	s.listParams = params
	return s.list, s.next, s.listErr
}

func (s *stubProductsService) Create(context.Context, products.CreateProductRequest) (*products.ProductDTO, error) {
	return s.product, nil
}

func (s *stubProductsService) Update(context.Context, uuid.UUID, products.UpdateProductRequest) (*products.ProductDTO, error) {
	return s.product, nil
}

func (s *stubProductsService) Delete(context.Context, uuid.UUID) error {
	return nil
}

func productRouter(svc products.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/products", ProductList(svc, nil))
	r.Get("/api/v1/products/{productId}", ProductDetail(svc, nil))
	return r
}

func TestProductListForwardsFilters(t *testing.T) {
	svc := &stubProductsService{
		list: []products.ProductDTO{{ID: uuid.New(), Name: "Trail Runner", Price: decimal.NewFromFloat(89.95)}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=sports&search=trail&limit=10", nil)
	rec := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sports", svc.listParams.Category)
	assert.Equal(t, "trail", svc.listParams.Search)
	assert.Equal(t, 10, svc.listParams.Page.Limit)

	var payload struct {
		Success bool `json:"success"`
		Data    []struct {
			Name string `json:"name"`
		} `json:"data"`
		HasMore bool `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "Trail Runner", payload.Data[0].Name)
	assert.False(t, payload.HasMore)
}

func TestProductDetail(t *testing.T) {
	id := uuid.New()
	svc := &stubProductsService{product: &products.ProductDTO{ID: id, Name: "Trail Runner"}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil)
	rec := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, id.String(), payload.Data.ID)
}

func TestProductDetailRejectsBadID(t *testing.T) {
	svc := &stubProductsService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductDetailNotFound(t *testing.T) {
	svc := &stubProductsService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
