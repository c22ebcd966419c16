package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gearghar/gearghar-backend/internal/auth"
	"github.com/gearghar/gearghar-backend/internal/dashboard"
	"github.com/gearghar/gearghar-backend/internal/orders"
	"github.com/gearghar/gearghar-backend/internal/products"
	"github.com/gearghar/gearghar-backend/internal/users"
	"github.com/gearghar/gearghar-backend/pkg/config"
	"github.com/gearghar/gearghar-backend/pkg/db"
	"github.com/gearghar/gearghar-backend/pkg/db/models"
	"github.com/gearghar/gearghar-backend/pkg/enums"
	"github.com/gearghar/gearghar-backend/pkg/metrics"
	"github.com/gearghar/gearghar-backend/pkg/redis"
)

// fakeRedis is an in-memory stand-in for the command surface the router needs.
type fakeRedis struct {
	values map[string]string
	counts map[string]int64
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, counts: map[string]int64{}}
}

func (f *fakeRedis) Ping(context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *goredis.StatusCmd {
	f.values[key] = toString(value)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	value, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(value, nil)
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) *goredis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	f.values[key] = toString(value)
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Incr(_ context.Context, key string) *goredis.IntCmd {
	f.counts[key]++
	return goredis.NewIntResult(f.counts[key], nil)
}

func (f *fakeRedis) Expire(context.Context, string, time.Duration) *goredis.BoolCmd {
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	for _, key := range keys {
		delete(f.values, key)
		delete(f.counts, key)
	}
	return goredis.NewIntResult(int64(len(keys)), nil)
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func setupRouterDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  status TEXT NOT NULL DEFAULT 'active',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL,
  category TEXT NOT NULL,
  brand TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  stock INTEGER NOT NULL DEFAULT 0,
  images TEXT NOT NULL DEFAULT '{}',
  status TEXT NOT NULL DEFAULT 'active',
  tags TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  subtotal NUMERIC NOT NULL,
  tax NUMERIC NOT NULL,
  shipping NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  shipping_street TEXT NOT NULL,
  shipping_city TEXT NOT NULL,
  shipping_state TEXT NOT NULL,
  shipping_zip_code TEXT NOT NULL,
  shipping_country TEXT NOT NULL,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, conn.Exec(schema).Error)
	}
	return conn
}

func buildTestRouter(t *testing.T, conn *gorm.DB) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "development", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:          "router-test-secret",
			Issuer:          "gearghar",
			ExpirationHours: 1,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	}

	usersRepo := users.NewRepository(conn)
	productsRepo := products.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)

	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	require.NoError(t, err)

	productsSvc, err := products.NewService(productsRepo)
	require.NoError(t, err)

	ordersSvc, err := orders.NewService(ordersRepo, db.FromGorm(conn))
	require.NoError(t, err)

	dashboardSvc, err := dashboard.NewService(dashboard.ServiceParams{
		Users:    usersRepo,
		Products: productsRepo,
		Orders:   ordersRepo,
	})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()

	return NewRouter(Deps{
		Config:           cfg,
		Logger:           nil,
		DB:               db.FromGorm(conn),
		Redis:            redis.FromCmdable(newFakeRedis()),
		HTTPMetrics:      metrics.NewHTTPMetrics(registry),
		Gatherer:         registry,
		AuthService:      authSvc,
		ProductsService:  productsSvc,
		OrdersService:    ordersSvc,
		DashboardService: dashboardSvc,
		UsersRepo:        usersRepo,
	})
}

func registerShopper(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	username := strings.SplitN(email, "@", 2)[0]
	body := `{"name":"Dana Whitfield","username":"` + username + `","email":"` + email + `","password":"Sunlit8Harbor","confirm_password":"Sunlit8Harbor","agree_to_terms":true}`
	// No Idempotency-Key: the header is optional on signup.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payload struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Data.Token)
	return payload.Data.Token
}

func TestRouterAuthFlow(t *testing.T) {
	conn := setupRouterDB(t)
	router := buildTestRouter(t, conn)

	token := registerShopper(t, router, "dana@example.com")

	// Login with the same credentials.
	loginBody := `{"email":"DANA@example.com","password":"Sunlit8Harbor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(loginBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The token resolves the current profile.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Data struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			Name     string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "dana@example.com", me.Data.Email)
	assert.Equal(t, "dana", me.Data.Username)
	assert.Equal(t, "Dana Whitfield", me.Data.Name)

	// Authenticated surfaces reject anonymous callers.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Shoppers cannot reach the admin console.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterCheckoutIsIdempotent(t *testing.T) {
	conn := setupRouterDB(t)
	router := buildTestRouter(t, conn)

	product, err := products.NewRepository(conn).Create(context.Background(), &models.Product{
		Name:        "Trail Runner",
		Description: "Lightweight trail shoe",
		Price:       decimal.NewFromFloat(40.00),
		Category:    enums.ProductCategorySports,
		Brand:       "Ridgeline",
		SKU:         "TR-100",
		Stock:       5,
		Status:      enums.ProductStatusActive,
	})
	require.NoError(t, err)

	token := registerShopper(t, router, "mika@example.com")

	checkoutBody := `{
  "items": [{"product_id": "` + product.ID.String() + `", "quantity": 2}],
  "payment_method": "card",
  "shipping_address": {"street": "12 Pine St", "city": "Portland", "state": "OR", "zip_code": "97201", "country": "US"}
}`
	key := uuid.NewString()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", key)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := send()
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	// The replay never reached the service: stock only dropped once.
	current, err := products.NewRepository(conn).FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, current.Stock)

	// Checkout without the idempotency header is rejected outright.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	conn := setupRouterDB(t)
	router := buildTestRouter(t, conn)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "development", rec.Header().Get("X-Gearghar-Env"))

	req = httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
