package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dress-orders-api/middleware"
	"github.com/kendall-kelly/dress-orders-api/models"
	"github.com/kendall-kelly/dress-orders-api/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAdminPassword = "SRIDHAR_35"

// failingStore fails every load and save
type failingStore struct{}

func (failingStore) LoadAll(ctx context.Context) ([]models.Order, error) {
	return nil, errors.New("storage offline")
}

func (failingStore) SaveAll(ctx context.Context, orders []models.Order) error {
	return errors.New("storage offline")
}

type testEnv struct {
	router   *gin.Engine
	sessions *services.SessionManager
	orders   *services.OrderService
}

func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func setupControllerTest(t *testing.T) *testEnv {
	t.Helper()

	store, err := services.NewDBOrderStore(setupOrderTestDB(t))
	require.NoError(t, err)
	return setupControllerTestWithStore(t, store)
}

func setupControllerTestWithStore(t *testing.T, store services.OrderStore) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		sessions: services.NewSessionManager(testAdminPassword, time.Hour),
		orders:   services.NewOrderService(store),
	}

	orderController := NewOrderController(env.orders)
	adminController := NewAdminController(env.sessions)

	router := gin.New()
	router.Use(middleware.ResolveAdmin(env.sessions))
	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog", ListCatalog)
		v1.GET("/catalog/:id", GetCatalogItem)

		v1.POST("/admin/login", adminController.Login)
		v1.POST("/admin/logout", middleware.RequireAdmin(), adminController.Logout)

		v1.POST("/orders", orderController.CreateOrder)
		v1.GET("/orders", orderController.ListOrders)
		v1.POST("/orders/:id/cancel", orderController.CancelOrder)
		v1.POST("/orders/:id/edit", orderController.EditOrder)
		v1.POST("/orders/:id/status", orderController.UpdateOrderStatus)
	}
	env.router = router

	return env
}

// do sends a request and decodes the JSON envelope. body may be nil, a
// string sent verbatim, or any value to marshal.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AdminTokenHeader, token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response should be valid JSON: %s", w.Body.String())
	return w, response
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := e.sessions.Login(testAdminPassword)
	require.NoError(t, err)
	return token
}

func (e *testEnv) createOrder(t *testing.T, email string) string {
	t.Helper()
	order, err := e.orders.Create(context.Background(), services.CreateOrderInput{
		Name:     "Ana",
		Phone:    "123",
		Email:    email,
		Address:  "X",
		DressID:  "dress1",
		Size:     "M",
		Quantity: float64(1),
	})
	require.NoError(t, err)
	return order.ID
}

func validOrderBody() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Ana",
		"phone":    "123",
		"email":    "ana@x.com",
		"address":  "X",
		"dressId":  "dress1",
		"size":     "M",
		"quantity": 2,
	}
}

func errorCode(t *testing.T, response map[string]interface{}) string {
	t.Helper()
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "Response should carry an error object")
	return errObj["code"].(string)
}
