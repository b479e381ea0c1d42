package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dress-orders-api/middleware"
	"github.com/kendall-kelly/dress-orders-api/models"
	"github.com/kendall-kelly/dress-orders-api/services"
)

// CreateOrderRequest represents the request body for creating an order.
// Required-field checks happen in the order service so every transport
// reports them the same way.
type CreateOrderRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	DressID  string `json:"dressId"`
	Size     string `json:"size"`
	Quantity any    `json:"quantity"`
	Notes    string `json:"notes"`
}

// CancelOrderRequest carries the customer's claimed email
type CancelOrderRequest struct {
	Email string `json:"email"`
}

// UpdateStatusRequest is the admin status override body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderController serves the order endpoints
type OrderController struct {
	orders *services.OrderService
}

// NewOrderController creates an order controller backed by orders
func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder handles POST /api/v1/orders
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	order, err := ctl.orders.Create(c.Request.Context(), services.CreateOrderInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		DressID:  req.DressID,
		Size:     req.Size,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders.
// The admin sees every order; customers pass ?email= and see their own.
func (ctl *OrderController) ListOrders(c *gin.Context) {
	actor := services.Actor{
		Admin: middleware.IsAdmin(c),
		Email: c.Query("email"),
	}

	orders, err := ctl.orders.List(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, orders)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel
func (ctl *OrderController) CancelOrder(c *gin.Context) {
	var req CancelOrderRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondInvalidBody(c, err)
		return
	}
	if req.Email == "" {
		req.Email = c.Query("email")
	}

	actor := services.Actor{Admin: middleware.IsAdmin(c), Email: req.Email}
	order, err := ctl.orders.Cancel(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// EditOrder handles POST /api/v1/orders/:id/edit (admin only)
func (ctl *OrderController) EditOrder(c *gin.Context) {
	var patch services.OrderPatch
	if err := bindOptionalJSON(c, &patch); err != nil {
		respondInvalidBody(c, err)
		return
	}

	actor := services.Actor{Admin: middleware.IsAdmin(c)}
	order, err := ctl.orders.EditFields(c.Request.Context(), c.Param("id"), actor, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// UpdateOrderStatus handles POST /api/v1/orders/:id/status (admin only)
func (ctl *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	actor := services.Actor{Admin: middleware.IsAdmin(c)}
	order, err := ctl.orders.SetStatus(c.Request.Context(), c.Param("id"), actor, models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// bindOptionalJSON decodes the JSON body into obj, treating an empty body as {}
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
