package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/domain"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/validation"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/pkg/e"
)

// Обертка для swagger ошибки
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries the per-field messages back to the form.
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

type CartResponse struct {
	Cart domain.Cart `json:"cart"`
}

// OrderView decorates an order with its render hints.
type OrderView struct {
	domain.Order
	StatusView domain.StatusView `json:"status_view"`
}

// @title Youth Green Jobs Hub Api
// @version 1

type CartService interface {
	Cart(ctx context.Context, userID string) domain.Cart
	AddToCart(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error)
	UpdateCartLine(ctx context.Context, userID, lineID string, quantity int) (domain.Cart, error)
	RemoveCartLine(ctx context.Context, userID, lineID string) domain.Cart
	ClearCart(ctx context.Context, userID string)
	Checkout(ctx context.Context, userID string, method domain.PaymentMethod) (domain.Order, error)
}

type OrderService interface {
	Orders(ctx context.Context, userID string) ([]domain.Order, error)
	OrderByID(ctx context.Context, userID, orderID string) (domain.Order, error)
}

type SubmissionStore interface {
	CreateWasteReport(ctx context.Context, report domain.WasteReport) (domain.WasteReport, error)
	CreateEvent(ctx context.Context, event domain.CollectionEvent) (domain.CollectionEvent, error)
}

type Renderer interface {
	RenderHome(http.ResponseWriter)
}

type Handler struct {
	carts       CartService
	orders      OrderService
	submissions SubmissionStore
	renderer    Renderer
	logger      *slog.Logger
}

func NewHandler(logger *slog.Logger, carts CartService, orders OrderService, submissions SubmissionStore, serviceRender Renderer) *Handler {
	return &Handler{
		carts:       carts,
		orders:      orders,
		submissions: submissions,
		renderer:    serviceRender,
		logger:      logger,
	}
}

// userID pulls the caller's identity attached upstream by the auth proxy.
func userID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Missing user identity"})
		return "", false
	}
	return id, true
}

// ShowHomepage отображает домашнюю страницу
func (h *Handler) ShowHomepage(c *gin.Context) {
	h.renderer.RenderHome(c.Writer)
}

// GetCart godoc
// @Summary Current cart
// @Produce json
// @Success 200 {object} handler.CartResponse
// @Router /cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, CartResponse{Cart: h.carts.Cart(c.Request.Context(), user)})
}

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// AddToCart godoc
// @Summary Add a product to the cart
// @Accept json
// @Produce json
// @Param item body handler.addToCartRequest true "Product and quantity"
// @Success 200 {object} handler.CartResponse
// @Failure 400 {object} handler.ErrorResponse
// @Failure 404 {object} handler.ErrorResponse
// @Router /cart/items [post]
func (h *Handler) AddToCart(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("Failed to bind add-to-cart json", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid input"})
		return
	}

	cart, err := h.carts.AddToCart(c.Request.Context(), user, req.ProductID, req.Quantity)
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, CartResponse{Cart: cart})
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartLine godoc
// @Summary Change a cart line's quantity
// @Accept json
// @Produce json
// @Param id path string true "Cart line id"
// @Param item body handler.updateLineRequest true "New quantity; below 1 removes the line"
// @Success 200 {object} handler.CartResponse
// @Failure 404 {object} handler.ErrorResponse
// @Router /cart/items/{id} [patch]
func (h *Handler) UpdateCartLine(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	var req updateLineRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("Failed to bind quantity json", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid input"})
		return
	}

	cart, err := h.carts.UpdateCartLine(c.Request.Context(), user, c.Param("id"), req.Quantity)
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, CartResponse{Cart: cart})
}

// RemoveCartLine godoc
// @Summary Remove a cart line
// @Description Idempotent: removing an absent line still returns the cart
// @Produce json
// @Param id path string true "Cart line id"
// @Success 200 {object} handler.CartResponse
// @Router /cart/items/{id} [delete]
func (h *Handler) RemoveCartLine(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}
	cart := h.carts.RemoveCartLine(c.Request.Context(), user, c.Param("id"))
	c.JSON(http.StatusOK, CartResponse{Cart: cart})
}

// ClearCart godoc
// @Summary Empty the cart
// @Success 204
// @Router /cart [delete]
func (h *Handler) ClearCart(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}
	h.carts.ClearCart(c.Request.Context(), user)
	c.Status(http.StatusNoContent)
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// Checkout godoc
// @Summary Create an order from the cart
// @Accept json
// @Produce json
// @Param checkout body handler.checkoutRequest true "Payment method"
// @Success 201 {object} handler.OrderView
// @Failure 400 {object} handler.ErrorResponse
// @Failure 500 {object} handler.ErrorResponse
// @Router /checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("Failed to bind checkout json", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid input"})
		return
	}

	order, err := h.carts.Checkout(c.Request.Context(), user, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		switch {
		case errors.Is(err, e.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Cart is empty"})
		case errors.Is(err, e.ErrInvalidPayment):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown payment method"})
		default:
			h.logger.Error("Failed to create order", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create order"})
		}
		return
	}
	c.JSON(http.StatusCreated, OrderView{Order: order, StatusView: domain.ViewFor(order.Status)})
}

// ListOrders godoc
// @Summary Orders for the current user
// @Produce json
// @Success 200 {array} handler.OrderView
// @Failure 500 {object} handler.ErrorResponse
// @Router /orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	orders, err := h.orders.Orders(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to fetch orders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderView{Order: o, StatusView: domain.ViewFor(o.Status)})
	}
	c.JSON(http.StatusOK, views)
}

// GetOrderByID godoc
// @Summary Order detail
// @Produce json
// @Param id path string true "Order id"
// @Success 200 {object} handler.OrderView
// @Failure 404 {object} handler.ErrorResponse
// @Failure 500 {object} handler.ErrorResponse
// @Router /orders/{id} [get]
func (h *Handler) GetOrderByID(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	order, err := h.orders.OrderByID(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Order not found"})
			return
		}
		h.logger.Error("Failed to fetch order", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, OrderView{Order: order, StatusView: domain.ViewFor(order.Status)})
}

// Register godoc
// @Summary Validate a registration form
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 422 {object} handler.ValidationErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	h.validateForm(c, validation.RegistrationSchema(), nil)
}

// Login godoc
// @Summary Validate a login form
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 422 {object} handler.ValidationErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	h.validateForm(c, validation.LoginSchema(), nil)
}

// UpdateProfile godoc
// @Summary Validate a profile update form
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 422 {object} handler.ValidationErrorResponse
// @Router /auth/profile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	h.validateForm(c, validation.ProfileUpdateSchema(), nil)
}

// CreateWasteReport godoc
// @Summary Submit a waste report
// @Accept json
// @Produce json
// @Success 201 {object} domain.WasteReport
// @Failure 422 {object} handler.ValidationErrorResponse
// @Failure 500 {object} handler.ErrorResponse
// @Router /waste/reports [post]
func (h *Handler) CreateWasteReport(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	h.validateForm(c, validation.WasteReportSchema(), func(values map[string]any) {
		report := domain.WasteReport{
			ReporterID:      user,
			Title:           values["title"].(string),
			Description:     values["description"].(string),
			Category:        values["category"].(string),
			EstimatedWeight: values["estimated_weight"].(float64),
			Location:        values["location"].(string),
		}

		created, err := h.submissions.CreateWasteReport(c.Request.Context(), report)
		if err != nil {
			h.logger.Error("Failed to create waste report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create waste report"})
			return
		}
		c.JSON(http.StatusCreated, created)
	})
}

// CreateEvent godoc
// @Summary Schedule a collection event
// @Accept json
// @Produce json
// @Success 201 {object} domain.CollectionEvent
// @Failure 422 {object} handler.ValidationErrorResponse
// @Failure 500 {object} handler.ErrorResponse
// @Router /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	user, ok := userID(c)
	if !ok {
		return
	}

	h.validateForm(c, validation.CollectionEventSchema(), func(values map[string]any) {
		event := domain.CollectionEvent{
			OrganizerID: user,
			Title:       values["title"].(string),
			Description: values["description"].(string),
			Location:    values["location"].(string),
			StartsAt:    values["start_datetime"].(time.Time),
			EndsAt:      values["end_datetime"].(time.Time),
		}
		if v, ok := values["max_participants"].(int); ok {
			event.MaxParticipants = v
		}
		if v, ok := values["registration_deadline"].(time.Time); ok {
			event.RegistrationDeadline = &v
		}

		created, err := h.submissions.CreateEvent(c.Request.Context(), event)
		if err != nil {
			h.logger.Error("Failed to create event", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create event"})
			return
		}
		c.JSON(http.StatusCreated, created)
	})
}

// validateForm binds an arbitrary JSON object, runs the schema, and on
// success either echoes a valid flag or hands the coerced values on.
func (h *Handler) validateForm(c *gin.Context, schema validation.Schema, onValid func(values map[string]any)) {
	var input map[string]any
	if err := c.BindJSON(&input); err != nil {
		h.logger.Error("Failed to bind form json", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid input"})
		return
	}

	res := validation.Validate(schema, input)
	if !res.OK {
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: res.Errors})
		return
	}

	if onValid != nil {
		onValid(res.Value)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *Handler) cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, e.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Quantity must be positive"})
	case errors.Is(err, e.ErrLineNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Cart line not found"})
	case errors.Is(err, e.ErrProductNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Product not found"})
	default:
		h.logger.Error("Cart operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
