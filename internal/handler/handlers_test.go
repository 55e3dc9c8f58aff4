package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/domain"
	mock_handler "github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/handler/mocks"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/pkg/e"
)

const testUser = "user-1"

type testMocks struct {
	carts       *mock_handler.MockCartService
	orders      *mock_handler.MockOrderService
	submissions *mock_handler.MockSubmissionStore
	renderer    *mock_handler.MockRenderer
}

func setupRouter(t *testing.T) (*gin.Engine, testMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := testMocks{
		carts:       mock_handler.NewMockCartService(ctrl),
		orders:      mock_handler.NewMockOrderService(ctrl),
		submissions: mock_handler.NewMockSubmissionStore(ctrl),
		renderer:    mock_handler.NewMockRenderer(ctrl),
	}

	gin.SetMode(gin.TestMode)
	h := NewHandler(slog.Default(), m.carts, m.orders, m.submissions, m.renderer)
	r := gin.New()
	r.GET("/", h.ShowHomepage)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/cart", h.GetCart)
	r.DELETE("/cart", h.ClearCart)
	r.POST("/cart/items", h.AddToCart)
	r.PATCH("/cart/items/:id", h.UpdateCartLine)
	r.DELETE("/cart/items/:id", h.RemoveCartLine)
	r.POST("/checkout", h.Checkout)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrderByID)
	r.POST("/waste/reports", h.CreateWasteReport)
	r.POST("/events", h.CreateEvent)
	return r, m
}

func doJSON(r *gin.Engine, method, path, body string, asUser string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if asUser != "" {
		req.Header.Set("X-User-ID", asUser)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_GetCart_Success(t *testing.T) {
	r, m := setupRouter(t)

	cart := domain.Cart{
		UserID:    testUser,
		Lines:     []domain.CartLine{{ID: "line-1", Product: domain.Product{ID: "p1", Name: "Solar lamp", Price: domain.NewPrice("1200")}, Quantity: 2}},
		Total:     domain.NewPrice("2400"),
		ItemCount: 2,
	}
	m.carts.EXPECT().Cart(gomock.Any(), testUser).Return(cart)

	w := doJSON(r, http.MethodGet, "/cart", "", testUser)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2400`)
	assert.Contains(t, w.Body.String(), `"item_count":2`)
}

func TestHandler_MissingIdentity(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/cart", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_AddToCart_Success(t *testing.T) {
	r, m := setupRouter(t)

	m.carts.EXPECT().AddToCart(gomock.Any(), testUser, "p1", 2).Return(domain.Cart{UserID: testUser, ItemCount: 2}, nil)

	w := doJSON(r, http.MethodPost, "/cart/items", `{"product_id": "p1", "quantity": 2}`, testUser)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"item_count":2`)
}

func TestHandler_AddToCart_BindError(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/cart/items", "invalid-json", testUser)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid input")
}

func TestHandler_AddToCart_UnknownProduct(t *testing.T) {
	r, m := setupRouter(t)

	m.carts.EXPECT().AddToCart(gomock.Any(), testUser, "ghost", 1).Return(domain.Cart{}, e.ErrProductNotFound)

	w := doJSON(r, http.MethodPost, "/cart/items", `{"product_id": "ghost", "quantity": 1}`, testUser)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Product not found")
}

func TestHandler_UpdateCartLine_NotFound(t *testing.T) {
	r, m := setupRouter(t)

	m.carts.EXPECT().UpdateCartLine(gomock.Any(), testUser, "line-9", 3).Return(domain.Cart{}, e.ErrLineNotFound)

	w := doJSON(r, http.MethodPatch, "/cart/items/line-9", `{"quantity": 3}`, testUser)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Cart line not found")
}

func TestHandler_RemoveCartLine_AlwaysOK(t *testing.T) {
	r, m := setupRouter(t)

	m.carts.EXPECT().RemoveCartLine(gomock.Any(), testUser, "line-1").Return(domain.Cart{UserID: testUser})

	w := doJSON(r, http.MethodDelete, "/cart/items/line-1", "", testUser)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_ClearCart(t *testing.T) {
	r, m := setupRouter(t)

	m.carts.EXPECT().ClearCart(gomock.Any(), testUser)

	w := doJSON(r, http.MethodDelete, "/cart", "", testUser)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandler_Checkout_Success(t *testing.T) {
	r, m := setupRouter(t)

	order := domain.Order{ID: "ord-1", OrderNumber: "YGJ-0001", CustomerID: testUser, Status: domain.StatusPending}
	m.carts.EXPECT().Checkout(gomock.Any(), testUser, domain.PaymentMobileMoney).Return(order, nil)

	w := doJSON(r, http.MethodPost, "/checkout", `{"payment_method": "mobile-money"}`, testUser)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"order_number":"YGJ-0001"`)
	assert.Contains(t, w.Body.String(), `"label":"Pending"`)
}

func TestHandler_Checkout_EmptyCart(t *testing.T) {
	r, m := setupRouter(t)

	m.carts.EXPECT().Checkout(gomock.Any(), testUser, domain.PaymentCredits).Return(domain.Order{}, e.ErrEmptyCart)

	w := doJSON(r, http.MethodPost, "/checkout", `{"payment_method": "credits"}`, testUser)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cart is empty")
}

func TestHandler_Checkout_UnknownMethod(t *testing.T) {
	r, m := setupRouter(t)

	m.carts.EXPECT().Checkout(gomock.Any(), testUser, domain.PaymentMethod("barter")).Return(domain.Order{}, e.ErrInvalidPayment)

	w := doJSON(r, http.MethodPost, "/checkout", `{"payment_method": "barter"}`, testUser)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown payment method")
}

func TestHandler_ListOrders_UnknownStatusFallsBack(t *testing.T) {
	r, m := setupRouter(t)

	orders := []domain.Order{{ID: "ord-1", CustomerID: testUser, Status: domain.OrderStatus("archived")}}
	m.orders.EXPECT().Orders(gomock.Any(), testUser).Return(orders, nil)

	w := doJSON(r, http.MethodGet, "/orders", "", testUser)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"Unknown"`)
}

func TestHandler_GetOrderByID_NotFound(t *testing.T) {
	r, m := setupRouter(t)

	m.orders.EXPECT().OrderByID(gomock.Any(), testUser, "missing").Return(domain.Order{}, e.ErrNotFound)

	w := doJSON(r, http.MethodGet, "/orders/missing", "", testUser)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")
}

func TestHandler_Login_ValidationErrors(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/auth/login", `{"username": "ab", "password": "short"}`, "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "username must be at least 3 characters")
	assert.Contains(t, w.Body.String(), "password must be at least 8 characters")
}

func TestHandler_Register_PasswordMismatch(t *testing.T) {
	r, _ := setupRouter(t)

	dob := time.Now().AddDate(-25, 0, 0).Format("2006-01-02")
	body := fmt.Sprintf(`{
		"username": "jane_wanjiru",
		"email": "jane@example.com",
		"password": "GreenJobs1",
		"password_confirm": "GreenJobs2",
		"first_name": "Jane",
		"last_name": "Wanjiru",
		"date_of_birth": "%s"
	}`, dob)

	w := doJSON(r, http.MethodPost, "/auth/register", body, "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "passwords do not match")
}

func TestHandler_CreateWasteReport_Success(t *testing.T) {
	r, m := setupRouter(t)

	m.submissions.EXPECT().CreateWasteReport(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, report domain.WasteReport) (domain.WasteReport, error) {
			assert.Equal(t, testUser, report.ReporterID)
			assert.Equal(t, "plastic", report.Category)
			assert.InDelta(t, 120.5, report.EstimatedWeight, 0.001)
			report.ID = "wr-1"
			return report, nil
		})

	body := `{
		"title": "Beach cleanup drive",
		"description": "Plastic bottles along the public beach",
		"category": "plastic",
		"estimated_weight": "120.5",
		"location": "Mombasa"
	}`
	w := doJSON(r, http.MethodPost, "/waste/reports", body, testUser)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"wr-1"`)
}

func TestHandler_CreateEvent_EndBeforeStart(t *testing.T) {
	r, _ := setupRouter(t)

	body := `{
		"title": "River cleanup",
		"description": "Monthly cleanup along the Nairobi river",
		"location": "Nairobi",
		"start_datetime": "2026-09-12T09:00",
		"end_datetime": "2026-09-12T08:00"
	}`
	w := doJSON(r, http.MethodPost, "/events", body, testUser)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "end must be after start")
}

func TestHandler_ShowHomepage(t *testing.T) {
	r, m := setupRouter(t)

	m.renderer.EXPECT().RenderHome(gomock.Any()).DoAndReturn(func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("homepage"))
	})

	w := doJSON(r, http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "homepage", w.Body.String())
}
