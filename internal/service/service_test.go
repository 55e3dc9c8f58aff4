package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/cart"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/domain"
	mock_service "github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/service/mocks"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/pkg/e"
)

const user = "user-1"

var productA = domain.Product{ID: "prod-a", Name: "Recycled tote bag", Category: "accessories", Price: domain.NewPrice("500")}

type testDeps struct {
	products *mock_service.MockProductRepository
	orders   *mock_service.MockOrderRepository
	cache    *mock_service.MockCache
}

func newTestService(t *testing.T) (*Service, testDeps) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	deps := testDeps{
		products: mock_service.NewMockProductRepository(ctrl),
		orders:   mock_service.NewMockOrderRepository(ctrl),
		cache:    mock_service.NewMockCache(ctrl),
	}

	deps.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	deps.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := NewService(slog.Default(), deps.products, deps.orders, cart.NewManager(), deps.cache)
	return svc, deps
}

func TestCheckout_Success_ClearsCartAfterCreate(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()

	deps.products.EXPECT().GetProduct(gomock.Any(), "prod-a").Return(productA, nil)
	_, err := svc.AddToCart(ctx, user, "prod-a", 2)
	require.NoError(t, err)

	deps.orders.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, draft domain.OrderDraft) (domain.Order, error) {
			assert.Equal(t, user, draft.CustomerID)
			assert.Equal(t, domain.PaymentMobileMoney, draft.PaymentMethod)
			assert.Equal(t, "1000", draft.Total.String())
			assert.Equal(t, "0", draft.CreditsUsed.String())
			require.Len(t, draft.Items, 1)
			assert.Equal(t, 2, draft.Items[0].Quantity)
			return domain.Order{ID: "ord-1", OrderNumber: "YGJ-0001", CustomerID: user, Status: domain.StatusPending}, nil
		})

	order, err := svc.Checkout(ctx, user, domain.PaymentMobileMoney)
	require.NoError(t, err)
	assert.Equal(t, "YGJ-0001", order.OrderNumber)
	assert.Empty(t, svc.Cart(ctx, user).Lines)
}

func TestCheckout_CreditsApplyFullTotal(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()

	deps.products.EXPECT().GetProduct(gomock.Any(), "prod-a").Return(productA, nil)
	_, err := svc.AddToCart(ctx, user, "prod-a", 3)
	require.NoError(t, err)

	deps.orders.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, draft domain.OrderDraft) (domain.Order, error) {
			assert.Equal(t, "1500", draft.CreditsUsed.String())
			return domain.Order{ID: "ord-2", CustomerID: user}, nil
		})

	_, err = svc.Checkout(ctx, user, domain.PaymentCredits)
	require.NoError(t, err)
}

func TestCheckout_CreateFails_CartKept(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()

	deps.products.EXPECT().GetProduct(gomock.Any(), "prod-a").Return(productA, nil)
	_, err := svc.AddToCart(ctx, user, "prod-a", 1)
	require.NoError(t, err)

	deps.orders.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.Order{}, errors.New("api down"))

	_, err = svc.Checkout(ctx, user, domain.PaymentCashOnDelivery)
	require.Error(t, err)
	assert.Len(t, svc.Cart(ctx, user).Lines, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), user, domain.PaymentMobileMoney)
	assert.ErrorIs(t, err, e.ErrEmptyCart)
}

func TestCheckout_UnknownPaymentMethod(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), user, domain.PaymentMethod("barter"))
	assert.ErrorIs(t, err, e.ErrInvalidPayment)
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	svc, deps := newTestService(t)

	deps.products.EXPECT().GetProduct(gomock.Any(), "ghost").Return(domain.Product{}, e.ErrProductNotFound)

	_, err := svc.AddToCart(context.Background(), user, "ghost", 1)
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestOrders_ReturnsLatestAppliedList(t *testing.T) {
	svc, deps := newTestService(t)
	ctx := context.Background()

	first := []domain.Order{{ID: "ord-1", CustomerID: user}}
	second := []domain.Order{{ID: "ord-1", CustomerID: user}, {ID: "ord-2", CustomerID: user}}

	gomock.InOrder(
		deps.orders.EXPECT().ListByCustomer(gomock.Any(), user).Return(first, nil),
		deps.orders.EXPECT().ListByCustomer(gomock.Any(), user).Return(second, nil),
	)

	got, err := svc.Orders(ctx, user)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Orders(ctx, user)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestOrderByID_CacheMissFetchesAndCaches(t *testing.T) {
	svc, deps := newTestService(t)

	order := domain.Order{ID: "ord-9", CustomerID: user, Status: domain.StatusShipped}
	deps.orders.EXPECT().GetByID(gomock.Any(), user, "ord-9").Return(order, nil)

	got, err := svc.OrderByID(context.Background(), user, "ord-9")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, got.Status)
}

func TestOrderByID_NotFoundPassesThrough(t *testing.T) {
	svc, deps := newTestService(t)

	deps.orders.EXPECT().GetByID(gomock.Any(), user, "missing").Return(domain.Order{}, e.ErrNotFound)

	_, err := svc.OrderByID(context.Background(), user, "missing")
	assert.ErrorIs(t, err, e.ErrNotFound)
}
