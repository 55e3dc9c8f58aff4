package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/cart"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/domain"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/pkg/e"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type OrderRepository interface {
	Create(ctx context.Context, draft domain.OrderDraft) (domain.Order, error)
	GetByID(ctx context.Context, customerID, orderID string) (domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}

type ProductRepository interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
}

// Cache интерфейс кеша
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
}

const (
	cartCacheTTL  = 24 * time.Hour
	orderCacheTTL = 5 * time.Minute
)

// Service бизнес-логика корзины и заказов
type Service struct {
	products ProductRepository
	orders   OrderRepository
	carts    *cart.Manager
	cache    Cache
	logger   *slog.Logger
	feed     *fetchGuards
}

// NewService создаёт новый сервисный слой
func NewService(logger *slog.Logger, products ProductRepository, orders OrderRepository, carts *cart.Manager, cache Cache) *Service {
	return &Service{
		products: products,
		orders:   orders,
		carts:    carts,
		cache:    cache,
		logger:   logger,
		feed:     newFetchGuards(),
	}
}

func cartKey(userID string) string   { return fmt.Sprintf("cart:%s", userID) }
func orderKey(orderID string) string { return fmt.Sprintf("order:%s", orderID) }

// Cart returns the user's cart, warming the in-memory manager from the
// cache snapshot after a restart.
func (s *Service) Cart(ctx context.Context, userID string) domain.Cart {
	c := s.carts.Cart(userID)
	if len(c.Lines) > 0 {
		return c
	}

	var lines []domain.CartLine
	if err := s.cache.Get(ctx, cartKey(userID), &lines); err == nil && len(lines) > 0 {
		s.carts.Restore(userID, lines)
		c = s.carts.Cart(userID)
	}
	return c
}

func (s *Service) AddToCart(ctx context.Context, userID, productID string, quantity int) (domain.Cart, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, e.Wrap("service.AddToCart", err)
	}

	c, err := s.carts.AddItem(userID, product, quantity)
	if err != nil {
		return domain.Cart{}, err
	}
	s.saveCartSnapshot(ctx, userID, c)
	return c, nil
}

func (s *Service) UpdateCartLine(ctx context.Context, userID, lineID string, quantity int) (domain.Cart, error) {
	c, err := s.carts.UpdateQuantity(userID, lineID, quantity)
	if err != nil {
		return domain.Cart{}, err
	}
	s.saveCartSnapshot(ctx, userID, c)
	return c, nil
}

func (s *Service) RemoveCartLine(ctx context.Context, userID, lineID string) domain.Cart {
	c := s.carts.RemoveItem(userID, lineID)
	s.saveCartSnapshot(ctx, userID, c)
	return c
}

func (s *Service) ClearCart(ctx context.Context, userID string) {
	s.carts.Clear(userID)
	if err := s.cache.Delete(ctx, cartKey(userID)); err != nil {
		s.logger.Warn("failed to drop cart snapshot", slog.String("error", err.Error()))
	}
}

// Checkout assembles an OrderDraft from the current cart and persists it.
// The cart is cleared only after the repository reports success; a failed
// create leaves every line in place for an explicit retry.
func (s *Service) Checkout(ctx context.Context, userID string, method domain.PaymentMethod) (domain.Order, error) {
	if !method.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", e.ErrInvalidPayment, method)
	}

	c := s.Cart(ctx, userID)
	if len(c.Lines) == 0 {
		return domain.Order{}, e.ErrEmptyCart
	}

	draft := domain.OrderDraft{
		CustomerID:    userID,
		PaymentMethod: method,
		Total:         c.Total,
	}
	for _, l := range c.Lines {
		draft.Items = append(draft.Items, domain.OrderItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			UnitPrice: l.Product.Price,
			Quantity:  l.Quantity,
		})
	}
	if method == domain.PaymentCredits {
		draft.CreditsUsed = c.Total
	}

	order, err := s.orders.Create(ctx, draft)
	if err != nil {
		return domain.Order{}, e.Wrap("service.Checkout", err)
	}

	s.ClearCart(ctx, userID)
	return order, nil
}

// Orders reloads the user's order list. A reload that was overtaken by a
// newer one for the same user is discarded in favour of the newest
// applied list, so a slow response never overwrites a fresh one.
func (s *Service) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	key := "orders:" + userID
	seq := s.feed.begin(key)

	list, err := s.orders.ListByCustomer(ctx, userID)
	if err != nil {
		return nil, e.Wrap("service.Orders", err)
	}

	if !s.feed.apply(key, seq, list) {
		s.logger.Debug("stale order list discarded", slog.String("user_id", userID))
	}
	if applied, ok := s.feed.applied(key); ok {
		return applied.([]domain.Order), nil
	}
	return list, nil
}

// OrderByID reads through the cache. A detail fetch superseded by a newer
// one for the same order still answers its own caller but does not write
// the cache.
func (s *Service) OrderByID(ctx context.Context, userID, orderID string) (domain.Order, error) {
	var cached domain.Order
	if err := s.cache.Get(ctx, orderKey(orderID), &cached); err == nil && cached.CustomerID == userID {
		return cached, nil
	}

	key := "order:" + orderID
	seq := s.feed.begin(key)

	order, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if s.feed.apply(key, seq, order) {
		if err := s.cache.Set(ctx, orderKey(orderID), order, orderCacheTTL); err != nil {
			s.logger.Warn("failed to cache order", slog.String("error", err.Error()))
		}
	}
	return order, nil
}

func (s *Service) saveCartSnapshot(ctx context.Context, userID string, c domain.Cart) {
	if err := s.cache.Set(ctx, cartKey(userID), c.Lines, cartCacheTTL); err != nil {
		s.logger.Warn("failed to save cart snapshot", slog.String("error", err.Error()))
	}
}
