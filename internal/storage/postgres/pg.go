package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/config"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/domain"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/pkg/e"
)

type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Postgres, error) {
	connectionString := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.SSLMode,
	)
	poolConfig, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, e.Wrap("storage.pg.NewPostgres.ParseConfig", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, e.Wrap("storage.pg.NewPostgres.NewWithConfig", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		return nil, e.Wrap("storage.pg.NewPostgres.Ping", err)
	}

	return &Postgres{
		pool:   pool,
		logger: logger,
	}, nil
}

func (p *Postgres) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	var product domain.Product
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, category, price FROM products WHERE id = $1`,
		productID).Scan(&product.ID, &product.Name, &product.Category, &product.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, e.ErrProductNotFound
		}
		return domain.Product{}, e.Wrap("storage.pg.GetProduct", err)
	}
	return product, nil
}

// Create persists the draft and its item snapshots in one transaction.
func (p *Postgres) Create(ctx context.Context, draft domain.OrderDraft) (domain.Order, error) {
	order := domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   newOrderNumber(),
		CustomerID:    draft.CustomerID,
		Items:         draft.Items,
		Status:        domain.StatusPending,
		PaymentMethod: draft.PaymentMethod,
		Total:         draft.Total,
		CreditsUsed:   draft.CreditsUsed,
		CreatedAt:     time.Now(),
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, e.Wrap("storage.pg.Create.Begin", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
			p.logger.Error("failed to rollback transaction", slog.String("error", err.Error()))
		}
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, order_number, customer_id, status, payment_method,
		total, credits_used, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		order.ID, order.OrderNumber, order.CustomerID, string(order.Status), string(order.PaymentMethod),
		order.Total, order.CreditsUsed, order.CreatedAt)
	if err != nil {
		return domain.Order{}, e.Wrap("storage.pg.Create.Order", err)
	}

	for _, item := range order.Items {
		_, err := tx.Exec(ctx, `INSERT INTO order_items (order_id_fk, product_id, name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity)
		if err != nil {
			return domain.Order{}, e.Wrap("storage.pg.Create.Items", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, e.Wrap("storage.pg.Create.Commit", err)
	}
	return order, nil
}

func (p *Postgres) GetByID(ctx context.Context, customerID, orderID string) (domain.Order, error) {
	var o domain.Order
	err := p.pool.QueryRow(ctx, `SELECT id, order_number, customer_id, status, payment_method, total,
		credits_used, created_at, confirmed_at, shipped_at, delivered_at
		FROM orders WHERE id = $1 AND customer_id = $2`, orderID, customerID).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.PaymentMethod, &o.Total,
		&o.CreditsUsed, &o.CreatedAt, &o.ConfirmedAt, &o.ShippedAt, &o.DeliveredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, e.ErrNotFound
		}
		return domain.Order{}, e.Wrap("storage.pg.GetByID.Order", err)
	}

	items, err := p.orderItems(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (p *Postgres) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, order_number, customer_id, status, payment_method, total,
		credits_used, created_at, confirmed_at, shipped_at, delivered_at
		FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, e.Wrap("storage.pg.ListByCustomer", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.PaymentMethod, &o.Total,
			&o.CreditsUsed, &o.CreatedAt, &o.ConfirmedAt, &o.ShippedAt, &o.DeliveredAt); err != nil {
			return nil, e.Wrap("storage.pg.ListByCustomer.Scan", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap("storage.pg.ListByCustomer.Rows", err)
	}

	for i := range orders {
		items, err := p.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (p *Postgres) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT product_id, name, unit_price, quantity FROM order_items WHERE order_id_fk = $1`, orderID)
	if err != nil {
		return nil, e.Wrap("storage.pg.orderItems", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, e.Wrap("storage.pg.orderItems.Scan", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap("storage.pg.orderItems.Rows", err)
	}
	return items, nil
}

// ApplyStatusEvent advances an order's status. The lifecycle timestamps
// are populated once and never erased, so a duplicate or late event
// cannot roll an order back in time.
func (p *Postgres) ApplyStatusEvent(ctx context.Context, orderNumber string, status domain.OrderStatus, occurredAt time.Time) error {
	tag, err := p.pool.Exec(ctx, `UPDATE orders SET
		status = $2,
		confirmed_at = COALESCE(confirmed_at, CASE WHEN $2 = 'confirmed' THEN $3 END),
		shipped_at   = COALESCE(shipped_at,   CASE WHEN $2 = 'shipped'   THEN $3 END),
		delivered_at = COALESCE(delivered_at, CASE WHEN $2 = 'delivered' THEN $3 END)
		WHERE order_number = $1`, orderNumber, string(status), occurredAt)
	if err != nil {
		return e.Wrap("storage.pg.ApplyStatusEvent", err)
	}
	if tag.RowsAffected() == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (p *Postgres) CreateWasteReport(ctx context.Context, report domain.WasteReport) (domain.WasteReport, error) {
	report.ID = uuid.NewString()
	report.CreatedAt = time.Now()

	_, err := p.pool.Exec(ctx, `INSERT INTO waste_reports (id, reporter_id, title, description, category,
		estimated_weight, location, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		report.ID, report.ReporterID, report.Title, report.Description, report.Category,
		report.EstimatedWeight, report.Location, report.CreatedAt)
	if err != nil {
		return domain.WasteReport{}, e.Wrap("storage.pg.CreateWasteReport", err)
	}
	return report, nil
}

func (p *Postgres) CreateEvent(ctx context.Context, event domain.CollectionEvent) (domain.CollectionEvent, error) {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now()

	_, err := p.pool.Exec(ctx, `INSERT INTO collection_events (id, organizer_id, title, description, location,
		starts_at, ends_at, max_participants, registration_deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		event.ID, event.OrganizerID, event.Title, event.Description, event.Location,
		event.StartsAt, event.EndsAt, event.MaxParticipants, event.RegistrationDeadline, event.CreatedAt)
	if err != nil {
		return domain.CollectionEvent{}, e.Wrap("storage.pg.CreateEvent", err)
	}
	return event, nil
}

func newOrderNumber() string {
	return fmt.Sprintf("YGJ-%s", strings.ToUpper(uuid.NewString()[:8]))
}

func (p *Postgres) CloseConnection() {
	p.pool.Close()
	stat := p.pool.Stat()
	if stat.AcquiredConns() > 0 {
		p.logger.Warn("postgres connections not fully closed after Close()", slog.Any("acquired connections", stat.AcquiredConns()))
	}
}
