package domain

import "time"

type Product struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	Price    Price  `json:"price"`
}

// CartLine is one product entry in a cart. Lines are owned by the cart
// manager; nothing else mutates them.
type CartLine struct {
	ID       string    `json:"id"`
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

func (l CartLine) Subtotal() Price {
	return l.Product.Price.Mul(l.Quantity)
}

// Cart is a read-only snapshot handed out by the cart manager. Total and
// ItemCount are filled from the lines at snapshot time and are never
// stored independently of them.
type Cart struct {
	UserID    string     `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	Total     Price      `json:"total"`
	ItemCount int        `json:"item_count"`
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMobileMoney    PaymentMethod = "mobile-money"
	PaymentCredits        PaymentMethod = "credits"
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMobileMoney, PaymentCredits, PaymentCashOnDelivery:
		return true
	}
	return false
}

// OrderItem is a snapshot of a product at order time; it never changes
// after the order is created, even if the catalog price does.
type OrderItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	UnitPrice Price  `json:"unit_price"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"order_number" validate:"required"`
	CustomerID    string        `json:"customer_id" validate:"required"`
	Items         []OrderItem   `json:"items" validate:"required,dive"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Total         Price         `json:"total"`
	CreditsUsed   Price         `json:"credits_used"`
	CreatedAt     time.Time     `json:"created_at"`
	ConfirmedAt   *time.Time    `json:"confirmed_at,omitempty"`
	ShippedAt     *time.Time    `json:"shipped_at,omitempty"`
	DeliveredAt   *time.Time    `json:"delivered_at,omitempty"`
}

// OrderDraft is the bundle assembled at checkout and handed to the order
// repository. The cart it came from is cleared only after persistence
// succeeds.
type OrderDraft struct {
	CustomerID    string
	Items         []OrderItem
	PaymentMethod PaymentMethod
	Total         Price
	CreditsUsed   Price
}

type WasteReport struct {
	ID              string    `json:"id"`
	ReporterID      string    `json:"reporter_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	EstimatedWeight float64   `json:"estimated_weight"`
	Location        string    `json:"location"`
	CreatedAt       time.Time `json:"created_at"`
}

type CollectionEvent struct {
	ID                   string     `json:"id"`
	OrganizerID          string     `json:"organizer_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Location             string     `json:"location"`
	StartsAt             time.Time  `json:"starts_at"`
	EndsAt               time.Time  `json:"ends_at"`
	MaxParticipants      int        `json:"max_participants"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}
