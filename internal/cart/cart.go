package cart

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/internal/domain"
	"github.com/mokwathedeveloper/youth-green-jobs-hub-sub002/pkg/e"
)

// Manager owns every cart line in the process. All mutations run under
// one mutex so overlapping handlers (rapid repeated increment clicks)
// serialize instead of losing updates. Totals are derived from the lines
// on every snapshot, never cached.
type Manager struct {
	mu    sync.Mutex
	carts map[string][]domain.CartLine
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string][]domain.CartLine)}
}

// AddItem merges quantity into an existing line for the same product or
// appends a new line. Quantity must be positive.
func (m *Manager) AddItem(userID string, product domain.Product, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, e.ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[userID]
	for i := range lines {
		if lines[i].Product.ID == product.ID {
			lines[i].Quantity += quantity
			return m.snapshot(userID), nil
		}
	}

	m.carts[userID] = append(lines, domain.CartLine{
		ID:       uuid.NewString(),
		Product:  product,
		Quantity: quantity,
		AddedAt:  time.Now(),
	})
	return m.snapshot(userID), nil
}

// UpdateQuantity sets a line's quantity. Anything below 1 removes the
// line, matching what the storefront does when a counter hits zero.
func (m *Manager) UpdateQuantity(userID, lineID string, quantity int) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity < 1 {
		m.removeLocked(userID, lineID)
		return m.snapshot(userID), nil
	}

	lines := m.carts[userID]
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = quantity
			return m.snapshot(userID), nil
		}
	}
	return domain.Cart{}, e.ErrLineNotFound
}

// RemoveItem is idempotent: removing an absent line is a no-op so a
// double-click on delete never surfaces an error.
func (m *Manager) RemoveItem(userID, lineID string) domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(userID, lineID)
	return m.snapshot(userID)
}

func (m *Manager) Clear(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.carts, userID)
}

func (m *Manager) Cart(userID string) domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshot(userID)
}

// Restore replaces a user's lines from a persisted snapshot, dropping
// any line a bad snapshot could not represent.
func (m *Manager) Restore(userID string, lines []domain.CartLine) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		kept = append(kept, l)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].AddedAt.Before(kept[j].AddedAt) })
	if len(kept) == 0 {
		delete(m.carts, userID)
		return
	}
	m.carts[userID] = kept
}

func (m *Manager) removeLocked(userID, lineID string) {
	lines := m.carts[userID]
	for i := range lines {
		if lines[i].ID == lineID {
			m.carts[userID] = append(lines[:i:i], lines[i+1:]...)
			return
		}
	}
}

// snapshot copies the lines and recomputes total and item count from
// them. Callers hold the mutex.
func (m *Manager) snapshot(userID string) domain.Cart {
	lines := m.carts[userID]
	out := domain.Cart{UserID: userID, Lines: make([]domain.CartLine, len(lines))}
	copy(out.Lines, lines)
	for _, l := range out.Lines {
		out.Total = out.Total.Add(l.Subtotal())
		out.ItemCount += l.Quantity
	}
	return out
}
