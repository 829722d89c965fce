// Package order holds the per-user running order ledger. All state is
// in-memory and process-lifetime only.
package order

import (
	"encoding/json"
	"fmt"
	"sync"

	contractx "github.com/dhabaai/dhaba/agent/contract"
	menux "github.com/dhabaai/dhaba/agent/menu"
)

// Resolver matches a free-text item name to a menu entry.
type Resolver interface {
	Resolve(name string) (menux.Entry, bool)
}

// AddResult reports the outcome of one AddItem call. When Pending is
// true the item was remembered but nothing was added to the order.
type AddResult struct {
	Pending      bool
	ItemName     string
	UnitPrice    float64
	Added        int
	LineQuantity int
	OrderTotal   float64
}

// Ledger maps user ids to their running orders. Mutations for one user
// are serialized by a per-user lock; different users never contend.
type Ledger struct {
	menu Resolver

	mu    sync.RWMutex
	users map[string]*userOrder
}

type userOrder struct {
	mu      sync.Mutex
	lines   map[string]*orderLine
	ordered []string // insertion order of keys, for stable summaries
	pending string   // canonical name awaiting a quantity, "" if none
}

type orderLine struct {
	name      string
	quantity  int
	unitPrice float64
}

func NewLedger(menu Resolver) *Ledger {
	return &Ledger{
		menu:  menu,
		users: make(map[string]*userOrder),
	}
}

// AddItem resolves itemName against the menu and applies the quantity
// to the user's order.
//
// quantity < 0 fails with ErrInvalidQuantity. An unmatched name fails
// with ErrItemNotFound. quantity == 0 records a pending selection and
// returns the price without touching the order. quantity > 0 upserts
// the line; the unit price is frozen at the price seen on first add.
func (l *Ledger) AddItem(userID, itemName string, quantity int) (AddResult, error) {
	if quantity < 0 {
		return AddResult{}, fmt.Errorf("%w: %d", contractx.ErrInvalidQuantity, quantity)
	}

	entry, ok := l.menu.Resolve(itemName)
	if !ok {
		return AddResult{}, fmt.Errorf("%w: %q", contractx.ErrItemNotFound, itemName)
	}

	u := l.userRecord(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if quantity == 0 {
		u.pending = entry.Name
		return AddResult{
			Pending:   true,
			ItemName:  entry.Name,
			UnitPrice: entry.Price,
		}, nil
	}

	line, ok := u.lines[entry.Key]
	if !ok {
		line = &orderLine{name: entry.Name, unitPrice: entry.Price}
		u.lines[entry.Key] = line
		u.ordered = append(u.ordered, entry.Key)
	}
	line.quantity += quantity
	u.pending = ""

	return AddResult{
		ItemName:     line.name,
		UnitPrice:    line.unitPrice,
		Added:        quantity,
		LineQuantity: line.quantity,
		OrderTotal:   u.totalLocked(),
	}, nil
}

// Summarize returns the user's order lines in insertion order plus the
// grand total. An empty or unknown user yields an empty list and 0.
func (l *Ledger) Summarize(userID string) ([]contractx.OrderLine, float64) {
	u := l.lookup(userID)
	if u == nil {
		return []contractx.OrderLine{}, 0
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	lines := make([]contractx.OrderLine, 0, len(u.ordered))
	total := 0.0
	for _, key := range u.ordered {
		line := u.lines[key]
		itemTotal := float64(line.quantity) * line.unitPrice
		lines = append(lines, contractx.OrderLine{
			ItemName:  line.name,
			Quantity:  line.quantity,
			UnitPrice: line.unitPrice,
			ItemTotal: itemTotal,
		})
		total += itemTotal
	}
	return lines, total
}

// PendingItem reports the item awaiting a quantity for this user.
func (l *Ledger) PendingItem(userID string) (string, bool) {
	u := l.lookup(userID)
	if u == nil {
		return "", false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending == "" {
		return "", false
	}
	return u.pending, true
}

// OrderJSON serializes the user's order as {key: {quantity, price}} for
// inclusion in handler prompts. An empty order serializes as "{}".
func (l *Ledger) OrderJSON(userID string) string {
	u := l.lookup(userID)
	if u == nil {
		return "{}"
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	snapshot := make(map[string]map[string]any, len(u.lines))
	for key, line := range u.lines {
		snapshot[key] = map[string]any{
			"quantity": line.quantity,
			"price":    line.unitPrice,
		}
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func (u *userOrder) totalLocked() float64 {
	total := 0.0
	for _, line := range u.lines {
		total += float64(line.quantity) * line.unitPrice
	}
	return total
}

func (l *Ledger) lookup(userID string) *userOrder {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.users[userID]
}

func (l *Ledger) userRecord(userID string) *userOrder {
	if u := l.lookup(userID); u != nil {
		return u
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if u, ok := l.users[userID]; ok {
		return u
	}
	u := &userOrder{lines: make(map[string]*orderLine)}
	l.users[userID] = u
	return u
}
