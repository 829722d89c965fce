package order

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	contractx "github.com/dhabaai/dhaba/agent/contract"
	menux "github.com/dhabaai/dhaba/agent/menu"
)

// fakeResolver lets tests change the menu price between calls, which an
// immutable index never does in production.
type fakeResolver struct {
	mu      sync.Mutex
	entries map[string]menux.Entry
}

func newFakeResolver(entries ...menux.Entry) *fakeResolver {
	f := &fakeResolver{entries: make(map[string]menux.Entry)}
	for _, e := range entries {
		e.Key = menux.Normalize(e.Name)
		f.entries[e.Key] = e
	}
	return f
}

func (f *fakeResolver) Resolve(name string) (menux.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[menux.Normalize(name)]
	return e, ok
}

func (f *fakeResolver) setPrice(name string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := menux.Normalize(name)
	e := f.entries[key]
	e.Price = price
	f.entries[key] = e
}

func TestAddItemNegativeQuantity(t *testing.T) {
	t.Parallel()

	l := NewLedger(newFakeResolver(menux.Entry{Name: "Veg Burger", Price: 150}))
	_, err := l.AddItem("u1", "Veg Burger", -1)
	if !errors.Is(err, contractx.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	lines, total := l.Summarize("u1")
	if len(lines) != 0 || total != 0 {
		t.Fatalf("order must be unchanged, got %v total=%v", lines, total)
	}
}

func TestAddItemUnknownItem(t *testing.T) {
	t.Parallel()

	l := NewLedger(newFakeResolver(menux.Entry{Name: "Veg Burger", Price: 150}))
	_, err := l.AddItem("u1", "Unicorn Burger", 1)
	if !errors.Is(err, contractx.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	lines, total := l.Summarize("u1")
	if len(lines) != 0 || total != 0 {
		t.Fatalf("order must be unchanged, got %v total=%v", lines, total)
	}
}

func TestAddItemZeroQuantitySetsPending(t *testing.T) {
	t.Parallel()

	l := NewLedger(newFakeResolver(menux.Entry{Name: "Veg Burger", Price: 150}))

	res, err := l.AddItem("u1", "veg burger", 0)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if !res.Pending {
		t.Fatal("expected pending result")
	}
	if res.ItemName != "Veg Burger" || res.UnitPrice != 150 {
		t.Fatalf("unexpected pending result: %+v", res)
	}

	lines, _ := l.Summarize("u1")
	if len(lines) != 0 {
		t.Fatalf("pending must not mutate the order, got %v", lines)
	}

	pending, ok := l.PendingItem("u1")
	if !ok || pending != "Veg Burger" {
		t.Fatalf("unexpected pending item: %q ok=%v", pending, ok)
	}
}

func TestAddItemClearsPendingOnAnyAdd(t *testing.T) {
	t.Parallel()

	l := NewLedger(newFakeResolver(
		menux.Entry{Name: "Veg Burger", Price: 150},
		menux.Entry{Name: "Masala Chai", Price: 40},
	))

	if _, err := l.AddItem("u1", "Veg Burger", 0); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if _, err := l.AddItem("u1", "Masala Chai", 2); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	if _, ok := l.PendingItem("u1"); ok {
		t.Fatal("pending selection must be cleared by a successful add of any item")
	}
}

func TestAddItemAccumulatesAndFreezesPrice(t *testing.T) {
	t.Parallel()

	resolver := newFakeResolver(menux.Entry{Name: "Veg Burger", Price: 150})
	l := NewLedger(resolver)

	if _, err := l.AddItem("u1", "Veg Burger", 2); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	// Menu prices can shift; existing lines keep the first-add price.
	resolver.setPrice("Veg Burger", 999)

	res, err := l.AddItem("u1", "Veg Burger", 3)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if res.LineQuantity != 5 {
		t.Fatalf("expected quantity 5, got %d", res.LineQuantity)
	}
	if res.UnitPrice != 150 {
		t.Fatalf("expected frozen unit price 150, got %v", res.UnitPrice)
	}
	if res.OrderTotal != 750 {
		t.Fatalf("expected total 750, got %v", res.OrderTotal)
	}
}

func TestSummarizeEmptyOrder(t *testing.T) {
	t.Parallel()

	l := NewLedger(newFakeResolver(menux.Entry{Name: "Veg Burger", Price: 150}))
	lines, total := l.Summarize("nobody")
	if lines == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(lines) != 0 || total != 0 {
		t.Fatalf("expected empty summary, got %v total=%v", lines, total)
	}
}

func TestSummarizeGrandTotalInvariant(t *testing.T) {
	t.Parallel()

	l := NewLedger(newFakeResolver(
		menux.Entry{Name: "Veg Burger", Price: 150},
		menux.Entry{Name: "Masala Chai", Price: 40},
		menux.Entry{Name: "Paneer Roll", Price: 90.5},
	))

	adds := []struct {
		item string
		qty  int
	}{
		{"Veg Burger", 2},
		{"Masala Chai", 1},
		{"Paneer Roll", 3},
		{"Masala Chai", 4},
	}
	for _, a := range adds {
		if _, err := l.AddItem("u1", a.item, a.qty); err != nil {
			t.Fatalf("AddItem(%q) error = %v", a.item, err)
		}
	}

	lines, total := l.Summarize("u1")
	independent := 0.0
	for _, line := range lines {
		if line.ItemTotal != float64(line.Quantity)*line.UnitPrice {
			t.Fatalf("line total mismatch: %+v", line)
		}
		independent += float64(line.Quantity) * line.UnitPrice
	}
	if total != independent {
		t.Fatalf("grand total %v != independent sum %v", total, independent)
	}
}

func TestAddItemConcurrentSameUser(t *testing.T) {
	t.Parallel()

	l := NewLedger(newFakeResolver(menux.Entry{Name: "Veg Burger", Price: 150}))

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := l.AddItem("u1", "Veg Burger", 1); err != nil {
				t.Errorf("AddItem() error = %v", err)
			}
		}()
	}
	wg.Wait()

	lines, total := l.Summarize("u1")
	if len(lines) != 1 || lines[0].Quantity != workers {
		t.Fatalf("lost update: %+v", lines)
	}
	if total != float64(workers)*150 {
		t.Fatalf("unexpected total %v", total)
	}
}

func TestOrderJSON(t *testing.T) {
	t.Parallel()

	l := NewLedger(newFakeResolver(menux.Entry{Name: "Veg Burger", Price: 150}))

	if got := l.OrderJSON("u1"); got != "{}" {
		t.Fatalf("empty order json = %q", got)
	}

	if _, err := l.AddItem("u1", "Veg Burger", 2); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	var decoded map[string]map[string]float64
	if err := json.Unmarshal([]byte(l.OrderJSON("u1")), &decoded); err != nil {
		t.Fatalf("order json is not valid json: %v", err)
	}
	line, ok := decoded["veg burger"]
	if !ok {
		t.Fatalf("expected veg burger key, got %v", decoded)
	}
	if line["quantity"] != 2 || line["price"] != 150 {
		t.Fatalf("unexpected line: %v", line)
	}
}

func TestEndToEndVegBurgerFlow(t *testing.T) {
	t.Parallel()

	l := NewLedger(newFakeResolver(menux.Entry{Name: "Veg Burger", Price: 150}))

	pending, err := l.AddItem("u1", "Veg Burger", 0)
	if err != nil {
		t.Fatalf("AddItem(0) error = %v", err)
	}
	if !pending.Pending || pending.UnitPrice != 150 {
		t.Fatalf("unexpected pending result: %+v", pending)
	}

	added, err := l.AddItem("u1", "Veg Burger", 2)
	if err != nil {
		t.Fatalf("AddItem(2) error = %v", err)
	}
	if added.OrderTotal != 300 {
		t.Fatalf("expected total 300, got %v", added.OrderTotal)
	}

	lines, total := l.Summarize("u1")
	if total != 300 {
		t.Fatalf("expected grand total 300, got %v", total)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	want := contractx.OrderLine{ItemName: "Veg Burger", Quantity: 2, UnitPrice: 150, ItemTotal: 300}
	if lines[0] != want {
		t.Fatalf("unexpected line: %+v", lines[0])
	}
}
