package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

type fakeRouter struct {
	decision contractx.RouterDecision
	calls    int
}

func (f *fakeRouter) Route(ctx context.Context, message string) contractx.RouterDecision {
	f.calls++
	if f.decision.Destination == "" {
		return contractx.RouterDecision{
			Destination: contractx.DestinationDefault,
			Inputs:      map[string]string{"input": message},
		}
	}
	return f.decision
}

type fakeHandler struct {
	name     contractx.Destination
	response string
	err      error
	calls    int
	lastVars map[string]any
}

func (f *fakeHandler) Name() contractx.Destination {
	return f.name
}

func (f *fakeHandler) Generate(ctx context.Context, vars map[string]any) (string, error) {
	f.calls++
	f.lastVars = vars
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeRegistry struct {
	handlers map[contractx.Destination]*fakeHandler
	fallback *fakeHandler
}

func (f *fakeRegistry) Resolve(name contractx.Destination) contractx.Handler {
	if h, ok := f.handlers[name]; ok {
		return h
	}
	return f.fallback
}

type memoryWrite struct {
	userID string
	input  string
	output string
}

type fakeMemory struct {
	context  string
	readErr  error
	writeErr error
	writes   []memoryWrite
}

func (f *fakeMemory) ReadContext(ctx context.Context, userID string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.context, nil
}

func (f *fakeMemory) AppendTurn(ctx context.Context, userID, input, output string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, memoryWrite{userID: userID, input: input, output: output})
	return nil
}

type fakeMenu struct{}

func (fakeMenu) LLMListing() string     { return "- Veg Burger: $150 (Description: Crisp patty)" }
func (fakeMenu) DisplayListing() string { return "- Veg Burger: $150" }

type fakeOrders struct {
	pending   string
	orderJSON string
}

func (f *fakeOrders) PendingItem(userID string) (string, bool) {
	return f.pending, f.pending != ""
}

func (f *fakeOrders) OrderJSON(userID string) string {
	if f.orderJSON == "" {
		return "{}"
	}
	return f.orderJSON
}

func TestHandleMessageEmptyMessage(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &fakeRouter{}, defaultRegistry(), &fakeMemory{}, &fakeOrders{})

	_, err := o.HandleMessage(context.Background(), "u1", "   ")
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestHandleMessageRoutedTurn(t *testing.T) {
	t.Parallel()

	router := &fakeRouter{
		decision: contractx.RouterDecision{
			Destination: contractx.DestinationPriceChecker,
			Inputs:      map[string]string{"input": "price of veg burger"},
		},
	}
	registry := defaultRegistry()
	memory := &fakeMemory{context: "Human: hi\nAI: hello"}
	orders := &fakeOrders{pending: "Veg Burger", orderJSON: `{"veg burger":{"quantity":2,"price":150}}`}

	o := newTestOrchestrator(t, router, registry, memory, orders)

	result, err := o.HandleMessage(context.Background(), "u1", "how much is the veg burger?")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if result.Tool != string(contractx.DestinationPriceChecker) {
		t.Fatalf("unexpected tool: %s", result.Tool)
	}
	if result.Response != "Veg Burger costs $150" {
		t.Fatalf("unexpected response: %q", result.Response)
	}
	if router.calls != 1 {
		t.Fatalf("expected one route call, got %d", router.calls)
	}

	h := registry.handlers[contractx.DestinationPriceChecker]
	if h.calls != 1 {
		t.Fatalf("expected one generate call, got %d", h.calls)
	}
	for key, want := range map[string]any{
		"input":                   "price of veg burger",
		"menu_items":              "- Veg Burger: $150 (Description: Crisp patty)",
		"menu_data":               "- Veg Burger: $150",
		"history":                 "Human: hi\nAI: hello",
		"last_ordered_item":       "Veg Burger",
		"user_current_order_json": `{"veg burger":{"quantity":2,"price":150}}`,
	} {
		if got := h.lastVars[key]; got != want {
			t.Fatalf("var %q = %v, want %v", key, got, want)
		}
	}

	if len(memory.writes) != 1 {
		t.Fatalf("expected one memory write, got %d", len(memory.writes))
	}
	w := memory.writes[0]
	if w.userID != "u1" || w.input != "how much is the veg burger?" || w.output != "Veg Burger costs $150" {
		t.Fatalf("unexpected memory write: %+v", w)
	}
}

func TestHandleMessageDefaultPathPersistsMemory(t *testing.T) {
	t.Parallel()

	registry := defaultRegistry()
	memory := &fakeMemory{}

	o := newTestOrchestrator(t, &fakeRouter{}, registry, memory, &fakeOrders{})

	result, err := o.HandleMessage(context.Background(), "u1", "blorp")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if result.Tool != string(contractx.DestinationDefault) {
		t.Fatalf("unexpected tool: %s", result.Tool)
	}
	if registry.fallback.calls != 1 {
		t.Fatalf("expected default handler call, got %d", registry.fallback.calls)
	}
	if got := registry.fallback.lastVars["last_ordered_item"]; got != "None" {
		t.Fatalf("expected None sentinel, got %v", got)
	}
	if len(memory.writes) != 1 {
		t.Fatalf("memory must be persisted on the default path, got %d writes", len(memory.writes))
	}
}

func TestHandleMessageEmptyUserDefaults(t *testing.T) {
	t.Parallel()

	memory := &fakeMemory{}
	o := newTestOrchestrator(t, &fakeRouter{}, defaultRegistry(), memory, &fakeOrders{})

	if _, err := o.HandleMessage(context.Background(), "", "hello"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(memory.writes) != 1 || memory.writes[0].userID != "default_user" {
		t.Fatalf("expected default_user write, got %+v", memory.writes)
	}
}

func TestHandleMessageMemoryReadFailureDegrades(t *testing.T) {
	t.Parallel()

	registry := defaultRegistry()
	memory := &fakeMemory{readErr: errors.New("memory down")}

	o := newTestOrchestrator(t, &fakeRouter{}, registry, memory, &fakeOrders{})

	if _, err := o.HandleMessage(context.Background(), "u1", "hello"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got := registry.fallback.lastVars["history"]; got != "" {
		t.Fatalf("expected empty history after read failure, got %v", got)
	}
}

func TestHandleMessageGenerationFailure(t *testing.T) {
	t.Parallel()

	genErr := fmt.Errorf("%w: model down", contractx.ErrModelInvoke)
	registry := &fakeRegistry{
		handlers: map[contractx.Destination]*fakeHandler{},
		fallback: &fakeHandler{name: contractx.DestinationDefault, err: genErr},
	}
	memory := &fakeMemory{}

	o := newTestOrchestrator(t, &fakeRouter{}, registry, memory, &fakeOrders{})

	_, err := o.HandleMessage(context.Background(), "u1", "hello")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
	if len(memory.writes) != 0 {
		t.Fatalf("failed turn must not be persisted, got %d writes", len(memory.writes))
	}
}

func TestHandleMessageMemoryWriteFailure(t *testing.T) {
	t.Parallel()

	writeErr := errors.New("write failed")
	o := newTestOrchestrator(t, &fakeRouter{}, defaultRegistry(), &fakeMemory{writeErr: writeErr}, &fakeOrders{})

	_, err := o.HandleMessage(context.Background(), "u1", "hello")
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func defaultRegistry() *fakeRegistry {
	return &fakeRegistry{
		handlers: map[contractx.Destination]*fakeHandler{
			contractx.DestinationPriceChecker: {
				name:     contractx.DestinationPriceChecker,
				response: "Veg Burger costs $150",
			},
		},
		fallback: &fakeHandler{
			name:     contractx.DestinationDefault,
			response: "Sorry, could you rephrase?",
		},
	}
}

func newTestOrchestrator(
	t *testing.T,
	router contractx.Router,
	registry contractx.Registry,
	memory contractx.MemoryStore,
	orders contractx.OrderContext,
) *Orchestrator {
	t.Helper()
	o, err := New(router, registry, memory, fakeMenu{}, orders)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}
