package contract

import "context"

// Router classifies a free-text message into exactly one destination.
// It never fails: any parsing or model error degrades to the Default
// destination with {"input": message}.
type Router interface {
	Route(ctx context.Context, message string) RouterDecision
}

// Handler generates the response text for one destination.
type Handler interface {
	Name() Destination
	Generate(ctx context.Context, vars map[string]any) (string, error)
}

// Registry resolves a destination name to its handler. Unknown names
// resolve to the Default handler, never to nil.
type Registry interface {
	Resolve(name Destination) Handler
}

// MemoryStore is the per-user conversation memory used by the chat turn.
type MemoryStore interface {
	ReadContext(ctx context.Context, userID string) (string, error)
	AppendTurn(ctx context.Context, userID, input, output string) error
}

// MenuText exposes the two menu renderings assembled at startup.
type MenuText interface {
	LLMListing() string
	DisplayListing() string
}

// OrderContext exposes the per-user order state that handler prompts need.
type OrderContext interface {
	PendingItem(userID string) (string, bool)
	OrderJSON(userID string) string
}
