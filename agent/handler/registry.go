// Package handler builds the response generator for each routing
// destination: a prompt template bound to a chat model through a small
// eino graph that returns plain text.
package handler

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

// descriptions feed the router prompt; order matters for readability.
var descriptions = []struct {
	name contractx.Destination
	desc string
}{
	{contractx.DestinationMenuViewer, "Shows the full menu with prices when the user asks to see what is available."},
	{contractx.DestinationDescriptionExpert, "Gives descriptions of dishes the user asks about."},
	{contractx.DestinationPriceChecker, "Tells the price of an item from the menu."},
	{contractx.DestinationOrderSummary, "Summarizes the user's current order with totals."},
	{contractx.DestinationItemOrderProcessor, "Handles user requests to add items to their order."},
}

// Handler is one destination's generator.
type Handler struct {
	name   contractx.Destination
	runner compose.Runnable[map[string]any, *schema.Message]
}

func (h *Handler) Name() contractx.Destination {
	return h.name
}

// Generate renders the destination's template with vars, invokes the
// model, and coerces the result to plain text.
func (h *Handler) Generate(ctx context.Context, vars map[string]any) (string, error) {
	msg, err := h.runner.Invoke(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("%w: handler=%s: %v", contractx.ErrModelInvoke, h.name, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: handler=%s returned nil message", contractx.ErrSchemaViolation, h.name)
	}
	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return "", fmt.Errorf("%w: handler=%s returned empty text", contractx.ErrSchemaViolation, h.name)
	}
	return text, nil
}

// Registry holds all destination handlers plus the Default fallback.
type Registry struct {
	handlers map[contractx.Destination]*Handler
	fallback *Handler
}

// NewRegistry compiles one generation graph per destination against the
// given chat model.
func NewRegistry(ctx context.Context, chatModel einomodel.BaseChatModel) (*Registry, error) {
	prompts := LoadPromptSet()

	templates := map[contractx.Destination]string{
		contractx.DestinationMenuViewer:         prompts.MenuViewer,
		contractx.DestinationDescriptionExpert:  prompts.DescriptionExpert,
		contractx.DestinationPriceChecker:       prompts.PriceChecker,
		contractx.DestinationOrderSummary:       prompts.OrderSummary,
		contractx.DestinationItemOrderProcessor: prompts.ItemOrderProcessor,
		contractx.DestinationDefault:            prompts.Default,
	}

	handlers := make(map[contractx.Destination]*Handler, len(templates))
	for name, tpl := range templates {
		h, err := newHandler(ctx, chatModel, name, tpl)
		if err != nil {
			return nil, err
		}
		handlers[name] = h
	}

	return &Registry{
		handlers: handlers,
		fallback: handlers[contractx.DestinationDefault],
	}, nil
}

// Resolve returns the handler for name, or the Default handler for any
// name outside the known set. Never nil.
func (r *Registry) Resolve(name contractx.Destination) contractx.Handler {
	if h, ok := r.handlers[name]; ok {
		return h
	}
	return r.fallback
}

// Known reports whether name is a registered destination.
func (r *Registry) Known(name contractx.Destination) bool {
	_, ok := r.handlers[name]
	return ok
}

// Destinations lists the routable destinations, excluding Default.
func Destinations() []contractx.Destination {
	names := make([]contractx.Destination, 0, len(descriptions))
	for _, d := range descriptions {
		names = append(names, d.name)
	}
	return names
}

// DestinationCatalog renders "Name: description" lines for the router
// prompt.
func DestinationCatalog() string {
	lines := make([]string, 0, len(descriptions))
	for _, d := range descriptions {
		lines = append(lines, fmt.Sprintf("%s: %s", d.name, d.desc))
	}
	return strings.Join(lines, "\n")
}

func newHandler(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	name contractx.Destination,
	tpl string,
) (*Handler, error) {
	if strings.TrimSpace(tpl) == "" {
		return nil, fmt.Errorf("%w: empty template for destination=%s", contractx.ErrValidation, name)
	}

	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(tpl),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add prompt node for %s: %w", name, err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node for %s: %w", name, err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add edge start->prompt for %s: %w", name, err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add edge prompt->model for %s: %w", name, err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end for %s: %w", name, err)
	}

	graphName := "handler." + strings.ReplaceAll(strings.ToLower(string(name)), " ", "_")
	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile handler graph for %s: %w", name, err)
	}

	return &Handler{name: name, runner: runner}, nil
}
