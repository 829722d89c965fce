// Package orchestrator runs one chat turn end to end: read memory,
// route the message, assemble template variables, generate the reply,
// and persist the turn.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/dhabaai/dhaba/agent/contract"
	turnnode "github.com/dhabaai/dhaba/agent/nodes"
)

var ErrInvalidMessage = turnnode.ErrInvalidMessage

type Orchestrator struct {
	router   contractx.Router
	registry contractx.Registry
	memory   contractx.MemoryStore
	menu     contractx.MenuText
	orders   contractx.OrderContext

	graphRunner compose.Runnable[turnnode.GraphInput, turnnode.GraphOutput]

	now func() time.Time
}

func New(
	router contractx.Router,
	registry contractx.Registry,
	memory contractx.MemoryStore,
	menu contractx.MenuText,
	orders contractx.OrderContext,
) (*Orchestrator, error) {
	if router == nil {
		return nil, errors.New("router is required")
	}
	if registry == nil {
		return nil, errors.New("handler registry is required")
	}
	if memory == nil {
		return nil, errors.New("memory store is required")
	}
	if menu == nil {
		return nil, errors.New("menu is required")
	}
	if orders == nil {
		return nil, errors.New("order context is required")
	}

	o := &Orchestrator{
		router:   router,
		registry: registry,
		memory:   memory,
		menu:     menu,
		orders:   orders,
		now:      time.Now,
	}

	graphRunner, err := o.compileChatTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage processes one chat turn. The result always names
// exactly one destination (possibly Default) and one response text.
// Errors carry full context into the log; callers surface them
// opaquely.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID, message string) (contractx.ChatResult, error) {
	out, err := o.graphRunner.Invoke(ctx, turnnode.GraphInput{
		UserID:  userID,
		Message: message,
	})
	if err != nil {
		log.Error().Err(err).
			Str("user_id", userID).
			Str("message", message).
			Msg("chat turn failed")
		return contractx.ChatResult{}, err
	}

	log.Info().
		Str("user_id", userID).
		Str("tool", out.Tool).
		Msg("chat turn completed")

	return contractx.ChatResult{
		Tool:     out.Tool,
		Response: out.Response,
	}, nil
}
