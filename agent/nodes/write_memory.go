package turnnode

import (
	"context"
	"fmt"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

// WriteMemory persists the turn. It runs for every destination,
// including Default.
func WriteMemory(ctx context.Context, in *GraphState, mem contractx.MemoryStore) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if err := mem.AppendTurn(ctx, in.UserID, in.Message, in.Response); err != nil {
		return nil, fmt.Errorf("persist turn for user=%s: %w", in.UserID, err)
	}
	return in, nil
}
