package turnnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

// ReadMemory loads the conversation buffer. A read failure degrades to
// an empty history rather than killing the turn: losing context is
// recoverable, losing the reply is not.
func ReadMemory(ctx context.Context, in *GraphState, mem contractx.MemoryStore) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	history, err := mem.ReadContext(ctx, in.UserID)
	if err != nil {
		log.Warn().Err(err).
			Str("user_id", in.UserID).
			Msg("conversation memory read failed, continuing with empty history")
		history = ""
	}

	in.History = history
	return in, nil
}
