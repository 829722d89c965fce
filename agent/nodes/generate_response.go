package turnnode

import (
	"context"
	"fmt"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

// GenerateResponse resolves the decided destination to its handler and
// invokes generation. Unknown destinations resolve to Default inside
// the registry, so this node never fails on the lookup itself.
func GenerateResponse(ctx context.Context, in *GraphState, registry contractx.Registry) (*GraphState, error) {
	if in == nil || in.Vars == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	h := registry.Resolve(in.Decision.Destination)
	text, err := h.Generate(ctx, in.Vars)
	if err != nil {
		return nil, fmt.Errorf("generate destination=%s: %w", in.Decision.Destination, err)
	}

	in.Response = text
	return in, nil
}
