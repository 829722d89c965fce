package turnnode

import (
	"context"
	"fmt"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

// RouteIntent classifies the message. The router is infallible by
// contract: it resolves every failure to the Default destination.
func RouteIntent(ctx context.Context, in *GraphState, router contractx.Router) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Decision = router.Route(ctx, in.Message)
	return in, nil
}
