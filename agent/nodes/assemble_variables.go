package turnnode

import (
	"fmt"
	"strings"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

// noPendingSentinel is what handler prompts see when no item awaits a
// quantity.
const noPendingSentinel = "None"

// AssembleVariables merges the router's extracted inputs with the
// ambient template variables every handler may reference: the two menu
// renderings, the conversation buffer, the pending selection, and the
// serialized current order.
func AssembleVariables(
	in *GraphState,
	menu contractx.MenuText,
	orders contractx.OrderContext,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	vars := make(map[string]any, len(in.Decision.Inputs)+5)
	for k, v := range in.Decision.Inputs {
		vars[k] = v
	}
	if s, ok := vars["input"].(string); !ok || strings.TrimSpace(s) == "" {
		vars["input"] = in.Message
	}

	pending, ok := orders.PendingItem(in.UserID)
	if !ok {
		pending = noPendingSentinel
	}

	vars["menu_items"] = menu.LLMListing()
	vars["menu_data"] = menu.DisplayListing()
	vars["history"] = in.History
	vars["last_ordered_item"] = pending
	vars["user_current_order_json"] = orders.OrderJSON(in.UserID)

	in.Vars = vars
	return in, nil
}
