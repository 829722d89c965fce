package turnnode

import (
	"fmt"
	"strings"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	response := strings.TrimSpace(in.Response)
	if response == "" {
		return GraphOutput{}, fmt.Errorf("%w: handler returned empty response", contractx.ErrValidation)
	}

	return GraphOutput{
		Tool:     string(in.Decision.Destination),
		Response: response,
	}, nil
}
