// Package turnnode holds the per-node logic of the chat-turn graph.
// A turn flows received -> routed -> variables_assembled -> generated ->
// memory_updated -> responded; all state between nodes lives in
// GraphState and dies with the turn.
package turnnode

import (
	"errors"
	"time"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
)

// DefaultUserID is assumed when a request carries no user id.
const DefaultUserID = "default_user"

type GraphInput struct {
	UserID  string
	Message string
}

type GraphOutput struct {
	Tool     string
	Response string
}

// GraphState is the working state of one chat turn.
type GraphState struct {
	UserID  string
	Message string
	Now     time.Time

	History  string
	Decision contractx.RouterDecision
	Vars     map[string]any
	Response string
}
