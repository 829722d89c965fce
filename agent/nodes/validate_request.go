package turnnode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/dhabaai/dhaba/agent/contract"
)

func ValidateRequest(in GraphInput, now func() time.Time) (*GraphState, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, ErrInvalidMessage)
	}

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = DefaultUserID
	}

	return &GraphState{
		UserID:  userID,
		Message: message,
		Now:     now(),
	}, nil
}
