package chatnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

func ValidateRequest(in GraphInput) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", contractx.ErrValidation)
	}
	return &GraphState{SessionID: sessionID, Message: in.Message}, nil
}
