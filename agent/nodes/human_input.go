package conversationnode

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	graphx "github.com/lyrebird-labs/concierge/agent/graph"
)

const defaultIdentityPrompt = "Could you share your customer ID, phone number, or email on file so I can verify your account?"

// HumanInput is the interrupt point of the verification loop. Without a
// resume value it suspends the turn, surfacing the last clarifying
// question as the prompt; with one it appends the customer's reply and
// hands control back to verification.
func HumanInput(inv *graphx.Invocation) (graphx.Outcome, error) {
	conv := inv.State

	if !inv.HasResume {
		prompt := defaultIdentityPrompt
		if last := conv.LastAssistant(); last != nil && strings.TrimSpace(last.Content) != "" {
			prompt = last.Content
		}
		return graphx.Interrupt(prompt), nil
	}

	if text := strings.TrimSpace(inv.Resume); text != "" {
		conv.Append(schema.UserMessage(text))
	}
	return graphx.Proceed(), nil
}
