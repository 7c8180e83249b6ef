package conversationnode

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	graphx "github.com/lyrebird-labs/concierge/agent/graph"
	identityx "github.com/lyrebird-labs/concierge/agent/identity"
	statex "github.com/lyrebird-labs/concierge/agent/state"
)

const verifiedTemplate = "Customer verified successfully. The verified customer_id is %s. Use this customer_id for all invoice and purchase lookups."

const clarifyFallback = "I can help with that, but first I need to verify your account. Could you share your customer ID, phone number, or email on file?"

// VerifyInfo resolves the customer's identity from the transcript. It is
// idempotent: once CustomerID is set the node is a no-op, so re-entering
// it after a resumed clarification never re-verifies. When resolution
// fails it appends a clarifying question and lets the graph route to the
// input interrupt.
func VerifyInfo(
	ctx context.Context,
	inv *graphx.Invocation,
	registry contractx.Registry,
	resolver *identityx.Resolver,
) (graphx.Outcome, error) {
	conv := inv.State
	if conv == nil {
		return graphx.Proceed(), fmt.Errorf("%w: conversation state is nil", contractx.ErrValidation)
	}
	if conv.CustomerID != "" {
		return graphx.Proceed(), nil
	}

	identifier, err := registry.Extractor().Extract(ctx, conv.Messages)
	if err != nil {
		log.Warn().Err(err).Str("thread", conv.ThreadID).Msg("identity extraction failed")
		identifier = ""
	}

	if identifier != "" {
		if customerID, ok := resolver.Resolve(ctx, identifier); ok {
			conv.CustomerID = customerID
			conv.Append(schema.SystemMessage(fmt.Sprintf(verifiedTemplate, customerID)))
			return graphx.Proceed(), nil
		}
	}

	msg, err := registry.Clarifier().Clarify(ctx, conv.Messages)
	if err != nil {
		log.Warn().Err(err).Str("thread", conv.ThreadID).Msg("clarification failed, using fallback")
		msg = schema.AssistantMessage(clarifyFallback, nil)
	}
	conv.Append(msg)
	return graphx.Proceed(), nil
}

// VerifyRoute sends verified customers on to memory loading and everyone
// else to the input interrupt.
func VerifyRoute(conv *statex.Conversation) (string, error) {
	if conv.CustomerID != "" {
		return NodeLoadMemory, nil
	}
	return NodeHumanInput, nil
}
