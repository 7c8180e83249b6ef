package conversationnode

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	graphx "github.com/lyrebird-labs/concierge/agent/graph"
	statex "github.com/lyrebird-labs/concierge/agent/state"
)

// Supervise asks the planner for the next dispatch and records it on the
// conversation. An exhausted step budget or a planner failure both fall
// back to finishing the turn; the customer gets whatever answer has been
// assembled so far rather than an error.
func Supervise(ctx context.Context, inv *graphx.Invocation, planner contractx.SupervisorPlanner) (graphx.Outcome, error) {
	conv := inv.State

	if conv.RemainingSteps <= 0 {
		log.Warn().Str("thread", conv.ThreadID).Msg("step budget exhausted, finishing turn")
		conv.PendingRoute = statex.RouteDone
		return graphx.Proceed(), nil
	}

	decision, err := planner.Decide(ctx, contractx.SupervisorRequest{
		Messages:       conv.Messages,
		CustomerID:     conv.CustomerID,
		LoadedMemory:   conv.LoadedMemory,
		RemainingSteps: conv.RemainingSteps,
	})
	if err != nil {
		log.Error().Err(err).Str("thread", conv.ThreadID).Msg("supervisor decision failed, finishing turn")
		conv.PendingRoute = statex.RouteDone
		return graphx.Proceed(), nil
	}

	conv.PendingRoute = decision.Next
	switch decision.Next {
	case statex.RouteMusic, statex.RouteInvoice:
		conv.RemainingSteps--
	case statex.RouteDone:
		if resp := strings.TrimSpace(decision.FinalResponse); resp != "" {
			conv.Append(schema.AssistantMessage(resp, nil))
		}
	}

	return graphx.Proceed(), nil
}

// SupervisorRoute maps the recorded dispatch decision onto graph
// targets. An empty route means the planner never ran; finish the turn.
func SupervisorRoute(conv *statex.Conversation) (string, error) {
	switch conv.PendingRoute {
	case statex.RouteMusic:
		return NodeMusic, nil
	case statex.RouteInvoice:
		return NodeInvoice, nil
	case statex.RouteDone, "":
		return NodeCreateMemory, nil
	default:
		return "", fmt.Errorf("%w: unknown route %q", contractx.ErrValidation, conv.PendingRoute)
	}
}
