package conversationnode

import (
	"context"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	graphx "github.com/lyrebird-labs/concierge/agent/graph"
)

const specialistFallback = "I'm sorry, I ran into a problem looking that up. Could you try asking again?"

// DispatchSpecialist runs one sub-agent pass and appends everything it
// produced to the transcript. A failing specialist is absorbed into an
// apologetic answer so the supervisor can still close the turn.
func DispatchSpecialist(
	ctx context.Context,
	inv *graphx.Invocation,
	sp contractx.Specialist,
	agentType contractx.AgentType,
) (graphx.Outcome, error) {
	conv := inv.State

	msgs, err := sp.Respond(ctx, contractx.SpecialistRequest{
		Messages:     conv.Messages,
		CustomerID:   conv.CustomerID,
		LoadedMemory: conv.LoadedMemory,
	})
	if err != nil {
		log.Error().Err(err).Str("agent", string(agentType)).Str("thread", conv.ThreadID).Msg("specialist failed")
		fallback := schema.AssistantMessage(specialistFallback, nil)
		fallback.Name = string(agentType)
		conv.Append(fallback)
		return graphx.Proceed(), nil
	}

	conv.Append(msgs...)
	return graphx.Proceed(), nil
}
