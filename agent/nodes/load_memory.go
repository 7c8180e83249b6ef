package conversationnode

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	graphx "github.com/lyrebird-labs/concierge/agent/graph"
	statex "github.com/lyrebird-labs/concierge/agent/state"
)

// LoadMemory fetches the verified customer's preference profile and
// renders it into the conversation state. Store failures degrade to an
// empty profile; memory is advisory, not load-bearing.
func LoadMemory(ctx context.Context, inv *graphx.Invocation, store statex.MemoryStore) (graphx.Outcome, error) {
	conv := inv.State

	profile, err := store.Get(ctx, conv.CustomerID)
	switch {
	case errors.Is(err, statex.ErrProfileNotFound):
		conv.LoadedMemory = ""
	case err != nil:
		log.Error().Err(err).Str("customer", conv.CustomerID).Msg("load memory profile failed")
		conv.LoadedMemory = ""
	default:
		conv.LoadedMemory = profile.Format()
	}

	return graphx.Proceed(), nil
}
