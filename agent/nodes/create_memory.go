package conversationnode

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	graphx "github.com/lyrebird-labs/concierge/agent/graph"
	statex "github.com/lyrebird-labs/concierge/agent/state"
)

// memoryWindow bounds how much of the transcript the analyst sees.
const memoryWindow = 10

// CreateMemory distills the finished turn into the customer's preference
// profile. The merge is monotonic: preferences already on file are never
// removed, whatever the analyst returns. All failures are logged and
// swallowed; a lost memory update must not fail the turn.
func CreateMemory(
	ctx context.Context,
	inv *graphx.Invocation,
	store statex.MemoryStore,
	analyst contractx.MemoryAnalyst,
) (graphx.Outcome, error) {
	conv := inv.State
	if conv.CustomerID == "" {
		return graphx.Proceed(), nil
	}

	existing, err := store.Get(ctx, conv.CustomerID)
	if err != nil && !errors.Is(err, statex.ErrProfileNotFound) {
		log.Error().Err(err).Str("customer", conv.CustomerID).Msg("read memory profile failed, skipping merge")
		return graphx.Proceed(), nil
	}

	merged, err := analyst.Merge(ctx, contractx.MergeRequest{
		CustomerID:      conv.CustomerID,
		Conversation:    statex.FormatTranscript(conv.RecentWindow(memoryWindow)),
		ExistingProfile: existing.Format(),
	})
	if err != nil {
		log.Error().Err(err).Str("customer", conv.CustomerID).Msg("memory merge failed, keeping existing profile")
		return graphx.Proceed(), nil
	}

	merged.CustomerID = conv.CustomerID
	merged.MusicPreferences = statex.MergePreferences(existing.MusicPreferences, merged.MusicPreferences)

	if err := store.Put(ctx, merged); err != nil {
		log.Error().Err(err).Str("customer", conv.CustomerID).Msg("persist memory profile failed")
	}
	return graphx.Proceed(), nil
}
