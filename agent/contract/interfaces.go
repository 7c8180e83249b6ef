package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"

	statex "github.com/lyrebird-labs/concierge/agent/state"
)

// IdentityExtractor is the structured-extraction capability for account
// identifiers. It returns the extracted identifier or "" when the
// transcript carries none; callers treat an error as "nothing extracted".
type IdentityExtractor interface {
	Extract(ctx context.Context, msgs []*schema.Message) (string, error)
}

// Clarifier produces the polite re-prompt asking the customer for an
// identifier (or to double-check one that was not found).
type Clarifier interface {
	Clarify(ctx context.Context, msgs []*schema.Message) (*schema.Message, error)
}

// SupervisorPlanner decides the next dispatch for the current turn.
type SupervisorPlanner interface {
	Decide(ctx context.Context, req SupervisorRequest) (SupervisorDecision, error)
}

// Specialist runs one sub-agent pass and returns the messages it
// produced, in order: assistant proposals, tool results, and finally the
// answer message tagged with the specialist's name.
type Specialist interface {
	Respond(ctx context.Context, req SpecialistRequest) ([]*schema.Message, error)
}

// MemoryAnalyst is the structured-extraction capability for the
// end-of-turn preference merge.
type MemoryAnalyst interface {
	Merge(ctx context.Context, req MergeRequest) (statex.MemoryProfile, error)
}

// Registry bundles the model-backed capabilities used by the graph.
type Registry interface {
	Extractor() IdentityExtractor
	Clarifier() Clarifier
	Supervisor() SupervisorPlanner
	Music() Specialist
	Invoice() Specialist
	Memory() MemoryAnalyst
}

// ToolGateway executes a named tool and always returns text: internal
// failures are converted to a descriptive error string so the model can
// react to them on its next step.
type ToolGateway interface {
	Execute(ctx context.Context, tool string, args map[string]any) string
}

// CustomerDirectory is the identity lookup boundary over the store
// database.
type CustomerDirectory interface {
	LookupByID(ctx context.Context, customerID string) (bool, error)
	LookupByPhone(ctx context.Context, phone string) (string, error)
	LookupByEmail(ctx context.Context, email string) (string, error)
}
