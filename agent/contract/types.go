package contract

import (
	"github.com/cloudwego/eino/schema"

	statex "github.com/lyrebird-labs/concierge/agent/state"
)

type AgentType string

const (
	AgentTypeVerifier   AgentType = "verifier"
	AgentTypeSupervisor AgentType = "supervisor"
	AgentTypeMusic      AgentType = "music_catalog_subagent"
	AgentTypeInvoice    AgentType = "invoice_information_subagent"
	AgentTypeMemory     AgentType = "memory_analyst"
)

// SupervisorRequest carries everything the router may inspect when
// deciding the next dispatch.
type SupervisorRequest struct {
	Messages       []*schema.Message
	CustomerID     string
	LoadedMemory   string
	RemainingSteps int
}

// SupervisorDecision is the tagged routing outcome. FinalResponse is only
// meaningful when Next is RouteDone and may still be empty, in which case
// the last specialist answer stands as the turn's reply.
type SupervisorDecision struct {
	Next          statex.Route
	FinalResponse string
}

// SpecialistRequest is the shared state handed to a sub-agent. The
// specialist appends its answer (and any tool traffic) as new messages;
// it never rewrites the transcript.
type SpecialistRequest struct {
	Messages     []*schema.Message
	CustomerID   string
	LoadedMemory string
}

// MergeRequest feeds the end-of-turn memory merge.
type MergeRequest struct {
	CustomerID      string
	Conversation    string
	ExistingProfile string
}
