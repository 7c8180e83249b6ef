package specialist

import (
	"context"
	"fmt"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	llmx "github.com/lyrebird-labs/concierge/agent/llm"
	promptx "github.com/lyrebird-labs/concierge/agent/prompt"
)

type registryImpl struct {
	extractor  contractx.IdentityExtractor
	clarifier  contractx.Clarifier
	supervisor contractx.SupervisorPlanner
	music      contractx.Specialist
	invoice    contractx.Specialist
	memory     contractx.MemoryAnalyst
}

func (r *registryImpl) Extractor() contractx.IdentityExtractor { return r.extractor }
func (r *registryImpl) Clarifier() contractx.Clarifier { return r.clarifier }
func (r *registryImpl) Supervisor() contractx.SupervisorPlanner { return r.supervisor }
func (r *registryImpl) Music() contractx.Specialist { return r.music }
func (r *registryImpl) Invoice() contractx.Specialist { return r.invoice }
func (r *registryImpl) Memory() contractx.MemoryAnalyst { return r.memory }

// NewRegistry builds the model-backed agents, one chat model per agent
// type so per-agent overrides apply.
func NewRegistry(ctx context.Context, cfg llmx.Config, gateway contractx.ToolGateway) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.Load()

	verifierModelCfg := cfg.OpenRouterFor(contractx.AgentTypeVerifier)
	verifierModel, err := verifierModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create verifier model: %v", contractx.ErrModelInvoke, err)
	}
	supervisorModelCfg := cfg.OpenRouterFor(contractx.AgentTypeSupervisor)
	supervisorModel, err := supervisorModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create supervisor model: %v", contractx.ErrModelInvoke, err)
	}
	musicModelCfg := cfg.OpenRouterFor(contractx.AgentTypeMusic)
	musicModel, err := musicModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create music model: %v", contractx.ErrModelInvoke, err)
	}
	invoiceModelCfg := cfg.OpenRouterFor(contractx.AgentTypeInvoice)
	invoiceModel, err := invoiceModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create invoice model: %v", contractx.ErrModelInvoke, err)
	}
	memoryModelCfg := cfg.OpenRouterFor(contractx.AgentTypeMemory)
	memoryModel, err := memoryModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create memory model: %v", contractx.ErrModelInvoke, err)
	}

	extractor, err := newExtractor(ctx, verifierModel, prompts.Extraction)
	if err != nil {
		return nil, err
	}

	supervisor, err := newPlanner(ctx, supervisorModel, prompts.Supervisor)
	if err != nil {
		return nil, err
	}

	music, err := newReactSpecialist(contractx.AgentTypeMusic, musicModel, prompts.Music, gateway)
	if err != nil {
		return nil, err
	}
	invoice, err := newReactSpecialist(contractx.AgentTypeInvoice, invoiceModel, func(string) string {
		return prompts.Invoice
	}, gateway)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		extractor:  extractor,
		clarifier:  &clarifierImpl{model: verifierModel, systemPrompt: prompts.Verification},
		supervisor: supervisor,
		music:      music,
		invoice:    invoice,
		memory:     newAnalyst(memoryModel, prompts),
	}, nil
}
