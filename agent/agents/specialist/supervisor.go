package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	statex "github.com/lyrebird-labs/concierge/agent/state"
)

type plannerImpl struct {
	runner compose.Runnable[map[string]any, decisionOutput]
}

type decisionOutput struct {
	Next     string `json:"next"`
	Response string `json:"response,omitempty"`
}

var _ contractx.SupervisorPlanner = (*plannerImpl)(nil)

func newPlanner(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (*plannerImpl, error) {
	runner, err := compileStructuredLLMGraph[decisionOutput](ctx, chatModel, systemPrompt, "supervisor.decision_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile supervisor graph: %v", contractx.ErrModelInvoke, err)
	}
	return &plannerImpl{runner: runner}, nil
}

func (p *plannerImpl) Decide(ctx context.Context, req contractx.SupervisorRequest) (contractx.SupervisorDecision, error) {
	payload := map[string]any{
		"customer_id":     req.CustomerID,
		"loaded_memory":   req.LoadedMemory,
		"remaining_steps": req.RemainingSteps,
		"conversation":    statex.FormatTranscript(req.Messages),
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return contractx.SupervisorDecision{}, fmt.Errorf("%w: marshal supervisor payload: %v", contractx.ErrValidation, err)
	}

	out, err := p.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return contractx.SupervisorDecision{}, fmt.Errorf("%w: supervisor invoke: %v", contractx.ErrModelInvoke, err)
	}

	next := statex.Route(strings.ToLower(strings.TrimSpace(out.Next)))
	switch next {
	case statex.RouteMusic, statex.RouteInvoice, statex.RouteDone:
	default:
		return contractx.SupervisorDecision{}, fmt.Errorf("%w: unknown route %q", contractx.ErrSchemaViolation, out.Next)
	}

	return contractx.SupervisorDecision{
		Next:          next,
		FinalResponse: strings.TrimSpace(out.Response),
	}, nil
}
