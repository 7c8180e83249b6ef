package specialist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	toolx "github.com/lyrebird-labs/concierge/agent/tool"
)

// maxToolRounds bounds the reason/act loop of a sub-agent.
const maxToolRounds = 8

// reactSpecialist runs the tool-calling loop for a sub-agent: propose
// tool calls, execute them through the gateway, feed results back, and
// stop at the first plain-text answer.
type reactSpecialist struct {
	agentType    contractx.AgentType
	model        einomodel.ToolCallingChatModel
	renderPrompt func(memory string) string
	gateway      contractx.ToolGateway
	allowed      map[string]struct{}
}

var _ contractx.Specialist = (*reactSpecialist)(nil)

func newReactSpecialist(
	agentType contractx.AgentType,
	chatModel einomodel.ToolCallingChatModel,
	renderPrompt func(memory string) string,
	gateway contractx.ToolGateway,
) (*reactSpecialist, error) {
	infos := toolx.InfosForAgent(agentType)
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: no tools declared for agent=%s", contractx.ErrValidation, agentType)
	}

	bound, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
	}

	allowed := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		allowed[info.Name] = struct{}{}
	}

	return &reactSpecialist{
		agentType:    agentType,
		model:        bound,
		renderPrompt: renderPrompt,
		gateway:      gateway,
		allowed:      allowed,
	}, nil
}

func (s *reactSpecialist) Respond(ctx context.Context, req contractx.SpecialistRequest) ([]*schema.Message, error) {
	history := make([]*schema.Message, 0, len(req.Messages)+2)
	history = append(history, schema.SystemMessage(s.renderPrompt(req.LoadedMemory)))
	if req.CustomerID != "" {
		history = append(history, schema.SystemMessage("The current verified customer ID is: "+req.CustomerID))
	}
	history = append(history, req.Messages...)

	var produced []*schema.Message
	for round := 0; round < maxToolRounds; round++ {
		resp, err := s.model.Generate(ctx, history)
		if err != nil {
			return nil, fmt.Errorf("%w: specialist=%s invoke: %v", contractx.ErrModelInvoke, s.agentType, err)
		}
		if resp == nil {
			return nil, fmt.Errorf("%w: specialist=%s returned no message", contractx.ErrSchemaViolation, s.agentType)
		}

		resp.Name = string(s.agentType)
		history = append(history, resp)
		produced = append(produced, resp)

		if len(resp.ToolCalls) == 0 {
			return produced, nil
		}

		for _, call := range resp.ToolCalls {
			name := strings.TrimSpace(call.Function.Name)
			result := s.execute(ctx, name, call.Function.Arguments)
			toolMsg := schema.ToolMessage(result, call.ID, schema.WithToolName(name))
			history = append(history, toolMsg)
			produced = append(produced, toolMsg)
		}
	}

	return nil, fmt.Errorf("%w: specialist=%s exceeded %d tool rounds", contractx.ErrModelInvoke, s.agentType, maxToolRounds)
}

func (s *reactSpecialist) execute(ctx context.Context, name, rawArgs string) string {
	if _, ok := s.allowed[name]; !ok {
		log.Warn().Str("agent", string(s.agentType)).Str("tool", name).Msg("model requested undeclared tool")
	}

	args := map[string]any{}
	if trimmed := strings.TrimSpace(rawArgs); trimmed != "" {
		if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
			log.Warn().Err(err).Str("tool", name).Msg("invalid tool arguments")
			return fmt.Sprintf("Error executing %s. Please try again.", name)
		}
	}

	return s.gateway.Execute(ctx, name, args)
}
