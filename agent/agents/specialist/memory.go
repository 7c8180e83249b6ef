package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	promptx "github.com/lyrebird-labs/concierge/agent/prompt"
	statex "github.com/lyrebird-labs/concierge/agent/state"
)

// analystImpl distills the finished turn into an updated preference
// profile. The merge prompt is rendered per request, so this agent
// invokes the model directly instead of going through a compiled graph.
type analystImpl struct {
	model   einomodel.BaseChatModel
	prompts promptx.Set
	parser  schema.MessageParser[profileOutput]
}

type profileOutput struct {
	CustomerID       string   `json:"customer_id"`
	MusicPreferences []string `json:"music_preferences"`
}

var _ contractx.MemoryAnalyst = (*analystImpl)(nil)

func newAnalyst(chatModel einomodel.BaseChatModel, prompts promptx.Set) *analystImpl {
	return &analystImpl{
		model:   chatModel,
		prompts: prompts,
		parser: schema.NewMessageJSONParser[profileOutput](&schema.MessageJSONParseConfig{
			ParseFrom: schema.MessageParseFromContent,
		}),
	}
}

func (a *analystImpl) Merge(ctx context.Context, req contractx.MergeRequest) (statex.MemoryProfile, error) {
	system := a.prompts.Memory(req.Conversation, req.ExistingProfile)

	resp, err := a.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage("Produce the updated customer profile now."),
	})
	if err != nil {
		return statex.MemoryProfile{}, fmt.Errorf("%w: memory merge invoke: %v", contractx.ErrModelInvoke, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return statex.MemoryProfile{}, fmt.Errorf("%w: empty memory merge response", contractx.ErrSchemaViolation)
	}

	out, err := a.parser.Parse(ctx, resp)
	if err != nil {
		return statex.MemoryProfile{}, fmt.Errorf("%w: parse memory merge response: %v", contractx.ErrSchemaViolation, err)
	}

	prefs := make([]string, 0, len(out.MusicPreferences))
	for _, p := range out.MusicPreferences {
		if v := strings.TrimSpace(p); v != "" {
			prefs = append(prefs, v)
		}
	}

	return statex.MemoryProfile{
		CustomerID:       req.CustomerID,
		MusicPreferences: prefs,
	}, nil
}
