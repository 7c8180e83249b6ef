package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
)

type clarifierImpl struct {
	model        einomodel.BaseChatModel
	systemPrompt string
}

var _ contractx.Clarifier = (*clarifierImpl)(nil)

// Clarify asks the customer for an account identifier in the verifier's
// voice, grounded on the transcript so far.
func (c *clarifierImpl) Clarify(ctx context.Context, msgs []*schema.Message) (*schema.Message, error) {
	in := make([]*schema.Message, 0, len(msgs)+1)
	in = append(in, schema.SystemMessage(c.systemPrompt))
	in = append(in, msgs...)

	resp, err := c.model.Generate(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%w: clarification invoke: %v", contractx.ErrModelInvoke, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return nil, fmt.Errorf("%w: empty clarification response", contractx.ErrSchemaViolation)
	}

	return schema.AssistantMessage(strings.TrimSpace(resp.Content), nil), nil
}
