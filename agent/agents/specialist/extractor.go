package specialist

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	statex "github.com/lyrebird-labs/concierge/agent/state"
)

type extractorImpl struct {
	runner compose.Runnable[map[string]any, extractionOutput]
}

type extractionOutput struct {
	Identifier string `json:"identifier"`
}

var _ contractx.IdentityExtractor = (*extractorImpl)(nil)

func newExtractor(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (*extractorImpl, error) {
	runner, err := compileStructuredLLMGraph[extractionOutput](ctx, chatModel, systemPrompt, "verifier.extraction_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile extraction graph: %v", contractx.ErrModelInvoke, err)
	}
	return &extractorImpl{runner: runner}, nil
}

// Extract returns the account identifier found in the transcript, or ""
// when the customer has not provided one yet.
func (e *extractorImpl) Extract(ctx context.Context, msgs []*schema.Message) (string, error) {
	out, err := e.runner.Invoke(ctx, map[string]any{
		"input": statex.FormatTranscript(msgs),
	})
	if err != nil {
		return "", fmt.Errorf("%w: identity extraction invoke: %v", contractx.ErrModelInvoke, err)
	}

	identifier := strings.TrimSpace(out.Identifier)
	if strings.EqualFold(identifier, "none") || strings.EqualFold(identifier, "null") {
		identifier = ""
	}
	return identifier, nil
}
