package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	graphx "github.com/lyrebird-labs/concierge/agent/graph"
	identityx "github.com/lyrebird-labs/concierge/agent/identity"
	statex "github.com/lyrebird-labs/concierge/agent/state"
)

// defaultStepBudget bounds supervisor dispatches per turn.
const defaultStepBudget = 8

// diagnosticLimit caps how much error detail leaks into the apology.
const diagnosticLimit = 300

const errorTemplate = "I apologize, but I encountered an error processing your request. Please try again. Error details: %s"

const noAnswerFallback = "I'm sorry, I wasn't able to find an answer this time. Could you rephrase your question?"

type Config struct {
	StepBudget int
}

// Orchestrator owns one compiled conversation graph and its backing
// stores. It is safe for concurrent turns on distinct threads.
type Orchestrator struct {
	checkpoints statex.CheckpointStore
	memory      statex.MemoryStore
	models      contractx.Registry
	resolver    *identityx.Resolver

	runner     *graphx.Runner
	stepBudget int
	now        func() time.Time
}

// TurnResult is what one customer turn produced. When AwaitingInput is
// true the turn is suspended and Answer carries the question to relay;
// the next RunTurn on the same thread resumes it.
type TurnResult struct {
	ThreadID      string
	Messages      []*schema.Message
	AwaitingInput bool
	Answer        string
}

func New(
	checkpoints statex.CheckpointStore,
	memory statex.MemoryStore,
	models contractx.Registry,
	resolver *identityx.Resolver,
	cfg Config,
) (*Orchestrator, error) {
	if checkpoints == nil {
		return nil, errors.New("checkpoint store is required")
	}
	if memory == nil {
		return nil, errors.New("memory store is required")
	}
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if resolver == nil {
		return nil, errors.New("identity resolver is required")
	}

	stepBudget := cfg.StepBudget
	if stepBudget <= 0 {
		stepBudget = defaultStepBudget
	}

	o := &Orchestrator{
		checkpoints: checkpoints,
		memory:      memory,
		models:      models,
		resolver:    resolver,
		stepBudget:  stepBudget,
		now:         time.Now,
	}

	runner, err := o.compileConversationGraph()
	if err != nil {
		return nil, err
	}
	o.runner = runner

	return o, nil
}

// NewThreadID mints an identifier for a fresh conversation thread.
func NewThreadID() string {
	return uuid.NewString()
}

// RunTurn drives one customer turn. Panics and executor errors are
// absorbed at this boundary: the caller always gets a result whose
// Answer is either the assistant's reply, a suspension prompt, or an
// apology built from the last persisted state.
func (o *Orchestrator) RunTurn(ctx context.Context, threadID, text string) (result *TurnResult, err error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, fmt.Errorf("%w: thread id is empty", contractx.ErrValidation)
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("thread", threadID).Msg("turn panicked")
			result = o.failedTurn(ctx, threadID, fmt.Sprintf("%v", rec))
			err = nil
		}
	}()

	res, runErr := o.runner.Run(ctx, threadID, text, o.freshConversation, o.beginTurn)
	if runErr != nil {
		log.Error().Err(runErr).Str("thread", threadID).Msg("turn failed")
		return o.failedTurn(ctx, threadID, runErr.Error()), nil
	}

	answer := res.Prompt
	if !res.Interrupted {
		answer = extractAnswer(res.State.Messages)
	}

	return &TurnResult{
		ThreadID:      threadID,
		Messages:      res.State.Messages,
		AwaitingInput: res.Interrupted,
		Answer:        answer,
	}, nil
}

func (o *Orchestrator) freshConversation(threadID string) (*statex.Conversation, error) {
	return statex.NewConversation(threadID, o.now())
}

func (o *Orchestrator) beginTurn(conv *statex.Conversation, text string) {
	conv.BeginTurn(text, o.stepBudget, o.now())
}

// failedTurn builds the apologetic result for a turn that blew up,
// reporting the transcript from the last persisted checkpoint.
func (o *Orchestrator) failedTurn(ctx context.Context, threadID, detail string) *TurnResult {
	if len(detail) > diagnosticLimit {
		detail = detail[:diagnosticLimit]
	}

	var msgs []*schema.Message
	var paused bool
	if cp, err := o.checkpoints.Get(ctx, threadID); err == nil && cp.State != nil {
		msgs = cp.State.Messages
		paused = cp.Paused
	}

	return &TurnResult{
		ThreadID:      threadID,
		Messages:      msgs,
		AwaitingInput: paused,
		Answer:        fmt.Sprintf(errorTemplate, detail),
	}
}

// extractAnswer picks the customer-facing reply out of the finished
// transcript: the last assistant message that carries text rather than
// tool calls.
func extractAnswer(msgs []*schema.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if m == nil || m.Role != schema.Assistant {
			continue
		}
		if len(m.ToolCalls) > 0 {
			continue
		}
		if content := strings.TrimSpace(m.Content); content != "" {
			return content
		}
	}
	return noAnswerFallback
}
