package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
)

var (
	ErrInvalidThread = errors.New("thread id is empty")
	ErrNilState      = errors.New("conversation state is nil")
)

// Route is the supervisor's tagged dispatch decision. It is transient
// per-turn control state and is never checkpointed.
type Route string

const (
	RouteMusic   Route = "music"
	RouteInvoice Route = "invoice"
	RouteDone    Route = "done"
)

// Conversation is the per-thread state threaded through the graph.
// Messages is an append-only transcript; CustomerID is set exactly once,
// when verification succeeds, and never cleared for the life of the thread.
type Conversation struct {
	ThreadID   string            `json:"thread_id"`
	CustomerID string            `json:"customer_id,omitempty"`
	Messages   []*schema.Message `json:"messages"`

	// LoadedMemory is recomputed at the start of every turn and is not
	// durable on its own; it rides along in checkpoints only so a resumed
	// turn sees the same view it suspended with.
	LoadedMemory string `json:"loaded_memory,omitempty"`

	// RemainingSteps bounds supervisor dispatches within one turn.
	RemainingSteps int `json:"remaining_steps"`

	// AwaitingInput is true exactly when the last run ended by suspension
	// at the human-input node rather than at a terminal node.
	AwaitingInput bool `json:"awaiting_input"`

	// PendingRoute carries the supervisor's decision to the outgoing
	// branch. Set and consumed within a single node step.
	PendingRoute Route `json:"-"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewConversation(threadID string, now time.Time) (*Conversation, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return nil, ErrInvalidThread
	}
	return &Conversation{
		ThreadID:  threadID,
		UpdatedAt: now.UTC(),
	}, nil
}

// BeginTurn resets the per-turn fields and appends the incoming user
// message. Called once per fresh (non-resume) turn.
func (c *Conversation) BeginTurn(text string, stepBudget int, now time.Time) {
	c.Append(schema.UserMessage(text))
	c.LoadedMemory = ""
	c.RemainingSteps = stepBudget
	c.AwaitingInput = false
	c.PendingRoute = ""
	c.Touch(now)
}

// Append adds messages to the transcript. Existing messages are never
// replaced or reordered.
func (c *Conversation) Append(msgs ...*schema.Message) {
	for _, m := range msgs {
		if m == nil {
			continue
		}
		c.Messages = append(c.Messages, m)
	}
}

func (c *Conversation) LastMessage() *schema.Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastAssistant returns the most recent assistant message, or nil.
func (c *Conversation) LastAssistant() *schema.Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == schema.Assistant {
			return c.Messages[i]
		}
	}
	return nil
}

// RecentWindow returns up to the last n transcript messages.
func (c *Conversation) RecentWindow(n int) []*schema.Message {
	if n <= 0 || len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}

func (c *Conversation) Touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

func (c *Conversation) Validate() error {
	if c == nil {
		return ErrNilState
	}
	if strings.TrimSpace(c.ThreadID) == "" {
		return ErrInvalidThread
	}
	if c.RemainingSteps < 0 {
		return fmt.Errorf("remaining steps must be >= 0, got %d", c.RemainingSteps)
	}
	return nil
}

// FormatTranscript renders messages as "role: content" lines, skipping
// messages with empty content. Used for memory excerpts and extraction
// payloads.
func FormatTranscript(msgs []*schema.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		if m == nil || strings.TrimSpace(m.Content) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
