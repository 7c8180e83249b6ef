package state

import (
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
)

func TestNewConversationRequiresThreadID(t *testing.T) {
	t.Parallel()

	_, err := NewConversation("   ", time.Now())
	if !errors.Is(err, ErrInvalidThread) {
		t.Fatalf("NewConversation() error = %v, want ErrInvalidThread", err)
	}
}

func TestBeginTurnResetsPerTurnFields(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	conv, err := NewConversation("t1", now)
	if err != nil {
		t.Fatalf("NewConversation() error = %v", err)
	}

	conv.AwaitingInput = true
	conv.PendingRoute = RouteMusic
	conv.BeginTurn("hello", 8, now)

	if conv.AwaitingInput {
		t.Fatal("AwaitingInput should be cleared on a new turn")
	}
	if conv.PendingRoute != "" {
		t.Fatalf("PendingRoute = %q, want empty", conv.PendingRoute)
	}
	if conv.RemainingSteps != 8 {
		t.Fatalf("RemainingSteps = %d, want 8", conv.RemainingSteps)
	}
	last := conv.LastMessage()
	if last == nil || last.Role != schema.User || last.Content != "hello" {
		t.Fatalf("unexpected last message: %#v", last)
	}
}

func TestRecentWindow(t *testing.T) {
	t.Parallel()

	conv, err := NewConversation("t1", time.Now())
	if err != nil {
		t.Fatalf("NewConversation() error = %v", err)
	}
	conv.Append(
		schema.UserMessage("one"),
		schema.AssistantMessage("two", nil),
		schema.UserMessage("three"),
	)

	window := conv.RecentWindow(2)
	if len(window) != 2 {
		t.Fatalf("RecentWindow(2) returned %d messages", len(window))
	}
	if window[0].Content != "two" || window[1].Content != "three" {
		t.Fatalf("unexpected window: %q, %q", window[0].Content, window[1].Content)
	}

	if got := conv.RecentWindow(10); len(got) != 3 {
		t.Fatalf("RecentWindow(10) returned %d messages, want all 3", len(got))
	}
}

func TestLastAssistantSkipsToolAndUserMessages(t *testing.T) {
	t.Parallel()

	conv, err := NewConversation("t1", time.Now())
	if err != nil {
		t.Fatalf("NewConversation() error = %v", err)
	}
	conv.Append(
		schema.AssistantMessage("answer", nil),
		schema.ToolMessage("rows", "call-1"),
		schema.UserMessage("thanks"),
	)

	last := conv.LastAssistant()
	if last == nil || last.Content != "answer" {
		t.Fatalf("LastAssistant() = %#v, want the assistant answer", last)
	}
}

func TestFormatTranscriptSkipsEmptyMessages(t *testing.T) {
	t.Parallel()

	got := FormatTranscript([]*schema.Message{
		schema.UserMessage("hi"),
		{Role: schema.Assistant, Content: ""},
		schema.AssistantMessage("hello", nil),
		nil,
	})

	want := "user: hi\nassistant: hello"
	if got != want {
		t.Fatalf("FormatTranscript() = %q, want %q", got, want)
	}
}
