package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	identityx "github.com/lyrebird-labs/concierge/agent/identity"
	statex "github.com/lyrebird-labs/concierge/agent/state"
)

type fakeExtractor struct {
	identifiers []string
	idx         int
	panicOnCall bool
}

func (f *fakeExtractor) Extract(ctx context.Context, msgs []*schema.Message) (string, error) {
	if f.panicOnCall {
		panic("extractor exploded")
	}
	if f.idx >= len(f.identifiers) {
		return "", nil
	}
	id := f.identifiers[f.idx]
	f.idx++
	return id, nil
}

type fakeClarifier struct{}

func (fakeClarifier) Clarify(ctx context.Context, msgs []*schema.Message) (*schema.Message, error) {
	return schema.AssistantMessage("Could you share your customer ID, phone, or email?", nil), nil
}

type fakePlanner struct {
	decisions []contractx.SupervisorDecision
	idx       int
}

func (f *fakePlanner) Decide(ctx context.Context, req contractx.SupervisorRequest) (contractx.SupervisorDecision, error) {
	if f.idx >= len(f.decisions) {
		return contractx.SupervisorDecision{Next: statex.RouteDone}, nil
	}
	d := f.decisions[f.idx]
	f.idx++
	return d, nil
}

type fakeSpecialist struct {
	answer string
}

func (f *fakeSpecialist) Respond(ctx context.Context, req contractx.SpecialistRequest) ([]*schema.Message, error) {
	msg := schema.AssistantMessage(f.answer, nil)
	msg.Name = string(contractx.AgentTypeMusic)
	return []*schema.Message{msg}, nil
}

type fakeAnalyst struct {
	prefs []string
}

func (f *fakeAnalyst) Merge(ctx context.Context, req contractx.MergeRequest) (statex.MemoryProfile, error) {
	return statex.MemoryProfile{CustomerID: req.CustomerID, MusicPreferences: f.prefs}, nil
}

type fakeRegistry struct {
	extractor  contractx.IdentityExtractor
	clarifier  contractx.Clarifier
	supervisor contractx.SupervisorPlanner
	music      contractx.Specialist
	invoice    contractx.Specialist
	memory     contractx.MemoryAnalyst
}

func (f *fakeRegistry) Extractor() contractx.IdentityExtractor { return f.extractor }
func (f *fakeRegistry) Clarifier() contractx.Clarifier { return f.clarifier }
func (f *fakeRegistry) Supervisor() contractx.SupervisorPlanner { return f.supervisor }
func (f *fakeRegistry) Music() contractx.Specialist { return f.music }
func (f *fakeRegistry) Invoice() contractx.Specialist { return f.invoice }
func (f *fakeRegistry) Memory() contractx.MemoryAnalyst { return f.memory }

type fakeDirectory struct {
	ids map[string]bool
}

func (f *fakeDirectory) LookupByID(ctx context.Context, customerID string) (bool, error) {
	return f.ids[customerID], nil
}

func (f *fakeDirectory) LookupByPhone(ctx context.Context, phone string) (string, error) {
	return "", nil
}

func (f *fakeDirectory) LookupByEmail(ctx context.Context, email string) (string, error) {
	return "", nil
}

func newTestOrchestrator(t *testing.T, reg contractx.Registry, memory statex.MemoryStore) *Orchestrator {
	t.Helper()

	svc, err := New(
		statex.NewInMemoryCheckpointStore(),
		memory,
		reg,
		identityx.NewResolver(&fakeDirectory{ids: map[string]bool{"1": true}}),
		Config{},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func TestRunTurnVerifiedCustomerGetsAnswer(t *testing.T) {
	t.Parallel()

	memory := statex.NewInMemoryMemoryStore()
	reg := &fakeRegistry{
		extractor: &fakeExtractor{identifiers: []string{"1"}},
		clarifier: fakeClarifier{},
		supervisor: &fakePlanner{decisions: []contractx.SupervisorDecision{
			{Next: statex.RouteMusic},
			{Next: statex.RouteDone},
		}},
		music:   &fakeSpecialist{answer: "AC/DC has two albums in the catalog."},
		invoice: &fakeSpecialist{answer: "invoice answer"},
		memory:  &fakeAnalyst{prefs: []string{"Rock"}},
	}
	svc := newTestOrchestrator(t, reg, memory)

	result, err := svc.RunTurn(context.Background(), "t1", "My customer ID is 1. What AC/DC albums do you have?")
	if err != nil {
		t.Fatalf("RunTurn() error = %v", err)
	}

	if result.AwaitingInput {
		t.Fatal("verified turn should complete without suspension")
	}
	if result.Answer != "AC/DC has two albums in the catalog." {
		t.Fatalf("Answer = %q", result.Answer)
	}

	// The memory merge runs at end of turn.
	profile, err := memory.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("memory Get() error = %v", err)
	}
	if len(profile.MusicPreferences) != 1 || profile.MusicPreferences[0] != "Rock" {
		t.Fatalf("stored preferences = %#v", profile.MusicPreferences)
	}
}

func TestRunTurnSuspendAndResume(t *testing.T) {
	t.Parallel()

	// First extraction finds nothing; after the customer replies with
	// their id, the second extraction succeeds.
	extractor := &fakeExtractor{identifiers: []string{"", "1"}}
	reg := &fakeRegistry{
		extractor: extractor,
		clarifier: fakeClarifier{},
		supervisor: &fakePlanner{decisions: []contractx.SupervisorDecision{
			{Next: statex.RouteDone, FinalResponse: "You have 3 invoices on file."},
		}},
		music:   &fakeSpecialist{answer: "music"},
		invoice: &fakeSpecialist{answer: "invoice"},
		memory:  &fakeAnalyst{},
	}
	svc := newTestOrchestrator(t, reg, statex.NewInMemoryMemoryStore())

	result, err := svc.RunTurn(context.Background(), "t1", "How many invoices do I have?")
	if err != nil {
		t.Fatalf("RunTurn() error = %v", err)
	}
	if !result.AwaitingInput {
		t.Fatal("unverified turn should suspend for input")
	}
	if !strings.Contains(result.Answer, "customer ID") {
		t.Fatalf("suspension prompt = %q", result.Answer)
	}

	result, err = svc.RunTurn(context.Background(), "t1", "My ID is 1")
	if err != nil {
		t.Fatalf("resume RunTurn() error = %v", err)
	}
	if result.AwaitingInput {
		t.Fatal("resumed turn should complete")
	}
	if result.Answer != "You have 3 invoices on file." {
		t.Fatalf("Answer = %q", result.Answer)
	}

	var sawResume bool
	for _, m := range result.Messages {
		if m.Role == schema.User && m.Content == "My ID is 1" {
			sawResume = true
		}
	}
	if !sawResume {
		t.Fatal("resume value missing from transcript")
	}
}

func TestRunTurnPanicBecomesApology(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{
		extractor:  &fakeExtractor{panicOnCall: true},
		clarifier:  fakeClarifier{},
		supervisor: &fakePlanner{},
		music:      &fakeSpecialist{answer: "music"},
		invoice:    &fakeSpecialist{answer: "invoice"},
		memory:     &fakeAnalyst{},
	}
	svc := newTestOrchestrator(t, reg, statex.NewInMemoryMemoryStore())

	result, err := svc.RunTurn(context.Background(), "t1", "hello")
	if err != nil {
		t.Fatalf("RunTurn() error = %v", err)
	}
	if !strings.Contains(result.Answer, "I apologize") {
		t.Fatalf("Answer = %q, want apology", result.Answer)
	}
	if !strings.Contains(result.Answer, "extractor exploded") {
		t.Fatalf("Answer = %q, want diagnostic detail", result.Answer)
	}
}

type flakyCheckpointStore struct {
	statex.CheckpointStore
	failing bool
}

func (f *flakyCheckpointStore) Put(ctx context.Context, cp *statex.Checkpoint) error {
	if f.failing {
		return errors.New("store unavailable")
	}
	return f.CheckpointStore.Put(ctx, cp)
}

func TestFailedTurnKeepsAwaitingInput(t *testing.T) {
	t.Parallel()

	checkpoints := &flakyCheckpointStore{CheckpointStore: statex.NewInMemoryCheckpointStore()}
	reg := &fakeRegistry{
		extractor:  &fakeExtractor{identifiers: []string{"", "1"}},
		clarifier:  fakeClarifier{},
		supervisor: &fakePlanner{},
		music:      &fakeSpecialist{answer: "music"},
		invoice:    &fakeSpecialist{answer: "invoice"},
		memory:     &fakeAnalyst{},
	}
	svc, err := New(
		checkpoints,
		statex.NewInMemoryMemoryStore(),
		reg,
		identityx.NewResolver(&fakeDirectory{ids: map[string]bool{"1": true}}),
		Config{},
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := svc.RunTurn(context.Background(), "t1", "How many invoices do I have?")
	if err != nil {
		t.Fatalf("RunTurn() error = %v", err)
	}
	if !result.AwaitingInput {
		t.Fatal("unverified turn should suspend for input")
	}

	// The resume turn dies on a transient store failure. The thread is
	// still paused at the last persisted checkpoint, and the caller must
	// see that so the next call is sent as a resume value.
	checkpoints.failing = true
	result, err = svc.RunTurn(context.Background(), "t1", "My ID is 1")
	if err != nil {
		t.Fatalf("resume RunTurn() error = %v", err)
	}
	if !strings.Contains(result.Answer, "I apologize") {
		t.Fatalf("Answer = %q, want apology", result.Answer)
	}
	if !result.AwaitingInput {
		t.Fatal("failed resume must still report the thread as suspended")
	}
}

func TestRunTurnRejectsEmptyThread(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistry{
		extractor:  &fakeExtractor{},
		clarifier:  fakeClarifier{},
		supervisor: &fakePlanner{},
		music:      &fakeSpecialist{answer: "music"},
		invoice:    &fakeSpecialist{answer: "invoice"},
		memory:     &fakeAnalyst{},
	}
	svc := newTestOrchestrator(t, reg, statex.NewInMemoryMemoryStore())

	if _, err := svc.RunTurn(context.Background(), "   ", "hello"); err == nil {
		t.Fatal("empty thread id must be rejected")
	}
}

func TestExtractAnswerSkipsToolTraffic(t *testing.T) {
	t.Parallel()

	msgs := []*schema.Message{
		schema.UserMessage("albums?"),
		{Role: schema.Assistant, ToolCalls: []schema.ToolCall{{ID: "c1"}}},
		schema.ToolMessage("rows", "c1"),
		schema.AssistantMessage("Here are the albums.", nil),
		schema.SystemMessage("Customer verified successfully."),
	}
	if got := extractAnswer(msgs); got != "Here are the albums." {
		t.Fatalf("extractAnswer() = %q", got)
	}

	if got := extractAnswer(nil); got != noAnswerFallback {
		t.Fatalf("extractAnswer(nil) = %q, want fallback", got)
	}
}
