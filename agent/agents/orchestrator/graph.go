package orchestrator

import (
	"context"
	"fmt"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	graphx "github.com/lyrebird-labs/concierge/agent/graph"
	nodex "github.com/lyrebird-labs/concierge/agent/nodes"
)

func (o *Orchestrator) compileConversationGraph() (*graphx.Runner, error) {
	g := graphx.New()

	if err := g.AddNode(nodex.NodeVerifyInfo, func(ctx context.Context, inv *graphx.Invocation) (graphx.Outcome, error) {
		return nodex.VerifyInfo(ctx, inv, o.models, o.resolver)
	}); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeVerifyInfo, err)
	}

	if err := g.AddNode(nodex.NodeHumanInput, func(_ context.Context, inv *graphx.Invocation) (graphx.Outcome, error) {
		return nodex.HumanInput(inv)
	}); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeHumanInput, err)
	}

	if err := g.AddNode(nodex.NodeLoadMemory, func(ctx context.Context, inv *graphx.Invocation) (graphx.Outcome, error) {
		return nodex.LoadMemory(ctx, inv, o.memory)
	}); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeLoadMemory, err)
	}

	if err := g.AddNode(nodex.NodeSupervisor, func(ctx context.Context, inv *graphx.Invocation) (graphx.Outcome, error) {
		return nodex.Supervise(ctx, inv, o.models.Supervisor())
	}); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeSupervisor, err)
	}

	if err := g.AddNode(nodex.NodeMusic, func(ctx context.Context, inv *graphx.Invocation) (graphx.Outcome, error) {
		return nodex.DispatchSpecialist(ctx, inv, o.models.Music(), contractx.AgentTypeMusic)
	}); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeMusic, err)
	}

	if err := g.AddNode(nodex.NodeInvoice, func(ctx context.Context, inv *graphx.Invocation) (graphx.Outcome, error) {
		return nodex.DispatchSpecialist(ctx, inv, o.models.Invoice(), contractx.AgentTypeInvoice)
	}); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeInvoice, err)
	}

	if err := g.AddNode(nodex.NodeCreateMemory, func(ctx context.Context, inv *graphx.Invocation) (graphx.Outcome, error) {
		return nodex.CreateMemory(ctx, inv, o.memory, o.models.Memory())
	}); err != nil {
		return nil, fmt.Errorf("add node %s: %w", nodex.NodeCreateMemory, err)
	}

	if err := g.SetEntry(nodex.NodeVerifyInfo); err != nil {
		return nil, fmt.Errorf("set entry: %w", err)
	}

	if err := g.AddBranch(nodex.NodeVerifyInfo, nodex.VerifyRoute, nodex.NodeLoadMemory, nodex.NodeHumanInput); err != nil {
		return nil, fmt.Errorf("add branch from %s: %w", nodex.NodeVerifyInfo, err)
	}
	if err := g.AddEdge(nodex.NodeHumanInput, nodex.NodeVerifyInfo); err != nil {
		return nil, fmt.Errorf("add edge %s->%s: %w", nodex.NodeHumanInput, nodex.NodeVerifyInfo, err)
	}
	if err := g.AddEdge(nodex.NodeLoadMemory, nodex.NodeSupervisor); err != nil {
		return nil, fmt.Errorf("add edge %s->%s: %w", nodex.NodeLoadMemory, nodex.NodeSupervisor, err)
	}
	if err := g.AddBranch(nodex.NodeSupervisor, nodex.SupervisorRoute, nodex.NodeMusic, nodex.NodeInvoice, nodex.NodeCreateMemory); err != nil {
		return nil, fmt.Errorf("add branch from %s: %w", nodex.NodeSupervisor, err)
	}
	if err := g.AddEdge(nodex.NodeMusic, nodex.NodeSupervisor); err != nil {
		return nil, fmt.Errorf("add edge %s->%s: %w", nodex.NodeMusic, nodex.NodeSupervisor, err)
	}
	if err := g.AddEdge(nodex.NodeInvoice, nodex.NodeSupervisor); err != nil {
		return nil, fmt.Errorf("add edge %s->%s: %w", nodex.NodeInvoice, nodex.NodeSupervisor, err)
	}
	if err := g.AddEdge(nodex.NodeCreateMemory, graphx.End); err != nil {
		return nil, fmt.Errorf("add edge %s->end: %w", nodex.NodeCreateMemory, err)
	}

	runner, err := g.Compile(o.checkpoints)
	if err != nil {
		return nil, fmt.Errorf("compile conversation graph: %w", err)
	}
	return runner, nil
}
