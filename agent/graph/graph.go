// Package graph implements the orchestration engine: a directed graph of
// named nodes executed synchronously per turn, with conditional branches,
// first-class interrupt outcomes, and checkpointed suspend/resume.
package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	statex "github.com/lyrebird-labs/concierge/agent/state"
)

// End is the terminal pseudo-node. Reaching it completes the turn.
const End = "__end__"

var (
	ErrUnknownNode   = errors.New("unknown graph node")
	ErrDuplicateNode = errors.New("duplicate graph node")
	ErrNoEntry       = errors.New("graph entry node is not set")
	ErrDanglingNode  = errors.New("node has no outgoing edge or branch")
)

// Invocation is the per-run envelope handed to every node. Resume carries
// the client-supplied value exactly once: on the first node executed
// after a suspended turn is resumed.
type Invocation struct {
	State     *statex.Conversation
	Resume    string
	HasResume bool
}

type outcomeKind int

const (
	outcomeProceed outcomeKind = iota
	outcomeInterrupt
)

// Outcome is a node's tagged result: either proceed along the graph or
// suspend the turn pending external input. Interruption is a value, not
// an error; the runner checkpoints and returns on it.
type Outcome struct {
	kind   outcomeKind
	prompt string
}

func Proceed() Outcome {
	return Outcome{kind: outcomeProceed}
}

// Interrupt suspends the turn. The prompt is surfaced to the caller so
// the presentation layer knows what to ask the user.
func Interrupt(prompt string) Outcome {
	return Outcome{kind: outcomeInterrupt, prompt: prompt}
}

func (o Outcome) Interrupted() bool {
	return o.kind == outcomeInterrupt
}

func (o Outcome) Prompt() string {
	return o.prompt
}

// NodeFunc runs one node against the current invocation.
type NodeFunc func(ctx context.Context, inv *Invocation) (Outcome, error)

// BranchFunc picks the outgoing target after its node completes. Callers
// implement it as a switch over their own tagged decision type and map
// each variant to a declared target.
type BranchFunc func(conv *statex.Conversation) (string, error)

type branch struct {
	fn      BranchFunc
	targets map[string]struct{}
}

// Graph is a mutable builder; Compile validates it and returns a Runner.
type Graph struct {
	entry    string
	nodes    map[string]NodeFunc
	edges    map[string]string
	branches map[string]branch
}

func New() *Graph {
	return &Graph{
		nodes:    make(map[string]NodeFunc),
		edges:    make(map[string]string),
		branches: make(map[string]branch),
	}
}

func (g *Graph) AddNode(name string, fn NodeFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || name == End {
		return fmt.Errorf("%w: invalid node name %q", ErrUnknownNode, name)
	}
	if fn == nil {
		return fmt.Errorf("node %s: nil func", name)
	}
	if _, ok := g.nodes[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, name)
	}
	g.nodes[name] = fn
	return nil
}

func (g *Graph) SetEntry(name string) error {
	if _, ok := g.nodes[name]; !ok {
		return fmt.Errorf("%w: entry %s", ErrUnknownNode, name)
	}
	g.entry = name
	return nil
}

// AddEdge declares the unconditional successor of from. A node has either
// one edge or one branch, never both.
func (g *Graph) AddEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("%w: edge from %s", ErrUnknownNode, from)
	}
	if to != End {
		if _, ok := g.nodes[to]; !ok {
			return fmt.Errorf("%w: edge to %s", ErrUnknownNode, to)
		}
	}
	if _, ok := g.edges[from]; ok {
		return fmt.Errorf("node %s already has an edge", from)
	}
	if _, ok := g.branches[from]; ok {
		return fmt.Errorf("node %s already has a branch", from)
	}
	g.edges[from] = to
	return nil
}

// AddBranch declares a conditional successor. The branch function must
// return one of the declared targets; anything else fails the run.
func (g *Graph) AddBranch(from string, fn BranchFunc, targets ...string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("%w: branch from %s", ErrUnknownNode, from)
	}
	if fn == nil {
		return fmt.Errorf("branch from %s: nil func", from)
	}
	if len(targets) == 0 {
		return fmt.Errorf("branch from %s: no targets", from)
	}
	if _, ok := g.edges[from]; ok {
		return fmt.Errorf("node %s already has an edge", from)
	}
	if _, ok := g.branches[from]; ok {
		return fmt.Errorf("node %s already has a branch", from)
	}

	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t != End {
			if _, ok := g.nodes[t]; !ok {
				return fmt.Errorf("%w: branch target %s", ErrUnknownNode, t)
			}
		}
		set[t] = struct{}{}
	}
	g.branches[from] = branch{fn: fn, targets: set}
	return nil
}

// Compile validates the graph and binds it to a checkpoint store.
func (g *Graph) Compile(checkpoints statex.CheckpointStore) (*Runner, error) {
	if g.entry == "" {
		return nil, ErrNoEntry
	}
	if checkpoints == nil {
		return nil, errors.New("checkpoint store is required")
	}
	for name := range g.nodes {
		_, hasEdge := g.edges[name]
		_, hasBranch := g.branches[name]
		if !hasEdge && !hasBranch {
			return nil, fmt.Errorf("%w: %s", ErrDanglingNode, name)
		}
	}
	return &Runner{graph: g, checkpoints: checkpoints}, nil
}

func (g *Graph) next(from string, conv *statex.Conversation) (string, error) {
	if to, ok := g.edges[from]; ok {
		return to, nil
	}
	br, ok := g.branches[from]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrDanglingNode, from)
	}
	target, err := br.fn(conv)
	if err != nil {
		return "", fmt.Errorf("branch from %s: %w", from, err)
	}
	if _, ok := br.targets[target]; !ok {
		return "", fmt.Errorf("branch from %s returned undeclared target %q", from, target)
	}
	return target, nil
}
