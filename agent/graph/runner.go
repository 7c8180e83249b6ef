package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	statex "github.com/lyrebird-labs/concierge/agent/state"
	logx "github.com/lyrebird-labs/concierge/pkg/logger"
)

// runLimit caps node executions per invocation. The step budget is the
// real guard against supervisor loops; this catches wiring mistakes.
const runLimit = 64

// RunResult is the outcome of one executor invocation: either the turn
// reached a terminal node, or it suspended and Prompt tells the caller
// what to ask the user.
type RunResult struct {
	State       *statex.Conversation
	Interrupted bool
	Prompt      string
}

// Runner executes a compiled graph. One invocation is synchronous and
// single-threaded; distinct threads may run concurrently against the
// same Runner since all per-turn state lives in the checkpoint envelope.
type Runner struct {
	graph       *Graph
	checkpoints statex.CheckpointStore
}

// Run drives one turn for threadID. If the thread's latest checkpoint is
// paused, text is treated as the resume value and execution re-enters
// exactly at the paused node; otherwise text starts a fresh turn at the
// entry node. fresh builds the initial conversation for brand-new
// threads and beginTurn resets per-turn state, so the runner stays
// agnostic of the conversation schema details.
func (r *Runner) Run(
	ctx context.Context,
	threadID string,
	text string,
	fresh func(threadID string) (*statex.Conversation, error),
	beginTurn func(conv *statex.Conversation, text string),
) (*RunResult, error) {
	conv, current, inv, err := r.prepare(ctx, threadID, text, fresh, beginTurn)
	if err != nil {
		return nil, err
	}
	logger := logx.For("graph")

	steps := 0
	for current != End {
		steps++
		if steps > runLimit {
			return nil, fmt.Errorf("graph exceeded %d node executions on thread %s", runLimit, threadID)
		}
		logger.Debug().Str("thread", threadID).Str("node", current).Msg("executing node")

		node, ok := r.graph.nodes[current]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, current)
		}

		out, err := node(ctx, inv)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", current, err)
		}
		// The resume value is consumed by the first node that runs.
		inv.Resume, inv.HasResume = "", false
		conv.Touch(time.Now())

		if out.Interrupted() {
			logger.Debug().Str("thread", threadID).Str("node", current).Msg("turn suspended")
			conv.AwaitingInput = true
			if err := r.save(ctx, current, true, conv); err != nil {
				return nil, err
			}
			return &RunResult{State: conv, Interrupted: true, Prompt: out.Prompt()}, nil
		}

		next, err := r.graph.next(current, conv)
		if err != nil {
			return nil, err
		}
		if err := r.save(ctx, current, false, conv); err != nil {
			return nil, err
		}
		current = next
	}

	conv.AwaitingInput = false
	if err := r.save(ctx, End, false, conv); err != nil {
		return nil, err
	}
	return &RunResult{State: conv, Interrupted: false}, nil
}

func (r *Runner) prepare(
	ctx context.Context,
	threadID string,
	text string,
	fresh func(threadID string) (*statex.Conversation, error),
	beginTurn func(conv *statex.Conversation, text string),
) (*statex.Conversation, string, *Invocation, error) {
	cp, err := r.checkpoints.Get(ctx, threadID)
	switch {
	case errors.Is(err, statex.ErrCheckpointNotFound):
		conv, err := fresh(threadID)
		if err != nil {
			return nil, "", nil, err
		}
		beginTurn(conv, text)
		return conv, r.graph.entry, &Invocation{State: conv}, nil
	case err != nil:
		return nil, "", nil, fmt.Errorf("load checkpoint for thread %s: %w", threadID, err)
	}

	conv := cp.State
	if cp.Paused && cp.Node != "" && cp.Node != End {
		// Resume mid-turn at the node that suspended.
		conv.AwaitingInput = false
		return conv, cp.Node, &Invocation{State: conv, Resume: text, HasResume: true}, nil
	}

	beginTurn(conv, text)
	return conv, r.graph.entry, &Invocation{State: conv}, nil
}

func (r *Runner) save(ctx context.Context, node string, paused bool, conv *statex.Conversation) error {
	cp := &statex.Checkpoint{
		ThreadID:  conv.ThreadID,
		Node:      node,
		Paused:    paused,
		State:     conv,
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.checkpoints.Put(ctx, cp); err != nil {
		return fmt.Errorf("persist checkpoint at node %s: %w", node, err)
	}
	return nil
}
