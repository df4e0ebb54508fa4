// Package pipeline provides a generic linear-chain executor for the
// orchestration flows (chat, recommendation, job search, roadmap).
// A chain declares named channels, named steps, and edges between steps;
// invoking a compiled chain runs the steps in edge order over a per-run
// state map.
package pipeline

import (
	"context"
	"fmt"
)

// Sentinel node names for chain edges.
const (
	Start = "__start__"
	End   = "__end__"
)

// State is the shared channel map for one pipeline run. Each Invoke call
// owns its own State instance; steps return partial updates that are merged
// last-writer-wins.
type State map[string]any

// StepFunc executes one pipeline step. It reads from the current state and
// returns a partial update. Returning an error aborts the run.
type StepFunc func(ctx context.Context, s State) (State, error)

// ConfigurationError indicates an invalid chain declaration discovered at
// compile time (unknown step, missing Start edge, unterminated chain).
type ConfigurationError struct {
	Chain   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("pipeline %q: %s", e.Chain, e.Message)
}

// Chain is a declarative pipeline definition. Build it with AddChannel,
// AddStep and AddEdge, then Compile it once and reuse the compiled chain
// across requests.
type Chain struct {
	name     string
	channels map[string]any
	steps    map[string]StepFunc
	edges    map[string]string
}

// New creates an empty chain with the given name.
func New(name string) *Chain {
	return &Chain{
		name:     name,
		channels: make(map[string]any),
		steps:    make(map[string]StepFunc),
		edges:    make(map[string]string),
	}
}

// AddChannel declares a named state channel with its default value.
func (c *Chain) AddChannel(name string, def any) *Chain {
	c.channels[name] = def
	return c
}

// AddStep registers a named step function.
func (c *Chain) AddStep(name string, fn StepFunc) *Chain {
	c.steps[name] = fn
	return c
}

// AddEdge declares that step "to" runs after step "from". Use Start and End
// for the chain boundaries. Declaring a second edge out of the same node
// overwrites the first; linear chains have exactly one successor per node.
func (c *Chain) AddEdge(from, to string) *Chain {
	c.edges[from] = to
	return c
}

// CompiledChain is an immutable, validated execution order. It holds no
// per-run state and is safe for concurrent Invoke calls.
type CompiledChain struct {
	name     string
	channels map[string]any
	order    []string
	steps    map[string]StepFunc
}

// Compile validates the chain declaration and freezes the execution order.
func (c *Chain) Compile() (*CompiledChain, error) {
	for from, to := range c.edges {
		if from != Start {
			if _, ok := c.steps[from]; !ok {
				return nil, &ConfigurationError{Chain: c.name, Message: fmt.Sprintf("edge references undeclared step %q", from)}
			}
		}
		if to != End {
			if _, ok := c.steps[to]; !ok {
				return nil, &ConfigurationError{Chain: c.name, Message: fmt.Sprintf("edge references undeclared step %q", to)}
			}
		}
	}

	first, ok := c.edges[Start]
	if !ok {
		return nil, &ConfigurationError{Chain: c.name, Message: "no edge out of Start"}
	}

	// Follow edges until End. The hop bound guards against cycles.
	var order []string
	maxHops := len(c.steps) + 1
	node := first
	for hops := 0; node != End; hops++ {
		if hops >= maxHops {
			return nil, &ConfigurationError{Chain: c.name, Message: "chain does not terminate at End (cycle or missing edge)"}
		}
		order = append(order, node)
		next, ok := c.edges[node]
		if !ok {
			return nil, &ConfigurationError{Chain: c.name, Message: fmt.Sprintf("step %q has no outgoing edge", node)}
		}
		node = next
	}

	channels := make(map[string]any, len(c.channels))
	for k, v := range c.channels {
		channels[k] = v
	}
	steps := make(map[string]StepFunc, len(c.steps))
	for k, v := range c.steps {
		steps[k] = v
	}

	return &CompiledChain{
		name:     c.name,
		channels: channels,
		order:    order,
		steps:    steps,
	}, nil
}

// Name returns the chain's declared name.
func (cc *CompiledChain) Name() string {
	return cc.name
}

// Order returns the compiled step execution order.
func (cc *CompiledChain) Order() []string {
	out := make([]string, len(cc.order))
	copy(out, cc.order)
	return out
}

// Invoke runs the chain over a fresh state seeded from channel defaults and
// the initial values. Only declared channels are admitted into the state.
// A step error aborts the run and propagates to the caller; updates from
// earlier steps are discarded with the state.
func (cc *CompiledChain) Invoke(ctx context.Context, initial State) (State, error) {
	state := make(State, len(cc.channels))
	for k, v := range cc.channels {
		state[k] = v
	}
	for k, v := range initial {
		if _, ok := cc.channels[k]; !ok {
			return nil, fmt.Errorf("pipeline %q: initial state sets undeclared channel %q", cc.name, k)
		}
		state[k] = v
	}

	for _, name := range cc.order {
		update, err := cc.steps[name](ctx, state)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: step %q: %w", cc.name, name, err)
		}
		for k, v := range update {
			if _, ok := cc.channels[k]; !ok {
				return nil, fmt.Errorf("pipeline %q: step %q wrote undeclared channel %q", cc.name, name, k)
			}
			state[k] = v
		}
	}

	return state, nil
}
