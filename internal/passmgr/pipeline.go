package passmgr

import (
	"context"
	"fmt"
)

// CancelledError reports cancellation of a pipeline run, identifying
// the index of the pass invocation that was about to start.
type CancelledError struct {
	Index int
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("passmgr: cancelled before pass %d", e.Index)
}

func (e *CancelledError) Unwrap() error { return ErrCancelled }

// Pipeline is an ordered list of pass invocations in their textual
// surface form, as parsed from a config file or CLI flag.
type Pipeline struct {
	Invocations []string
}

// ParsePipeline parses each invocation string up front so a malformed
// entry is reported before any pass runs.
func ParsePipeline(specs []string) (*Pipeline, []Invocation, error) {
	invs := make([]Invocation, 0, len(specs))
	for _, s := range specs {
		inv, err := ParseInvocation(s)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline entry %q: %w", s, err)
		}
		invs = append(invs, inv)
	}
	return &Pipeline{Invocations: specs}, invs, nil
}

// RunPipeline executes the parsed invocations in order: for each,
// resolve to an instance, ensure it is valid (running it and whatever
// it requires if not), and record its preserved set's effect on every
// other instance. ctx is checked for cancellation before each pass; on
// cancellation the returned error is a *CancelledError naming the
// index of the pass that had been about to run, and any instance that
// had started but not completed running has its valid flag left
// false.
func (m *Manager) RunPipeline(ctx context.Context, invs []Invocation) ([]*Instance, error) {
	results := make([]*Instance, 0, len(invs))
	for i, inv := range invs {
		select {
		case <-ctx.Done():
			return results, &CancelledError{Index: i}
		default:
		}
		inst, err := m.Require(ctx, inv.ID, inv.Positional, inv.Keyword)
		if err != nil {
			return results, err
		}
		results = append(results, inst)
	}
	return results, nil
}
