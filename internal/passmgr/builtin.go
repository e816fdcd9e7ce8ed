package passmgr

import (
	"fmt"

	"amini/internal/il"
	"amini/internal/meta"
)

// Reachability is a pure analysis: it records, per CFG, the set of
// block labels reachable from the entry. Being pure, it preserves
// every other instance by default.
type Reachability struct{}

func (Reachability) ID() string  { return "reachability" }
func (Reachability) Doc() string { return "Computes blocks reachable from the entry." }
func (Reachability) Params() []Param { return nil }

func (Reachability) Run(ctx *RunContext, cfg *il.CFG, store *meta.Store) (PreservedSet, error) {
	order := cfg.BlocksInReversePostorder()
	entry := cfg.Entry()
	reached := map[string]bool{}
	var walk func(label string)
	walk = func(label string) {
		if reached[label] {
			return
		}
		reached[label] = true
		succs, err := cfg.Successors(label)
		if err != nil {
			return
		}
		for _, succ := range succs {
			walk(succ)
		}
	}
	if entry != "" {
		walk(entry)
	}
	store.DeleteCFG("reachable")
	for _, label := range order {
		if reached[label] {
			store.AppendCFG("reachable", label)
		}
	}
	ctx.Debugf("reachability: %d of %d blocks reachable", len(reached), len(order))
	return PreserveAll(), nil
}

// PruneUnreachable is a transformation: it removes every block the
// reachability analysis did not reach. It depends on "reachability"
// and, since it mutates the CFG, preserves nothing: removing blocks
// invalidates any analysis keyed by block labels.
type PruneUnreachable struct{}

func (PruneUnreachable) ID() string      { return "prune-unreachable" }
func (PruneUnreachable) Doc() string     { return "Deletes blocks unreachable from the entry." }
func (PruneUnreachable) Params() []Param { return nil }

func (p PruneUnreachable) Run(ctx *RunContext, cfg *il.CFG, store *meta.Store) (PreservedSet, error) {
	if _, err := ctx.Require("reachability", nil, nil); err != nil {
		return PreservedSet{}, err
	}
	reached := map[string]bool{}
	for _, label := range store.GetCFG("reachable") {
		reached[label] = true
	}
	for _, label := range cfg.Labels() {
		if reached[label] {
			continue
		}
		if err := cfg.RemoveBlock(label); err != nil {
			return PreservedSet{}, fmt.Errorf("prune-unreachable: %w", err)
		}
	}
	// Block removal can only shrink the reachable set computed before
	// this ran, so reachability itself is not preserved.
	return PreserveNone(), nil
}
