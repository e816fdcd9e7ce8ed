package il

import (
	"errors"
	"fmt"
	"sort"
)

// CFG is the control-flow graph: an ordered registry of blocks keyed by
// label, with a distinguished entry block. Successor/predecessor
// adjacency is never stored separately — it is always recomputed from
// block terminators, with Block.Preds kept as a cache the mutators
// below refresh (spec §4-4.3).
type CFG struct {
	blocks map[string]*Block
	order  []string // insertion order, for deterministic iteration
	entry  string
}

// NewCFG creates an empty CFG with no entry block set.
func NewCFG() *CFG {
	return &CFG{blocks: make(map[string]*Block)}
}

// Entry returns the entry block's label, or "" if unset.
func (c *CFG) Entry() string { return c.entry }

// SetEntry designates an already-registered block as the entry point.
func (c *CFG) SetEntry(label string) error {
	if _, ok := c.blocks[label]; !ok {
		return fmt.Errorf("%w: unknown entry block %q", ErrMalformedCFG, label)
	}
	c.entry = label
	return nil
}

// Block looks up a block by label.
func (c *CFG) Block(label string) (*Block, bool) {
	b, ok := c.blocks[label]
	return b, ok
}

// Labels returns every block label in insertion order.
func (c *CFG) Labels() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// AddBlock registers a new, as-yet-unterminated block. Its terminator
// must be set (via CFG.SetTerminator) before Validate will accept the
// graph.
func (c *CFG) AddBlock(b *Block) error {
	if _, exists := c.blocks[b.Label]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, b.Label)
	}
	c.blocks[b.Label] = b
	c.order = append(c.order, b.Label)
	if c.entry == "" {
		c.entry = b.Label
	}
	return nil
}

// RemoveBlock deletes a block. It is forbidden while any other block's
// terminator still targets it (spec §4.3: dangling edges are never
// allowed to exist, even transiently) — callers must Redirect or
// retarget those terminators first.
func (c *CFG) RemoveBlock(label string) error {
	b, ok := c.blocks[label]
	if !ok {
		return fmt.Errorf("%w: unknown block %q", ErrMalformedCFG, label)
	}
	if len(b.Preds) > 0 {
		return fmt.Errorf("%w: block %q still has incoming edges from %v", ErrMalformedCFG, label, b.Preds)
	}
	for _, succ := range b.Term.Successors() {
		if sb, ok := c.blocks[succ]; ok {
			sb.RemovePredecessor(label)
		}
	}
	delete(c.blocks, label)
	for i, l := range c.order {
		if l == label {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.entry == label {
		c.entry = ""
	}
	return nil
}

// RenameBlock changes a block's label, fixing up every terminator and
// phi entry across the graph that referenced the old name, including
// the entry pointer.
func (c *CFG) RenameBlock(oldLabel, newLabel string) error {
	b, ok := c.blocks[oldLabel]
	if !ok {
		return fmt.Errorf("%w: unknown block %q", ErrMalformedCFG, oldLabel)
	}
	if !ValidName(newLabel) {
		return fmt.Errorf("%w: invalid block label %q", ErrMalformedCFG, newLabel)
	}
	if _, exists := c.blocks[newLabel]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, newLabel)
	}
	b.Label = newLabel
	delete(c.blocks, oldLabel)
	c.blocks[newLabel] = b
	for i, l := range c.order {
		if l == oldLabel {
			c.order[i] = newLabel
			break
		}
	}
	if c.entry == oldLabel {
		c.entry = newLabel
	}
	for _, succ := range b.Term.Successors() {
		if sb, ok := c.blocks[succ]; ok {
			sb.RenamePredecessor(oldLabel, newLabel)
		}
	}
	retarget := func(target string) string {
		if target == oldLabel {
			return newLabel
		}
		return target
	}
	switch b.Term.Kind {
	case TermGoto:
		b.Term.Goto.Target = retarget(b.Term.Goto.Target)
	case TermBranch:
		b.Term.Branch.True = retarget(b.Term.Branch.True)
		b.Term.Branch.False = retarget(b.Term.Branch.False)
	}
	return nil
}

// setTerminatorEdges installs t as label's terminator and synchronizes
// every newly- and formerly-targeted successor's Preds/phi entries. It
// is the only path by which a block transitions from unterminated to
// terminated, or has its terminator replaced.
func (c *CFG) setTerminatorEdges(label string, t Terminator) error {
	b, ok := c.blocks[label]
	if !ok {
		return fmt.Errorf("%w: unknown block %q", ErrMalformedCFG, label)
	}
	for _, target := range t.Successors() {
		if _, ok := c.blocks[target]; !ok {
			return fmt.Errorf("%w: block %q terminator targets unknown block %q", ErrMalformedCFG, label, target)
		}
	}
	oldSuccs := map[string]bool{}
	for _, s := range b.Term.Successors() {
		oldSuccs[s] = true
	}
	newSuccs := map[string]bool{}
	for _, s := range t.Successors() {
		newSuccs[s] = true
	}
	for s := range oldSuccs {
		if !newSuccs[s] {
			if sb, ok := c.blocks[s]; ok {
				sb.RemovePredecessor(label)
			}
		}
	}
	b.Term = t
	for s := range newSuccs {
		if !oldSuccs[s] {
			if sb, ok := c.blocks[s]; ok {
				sb.AddPredecessor(label)
			}
		}
	}
	return nil
}

// SetTerminator installs or replaces label's terminator, keeping
// successor Preds and phi entries consistent. This supersedes
// Block.SetTerminator for any block already registered in a CFG.
func (c *CFG) SetTerminator(label string, t Terminator) error {
	if t.Kind == TermNone {
		return fmt.Errorf("%w: SetTerminator requires a concrete terminator", ErrMalformedCFG)
	}
	return c.setTerminatorEdges(label, t)
}

// Redirect retargets every occurrence of oldTarget in label's
// terminator to newTarget, updating edges accordingly. Used by passes
// such as jump-threading and dead-block removal.
func (c *CFG) Redirect(label, oldTarget, newTarget string) error {
	b, ok := c.blocks[label]
	if !ok {
		return fmt.Errorf("%w: unknown block %q", ErrMalformedCFG, label)
	}
	if _, ok := c.blocks[newTarget]; !ok {
		return fmt.Errorf("%w: redirect target %q does not exist", ErrMalformedCFG, newTarget)
	}
	t := b.Term
	switch t.Kind {
	case TermGoto:
		if t.Goto.Target == oldTarget {
			t.Goto.Target = newTarget
		}
	case TermBranch:
		if t.Branch.True == oldTarget {
			t.Branch.True = newTarget
		}
		if t.Branch.False == oldTarget {
			t.Branch.False = newTarget
		}
	default:
		return fmt.Errorf("%w: block %q has no redirectable successors", ErrMalformedCFG, label)
	}
	return c.setTerminatorEdges(label, t)
}

// SplitEdge inserts a fresh block named newLabel on the edge from src
// to dst, carrying a plain Goto to dst. The fresh block is terminated
// and registered before it takes over as src's successor, so the graph
// is never observably inconsistent. Phi entries in dst that named src
// are rewritten to name newLabel, preserving the value that used to
// flow along that edge.
func (c *CFG) SplitEdge(src, dst, newLabel string) error {
	if _, ok := c.blocks[newLabel]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, newLabel)
	}
	sb, ok := c.blocks[src]
	if !ok {
		return fmt.Errorf("%w: unknown block %q", ErrMalformedCFG, src)
	}
	db, ok := c.blocks[dst]
	if !ok {
		return fmt.Errorf("%w: unknown block %q", ErrMalformedCFG, dst)
	}
	isSucc := false
	for _, s := range sb.Term.Successors() {
		if s == dst {
			isSucc = true
			break
		}
	}
	if !isSucc {
		return fmt.Errorf("%w: %q is not a successor of %q", ErrMalformedCFG, dst, src)
	}
	carried := map[string]Operand{}
	for _, in := range db.IterPhis() {
		for _, e := range in.Phi.Entries {
			if e.Pred == src {
				carried[in.Phi.Dst] = e.Value
			}
		}
	}

	mid, err := NewBlock(newLabel)
	if err != nil {
		return err
	}
	if err := c.AddBlock(mid); err != nil {
		return err
	}
	gt, err := NewGoto(dst)
	if err != nil {
		return err
	}
	if err := c.setTerminatorEdges(newLabel, gt); err != nil {
		return err
	}
	if err := c.Redirect(src, dst, newLabel); err != nil {
		return err
	}
	for reg, v := range carried {
		if err := db.SetPhiOperand(reg, newLabel, v); err != nil {
			return err
		}
	}
	return nil
}

// Successors returns label's direct successors.
func (c *CFG) Successors(label string) ([]string, error) {
	b, ok := c.blocks[label]
	if !ok {
		return nil, fmt.Errorf("%w: unknown block %q", ErrMalformedCFG, label)
	}
	return b.Term.Successors(), nil
}

// Predecessors returns label's direct predecessors, in the order edges
// were established.
func (c *CFG) Predecessors(label string) ([]string, error) {
	b, ok := c.blocks[label]
	if !ok {
		return nil, fmt.Errorf("%w: unknown block %q", ErrMalformedCFG, label)
	}
	out := make([]string, len(b.Preds))
	copy(out, b.Preds)
	return out, nil
}

// BlocksInReversePostorder returns every block reachable from the
// entry, in reverse postorder — the traversal order most CFG
// consumers (e.g. dominance-based passes and printers) expect. Blocks
// unreachable from the entry are appended afterward, in registry
// order, so Validate (which requires every block reachable) catches
// them rather than silently dropping them from a print.
func (c *CFG) BlocksInReversePostorder() []string {
	var post []string
	visited := make(map[string]bool, len(c.blocks))
	var visit func(label string)
	visit = func(label string) {
		if visited[label] {
			return
		}
		visited[label] = true
		b, ok := c.blocks[label]
		if !ok {
			return
		}
		for _, s := range b.Term.Successors() {
			visit(s)
		}
		post = append(post, label)
	}
	if c.entry != "" {
		visit(c.entry)
	}
	reverse := make([]string, len(post))
	for i, l := range post {
		reverse[len(post)-1-i] = l
	}
	for _, l := range c.order {
		if !visited[l] {
			reverse = append(reverse, l)
		}
	}
	return reverse
}

// Validate re-derives and checks every structural invariant of spec §8
// invariant 1: an entry block is designated, every block's Preds
// exactly matches the set of terminators that target it, every block
// is terminated with all targets resolving to real blocks, phis precede
// non-phis with one entry per predecessor, and every block is reachable
// from the entry.
func (c *CFG) Validate() error {
	var errs []error

	if c.entry == "" {
		errs = append(errs, fmt.Errorf("%w: no entry block designated", ErrMalformedCFG))
	} else if _, ok := c.blocks[c.entry]; !ok {
		errs = append(errs, fmt.Errorf("%w: entry block %q does not exist", ErrMalformedCFG, c.entry))
	}

	wantPreds := make(map[string][]string)
	for _, label := range c.order {
		b := c.blocks[label]
		for _, succ := range b.Term.Successors() {
			if _, ok := c.blocks[succ]; !ok {
				errs = append(errs, fmt.Errorf("%w: block %q terminator targets unknown block %q", ErrMalformedCFG, label, succ))
				continue
			}
			wantPreds[succ] = append(wantPreds[succ], label)
		}
	}
	for _, label := range c.order {
		b := c.blocks[label]
		if err := b.validate(); err != nil {
			errs = append(errs, err)
		}
		got := append([]string(nil), b.Preds...)
		want := append([]string(nil), wantPreds[label]...)
		sort.Strings(got)
		sort.Strings(want)
		if !equalStrings(got, want) {
			errs = append(errs, fmt.Errorf("%w: block %q predecessor cache %v does not match actual incoming edges %v",
				ErrMalformedCFG, label, b.Preds, wantPreds[label]))
		}
	}

	reachable := make(map[string]bool)
	if c.entry != "" {
		var visit func(string)
		visit = func(label string) {
			if reachable[label] {
				return
			}
			reachable[label] = true
			if b, ok := c.blocks[label]; ok {
				for _, s := range b.Term.Successors() {
					visit(s)
				}
			}
		}
		visit(c.entry)
	}
	for _, label := range c.order {
		if !reachable[label] {
			errs = append(errs, fmt.Errorf("%w: block %q is not reachable from the entry", ErrMalformedCFG, label))
		}
	}

	return errors.Join(errs...)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
