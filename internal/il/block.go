package il

import "fmt"

// Block is a basic block: a label, an ordered instruction list with
// phis constrained to the head, exactly one terminator once built, and
// a predecessor list the CFG keeps in sync with block terminators
// (spec §3-4.2).
type Block struct {
	Label  string
	Instrs []Instr
	Term   Terminator

	// Preds mirrors the CFG's incoming edges for this block. It is an
	// authoritative cache maintained by the CFG, not by Block itself —
	// Block's own mutators only keep phi operand lists consistent with
	// whatever Preds currently says (spec §4.3: "edges are recomputed
	// from terminators on each mutation").
	Preds []string
}

// NewBlock creates an empty, unterminated block.
func NewBlock(label string) (*Block, error) {
	if !ValidName(label) {
		return nil, fmt.Errorf("%w: invalid block label %q", ErrMalformedCFG, label)
	}
	return &Block{Label: label}, nil
}

// Terminated reports whether the block has a terminator. A nil Block
// (as in a not-yet-registered CFG target) counts as terminated so
// range-checking code doesn't need a nil check at every call site.
func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}

// phiCount returns how many leading instructions are phis.
func (b *Block) phiCount() int {
	n := 0
	for n < len(b.Instrs) && b.Instrs[n].IsPhi() {
		n++
	}
	return n
}

// Append adds a non-phi instruction to the end of the block. It is
// forbidden once the block is terminated, and forbidden for phis
// (phis may only be introduced via InsertPhi, which keeps them at the
// head).
func (b *Block) Append(instr Instr) error {
	if b.Terminated() {
		return fmt.Errorf("%w: append to terminated block %q", ErrMalformedCFG, b.Label)
	}
	if instr.IsPhi() {
		return fmt.Errorf("%w: phi must be inserted at block head, not appended", ErrMalformedCFG)
	}
	b.Instrs = append(b.Instrs, instr)
	return nil
}

// InsertPhi inserts a phi at the end of the existing phi run (i.e. it
// stays at the head, after any earlier phis and before any non-phi).
// Its entries must have exactly one operand per current predecessor
// (spec §3/§8 invariant 1); the caller is responsible for supplying
// them in an order that matches Preds, but any order naming exactly
// Preds is accepted.
func (b *Block) InsertPhi(instr Instr) error {
	if !instr.IsPhi() {
		return fmt.Errorf("%w: InsertPhi requires a phi instruction", ErrMalformedCFG)
	}
	if err := b.checkPhiAgainstPreds(instr.Phi); err != nil {
		return err
	}
	at := b.phiCount()
	b.Instrs = append(b.Instrs, Instr{})
	copy(b.Instrs[at+1:], b.Instrs[at:])
	b.Instrs[at] = instr
	return nil
}

func (b *Block) checkPhiAgainstPreds(phi PhiInstr) error {
	if len(phi.Entries) != len(b.Preds) {
		return fmt.Errorf("%w: phi %%%s has %d entries, block %q has %d predecessors",
			ErrMissingPredecessorInPhi, phi.Dst, len(phi.Entries), b.Label, len(b.Preds))
	}
	want := make(map[string]bool, len(b.Preds))
	for _, p := range b.Preds {
		want[p] = true
	}
	for _, e := range phi.Entries {
		if !want[e.Pred] {
			return fmt.Errorf("%w: phi %%%s entry for %q, block %q predecessors are %v",
				ErrMissingPredecessorInPhi, phi.Dst, e.Pred, b.Label, b.Preds)
		}
	}
	return nil
}

// Insert places instr at position pos (0-based, within the non-phi
// region unless instr is itself a phi, in which case pos must land
// within the existing phi run).
func (b *Block) Insert(pos int, instr Instr) error {
	if pos < 0 || pos > len(b.Instrs) {
		return fmt.Errorf("%w: insert position %d out of range [0,%d]", ErrMalformedCFG, pos, len(b.Instrs))
	}
	nPhi := b.phiCount()
	if instr.IsPhi() && pos > nPhi {
		return fmt.Errorf("%w: phi must be inserted within the head phi run (pos<=%d), got %d", ErrMalformedCFG, nPhi, pos)
	}
	if !instr.IsPhi() && pos < nPhi {
		return fmt.Errorf("%w: non-phi instruction cannot be inserted before a phi (pos>=%d), got %d", ErrMalformedCFG, nPhi, pos)
	}
	if instr.IsPhi() {
		if err := b.checkPhiAgainstPreds(instr.Phi); err != nil {
			return err
		}
	}
	b.Instrs = append(b.Instrs, Instr{})
	copy(b.Instrs[pos+1:], b.Instrs[pos:])
	b.Instrs[pos] = instr
	return nil
}

// Replace overwrites the instruction at pos, preserving its phi/non-phi
// slot.
func (b *Block) Replace(pos int, instr Instr) error {
	if pos < 0 || pos >= len(b.Instrs) {
		return fmt.Errorf("%w: replace position %d out of range", ErrMalformedCFG, pos)
	}
	wasPhi := b.Instrs[pos].IsPhi()
	if wasPhi != instr.IsPhi() {
		return fmt.Errorf("%w: replace must preserve phi/non-phi slot at position %d", ErrMalformedCFG, pos)
	}
	if instr.IsPhi() {
		if err := b.checkPhiAgainstPreds(instr.Phi); err != nil {
			return err
		}
	}
	b.Instrs[pos] = instr
	return nil
}

// Remove deletes the instruction at pos.
func (b *Block) Remove(pos int) error {
	if pos < 0 || pos >= len(b.Instrs) {
		return fmt.Errorf("%w: remove position %d out of range", ErrMalformedCFG, pos)
	}
	b.Instrs = append(b.Instrs[:pos], b.Instrs[pos+1:]...)
	return nil
}

// SetTerminator sets the block's terminator, which must not already be
// set to anything but TermNone (use a CFG operation to change an
// existing terminator so edges stay consistent).
func (b *Block) SetTerminator(t Terminator) error {
	if t.Kind == TermNone {
		return fmt.Errorf("%w: SetTerminator requires a concrete terminator", ErrMalformedCFG)
	}
	b.Term = t
	return nil
}

// IterPhis returns the block's phi instructions, in head order.
func (b *Block) IterPhis() []Instr {
	n := b.phiCount()
	if n == 0 {
		return nil
	}
	out := make([]Instr, n)
	copy(out, b.Instrs[:n])
	return out
}

// IterNonPhis returns the block's non-phi instructions, in order.
func (b *Block) IterNonPhis() []Instr {
	n := b.phiCount()
	if n >= len(b.Instrs) {
		return nil
	}
	out := make([]Instr, len(b.Instrs)-n)
	copy(out, b.Instrs[n:])
	return out
}

// AddPredecessor records a new incoming edge from pred and extends
// every phi in the block with an OperandUndef entry for it (spec
// §4.2). It is idempotent: adding an already-present predecessor is a
// no-op, matching a CFG that redirects two different edges from the
// same source block into this one without double-counting.
func (b *Block) AddPredecessor(pred string) {
	for _, p := range b.Preds {
		if p == pred {
			return
		}
	}
	b.Preds = append(b.Preds, pred)
	for i := range b.Instrs {
		if !b.Instrs[i].IsPhi() {
			break
		}
		b.Instrs[i].Phi.Entries = append(b.Instrs[i].Phi.Entries, PhiEntry{Value: Undef(), Pred: pred})
	}
}

// RemovePredecessor drops pred from Preds and removes the matching
// entry from every phi in the block (spec §4.2).
func (b *Block) RemovePredecessor(pred string) {
	for i, p := range b.Preds {
		if p == pred {
			b.Preds = append(b.Preds[:i], b.Preds[i+1:]...)
			break
		}
	}
	for i := range b.Instrs {
		if !b.Instrs[i].IsPhi() {
			break
		}
		entries := b.Instrs[i].Phi.Entries
		for j, e := range entries {
			if e.Pred == pred {
				b.Instrs[i].Phi.Entries = append(entries[:j], entries[j+1:]...)
				break
			}
		}
	}
}

// RenamePredecessor renames pred's label in Preds and in every phi
// entry referencing it, without changing which value flows in.
func (b *Block) RenamePredecessor(old, new string) {
	for i, p := range b.Preds {
		if p == old {
			b.Preds[i] = new
		}
	}
	for i := range b.Instrs {
		if !b.Instrs[i].IsPhi() {
			break
		}
		for j, e := range b.Instrs[i].Phi.Entries {
			if e.Pred == old {
				b.Instrs[i].Phi.Entries[j].Pred = new
			}
		}
	}
}

// SetPhiOperand overwrites the value of the entry for pred in the phi
// defining dst, letting a pass replace the OperandUndef placeholder
// AddPredecessor installed with a real value (spec §4.2 design note).
func (b *Block) SetPhiOperand(dst, pred string, value Operand) error {
	for i := range b.Instrs {
		if !b.Instrs[i].IsPhi() || b.Instrs[i].Phi.Dst != dst {
			continue
		}
		for j, e := range b.Instrs[i].Phi.Entries {
			if e.Pred == pred {
				b.Instrs[i].Phi.Entries[j].Value = value
				return nil
			}
		}
		return fmt.Errorf("%w: phi %%%s has no entry for predecessor %q", ErrMissingPredecessorInPhi, dst, pred)
	}
	return fmt.Errorf("%w: block %q has no phi defining %%%s", ErrMalformedCFG, b.Label, dst)
}

// validate checks the block-local invariants of spec §8 invariant 1:
// exactly one terminator, every phi before every non-phi, and every
// phi has exactly one operand per predecessor.
func (b *Block) validate() error {
	if !b.Terminated() {
		return fmt.Errorf("%w: block %q has no terminator", ErrMalformedCFG, b.Label)
	}
	seenNonPhi := false
	for _, instr := range b.Instrs {
		if instr.IsPhi() {
			if seenNonPhi {
				return fmt.Errorf("%w: block %q has a phi after a non-phi instruction", ErrMalformedCFG, b.Label)
			}
			if err := b.checkPhiAgainstPreds(instr.Phi); err != nil {
				return err
			}
		} else {
			seenNonPhi = true
		}
	}
	return nil
}
