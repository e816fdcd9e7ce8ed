// Package il implements the IL's data model: instructions (C2), basic
// blocks (C3), and the control-flow graph (C4). Spec §3-4.1-4.3.
package il

import "errors"

// Structural error kinds (spec §7). These are raised at construction or
// by CFG.Validate and are not recoverable without editing the IR.
var (
	// ErrMalformedInstruction indicates an instruction whose operand
	// kinds violate spec §3 (e.g. a Move with a Label source).
	ErrMalformedInstruction = errors.New("il: malformed instruction")
	// ErrMalformedCFG indicates a CFG-level structural invariant
	// violation caught by Validate.
	ErrMalformedCFG = errors.New("il: malformed cfg")
	// ErrDuplicateLabel indicates two blocks were registered under the
	// same label.
	ErrDuplicateLabel = errors.New("il: duplicate label")
	// ErrMissingPredecessorInPhi indicates a phi operand's label is not
	// (or is no longer) a predecessor of its block.
	ErrMissingPredecessorInPhi = errors.New("il: phi operand references a non-predecessor label")
)
