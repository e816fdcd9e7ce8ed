// Package interp is the tree-walking interpreter over internal/il
// control-flow graphs (spec §4.4-4.5): a direct, single-threaded,
// deterministic evaluator with cooperative breakpoint suspension,
// grounded on the teacher's own direct-interpreter VM (Run/Start/Step
// over a frame stack, one instruction or terminator transition per
// Step).
package interp

import "errors"

// Runtime error kinds (spec §7). All are terminal: once Step returns
// one, the Machine is left halted and further Step calls are no-ops.
var (
	// ErrUnboundPhi indicates a phi was reached from a predecessor not
	// named in any of its entries.
	ErrUnboundPhi = errors.New("interp: phi has no entry for the incoming predecessor")
	// ErrUndefinedRegister indicates a register was read before any
	// value was ever assigned to it (including the OperandUndef
	// placeholder on a freshly-added phi edge).
	ErrUndefinedRegister = errors.New("interp: read of undefined register")
	// ErrDivByZero mirrors bignum.ErrDivByZero at the instruction level.
	ErrDivByZero = errors.New("interp: division or remainder by zero")
	// ErrNegativeShift mirrors bignum.ErrNegativeShift at the
	// instruction level.
	ErrNegativeShift = errors.New("interp: negative shift amount")
	// ErrIO indicates the input or output stream failed.
	ErrIO = errors.New("interp: i/o error")
	// ErrInvalidLabel indicates a terminator named a block absent from
	// the CFG; Machine.Run never produces this against a CFG that
	// passed il.CFG.Validate, but an embedder stepping an unvalidated
	// graph can still hit it.
	ErrInvalidLabel = errors.New("interp: terminator targets an unknown block")
)
