package interp

import (
	"errors"
	"fmt"
	"math"

	"fortio.org/safecast"

	"amini/internal/bignum"
	"amini/internal/il"
)

// undefinedPred is the sentinel prevBlock value meaning "entering the
// entry block", matching the ⊥ of spec §4.5.
const undefinedPred = ""

// Machine is a single-threaded, deterministic direct interpreter over
// an il.CFG (spec §4.4-4.5), grounded on the teacher's own
// Run/Start/Step VM loop: Step performs exactly one instruction or
// terminator transition, so an embedder can single-step, inspect state
// between steps, and suspend cooperatively at breakpoints.
type Machine struct {
	CFG         *il.CFG
	Input       InputSource
	Output      OutputSink
	Breakpoints *Breakpoints
	Trace       TraceSink

	reg       env
	block     string
	prevBlock string
	ip        int // index into the current block's Instrs; len(Instrs) means "at terminator"

	started bool
	halted  bool
	err     error

	atReportedBreak bool
	reportedBlock   string
	reportedIP      int
}

// NewMachine creates a Machine ready to run cfg. input/output may be
// nil only if the program never executes Read/Write.
func NewMachine(cfg *il.CFG, input InputSource, output OutputSink) *Machine {
	return &Machine{
		CFG:    cfg,
		Input:  input,
		Output: output,
		reg:    newEnv(),
	}
}

// Halted reports whether the machine has stopped, successfully or on
// error.
func (m *Machine) Halted() bool { return m.halted }

// Err returns the fatal error that halted the machine, if any.
func (m *Machine) Err() error { return m.err }

// Register returns the current value of reg, if defined.
func (m *Machine) Register(reg string) (bignum.Int, bool) {
	return m.reg.get(reg)
}

// CurrentBlock returns the label of the block about to execute.
func (m *Machine) CurrentBlock() string { return m.block }

// Start pushes execution to the entry block's first instruction. It is
// idempotent once the machine has begun running.
func (m *Machine) Start() error {
	if m.started {
		return nil
	}
	if m.CFG.Entry() == "" {
		return fmt.Errorf("%w: cfg has no entry block", ErrInvalidLabel)
	}
	m.block = m.CFG.Entry()
	m.prevBlock = undefinedPred
	m.ip = 0
	m.started = true
	return nil
}

// Run executes to completion: success (Exit reached), a fatal runtime
// error, or input exhaustion. It ignores breakpoints entirely — use
// RunUntilBreak for cooperative suspension.
func (m *Machine) Run() error {
	if !m.started {
		if err := m.Start(); err != nil {
			return err
		}
	}
	for !m.halted {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return m.err
}

// RunUntilBreak runs until the machine halts or an enabled breakpoint
// is about to fire, whichever comes first. On a breakpoint hit it
// returns the matched Breakpoint and stopped=true without having
// executed the brkpt instruction yet — resuming with another call to
// RunUntilBreak (or Step) continues past it.
func (m *Machine) RunUntilBreak() (bp *Breakpoint, stopped bool, err error) {
	if !m.started {
		if err := m.Start(); err != nil {
			return nil, false, err
		}
	}
	for !m.halted {
		if hit, ok := m.pendingBreakpoint(); ok {
			if !(m.atReportedBreak && m.reportedBlock == m.block && m.reportedIP == m.ip) {
				m.atReportedBreak = true
				m.reportedBlock = m.block
				m.reportedIP = m.ip
				return hit, true, nil
			}
		} else {
			m.atReportedBreak = false
		}
		if err := m.Step(); err != nil {
			return nil, false, err
		}
	}
	return nil, false, m.err
}

func (m *Machine) pendingBreakpoint() (*Breakpoint, bool) {
	if m.Breakpoints == nil {
		return nil, false
	}
	block, ok := m.CFG.Block(m.block)
	if !ok || m.ip >= len(block.Instrs) {
		return nil, false
	}
	instr := block.Instrs[m.ip]
	if instr.Kind != il.InstrBrkpt {
		return nil, false
	}
	return m.Breakpoints.Match(instr.Brkpt.Name)
}

// Step executes exactly one instruction, or — at the end of a block —
// the terminator transition to the next block (including the parallel
// commit of every phi at the head of the destination block). It is a
// no-op once the machine is halted.
func (m *Machine) Step() (err error) {
	if m.halted {
		return nil
	}
	if !m.started {
		if err := m.Start(); err != nil {
			return err
		}
	}
	defer func() {
		if err != nil {
			m.halted = true
			m.err = err
		}
	}()

	block, ok := m.CFG.Block(m.block)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, m.block)
	}

	if m.ip == 0 {
		if err := m.resolvePhis(block); err != nil {
			return err
		}
	}

	if m.ip < len(block.Instrs) {
		instr := block.Instrs[m.ip]
		if instr.IsPhi() {
			// already resolved as a batch on block entry
			m.ip++
			return nil
		}
		if err := m.execInstr(instr, m.ip); err != nil {
			return err
		}
		m.ip++
		return nil
	}

	return m.execTerminator(block.Term)
}

// resolvePhis evaluates every phi at the head of block against a
// snapshot of the environment taken before any of this entry's phi
// destinations are assigned, then commits them all together (spec
// §4.5, invariant 6).
func (m *Machine) resolvePhis(block *il.Block) error {
	phis := block.IterPhis()
	if len(phis) == 0 {
		return nil
	}
	if m.prevBlock == undefinedPred {
		return fmt.Errorf("%w: block %q is the entry block and cannot contain a phi", ErrUnboundPhi, block.Label)
	}
	snapshot := m.reg
	results := make(map[string]bignum.Int, len(phis))
	for k, instr := range phis {
		var matched bool
		var value bignum.Int
		for _, e := range instr.Phi.Entries {
			if e.Pred != m.prevBlock {
				continue
			}
			v, err := m.evalOperand(snapshot, e.Value)
			if err != nil {
				return err
			}
			value = v
			matched = true
			break
		}
		if !matched {
			return fmt.Errorf("%w: phi %%%s has no entry for predecessor %q", ErrUnboundPhi, instr.Phi.Dst, m.prevBlock)
		}
		results[instr.Phi.Dst] = value
		if m.Trace != nil {
			m.Trace.TraceStep(TraceEvent{Block: block.Label, Index: k, Text: instrEventText(instr)})
		}
	}
	for dst, v := range results {
		m.reg.set(dst, v)
	}
	return nil
}

func (m *Machine) evalOperand(e env, o il.Operand) (bignum.Int, error) {
	switch o.Kind {
	case il.OperandConst:
		return o.Val, nil
	case il.OperandRegister, il.OperandUndef:
		v, ok := e.get(o.Name)
		if !ok {
			return bignum.Int{}, fmt.Errorf("%w: %%%s", ErrUndefinedRegister, o.Name)
		}
		return v, nil
	default:
		return bignum.Int{}, fmt.Errorf("%w: operand kind %s is not a value", ErrUndefinedRegister, o.Kind)
	}
}

func (m *Machine) execInstr(instr il.Instr, index int) error {
	if m.Trace != nil {
		defer func() { m.Trace.TraceStep(TraceEvent{Block: m.block, Index: index, Text: instrEventText(instr)}) }()
	}
	switch instr.Kind {
	case il.InstrMove:
		v, err := m.evalOperand(m.reg, instr.Move.Src)
		if err != nil {
			return err
		}
		m.reg.set(instr.Move.Dst, v)
	case il.InstrBinOp:
		lhs, err := m.evalOperand(m.reg, instr.BinOp.LHS)
		if err != nil {
			return err
		}
		rhs, err := m.evalOperand(m.reg, instr.BinOp.RHS)
		if err != nil {
			return err
		}
		v, err := evalBinOp(instr.BinOp.Op, lhs, rhs)
		if err != nil {
			return err
		}
		m.reg.set(instr.BinOp.Dst, v)
	case il.InstrRead:
		if m.Input == nil {
			return fmt.Errorf("%w: read with no input source configured", ErrIO)
		}
		v, err := m.Input.Next()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		m.reg.set(instr.Read.Dst, v)
	case il.InstrWrite:
		v, err := m.evalOperand(m.reg, instr.Write.Src)
		if err != nil {
			return err
		}
		if m.Output == nil {
			return fmt.Errorf("%w: write with no output sink configured", ErrIO)
		}
		if err := m.Output.Write(v); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	case il.InstrBrkpt:
		// no-op for program state; observable only via Breakpoints/Trace
	default:
		return fmt.Errorf("interp: unhandled instruction kind %s", instr.Kind)
	}
	return nil
}

func (m *Machine) execTerminator(term il.Terminator) error {
	if m.Trace != nil {
		m.Trace.TraceStep(TraceEvent{Block: m.block, Index: -1, Text: termEventText(term)})
	}
	switch term.Kind {
	case il.TermGoto:
		return m.transition(term.Goto.Target)
	case il.TermBranch:
		cond, err := m.evalOperand(m.reg, term.Branch.Cond)
		if err != nil {
			return err
		}
		if cond.IsZero() {
			return m.transition(term.Branch.False)
		}
		return m.transition(term.Branch.True)
	case il.TermExit:
		m.halted = true
		return nil
	default:
		return fmt.Errorf("%w: block %q has no terminator", ErrInvalidLabel, m.block)
	}
}

func (m *Machine) transition(target string) error {
	if _, ok := m.CFG.Block(target); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, target)
	}
	m.prevBlock = m.block
	m.block = target
	m.ip = 0
	return nil
}

func evalBinOp(op il.BinOp, lhs, rhs bignum.Int) (bignum.Int, error) {
	switch op {
	case il.OpAdd:
		v, err := bignum.Add(lhs, rhs)
		return v, wrapArithErr(err)
	case il.OpSub:
		v, err := bignum.Sub(lhs, rhs)
		return v, wrapArithErr(err)
	case il.OpMul:
		v, err := bignum.Mul(lhs, rhs)
		return v, wrapArithErr(err)
	case il.OpDiv:
		q, _, err := bignum.DivMod(lhs, rhs)
		if err != nil {
			return bignum.Int{}, wrapArithErr(err)
		}
		return q, nil
	case il.OpRem:
		_, r, err := bignum.DivMod(lhs, rhs)
		if err != nil {
			return bignum.Int{}, wrapArithErr(err)
		}
		return r, nil
	case il.OpAnd:
		v, err := bignum.And(lhs, rhs)
		return v, wrapArithErr(err)
	case il.OpOr:
		v, err := bignum.Or(lhs, rhs)
		return v, wrapArithErr(err)
	case il.OpXor:
		v, err := bignum.Xor(lhs, rhs)
		return v, wrapArithErr(err)
	case il.OpShl:
		n, err := shiftAmount(rhs)
		if err != nil {
			return bignum.Int{}, err
		}
		v, err := bignum.Shl(lhs, n)
		if err != nil {
			return bignum.Int{}, wrapArithErr(err)
		}
		return v, nil
	case il.OpShr:
		n, err := shiftAmount(rhs)
		if err != nil {
			return bignum.Int{}, err
		}
		v, err := bignum.Shr(lhs, n)
		if err != nil {
			return bignum.Int{}, wrapArithErr(err)
		}
		return v, nil
	case il.OpEq:
		return boolInt(lhs.Cmp(rhs) == 0), nil
	case il.OpNe:
		return boolInt(lhs.Cmp(rhs) != 0), nil
	case il.OpLt:
		return boolInt(lhs.Cmp(rhs) < 0), nil
	case il.OpLe:
		return boolInt(lhs.Cmp(rhs) <= 0), nil
	default:
		return bignum.Int{}, fmt.Errorf("interp: unhandled binary operator %s", op)
	}
}

// shiftAmount converts a shift-count operand to a plain int, reporting
// ErrNegativeShift for negative amounts up front rather than relying
// on bignum to reject them after a failed int64 conversion. A shift
// count too large to represent as an int64, or too large for int on a
// 32-bit platform, is clamped to math.MaxInt32 — already far beyond
// any value bignum.MaxLimbs can hold, so the clamp and the true value
// produce the same result.
func shiftAmount(v bignum.Int) (int, error) {
	if v.Sign() < 0 {
		return 0, fmt.Errorf("%w", ErrNegativeShift)
	}
	n, ok := v.Int64()
	if !ok {
		return math.MaxInt32, nil
	}
	amt, err := safecast.Conv[int](n)
	if err != nil {
		return math.MaxInt32, nil
	}
	return amt, nil
}

func boolInt(b bool) bignum.Int {
	if b {
		return bignum.One()
	}
	return bignum.Zero()
}

func wrapArithErr(err error) error {
	switch {
	case errors.Is(err, bignum.ErrDivByZero):
		return fmt.Errorf("%w", ErrDivByZero)
	case errors.Is(err, bignum.ErrNegativeShift):
		return fmt.Errorf("%w", ErrNegativeShift)
	default:
		return err
	}
}
