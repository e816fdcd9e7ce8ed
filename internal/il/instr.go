package il

import "fmt"

// InstrKind enumerates non-terminator instruction shapes (spec §3).
// Terminators (Goto/Branch/Exit) live on Block.Term, not here — see
// terminator.go.
type InstrKind uint8

const (
	// InstrMove represents dst <- src.
	InstrMove InstrKind = iota
	// InstrPhi represents dst <- phi[(v_i, L_i)].
	InstrPhi
	// InstrBinOp represents dst <- lhs op rhs, covering arithmetic,
	// bitwise, and comparison operators uniformly (they share one
	// shape; only the operator differs).
	InstrBinOp
	// InstrRead represents read %r.
	InstrRead
	// InstrWrite represents write (%r | <int>).
	InstrWrite
	// InstrBrkpt represents brkpt !name, a no-op for program state.
	InstrBrkpt
)

func (k InstrKind) String() string {
	switch k {
	case InstrMove:
		return "move"
	case InstrPhi:
		return "phi"
	case InstrBinOp:
		return "binop"
	case InstrRead:
		return "read"
	case InstrWrite:
		return "write"
	case InstrBrkpt:
		return "brkpt"
	default:
		return fmt.Sprintf("instr-kind(%d)", uint8(k))
	}
}

// BinOp enumerates the binary operators of spec §3: arithmetic,
// bitwise, and comparison share one instruction shape.
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
)

var binOpNames = map[BinOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpRem: "%",
	OpAnd: "&", OpOr: "|", OpXor: "^", OpShl: "<<", OpShr: ">>",
	OpEq: "==", OpNe: "!=", OpLt: "<", OpLe: "<=",
}

func (op BinOp) String() string {
	if s, ok := binOpNames[op]; ok {
		return s
	}
	return fmt.Sprintf("binop(%d)", uint8(op))
}

// IsComparison reports whether op yields a 0/1 result rather than an
// arbitrary-precision arithmetic or bitwise result.
func (op BinOp) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe:
		return true
	default:
		return false
	}
}

// IsShift reports whether op takes a non-negative shift amount on its
// right operand.
func (op BinOp) IsShift() bool {
	return op == OpShl || op == OpShr
}

// MoveInstr is dst <- src.
type MoveInstr struct {
	Dst string
	Src Operand
}

// PhiEntry is one (value, predecessor-label) arm of a phi.
type PhiEntry struct {
	Value Operand
	Pred  string
}

// PhiInstr is dst <- phi[(v_i, L_i)], i>=1.
type PhiInstr struct {
	Dst     string
	Entries []PhiEntry
}

// BinOpInstr is dst <- lhs op rhs.
type BinOpInstr struct {
	Dst string
	Op  BinOp
	LHS Operand
	RHS Operand
}

// ReadInstr is read %r.
type ReadInstr struct {
	Dst string
}

// WriteInstr is write (%r | <int>).
type WriteInstr struct {
	Src Operand
}

// BrkptInstr is brkpt !name.
type BrkptInstr struct {
	Name string
}

// Instr is a tagged union over the non-terminator instruction shapes.
// Exactly one of the payload fields is meaningful, selected by Kind —
// the same "kind discriminator + flat payload fields" shape the rest
// of this codebase's IR types use.
type Instr struct {
	Kind InstrKind

	Move  MoveInstr
	Phi   PhiInstr
	BinOp BinOpInstr
	Read  ReadInstr
	Write WriteInstr
	Brkpt BrkptInstr
}

// NewMove builds and validates a Move instruction.
func NewMove(dst string, src Operand) (Instr, error) {
	if !ValidName(dst) {
		return Instr{}, fmt.Errorf("%w: invalid destination register %q", ErrMalformedInstruction, dst)
	}
	if src.Kind != OperandConst && src.Kind != OperandRegister {
		return Instr{}, fmt.Errorf("%w: move source must be const or register, got %s", ErrMalformedInstruction, src.Kind)
	}
	return Instr{Kind: InstrMove, Move: MoveInstr{Dst: dst, Src: src}}, nil
}

// NewPhi builds and validates a Phi instruction. Duplicate predecessor
// labels across entries are rejected (spec §3: "each L_i distinct").
func NewPhi(dst string, entries []PhiEntry) (Instr, error) {
	if !ValidName(dst) {
		return Instr{}, fmt.Errorf("%w: invalid destination register %q", ErrMalformedInstruction, dst)
	}
	if len(entries) == 0 {
		return Instr{}, fmt.Errorf("%w: phi with no entries", ErrMalformedInstruction)
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.Value.IsValue() {
			return Instr{}, fmt.Errorf("%w: phi entry value must be const or register, got %s", ErrMalformedInstruction, e.Value.Kind)
		}
		if !ValidName(e.Pred) {
			return Instr{}, fmt.Errorf("%w: invalid phi predecessor label %q", ErrMalformedInstruction, e.Pred)
		}
		if seen[e.Pred] {
			return Instr{}, fmt.Errorf("%w: duplicate phi predecessor label %q", ErrMalformedInstruction, e.Pred)
		}
		seen[e.Pred] = true
	}
	cp := append([]PhiEntry(nil), entries...)
	return Instr{Kind: InstrPhi, Phi: PhiInstr{Dst: dst, Entries: cp}}, nil
}

// NewBinOp builds and validates a binary-operator instruction.
func NewBinOp(dst string, op BinOp, lhs, rhs Operand) (Instr, error) {
	if !ValidName(dst) {
		return Instr{}, fmt.Errorf("%w: invalid destination register %q", ErrMalformedInstruction, dst)
	}
	if !lhs.IsValue() || !rhs.IsValue() {
		return Instr{}, fmt.Errorf("%w: binop operands must be const or register", ErrMalformedInstruction)
	}
	return Instr{Kind: InstrBinOp, BinOp: BinOpInstr{Dst: dst, Op: op, LHS: lhs, RHS: rhs}}, nil
}

// NewRead builds and validates a Read instruction.
func NewRead(dst string) (Instr, error) {
	if !ValidName(dst) {
		return Instr{}, fmt.Errorf("%w: invalid destination register %q", ErrMalformedInstruction, dst)
	}
	return Instr{Kind: InstrRead, Read: ReadInstr{Dst: dst}}, nil
}

// NewWrite builds and validates a Write instruction.
func NewWrite(src Operand) (Instr, error) {
	if src.Kind != OperandConst && src.Kind != OperandRegister {
		return Instr{}, fmt.Errorf("%w: write source must be const or register, got %s", ErrMalformedInstruction, src.Kind)
	}
	return Instr{Kind: InstrWrite, Write: WriteInstr{Src: src}}, nil
}

// NewBrkpt builds a Brkpt instruction.
func NewBrkpt(name string) (Instr, error) {
	if !ValidName(name) {
		return Instr{}, fmt.Errorf("%w: invalid breakpoint name %q", ErrMalformedInstruction, name)
	}
	return Instr{Kind: InstrBrkpt, Brkpt: BrkptInstr{Name: name}}, nil
}

// IsPhi reports whether the instruction is a Phi — used by Block to
// enforce that phis only ever appear at the block head.
func (i Instr) IsPhi() bool { return i.Kind == InstrPhi }

// Defs returns the register this instruction defines, if any.
func (i Instr) Defs() (reg string, ok bool) {
	switch i.Kind {
	case InstrMove:
		return i.Move.Dst, true
	case InstrPhi:
		return i.Phi.Dst, true
	case InstrBinOp:
		return i.BinOp.Dst, true
	case InstrRead:
		return i.Read.Dst, true
	default:
		return "", false
	}
}

// Uses returns every operand this instruction reads, in evaluation
// order. For Phi, this includes every entry's value operand (the
// interpreter is responsible for selecting the one matching the
// incoming predecessor, see spec §4.5).
func (i Instr) Uses() []Operand {
	switch i.Kind {
	case InstrMove:
		return []Operand{i.Move.Src}
	case InstrPhi:
		out := make([]Operand, len(i.Phi.Entries))
		for k, e := range i.Phi.Entries {
			out[k] = e.Value
		}
		return out
	case InstrBinOp:
		return []Operand{i.BinOp.LHS, i.BinOp.RHS}
	case InstrWrite:
		return []Operand{i.Write.Src}
	default:
		return nil
	}
}

// Substitute rewrites every register-operand use (and Phi's
// predecessor labels are left untouched — this only rewrites value
// uses) equal to old into new. It never rewrites Dst; callers renaming
// a definition must do so explicitly.
func (i Instr) Substitute(oldReg, newReg string) Instr {
	sub := func(o Operand) Operand {
		if o.Kind == OperandRegister && o.Name == oldReg {
			return Register(newReg)
		}
		return o
	}
	switch i.Kind {
	case InstrMove:
		i.Move.Src = sub(i.Move.Src)
	case InstrPhi:
		entries := make([]PhiEntry, len(i.Phi.Entries))
		for k, e := range i.Phi.Entries {
			e.Value = sub(e.Value)
			entries[k] = e
		}
		i.Phi.Entries = entries
	case InstrBinOp:
		i.BinOp.LHS = sub(i.BinOp.LHS)
		i.BinOp.RHS = sub(i.BinOp.RHS)
	case InstrWrite:
		i.Write.Src = sub(i.Write.Src)
	}
	return i
}

// Equal is structural equality, ignoring source positions (the model
// carries none).
func (i Instr) Equal(other Instr) bool {
	if i.Kind != other.Kind {
		return false
	}
	switch i.Kind {
	case InstrMove:
		return i.Move.Dst == other.Move.Dst && i.Move.Src.Equal(other.Move.Src)
	case InstrPhi:
		if i.Phi.Dst != other.Phi.Dst || len(i.Phi.Entries) != len(other.Phi.Entries) {
			return false
		}
		for k := range i.Phi.Entries {
			a, b := i.Phi.Entries[k], other.Phi.Entries[k]
			if a.Pred != b.Pred || !a.Value.Equal(b.Value) {
				return false
			}
		}
		return true
	case InstrBinOp:
		return i.BinOp.Dst == other.BinOp.Dst && i.BinOp.Op == other.BinOp.Op &&
			i.BinOp.LHS.Equal(other.BinOp.LHS) && i.BinOp.RHS.Equal(other.BinOp.RHS)
	case InstrRead:
		return i.Read.Dst == other.Read.Dst
	case InstrWrite:
		return i.Write.Src.Equal(other.Write.Src)
	case InstrBrkpt:
		return i.Brkpt.Name == other.Brkpt.Name
	default:
		return false
	}
}

func (i Instr) String() string {
	switch i.Kind {
	case InstrMove:
		return fmt.Sprintf("%%%s = %s", i.Move.Dst, i.Move.Src)
	case InstrPhi:
		s := "%" + i.Phi.Dst + " = phi"
		for k, e := range i.Phi.Entries {
			if k > 0 {
				s += ","
			}
			s += fmt.Sprintf("[%s, @%s]", e.Value, e.Pred)
		}
		return s
	case InstrBinOp:
		return fmt.Sprintf("%%%s = %s %s %s", i.BinOp.Dst, i.BinOp.LHS, i.BinOp.Op, i.BinOp.RHS)
	case InstrRead:
		return fmt.Sprintf("read %%%s", i.Read.Dst)
	case InstrWrite:
		return fmt.Sprintf("write %s", i.Write.Src)
	case InstrBrkpt:
		return fmt.Sprintf("brkpt !%s", i.Brkpt.Name)
	default:
		return "<?instr>"
	}
}
