package il

import (
	"fmt"
	"regexp"

	"amini/internal/bignum"
)

// nameRE matches the surface grammar's register/label name production:
// a non-empty run of [.\w] (spec §3). Stored unprefixed; '%'/'@' are
// surface-syntax only.
var nameRE = regexp.MustCompile(`^[.\w]+$`)

// ValidName reports whether s is a legal register or label name.
func ValidName(s string) bool {
	return s != "" && nameRE.MatchString(s)
}

// OperandKind distinguishes the operand's payload.
type OperandKind uint8

const (
	// OperandConst holds a literal integer value.
	OperandConst OperandKind = iota
	// OperandRegister names a register read.
	OperandRegister
	// OperandLabel names a block; only legal in terminator/phi target
	// positions, never as an arithmetic operand.
	OperandLabel
	// OperandUndef is the placeholder phi operand value Block.AddPredecessor
	// installs for the new predecessor edge (spec §4.2); reading it at
	// runtime raises UndefinedRegister, same as any other undefined
	// register.
	OperandUndef
)

func (k OperandKind) String() string {
	switch k {
	case OperandConst:
		return "const"
	case OperandRegister:
		return "register"
	case OperandLabel:
		return "label"
	case OperandUndef:
		return "undef"
	default:
		return fmt.Sprintf("operand-kind(%d)", uint8(k))
	}
}

// Operand is the sum type Const(Value) | Register(name) | Label(name)
// from spec §3, plus the internal Undef marker used for freshly-added
// phi edges.
type Operand struct {
	Kind OperandKind
	Name string      // Register or Label
	Val  bignum.Int  // Const
}

// Const builds a constant operand.
func Const(v bignum.Int) Operand { return Operand{Kind: OperandConst, Val: v} }

// Register builds a register-read operand.
func Register(name string) Operand { return Operand{Kind: OperandRegister, Name: name} }

// Label builds a label operand.
func Label(name string) Operand { return Operand{Kind: OperandLabel, Name: name} }

// Undef builds the undefined-register placeholder operand.
func Undef() Operand { return Operand{Kind: OperandUndef} }

// IsValue reports whether the operand may appear where the grammar
// requires <operand> ::= %r | <int> (i.e. Const or Register), or is
// the Undef placeholder a freshly added phi edge carries.
func (o Operand) IsValue() bool {
	return o.Kind == OperandConst || o.Kind == OperandRegister || o.Kind == OperandUndef
}

// Equal is structural equality ignoring any source position (there is
// none carried on Operand; this exists for symmetry with Instr.Equal
// and so callers never need to compare fields by hand).
func (o Operand) Equal(other Operand) bool {
	if o.Kind != other.Kind {
		return false
	}
	switch o.Kind {
	case OperandConst:
		return o.Val.Cmp(other.Val) == 0
	case OperandRegister, OperandLabel:
		return o.Name == other.Name
	default:
		return true
	}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandConst:
		return o.Val.String()
	case OperandRegister:
		return "%" + o.Name
	case OperandLabel:
		return "@" + o.Name
	case OperandUndef:
		return "<undef>"
	default:
		return "<?operand>"
	}
}
