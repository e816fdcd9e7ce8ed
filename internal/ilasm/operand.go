package ilasm

import (
	"fmt"
	"strings"

	"amini/internal/bignum"
	"amini/internal/il"
)

// coreBinOps maps the grammar's core operator tokens (spec §6) to
// their BinOp value. The alias tokens '>' and '>=' are handled
// separately by swapping operands, since the core instruction shape
// only ever carries <, <=, ==, != (spec §3 design note on surface
// alias normalization).
var coreBinOps = map[string]il.BinOp{
	"+": il.OpAdd, "-": il.OpSub, "*": il.OpMul, "/": il.OpDiv, "%": il.OpRem,
	"&": il.OpAnd, "|": il.OpOr, "^": il.OpXor, "<<": il.OpShl, ">>": il.OpShr,
	"==": il.OpEq, "!=": il.OpNe, "<": il.OpLt, "<=": il.OpLe,
}

func parseOperand(tok string) (il.Operand, error) {
	if strings.HasPrefix(tok, "%") {
		name := tok[1:]
		if !il.ValidName(name) {
			return il.Operand{}, fmt.Errorf("invalid register name %q", tok)
		}
		return il.Register(name), nil
	}
	v, err := bignum.Parse(tok)
	if err != nil {
		return il.Operand{}, fmt.Errorf("invalid operand %q: %w", tok, err)
	}
	return il.Const(v), nil
}

func parseLabelRef(tok string) (string, error) {
	if !strings.HasPrefix(tok, "@") {
		return "", fmt.Errorf("expected a label reference, got %q", tok)
	}
	name := tok[1:]
	if !il.ValidName(name) {
		return "", fmt.Errorf("invalid label name %q", tok)
	}
	return name, nil
}
