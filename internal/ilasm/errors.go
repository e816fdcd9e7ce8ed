// Package ilasm implements the textual surface form of the IL (spec
// §6): a line-oriented parser that builds an il.CFG plus a meta.Store
// from source text, and a pretty-printer that renders them back to
// that same surface form.
package ilasm

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel every parse failure wraps, carrying the
// offending line number and a human-readable reason.
var ErrSyntax = errors.New("ilasm: syntax error")

func syntaxErr(line int, format string, args ...any) error {
	return fmt.Errorf("ilasm: line %d: %w: %s", line, ErrSyntax, fmt.Sprintf(format, args...))
}
