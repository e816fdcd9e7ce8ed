package passmgr

import (
	"strings"

	"amini/internal/il"
	"amini/internal/meta"
)

// Param is one formal parameter of a pass: a name, its default string
// value, and whether it binds positionally or only by keyword.
type Param struct {
	Name       string
	Default    string
	Positional bool
}

// PreservedSet names the instances a just-run pass promises are still
// valid. Every instance not listed is invalidated by the manager.
type PreservedSet struct {
	all bool
	ids map[string]bool
}

// PreserveAll marks every currently known instance as surviving the
// run — the default for pure analyses, which never mutate the CFG or
// metadata store.
func PreserveAll() PreservedSet {
	return PreservedSet{all: true}
}

// PreserveNone marks no instance (other than the one that just ran) as
// surviving — the conservative default a transformation should start
// from before explicitly listing what it knows still holds.
func PreserveNone() PreservedSet {
	return PreservedSet{ids: map[string]bool{}}
}

// Preserve adds ids to an explicit preserved set. Calling it on a
// PreserveAll() set is a no-op since everything is already preserved.
func (p PreservedSet) Preserve(ids ...string) PreservedSet {
	if p.all {
		return p
	}
	if p.ids == nil {
		p.ids = map[string]bool{}
	}
	for _, id := range ids {
		p.ids[id] = true
	}
	return p
}

// PreserveInstance preserves one specific instance rather than every
// instance of its pass, for a transformation that depended on (and can
// vouch for) a particular argument-resolved dependency.
func (p PreservedSet) PreserveInstance(inst *Instance) PreservedSet {
	if p.all || inst == nil {
		return p
	}
	if p.ids == nil {
		p.ids = map[string]bool{}
	}
	p.ids[inst.key] = true
	return p
}

func (p PreservedSet) holds(key string) bool {
	if p.all {
		return true
	}
	return p.ids[key]
}

// Pass is the interface every transformation and analysis implements.
// ID must be globally unique among passes registered with the same
// Manager. Params declares the formal parameter list in positional
// order (keyword-only params still appear, in declaration order, with
// Positional set to false). Run performs the pass's work against cfg
// and store, returning the set of other instances its result leaves
// valid.
type Pass interface {
	ID() string
	Doc() string
	Params() []Param
	Run(ctx *RunContext, cfg *il.CFG, store *meta.Store) (PreservedSet, error)
}

// Signature renders a pass's computed call signature for explain(id),
// e.g. "threshold(n, mode=strict)".
func Signature(id string, params []Param) string {
	var b strings.Builder
	b.WriteString(id)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Positional {
			b.WriteString(p.Name)
		} else {
			b.WriteString(p.Name)
			b.WriteByte('=')
			b.WriteString(p.Default)
		}
	}
	b.WriteByte(')')
	return b.String()
}
