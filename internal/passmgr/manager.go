package passmgr

import (
	"context"
	"fmt"

	"amini/internal/il"
	"amini/internal/meta"
)

// anyArg is the wildcard sentinel recognized by require.
const anyArg = "any"

// Instance is one memoized (pass, fully-resolved argument tuple) pair.
// The manager owns the only *Instance for a given tuple; passes never
// construct their own.
type Instance struct {
	pass  Pass
	args  map[string]string
	tuple []string
	key   string
	valid bool
}

// ID is the underlying pass's ID.
func (i *Instance) ID() string { return i.pass.ID() }

// Arg returns the resolved value bound to a formal parameter name.
func (i *Instance) Arg(name string) (string, bool) {
	v, ok := i.args[name]
	return v, ok
}

// Valid reports whether the instance's last run's results still hold.
func (i *Instance) Valid() bool { return i.valid }

// Pass returns the underlying pass, e.g. so a caller can invoke a
// getter exposed beyond the Pass interface via a type assertion.
func (i *Instance) Pass() Pass { return i.pass }

// Manager holds the pass registry and the set of memoized instances
// for one CFG/metadata pairing. It is not safe for concurrent use: the
// manager and every pass it runs are single-threaded by contract.
type Manager struct {
	cfg       *il.CFG
	store     *meta.Store
	passes    map[string]Pass
	instances map[string]*Instance
	debug     DebugSink
}

// NewManager creates a Manager bound to one CFG and metadata store.
func NewManager(cfg *il.CFG, store *meta.Store) *Manager {
	return &Manager{
		cfg:       cfg,
		store:     store,
		passes:    map[string]Pass{},
		instances: map[string]*Instance{},
		debug:     NopSink{},
	}
}

// SetDebugSink installs the sink passes report structured debug
// messages to. Passing nil restores the no-op sink.
func (m *Manager) SetDebugSink(sink DebugSink) {
	if sink == nil {
		sink = NopSink{}
	}
	m.debug = sink
}

// Register adds a pass class to the registry. It fails with
// ErrDuplicateID if the ID is already taken.
func (m *Manager) Register(p Pass) error {
	if _, exists := m.passes[p.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID())
	}
	m.passes[p.ID()] = p
	return nil
}

// List enumerates registered pass IDs in no particular order; callers
// that need a stable order should sort the result.
func (m *Manager) List() []string {
	ids := make([]string, 0, len(m.passes))
	for id := range m.passes {
		ids = append(ids, id)
	}
	return ids
}

// Explain returns the human docstring and computed signature for id.
func (m *Manager) Explain(id string) (string, error) {
	p, ok := m.passes[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPass, id)
	}
	return p.Doc() + "\n" + Signature(id, p.Params()), nil
}

// resolveInstance binds an invocation against id's formal parameters,
// honoring the any wildcard: an existing instance whose non-any
// arguments agree is reused; otherwise a new one is constructed with
// defaults substituted at the wildcard positions.
func (m *Manager) resolveInstance(id string, pos []string, kw map[string]string) (*Instance, error) {
	p, ok := m.passes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPass, id)
	}
	params := p.Params()
	bound, tuple, err := Resolve(params, Invocation{ID: id, Positional: pos, Keyword: kw})
	if err != nil {
		return nil, err
	}

	hasWildcard := false
	for _, v := range tuple {
		if v == anyArg {
			hasWildcard = true
			break
		}
	}
	if hasWildcard {
		if inst, ok := m.findWildcardMatch(id, tuple); ok {
			return inst, nil
		}
		for i, p := range params {
			if tuple[i] == anyArg {
				tuple[i] = p.Default
				bound[p.Name] = p.Default
			}
		}
	}

	key := tupleKey(id, tuple)
	if existing, ok := m.instances[key]; ok {
		return existing, nil
	}
	inst := &Instance{pass: p, args: bound, tuple: tuple, key: key}
	m.instances[key] = inst
	return inst, nil
}

func (m *Manager) findWildcardMatch(id string, tuple []string) (*Instance, bool) {
	for _, inst := range m.instances {
		if inst.ID() != id || len(inst.tuple) != len(tuple) {
			continue
		}
		match := true
		for i, v := range tuple {
			if v == anyArg {
				continue
			}
			if inst.tuple[i] != v {
				match = false
				break
			}
		}
		if match {
			return inst, true
		}
	}
	return nil, false
}

// Require resolves id against pos/kw (an "any" entry is a wildcard,
// per the argument-parsing surface), then ensures the returned
// instance is valid, recursively running it (and whatever it in turn
// requires) if not. Calling Require from within a pass's own Run while
// that Run is mid-transformation of the CFG is undefined behavior; a
// pass must satisfy its dependencies before mutating.
func (m *Manager) Require(ctx context.Context, id string, pos []string, kw map[string]string) (*Instance, error) {
	inst, err := m.resolveInstance(id, pos, kw)
	if err != nil {
		return nil, err
	}
	if err := m.ensure(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (m *Manager) ensure(ctx context.Context, inst *Instance) error {
	if inst.valid {
		return nil
	}
	rc := &RunContext{ctx: ctx, mgr: m, debug: m.debug, selfID: inst.ID()}
	preserved, err := inst.pass.Run(rc, m.cfg, m.store)
	if err != nil {
		m.debug.Debugf("pass %s failed: %v", inst.key, err)
		return err
	}
	inst.valid = true
	m.applyPreserved(inst.key, preserved)
	return nil
}

func (m *Manager) applyPreserved(justRanKey string, preserved PreservedSet) {
	for key, inst := range m.instances {
		if key == justRanKey {
			continue
		}
		if !preserved.holds(inst.ID()) && !preserved.holds(key) {
			inst.valid = false
		}
	}
}

// RunContext is the handle a pass's Run method receives: cancellation
// plumbing and the debug sink. It also exposes Require so one pass can
// depend on another.
type RunContext struct {
	ctx    context.Context
	mgr    *Manager
	debug  DebugSink
	selfID string
}

// Context returns the cancellation context passed to the pipeline run.
func (rc *RunContext) Context() context.Context { return rc.ctx }

// Debugf forwards a structured debug message to the manager's sink,
// tagged with the instance currently running.
func (rc *RunContext) Debugf(format string, args ...any) {
	rc.debug.Debugf("["+rc.selfID+"] "+format, args...)
}

// Require resolves and, if necessary, runs a dependency pass instance.
func (rc *RunContext) Require(id string, pos []string, kw map[string]string) (*Instance, error) {
	return rc.mgr.Require(rc.ctx, id, pos, kw)
}
