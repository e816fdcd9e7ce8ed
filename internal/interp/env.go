package interp

import "amini/internal/bignum"

// env is the register environment: every register ever assigned maps
// to its current value. Absence means undefined, which evalOperand reports
// as ErrUndefinedRegister rather than an implicit zero — the model
// never silently defaults an unread register (spec §7).
type env map[string]bignum.Int

func newEnv() env {
	return make(env)
}

func (e env) set(reg string, v bignum.Int) {
	e[reg] = v
}

func (e env) get(reg string) (bignum.Int, bool) {
	v, ok := e[reg]
	return v, ok
}
