package main

import (
	"amini/internal/il"
	"amini/internal/meta"
	"amini/internal/passmgr"
)

// newManager builds a Manager over cfg/store with every built-in pass
// registered, the fixed registry every amini subcommand that touches
// passes shares.
func newManager(cfg *il.CFG, store *meta.Store) *passmgr.Manager {
	m := passmgr.NewManager(cfg, store)
	_ = m.Register(passmgr.Reachability{})
	_ = m.Register(passmgr.PruneUnreachable{})
	return m
}
