// Package meta implements the three-tier metadata store of spec §5:
// string-keyed, multi-valued annotations attached to a CFG as a whole,
// to individual blocks, or to individual instructions within a block.
// It is deliberately decoupled from internal/il — passes attach
// metadata by (block label, instruction index) rather than by pointer,
// the same "keyed by stable identity, not by address" shape the
// teacher's registries (e.g. mir.Module.FuncBySym) use for their own
// lookups.
package meta

import "sort"

// blockKey and instrKey are internal composite keys, mirroring the
// "compound map key struct" idiom used for the driver's build cache.
type blockKey struct {
	block string
	key   string
}

type instrKey struct {
	block string
	index int
	key   string
}

// Store holds CFG-, block-, and instruction-scoped metadata. Create one
// with New: the zero value has nil maps, and writing to it panics.
type Store struct {
	cfg   map[string][]string
	block map[blockKey][]string
	instr map[instrKey][]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		cfg:   make(map[string][]string),
		block: make(map[blockKey][]string),
		instr: make(map[instrKey][]string),
	}
}

// SetCFG replaces the values for key at CFG scope.
func (s *Store) SetCFG(key string, values ...string) {
	s.cfg[key] = append([]string(nil), values...)
}

// AppendCFG appends to the values for key at CFG scope.
func (s *Store) AppendCFG(key string, values ...string) {
	s.cfg[key] = append(s.cfg[key], values...)
}

// GetCFG returns the values for key at CFG scope, or nil if unset.
func (s *Store) GetCFG(key string) []string {
	return cloneStrings(s.cfg[key])
}

// DeleteCFG removes key at CFG scope.
func (s *Store) DeleteCFG(key string) {
	delete(s.cfg, key)
}

// KeysCFG returns every key set at CFG scope, sorted.
func (s *Store) KeysCFG() []string {
	return sortedKeys(s.cfg)
}

// SetBlock replaces the values for key at the scope of the named
// block.
func (s *Store) SetBlock(block, key string, values ...string) {
	s.block[blockKey{block, key}] = append([]string(nil), values...)
}

// AppendBlock appends to the values for key at the scope of the named
// block.
func (s *Store) AppendBlock(block, key string, values ...string) {
	k := blockKey{block, key}
	s.block[k] = append(s.block[k], values...)
}

// GetBlock returns the values for key at the scope of the named block.
func (s *Store) GetBlock(block, key string) []string {
	return cloneStrings(s.block[blockKey{block, key}])
}

// DeleteBlock removes key at the scope of the named block.
func (s *Store) DeleteBlock(block, key string) {
	delete(s.block, blockKey{block, key})
}

// KeysBlock returns every key set at the scope of the named block,
// sorted.
func (s *Store) KeysBlock(block string) []string {
	seen := map[string]bool{}
	for k := range s.block {
		if k.block == block {
			seen[k.key] = true
		}
	}
	return sortedKeys(seen)
}

// DeleteBlockAll removes every key attached to block, used when a CFG
// mutation deletes the block outright.
func (s *Store) DeleteBlockAll(block string) {
	for k := range s.block {
		if k.block == block {
			delete(s.block, k)
		}
	}
	for k := range s.instr {
		if k.block == block {
			delete(s.instr, k)
		}
	}
}

// SetInstr replaces the values for key at the scope of the
// instruction at (block, index).
func (s *Store) SetInstr(block string, index int, key string, values ...string) {
	s.instr[instrKey{block, index, key}] = append([]string(nil), values...)
}

// AppendInstr appends to the values for key at the scope of the
// instruction at (block, index).
func (s *Store) AppendInstr(block string, index int, key string, values ...string) {
	k := instrKey{block, index, key}
	s.instr[k] = append(s.instr[k], values...)
}

// GetInstr returns the values for key at the scope of the instruction
// at (block, index).
func (s *Store) GetInstr(block string, index int, key string) []string {
	return cloneStrings(s.instr[instrKey{block, index, key}])
}

// DeleteInstr removes key at the scope of the instruction at (block,
// index).
func (s *Store) DeleteInstr(block string, index int, key string) {
	delete(s.instr, instrKey{block, index, key})
}

// KeysInstr returns every key set at the scope of the instruction at
// (block, index), sorted.
func (s *Store) KeysInstr(block string, index int) []string {
	seen := map[string]bool{}
	for k := range s.instr {
		if k.block == block && k.index == index {
			seen[k.key] = true
		}
	}
	return sortedKeys(seen)
}

// OnInsert shifts every instruction-scoped entry at or after pos in
// block up by one, so metadata attached to an instruction stays
// attached to that same instruction after a Block.Insert at or before
// its index (spec §8 invariant 4: "metadata survives instruction
// insertion/removal by tracking identity, not position").
func (s *Store) OnInsert(block string, pos int) {
	shifted := make(map[instrKey][]string)
	for k, v := range s.instr {
		if k.block != block {
			shifted[k] = v
			continue
		}
		nk := k
		if k.index >= pos {
			nk.index = k.index + 1
		}
		shifted[nk] = v
	}
	s.instr = shifted
}

// OnRemove shifts every instruction-scoped entry after pos in block
// down by one, and discards any entry that was attached exactly to the
// removed instruction.
func (s *Store) OnRemove(block string, pos int) {
	shifted := make(map[instrKey][]string)
	for k, v := range s.instr {
		if k.block != block {
			shifted[k] = v
			continue
		}
		switch {
		case k.index == pos:
			// dropped along with the instruction
		case k.index > pos:
			nk := k
			nk.index = k.index - 1
			shifted[nk] = v
		default:
			shifted[k] = v
		}
	}
	s.instr = shifted
}

func cloneStrings(v []string) []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
