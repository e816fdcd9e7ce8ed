package ilasm

import (
	"strings"

	"amini/internal/il"
	"amini/internal/meta"
)

// Print renders cfg and store back to the textual surface form,
// blocks in the order they were originally added (the entry block
// first, per spec §6). Surface aliases (>, >=, unary - and ~) are
// never re-emitted: instructions always print through their core
// BinOp form, so round-tripping source that used an alias changes the
// operator token even though the semantics are identical.
func Print(cfg *il.CFG, store *meta.Store) string {
	var b strings.Builder
	for _, key := range store.KeysCFG() {
		b.WriteString(formatMeta('#', key, store.GetCFG(key)))
		b.WriteByte('\n')
	}
	for _, label := range cfg.Labels() {
		printBlock(&b, cfg, store, label)
	}
	return b.String()
}

func printBlock(b *strings.Builder, cfg *il.CFG, store *meta.Store, label string) {
	b.WriteString("@")
	b.WriteString(label)
	b.WriteString(":\n")
	for _, key := range store.KeysBlock(label) {
		b.WriteString("    ")
		b.WriteString(formatMeta('@', key, store.GetBlock(label, key)))
		b.WriteByte('\n')
	}
	blk, ok := cfg.Block(label)
	if !ok {
		return
	}
	for idx, instr := range blk.Instrs {
		b.WriteString("    ")
		b.WriteString(instr.String())
		b.WriteByte('\n')
		for _, key := range store.KeysInstr(label, idx) {
			b.WriteString("    ")
			b.WriteString(formatMeta('%', key, store.GetInstr(label, idx, key)))
			b.WriteByte('\n')
		}
	}
	if blk.Terminated() {
		b.WriteString("    ")
		b.WriteString(blk.Term.String())
		b.WriteByte('\n')
	}
}
