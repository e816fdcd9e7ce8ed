package il

import "strings"

// Print renders the CFG as the textual form described in spec §6,
// blocks in reverse-postorder, entry block first. It is a debug aid,
// not the canonical parser-facing printer — see internal/ilasm for
// round-trip-exact assembly.
func (c *CFG) Print() string {
	var sb strings.Builder
	for _, label := range c.BlocksInReversePostorder() {
		b, ok := c.blocks[label]
		if !ok {
			continue
		}
		if label == c.entry {
			sb.WriteString("@")
			sb.WriteString(label)
			sb.WriteString(": ; entry\n")
		} else {
			sb.WriteString("@")
			sb.WriteString(label)
			sb.WriteString(":\n")
		}
		for _, instr := range b.Instrs {
			sb.WriteString("    ")
			sb.WriteString(instr.String())
			sb.WriteString("\n")
		}
		sb.WriteString("    ")
		sb.WriteString(b.Term.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
