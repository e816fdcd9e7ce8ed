package ilasm

import (
	"fmt"
	"regexp"
	"strings"

	"amini/internal/bignum"
	"amini/internal/il"
	"amini/internal/meta"
)

var phiEntryRE = regexp.MustCompile(`\[\s*([^,\]]+?)\s*,\s*@([.\w]+)\s*\]`)
var blockHeaderRE = regexp.MustCompile(`^@([.\w]+):$`)

// pendingPhiAssign is a phi operand discovered during registerPhis
// whose value can only be committed once every block's terminator –
// and hence every phi's predecessor list – is final.
type pendingPhiAssign struct {
	block string
	dst   string
	pred  string
	value il.Operand
	line  int
}

type parser struct {
	cfg   *il.CFG
	store *meta.Store

	sawBlock bool
	current  string

	// lastInstr{Block,Index} name the most recent non-terminator
	// instruction eligible to receive %! metadata (spec §6: discarded
	// once a new label or instruction intervenes without one).
	lastInstrValid bool
	lastInstrBlock string
	lastInstrIndex int

	pendingPhis []pendingPhiAssign
}

// Parse builds a CFG and its metadata store from IL source text.
//
// A phi's predecessor set isn't known until every block's terminator
// has been parsed — a loop header's phi routinely names a block whose
// own back edge appears later in the source. So construction runs in
// four passes: (1) register every block from its header line, so a
// terminator may name a block declared later; (2) register every phi
// with an empty operand list (legal only before any terminator has
// added a predecessor), in source order; (3) walk the source once
// more to append non-phi instructions, set terminators — which grows
// each affected phi with an Undef placeholder per new edge, the same
// mechanism a dead-block-removal or jump-threading pass relies on —
// and collect metadata and the real phi values parsed off each phi
// line; (4) commit those real values over the placeholders now that
// every predecessor edge exists.
func Parse(src string) (*il.CFG, *meta.Store, error) {
	lines := strings.Split(src, "\n")
	p := &parser{cfg: il.NewCFG(), store: meta.New()}
	if err := p.registerBlocks(lines); err != nil {
		return nil, nil, err
	}
	if !p.sawBlock {
		return nil, nil, syntaxErr(1, "empty program: at least one block is required")
	}
	if err := p.registerPhis(lines); err != nil {
		return nil, nil, err
	}
	p.current = ""
	for i, raw := range lines {
		if err := p.parseLine(raw, i+1); err != nil {
			return nil, nil, err
		}
	}
	for _, pa := range p.pendingPhis {
		b, ok := p.cfg.Block(pa.block)
		if !ok {
			return nil, nil, syntaxErr(pa.line, "internal: unknown block %q", pa.block)
		}
		if err := b.SetPhiOperand(pa.dst, pa.pred, pa.value); err != nil {
			return nil, nil, syntaxErr(pa.line, "%v", err)
		}
	}
	return p.cfg, p.store, nil
}

func (p *parser) registerBlocks(lines []string) error {
	for i, raw := range lines {
		lineNo := i + 1
		segments := strings.Split(strings.TrimRight(raw, "\r"), ";")
		head := strings.TrimSpace(segments[0])
		if head == "" || head[0] != '@' {
			continue
		}
		m := blockHeaderRE.FindStringSubmatch(head)
		if m == nil {
			return syntaxErr(lineNo, "malformed block header %q", head)
		}
		name := m[1]
		b, err := il.NewBlock(name)
		if err != nil {
			return syntaxErr(lineNo, "%v", err)
		}
		if err := p.cfg.AddBlock(b); err != nil {
			return syntaxErr(lineNo, "%v", err)
		}
		if !p.sawBlock {
			if err := p.cfg.SetEntry(name); err != nil {
				return syntaxErr(lineNo, "%v", err)
			}
			p.sawBlock = true
		}
	}
	return nil
}

// registerPhis inserts every phi with an empty operand list, in the
// order it appears per block. This must run before any terminator is
// set: InsertPhi checks a phi's entry count against the block's
// current predecessor count, which is zero for every block until the
// first SetTerminator call, so an empty phi is the only shape
// guaranteed to validate regardless of where its predecessors'
// terminators fall in the source.
func (p *parser) registerPhis(lines []string) error {
	p.current = ""
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		segments := strings.Split(line, ";")
		head := strings.TrimSpace(segments[0])
		if head == "" {
			continue
		}
		if strings.HasPrefix(head, "@") {
			if m := blockHeaderRE.FindStringSubmatch(head); m != nil {
				p.current = m[1]
			}
			continue
		}
		if p.current == "" || !strings.HasPrefix(head, "%") {
			continue
		}
		eq := strings.IndexByte(head, '=')
		if eq == -1 {
			continue
		}
		dstTok := strings.TrimSpace(head[:eq])
		rhs := strings.TrimSpace(head[eq+1:])
		if !strings.HasPrefix(rhs, "phi") {
			continue
		}
		dst := dstTok[1:]
		entries, err := parsePhiEntries(strings.TrimSpace(rhs[len("phi"):]))
		if err != nil {
			return syntaxErr(lineNo, "%v", err)
		}
		b, ok := p.cfg.Block(p.current)
		if !ok {
			return syntaxErr(lineNo, "internal: unknown current block %q", p.current)
		}
		if err := b.InsertPhi(il.Instr{Kind: il.InstrPhi, Phi: il.PhiInstr{Dst: dst}}); err != nil {
			return syntaxErr(lineNo, "%v", err)
		}
		for _, e := range entries {
			p.pendingPhis = append(p.pendingPhis, pendingPhiAssign{
				block: p.current, dst: dst, pred: e.Pred, value: e.Value, line: lineNo,
			})
		}
	}
	return nil
}

func (p *parser) parseLine(raw string, lineNo int) error {
	line := strings.TrimRight(raw, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	segments := strings.Split(line, ";")
	head := strings.TrimSpace(segments[0])
	if head != "" {
		if err := p.parseHead(head, lineNo); err != nil {
			return err
		}
	}
	for _, seg := range segments[1:] {
		p.parseMetaSegment(seg)
	}
	return nil
}

func (p *parser) parseMetaSegment(raw string) {
	seg := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(seg, "#!"):
		key, vals := splitMetaBody(seg[2:])
		p.store.AppendCFG(key, vals...)
	case strings.HasPrefix(seg, "@!"):
		if p.current == "" {
			return
		}
		key, vals := splitMetaBody(seg[2:])
		p.store.AppendBlock(p.current, key, vals...)
	case strings.HasPrefix(seg, "%!"):
		if !p.lastInstrValid || p.lastInstrBlock != p.current {
			return
		}
		key, vals := splitMetaBody(seg[2:])
		p.store.AppendInstr(p.lastInstrBlock, p.lastInstrIndex, key, vals...)
	default:
		// plain comment
	}
}

func (p *parser) parseHead(head string, lineNo int) error {
	if strings.HasPrefix(head, "@") {
		return p.parseBlockHeader(head, lineNo)
	}
	if p.current == "" {
		return syntaxErr(lineNo, "instruction outside any block")
	}
	switch {
	case head == "exit":
		return p.setTerminator(il.NewExit(), lineNo)
	case strings.HasPrefix(head, "read "):
		return p.parseRead(head, lineNo)
	case strings.HasPrefix(head, "write "):
		return p.parseWrite(head, lineNo)
	case strings.HasPrefix(head, "goto "):
		return p.parseGoto(head, lineNo)
	case strings.HasPrefix(head, "branch "):
		return p.parseBranch(head, lineNo)
	case strings.HasPrefix(head, "brkpt "):
		return p.parseBrkpt(head, lineNo)
	case strings.HasPrefix(head, "%"):
		return p.parseAssignOrPhi(head, lineNo)
	default:
		return syntaxErr(lineNo, "unrecognized instruction %q", head)
	}
}

// parseBlockHeader only switches the current block during the third
// pass: registerBlocks already created every block up front so
// terminators may reference labels declared later in the source.
func (p *parser) parseBlockHeader(head string, lineNo int) error {
	m := blockHeaderRE.FindStringSubmatch(head)
	if m == nil {
		return syntaxErr(lineNo, "malformed block header %q", head)
	}
	p.current = m[1]
	p.lastInstrValid = false
	return nil
}

func (p *parser) appendInstr(instr il.Instr, lineNo int) error {
	b, ok := p.cfg.Block(p.current)
	if !ok {
		return syntaxErr(lineNo, "internal: unknown current block %q", p.current)
	}
	if err := b.Append(instr); err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	idx := len(b.Instrs) - 1
	p.lastInstrValid = true
	p.lastInstrBlock = p.current
	p.lastInstrIndex = idx
	return nil
}

func (p *parser) setTerminator(term il.Terminator, lineNo int) error {
	if err := p.cfg.SetTerminator(p.current, term); err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	return nil
}

func (p *parser) parseRead(head string, lineNo int) error {
	fields := strings.Fields(head)
	if len(fields) != 2 || !strings.HasPrefix(fields[1], "%") {
		return syntaxErr(lineNo, "malformed read instruction %q", head)
	}
	instr, err := il.NewRead(fields[1][1:])
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	return p.appendInstr(instr, lineNo)
}

func (p *parser) parseWrite(head string, lineNo int) error {
	fields := strings.Fields(head)
	if len(fields) != 2 {
		return syntaxErr(lineNo, "malformed write instruction %q", head)
	}
	operand, err := parseOperand(fields[1])
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	instr, err := il.NewWrite(operand)
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	return p.appendInstr(instr, lineNo)
}

func (p *parser) parseBrkpt(head string, lineNo int) error {
	fields := strings.Fields(head)
	if len(fields) != 2 || !strings.HasPrefix(fields[1], "!") {
		return syntaxErr(lineNo, "malformed brkpt instruction %q", head)
	}
	instr, err := il.NewBrkpt(fields[1][1:])
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	return p.appendInstr(instr, lineNo)
}

func (p *parser) parseGoto(head string, lineNo int) error {
	fields := strings.Fields(head)
	if len(fields) != 2 {
		return syntaxErr(lineNo, "malformed goto terminator %q", head)
	}
	target, err := parseLabelRef(fields[1])
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	term, err := il.NewGoto(target)
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	return p.setTerminator(term, lineNo)
}

func (p *parser) parseBranch(head string, lineNo int) error {
	fields := strings.Fields(head)
	if len(fields) != 6 || fields[0] != "branch" || fields[2] != "?" || fields[4] != ":" {
		return syntaxErr(lineNo, "malformed branch terminator %q", head)
	}
	cond, err := parseOperand(fields[1])
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	ifTrue, err := parseLabelRef(fields[3])
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	ifFalse, err := parseLabelRef(fields[5])
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	term, err := il.NewBranch(cond, ifTrue, ifFalse)
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	return p.setTerminator(term, lineNo)
}

// parseAssignOrPhi dispatches a "%dst = ..." line. A phi's operands
// were already recorded by registerPhis and will be committed once
// every terminator is set, so this only needs to locate the
// already-inserted phi for %!-metadata purposes; any other
// right-hand side is a fresh instruction appended in place.
func (p *parser) parseAssignOrPhi(head string, lineNo int) error {
	eq := strings.IndexByte(head, '=')
	if eq == -1 {
		return syntaxErr(lineNo, "malformed assignment %q", head)
	}
	dstTok := strings.TrimSpace(head[:eq])
	if !strings.HasPrefix(dstTok, "%") {
		return syntaxErr(lineNo, "malformed assignment destination %q", dstTok)
	}
	rhs := strings.TrimSpace(head[eq+1:])
	if strings.HasPrefix(rhs, "phi") {
		return p.notePhi(dstTok[1:], lineNo)
	}
	instr, err := parseRHS(dstTok[1:], rhs)
	if err != nil {
		return syntaxErr(lineNo, "%v", err)
	}
	return p.appendInstr(instr, lineNo)
}

func (p *parser) notePhi(dst string, lineNo int) error {
	b, ok := p.cfg.Block(p.current)
	if !ok {
		return syntaxErr(lineNo, "internal: unknown current block %q", p.current)
	}
	for idx, in := range b.Instrs {
		if in.IsPhi() && in.Phi.Dst == dst {
			p.lastInstrValid = true
			p.lastInstrBlock = p.current
			p.lastInstrIndex = idx
			return nil
		}
	}
	return syntaxErr(lineNo, "internal: phi %%%s not pre-registered in block %q", dst, p.current)
}

func parseRHS(dst, rhs string) (il.Instr, error) {
	fields := strings.Fields(rhs)
	switch len(fields) {
	case 1:
		return parseUnaryOrMove(dst, fields[0])
	case 3:
		return parseBinOpRHS(dst, fields[0], fields[1], fields[2])
	default:
		return il.Instr{}, fmt.Errorf("malformed right-hand side %q", rhs)
	}
}

func parseUnaryOrMove(dst, tok string) (il.Instr, error) {
	if op, err := parseOperand(tok); err == nil {
		return il.NewMove(dst, op)
	}
	if len(tok) < 2 || (tok[0] != '-' && tok[0] != '~') {
		return il.Instr{}, fmt.Errorf("invalid operand %q", tok)
	}
	inner, err := parseOperand(tok[1:])
	if err != nil {
		return il.Instr{}, fmt.Errorf("invalid unary operand %q", tok)
	}
	if tok[0] == '-' {
		return il.NewBinOp(dst, il.OpSub, il.Const(bignum.Zero()), inner)
	}
	return il.NewBinOp(dst, il.OpXor, inner, il.Const(bignum.FromInt64(-1)))
}

func parseBinOpRHS(dst, lhsTok, opTok, rhsTok string) (il.Instr, error) {
	lhs, err := parseOperand(lhsTok)
	if err != nil {
		return il.Instr{}, err
	}
	rhsOperand, err := parseOperand(rhsTok)
	if err != nil {
		return il.Instr{}, err
	}
	if op, ok := coreBinOps[opTok]; ok {
		return il.NewBinOp(dst, op, lhs, rhsOperand)
	}
	switch opTok {
	case ">":
		return il.NewBinOp(dst, il.OpLt, rhsOperand, lhs)
	case ">=":
		return il.NewBinOp(dst, il.OpLe, rhsOperand, lhs)
	default:
		return il.Instr{}, fmt.Errorf("unknown operator %q", opTok)
	}
}

func parsePhiEntries(s string) ([]il.PhiEntry, error) {
	matches := phiEntryRE.FindAllStringSubmatch(s, -1)
	if matches == nil || strings.Count(s, "[") != len(matches) {
		return nil, fmt.Errorf("malformed phi entries %q", s)
	}
	entries := make([]il.PhiEntry, 0, len(matches))
	for _, m := range matches {
		val, err := parseOperand(strings.TrimSpace(m[1]))
		if err != nil {
			return nil, err
		}
		entries = append(entries, il.PhiEntry{Value: val, Pred: m[2]})
	}
	return entries, nil
}
