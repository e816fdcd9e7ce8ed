package interp_test

import (
	"errors"
	"testing"

	"amini/internal/bignum"
	"amini/internal/il"
	"amini/internal/interp"
)

func block(t *testing.T, cfg *il.CFG, label string) *il.Block {
	t.Helper()
	b, err := il.NewBlock(label)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddBlock(b); err != nil {
		t.Fatal(err)
	}
	return b
}

func mustTerm(t *testing.T, cfg *il.CFG, label string, term il.Terminator) {
	t.Helper()
	if err := cfg.SetTerminator(label, term); err != nil {
		t.Fatal(err)
	}
}

// straightLineAdd builds entry: %a <- 2; %b <- 3; %c <- %a + %b; write %c; exit.
func straightLineAdd(t *testing.T) *il.CFG {
	t.Helper()
	cfg := il.NewCFG()
	entry := block(t, cfg, "entry")
	cfg.SetEntry("entry")

	mvA, _ := il.NewMove("a", il.Const(bignum.FromInt64(2)))
	mvB, _ := il.NewMove("b", il.Const(bignum.FromInt64(3)))
	add, _ := il.NewBinOp("c", il.OpAdd, il.Register("a"), il.Register("b"))
	wr, _ := il.NewWrite(il.Register("c"))
	entry.Append(mvA)
	entry.Append(mvB)
	entry.Append(add)
	entry.Append(wr)
	mustTerm(t, cfg, "entry", il.NewExit())
	return cfg
}

func TestStraightLineArithmeticAndWrite(t *testing.T) {
	cfg := straightLineAdd(t)
	out := interp.NewRecordingOutput()
	m := interp.NewMachine(cfg, nil, out)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Values) != 1 || out.Values[0].Cmp(bignum.FromInt64(5)) != 0 {
		t.Fatalf("expected [5], got %v", out.Values)
	}
}

func TestBranchNonZeroIsTrue(t *testing.T) {
	cfg := il.NewCFG()
	entry := block(t, cfg, "entry")
	cfg.SetEntry("entry")
	tBlk := block(t, cfg, "t")
	fBlk := block(t, cfg, "f")

	mv, _ := il.NewMove("cond", il.Const(bignum.FromInt64(-7)))
	entry.Append(mv)
	br, _ := il.NewBranch(il.Register("cond"), "t", "f")
	mustTerm(t, cfg, "entry", br)

	wrT, _ := il.NewWrite(il.Const(bignum.FromInt64(1)))
	tBlk.Append(wrT)
	mustTerm(t, cfg, "t", il.NewExit())

	wrF, _ := il.NewWrite(il.Const(bignum.FromInt64(0)))
	fBlk.Append(wrF)
	mustTerm(t, cfg, "f", il.NewExit())

	out := interp.NewRecordingOutput()
	m := interp.NewMachine(cfg, nil, out)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Values) != 1 || out.Values[0].Cmp(bignum.FromInt64(1)) != 0 {
		t.Fatalf("negative condition should take the true branch, got %v", out.Values)
	}
}

// TestPhiParallelSwap is invariant 6 of the spec: entering a block from
// A with %x=phi[%y,A], %y=phi[%x,A] swaps x and y, regardless of
// listing order, because both reads sample the environment before
// either destination is assigned.
func TestPhiParallelSwap(t *testing.T) {
	cfg := il.NewCFG()
	entry := block(t, cfg, "entry")
	cfg.SetEntry("entry")
	block(t, cfg, "a")
	join := block(t, cfg, "join")

	mvX, _ := il.NewMove("x", il.Const(bignum.FromInt64(1)))
	mvY, _ := il.NewMove("y", il.Const(bignum.FromInt64(2)))
	entry.Append(mvX)
	entry.Append(mvY)
	gEntry, _ := il.NewGoto("a")
	mustTerm(t, cfg, "entry", gEntry)

	gA, _ := il.NewGoto("join")
	mustTerm(t, cfg, "a", gA)

	phiX, err := il.NewPhi("x", []il.PhiEntry{{Value: il.Register("y"), Pred: "a"}})
	if err != nil {
		t.Fatal(err)
	}
	phiY, err := il.NewPhi("y", []il.PhiEntry{{Value: il.Register("x"), Pred: "a"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := join.InsertPhi(phiY); err != nil {
		t.Fatal(err)
	}
	if err := join.InsertPhi(phiX); err != nil {
		t.Fatal(err)
	}
	wrX, _ := il.NewWrite(il.Register("x"))
	wrY, _ := il.NewWrite(il.Register("y"))
	join.Append(wrX)
	join.Append(wrY)
	mustTerm(t, cfg, "join", il.NewExit())

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	out := interp.NewRecordingOutput()
	m := interp.NewMachine(cfg, nil, out)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Values) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(out.Values))
	}
	if out.Values[0].Cmp(bignum.FromInt64(2)) != 0 || out.Values[1].Cmp(bignum.FromInt64(1)) != 0 {
		t.Fatalf("expected swapped [2,1], got %v", out.Values)
	}
}

// TestPhiInEntryIsUnboundPhi is S6.
func TestPhiInEntryIsUnboundPhi(t *testing.T) {
	cfg := il.NewCFG()
	entry, err := il.NewBlock("entry")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddBlock(entry); err != nil {
		t.Fatal(err)
	}
	cfg.SetEntry("entry")
	mustTerm(t, cfg, "entry", il.NewExit())

	// Directly inject a malformed phi (zero predecessors) to exercise
	// the entry-block-phi runtime check independent of NewPhi's own
	// "nonempty entries" guard.
	entry.Instrs = append(entry.Instrs, il.Instr{Kind: il.InstrPhi, Phi: il.PhiInstr{Dst: "p"}})

	m := interp.NewMachine(cfg, nil, nil)
	err = m.Run()
	if !errors.Is(err, interp.ErrUnboundPhi) {
		t.Fatalf("expected ErrUnboundPhi, got %v", err)
	}
}

func TestDivisionByZero(t *testing.T) {
	cfg := il.NewCFG()
	entry := block(t, cfg, "entry")
	cfg.SetEntry("entry")
	mvA, _ := il.NewMove("a", il.Const(bignum.FromInt64(10)))
	mvZ, _ := il.NewMove("z", il.Const(bignum.Zero()))
	div, _ := il.NewBinOp("q", il.OpDiv, il.Register("a"), il.Register("z"))
	entry.Append(mvA)
	entry.Append(mvZ)
	entry.Append(div)
	mustTerm(t, cfg, "entry", il.NewExit())

	m := interp.NewMachine(cfg, nil, nil)
	err := m.Run()
	if !errors.Is(err, interp.ErrDivByZero) {
		t.Fatalf("expected ErrDivByZero, got %v", err)
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	cfg := il.NewCFG()
	entry := block(t, cfg, "entry")
	cfg.SetEntry("entry")
	rd, _ := il.NewRead("r")
	wr, _ := il.NewWrite(il.Register("r"))
	entry.Append(rd)
	entry.Append(wr)
	mustTerm(t, cfg, "entry", il.NewExit())

	in := interp.NewQueueInput(bignum.FromInt64(42))
	out := interp.NewRecordingOutput()
	m := interp.NewMachine(cfg, in, out)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Values) != 1 || out.Values[0].Cmp(bignum.FromInt64(42)) != 0 {
		t.Fatalf("expected [42], got %v", out.Values)
	}
}

func TestUndefinedRegisterRead(t *testing.T) {
	cfg := il.NewCFG()
	entry := block(t, cfg, "entry")
	cfg.SetEntry("entry")
	wr, _ := il.NewWrite(il.Register("ghost"))
	entry.Append(wr)
	mustTerm(t, cfg, "entry", il.NewExit())

	m := interp.NewMachine(cfg, nil, interp.NewRecordingOutput())
	err := m.Run()
	if !errors.Is(err, interp.ErrUndefinedRegister) {
		t.Fatalf("expected ErrUndefinedRegister, got %v", err)
	}
}

func TestBreakpointSuspendsBeforeExecution(t *testing.T) {
	cfg := il.NewCFG()
	entry := block(t, cfg, "entry")
	cfg.SetEntry("entry")
	bp, _ := il.NewBrkpt("checkpoint")
	wr, _ := il.NewWrite(il.Const(bignum.FromInt64(9)))
	entry.Append(bp)
	entry.Append(wr)
	mustTerm(t, cfg, "entry", il.NewExit())

	out := interp.NewRecordingOutput()
	m := interp.NewMachine(cfg, nil, out)
	m.Breakpoints = interp.NewBreakpoints()
	if _, err := m.Breakpoints.Add("checkpoint"); err != nil {
		t.Fatal(err)
	}

	hit, stopped, err := m.RunUntilBreak()
	if err != nil {
		t.Fatalf("RunUntilBreak: %v", err)
	}
	if !stopped || hit == nil || hit.Name != "checkpoint" {
		t.Fatalf("expected to stop at breakpoint, got stopped=%v hit=%v", stopped, hit)
	}
	if len(out.Values) != 0 {
		t.Fatalf("breakpoint should suspend before its own execution, got writes %v", out.Values)
	}

	if err := m.Run(); err != nil {
		t.Fatalf("resumed Run: %v", err)
	}
	if len(out.Values) != 1 || out.Values[0].Cmp(bignum.FromInt64(9)) != 0 {
		t.Fatalf("expected [9] after resuming, got %v", out.Values)
	}
}
