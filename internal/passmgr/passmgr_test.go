package passmgr_test

import (
	"context"
	"errors"
	"testing"

	"amini/internal/il"
	"amini/internal/meta"
	"amini/internal/passmgr"
)

func TestParseInvocationBareID(t *testing.T) {
	inv, err := passmgr.ParseInvocation("reachability")
	if err != nil {
		t.Fatal(err)
	}
	if inv.ID != "reachability" || len(inv.Positional) != 0 || len(inv.Keyword) != 0 {
		t.Fatalf("unexpected invocation: %+v", inv)
	}
}

func TestParseInvocationWithArgs(t *testing.T) {
	inv, err := passmgr.ParseInvocation("threshold(3, mode=strict)")
	if err != nil {
		t.Fatal(err)
	}
	if inv.ID != "threshold" || len(inv.Positional) != 1 || inv.Positional[0] != "3" {
		t.Fatalf("unexpected positional: %+v", inv)
	}
	if inv.Keyword["mode"] != "strict" {
		t.Fatalf("unexpected keyword: %+v", inv.Keyword)
	}
}

func TestParseInvocationMalformedIsBadArguments(t *testing.T) {
	for _, s := range []string{"", "foo(", "foo(a,,b)", "foo(a=1,b)"} {
		if _, err := passmgr.ParseInvocation(s); !errors.Is(err, passmgr.ErrBadArguments) {
			t.Fatalf("expected BadArguments for %q, got %v", s, err)
		}
	}
}

func TestResolveUsesDefaultsForUnbound(t *testing.T) {
	params := []passmgr.Param{
		{Name: "n", Default: "1", Positional: true},
		{Name: "mode", Default: "fast", Positional: false},
	}
	bound, tuple, err := passmgr.Resolve(params, passmgr.Invocation{Positional: []string{"9"}})
	if err != nil {
		t.Fatal(err)
	}
	if bound["n"] != "9" || bound["mode"] != "fast" {
		t.Fatalf("unexpected bindings: %+v", bound)
	}
	if tuple[0] != "9" || tuple[1] != "fast" {
		t.Fatalf("unexpected tuple: %v", tuple)
	}
}

func TestResolveRejectsUnknownKeyword(t *testing.T) {
	params := []passmgr.Param{{Name: "n", Default: "1", Positional: true}}
	_, _, err := passmgr.Resolve(params, passmgr.Invocation{Keyword: map[string]string{"bogus": "x"}})
	if !errors.Is(err, passmgr.ErrBadArguments) {
		t.Fatalf("expected BadArguments, got %v", err)
	}
}

func TestRegistryDuplicateID(t *testing.T) {
	cfg := il.NewCFG()
	mgr := passmgr.NewManager(cfg, meta.New())
	if err := mgr.Register(passmgr.Reachability{}); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Register(passmgr.Reachability{}); !errors.Is(err, passmgr.ErrDuplicateID) {
		t.Fatalf("expected DuplicateID, got %v", err)
	}
}

func TestExplainIncludesSignature(t *testing.T) {
	cfg := il.NewCFG()
	mgr := passmgr.NewManager(cfg, meta.New())
	mgr.Register(passmgr.PruneUnreachable{})
	doc, err := mgr.Explain("prune-unreachable")
	if err != nil {
		t.Fatal(err)
	}
	want := "prune-unreachable()"
	if !contains(doc, want) {
		t.Fatalf("explain() = %q, want it to contain %q", doc, want)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func singleBlockCFG(t *testing.T) *il.CFG {
	t.Helper()
	cfg := il.NewCFG()
	b, err := il.NewBlock("entry")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddBlock(b); err != nil {
		t.Fatal(err)
	}
	cfg.SetEntry("entry")
	if err := cfg.SetTerminator("entry", il.NewExit()); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRequireRunsDependencyOnce(t *testing.T) {
	cfg := singleBlockCFG(t)
	store := meta.New()
	mgr := passmgr.NewManager(cfg, store)
	if err := mgr.Register(passmgr.Reachability{}); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Register(passmgr.PruneUnreachable{}); err != nil {
		t.Fatal(err)
	}
	inst, err := mgr.Require(context.Background(), "prune-unreachable", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !inst.Valid() {
		t.Fatalf("expected instance valid immediately after Require (invariant 7)")
	}
	if got := store.GetCFG("reachable"); len(got) != 1 || got[0] != "entry" {
		t.Fatalf("expected reachability to have run as a dependency, got %v", got)
	}
}

// countingPass is a test double used to exercise the preservation
// contract (S7): analysisA records how many times it actually ran.
type countingPass struct {
	runs *int
}

func (countingPass) ID() string          { return "analysisA" }
func (countingPass) Doc() string         { return "counts its own runs" }
func (countingPass) Params() []passmgr.Param { return nil }

func (p countingPass) Run(ctx *passmgr.RunContext, cfg *il.CFG, store *meta.Store) (passmgr.PreservedSet, error) {
	*p.runs++
	return passmgr.PreserveAll(), nil
}

// transformPass is a test double that preserves nothing; Run does not
// consult its "keep" parameter. transformPreserving below shares its
// ID and preserves analysisA.
type transformPass struct{}

func (transformPass) ID() string  { return "transformB" }
func (transformPass) Doc() string { return "test transform that preserves nothing" }
func (transformPass) Params() []passmgr.Param {
	return []passmgr.Param{{Name: "keep", Default: "no", Positional: true}}
}

func (transformPass) Run(ctx *passmgr.RunContext, cfg *il.CFG, store *meta.Store) (passmgr.PreservedSet, error) {
	return passmgr.PreserveNone(), nil
}

type transformPreserving struct{}

func (transformPreserving) ID() string  { return "transformB" }
func (transformPreserving) Doc() string { return "test transform that preserves analysisA" }
func (transformPreserving) Params() []passmgr.Param {
	return []passmgr.Param{{Name: "keep", Default: "yes", Positional: true}}
}

func (transformPreserving) Run(ctx *passmgr.RunContext, cfg *il.CFG, store *meta.Store) (passmgr.PreservedSet, error) {
	return passmgr.PreserveNone().Preserve("analysisA"), nil
}

func TestPipelinePreservationRunsOnceWhenPreserved(t *testing.T) {
	cfg := singleBlockCFG(t)
	mgr := passmgr.NewManager(cfg, meta.New())
	runs := 0
	mgr.Register(countingPass{runs: &runs})
	mgr.Register(transformPreserving{})

	_, invs, err := passmgr.ParsePipeline([]string{"analysisA", "transformB", "analysisA"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RunPipeline(context.Background(), invs); err != nil {
		t.Fatal(err)
	}
	if runs != 1 {
		t.Fatalf("expected analysisA to run exactly once when preserved, ran %d times", runs)
	}
}

func TestPipelinePreservationRunsTwiceWhenNotPreserved(t *testing.T) {
	cfg := singleBlockCFG(t)
	mgr := passmgr.NewManager(cfg, meta.New())
	runs := 0
	mgr.Register(countingPass{runs: &runs})
	mgr.Register(transformPass{})

	_, invs, err := passmgr.ParsePipeline([]string{"analysisA", "transformB", "analysisA"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RunPipeline(context.Background(), invs); err != nil {
		t.Fatal(err)
	}
	if runs != 2 {
		t.Fatalf("expected analysisA to run twice when not preserved, ran %d times", runs)
	}
}

func TestPipelineReportsCancellation(t *testing.T) {
	cfg := singleBlockCFG(t)
	mgr := passmgr.NewManager(cfg, meta.New())
	runs := 0
	mgr.Register(countingPass{runs: &runs})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, invs, err := passmgr.ParsePipeline([]string{"analysisA"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = mgr.RunPipeline(ctx, invs)
	var cancelled *passmgr.CancelledError
	if !errors.As(err, &cancelled) || cancelled.Index != 0 {
		t.Fatalf("expected CancelledError at index 0, got %v", err)
	}
	if runs != 0 {
		t.Fatalf("pass should not have run after cancellation, ran %d times", runs)
	}
}

func TestRequireWildcardMatchesExistingInstance(t *testing.T) {
	cfg := singleBlockCFG(t)
	mgr := passmgr.NewManager(cfg, meta.New())
	mgr.Register(variadicPass{})

	first, err := mgr.Require(context.Background(), "variadic", []string{"3"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	again, err := mgr.Require(context.Background(), "variadic", []string{"any"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Fatalf("expected wildcard to match the existing instance with n=3")
	}
}

type variadicPass struct{}

func (variadicPass) ID() string  { return "variadic" }
func (variadicPass) Doc() string { return "test pass with one positional parameter" }
func (variadicPass) Params() []passmgr.Param {
	return []passmgr.Param{{Name: "n", Default: "0", Positional: true}}
}

func (variadicPass) Run(ctx *passmgr.RunContext, cfg *il.CFG, store *meta.Store) (passmgr.PreservedSet, error) {
	return passmgr.PreserveAll(), nil
}
