package meta_test

import (
	"reflect"
	"testing"

	"amini/internal/meta"
)

func TestCFGScope(t *testing.T) {
	s := meta.New()
	s.SetCFG("source", "a.ami")
	s.AppendCFG("tags", "x", "y")
	s.AppendCFG("tags", "z")
	if got := s.GetCFG("source"); !reflect.DeepEqual(got, []string{"a.ami"}) {
		t.Fatalf("got %v", got)
	}
	if got := s.GetCFG("tags"); !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Fatalf("got %v", got)
	}
	s.DeleteCFG("tags")
	if got := s.GetCFG("tags"); got != nil {
		t.Fatalf("expected nil after delete, got %v", got)
	}
}

func TestBlockScopeIsolatedPerBlock(t *testing.T) {
	s := meta.New()
	s.SetBlock("b1", "note", "first")
	s.SetBlock("b2", "note", "second")
	if got := s.GetBlock("b1", "note"); !reflect.DeepEqual(got, []string{"first"}) {
		t.Fatalf("got %v", got)
	}
	if got := s.GetBlock("b2", "note"); !reflect.DeepEqual(got, []string{"second"}) {
		t.Fatalf("got %v", got)
	}
}

func TestInstrMetadataShiftsOnInsert(t *testing.T) {
	s := meta.New()
	s.SetInstr("b", 0, "k", "zero")
	s.SetInstr("b", 1, "k", "one")
	s.SetInstr("b", 2, "k", "two")

	s.OnInsert("b", 1) // a new instruction lands at index 1

	if got := s.GetInstr("b", 0, "k"); !reflect.DeepEqual(got, []string{"zero"}) {
		t.Fatalf("index 0 should be untouched, got %v", got)
	}
	if got := s.GetInstr("b", 1, "k"); got != nil {
		t.Fatalf("the newly inserted slot should carry no metadata, got %v", got)
	}
	if got := s.GetInstr("b", 2, "k"); !reflect.DeepEqual(got, []string{"one"}) {
		t.Fatalf("old index 1 should have shifted to 2, got %v", got)
	}
	if got := s.GetInstr("b", 3, "k"); !reflect.DeepEqual(got, []string{"two"}) {
		t.Fatalf("old index 2 should have shifted to 3, got %v", got)
	}
}

func TestInstrMetadataShiftsAndDropsOnRemove(t *testing.T) {
	s := meta.New()
	s.SetInstr("b", 0, "k", "zero")
	s.SetInstr("b", 1, "k", "one")
	s.SetInstr("b", 2, "k", "two")

	s.OnRemove("b", 1) // remove the instruction that was at index 1

	if got := s.GetInstr("b", 0, "k"); !reflect.DeepEqual(got, []string{"zero"}) {
		t.Fatalf("index 0 should be untouched, got %v", got)
	}
	if got := s.GetInstr("b", 1, "k"); !reflect.DeepEqual(got, []string{"two"}) {
		t.Fatalf("old index 2 should have shifted down to 1, got %v", got)
	}
}

func TestKeysBlockAndKeysInstr(t *testing.T) {
	s := meta.New()
	s.SetBlock("b", "note", "hot")
	s.SetBlock("b", "author", "x")
	s.SetInstr("b", 0, "cost", "3")
	s.SetInstr("b", 0, "tag", "slow")
	s.SetInstr("b", 1, "cost", "1")

	if got := s.KeysBlock("b"); !reflect.DeepEqual(got, []string{"author", "note"}) {
		t.Fatalf("got %v", got)
	}
	if got := s.KeysInstr("b", 0); !reflect.DeepEqual(got, []string{"cost", "tag"}) {
		t.Fatalf("got %v", got)
	}
	if got := s.KeysInstr("b", 1); !reflect.DeepEqual(got, []string{"cost"}) {
		t.Fatalf("got %v", got)
	}
}

func TestDeleteBlockAllClearsBlockAndInstrScopes(t *testing.T) {
	s := meta.New()
	s.SetBlock("b", "k", "v")
	s.SetInstr("b", 0, "k", "v")
	s.SetInstr("other", 0, "k", "v")

	s.DeleteBlockAll("b")

	if got := s.GetBlock("b", "k"); got != nil {
		t.Fatalf("expected block metadata cleared, got %v", got)
	}
	if got := s.GetInstr("b", 0, "k"); got != nil {
		t.Fatalf("expected instr metadata cleared, got %v", got)
	}
	if got := s.GetInstr("other", 0, "k"); !reflect.DeepEqual(got, []string{"v"}) {
		t.Fatalf("unrelated block's metadata should survive, got %v", got)
	}
}
