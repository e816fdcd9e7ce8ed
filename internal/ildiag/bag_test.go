package ildiag_test

import (
	"bytes"
	"strings"
	"testing"

	"amini/internal/ildiag"
)

func TestBagAddRespectsCapacity(t *testing.T) {
	b := ildiag.NewBag(2)
	if !b.Add(ildiag.Diagnostic{Severity: ildiag.SevInfo, Message: "a"}) {
		t.Fatalf("expected first Add to succeed")
	}
	if !b.Add(ildiag.Diagnostic{Severity: ildiag.SevInfo, Message: "b"}) {
		t.Fatalf("expected second Add to succeed")
	}
	if b.Add(ildiag.Diagnostic{Severity: ildiag.SevInfo, Message: "c"}) {
		t.Fatalf("expected third Add to be rejected at capacity 2")
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
}

func TestBagHasErrorsAndWarnings(t *testing.T) {
	b := ildiag.NewBag(10)
	b.Add(ildiag.Diagnostic{Severity: ildiag.SevInfo, Message: "info"})
	if b.HasErrors() || b.HasWarnings() {
		t.Fatalf("expected neither errors nor warnings with only an info diagnostic")
	}
	b.Add(ildiag.Diagnostic{Severity: ildiag.SevWarning, Message: "warn"})
	if b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected warnings but no errors")
	}
	b.Add(ildiag.Diagnostic{Severity: ildiag.SevError, Message: "err"})
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
}

func TestBagSortOrdersByLineThenSeverity(t *testing.T) {
	b := ildiag.NewBag(10)
	b.Add(ildiag.Diagnostic{Severity: ildiag.SevInfo, Message: "line5-info", Line: 5})
	b.Add(ildiag.Diagnostic{Severity: ildiag.SevError, Message: "line2-err", Line: 2})
	b.Add(ildiag.Diagnostic{Severity: ildiag.SevWarning, Message: "line5-warn", Line: 5})
	b.Sort()

	items := b.Items()
	if items[0].Message != "line2-err" {
		t.Fatalf("expected line2-err first, got %s", items[0].Message)
	}
	if items[1].Message != "line5-warn" || items[2].Message != "line5-info" {
		t.Fatalf("expected line5-warn before line5-info, got %v", items)
	}
}

func TestPrinterWritesEachDiagnostic(t *testing.T) {
	b := ildiag.NewBag(10)
	b.Add(ildiag.Diagnostic{Severity: ildiag.SevError, Message: "bad input", Line: 3})
	b.Add(ildiag.Diagnostic{Severity: ildiag.SevInfo, Message: "no line context"})

	var buf bytes.Buffer
	p := ildiag.NewPrinter(&buf, false)
	p.Print(b)

	out := buf.String()
	if !strings.Contains(out, "line 3: bad input") {
		t.Fatalf("expected line-qualified diagnostic, got %q", out)
	}
	if !strings.Contains(out, "no line context") {
		t.Fatalf("expected lineless diagnostic, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI escapes with Color disabled, got %q", out)
	}
}

func TestPrinterColorizesWhenEnabled(t *testing.T) {
	b := ildiag.NewBag(10)
	b.Add(ildiag.Diagnostic{Severity: ildiag.SevError, Message: "boom"})

	var buf bytes.Buffer
	p := ildiag.NewPrinter(&buf, true)
	p.Print(b)

	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected message to still be present, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes with Color enabled, got %q", buf.String())
	}
}
