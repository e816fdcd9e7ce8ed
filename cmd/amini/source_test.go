package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSourcePrefersExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.ami")
	if err := os.WriteFile(path, []byte("@entry:\n    exit\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := loadSource(path, "")
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if src != "@entry:\n    exit\n" {
		t.Fatalf("unexpected source: %q", src)
	}
}

func TestLoadSourceResolvesSampleByName(t *testing.T) {
	src, err := loadSource("", "division")
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if src == "" {
		t.Fatalf("expected non-empty sample source")
	}
}

func TestLoadSourceRejectsBothFileAndSample(t *testing.T) {
	if _, err := loadSource("whatever.ami", "division"); err == nil {
		t.Fatalf("expected an error when both a file and --sample are given")
	}
}

func TestLoadSourceRejectsUnknownSample(t *testing.T) {
	if _, err := loadSource("", "not-a-real-sample"); err == nil {
		t.Fatalf("expected an error for an unknown sample name")
	}
}

func TestLoadSourceRejectsNeitherFileNorSample(t *testing.T) {
	if _, err := loadSource("", ""); err == nil {
		t.Fatalf("expected an error when neither a file nor --sample is given")
	}
}

func TestParseScriptedInputParsesWhitespaceSeparatedDecimals(t *testing.T) {
	values, err := parseScriptedInput(" 17   5\n3 ")
	if err != nil {
		t.Fatalf("parseScriptedInput: %v", err)
	}
	if len(values) != 3 || values[0].String() != "17" || values[1].String() != "5" || values[2].String() != "3" {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestParseScriptedInputEmptyIsEmpty(t *testing.T) {
	values, err := parseScriptedInput("   ")
	if err != nil {
		t.Fatalf("parseScriptedInput: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected no values, got %v", values)
	}
}

func TestParseScriptedInputRejectsGarbage(t *testing.T) {
	if _, err := parseScriptedInput("17 notanumber"); err == nil {
		t.Fatalf("expected an error for a non-numeric token")
	}
}
