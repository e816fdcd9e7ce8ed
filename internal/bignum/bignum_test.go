package bignum_test

import (
	"testing"

	"amini/internal/bignum"
)

func TestAddSub(t *testing.T) {
	cases := []struct {
		a, b string
		want string
	}{
		{"1", "2", "3"},
		{"-1", "2", "1"},
		{"5", "-7", "-2"},
		{"-5", "-7", "-12"},
		{"0", "0", "0"},
		{"99999999999999999999", "1", "100000000000000000000"},
	}
	for _, c := range cases {
		a, err := bignum.Parse(c.a)
		if err != nil {
			t.Fatalf("parse %q: %v", c.a, err)
		}
		b, err := bignum.Parse(c.b)
		if err != nil {
			t.Fatalf("parse %q: %v", c.b, err)
		}
		sum, err := bignum.Add(a, b)
		if err != nil {
			t.Fatalf("Add(%s,%s): %v", c.a, c.b, err)
		}
		if got := sum.String(); got != c.want {
			t.Errorf("Add(%s,%s) = %s, want %s", c.a, c.b, got, c.want)
		}
		back, err := bignum.Sub(sum, b)
		if err != nil {
			t.Fatalf("Sub: %v", err)
		}
		if got := back.String(); got != c.a {
			t.Errorf("Sub(Add(a,b),b) = %s, want %s", got, c.a)
		}
	}
}

func TestMul(t *testing.T) {
	a, _ := bignum.Parse("123456789012345678901234567890")
	b, _ := bignum.Parse("-2")
	got, err := bignum.Mul(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := "-246913578024691357802469135780"
	if got.String() != want {
		t.Errorf("Mul = %s, want %s", got.String(), want)
	}
}

func TestDivModTruncatesTowardZero(t *testing.T) {
	cases := []struct {
		a, b     string
		wantQ    string
		wantR    string
	}{
		{"7", "2", "3", "1"},
		{"-7", "2", "-3", "-1"},
		{"7", "-2", "-3", "1"},
		{"-7", "-2", "3", "-1"},
		{"0", "5", "0", "0"},
	}
	for _, c := range cases {
		a, _ := bignum.Parse(c.a)
		b, _ := bignum.Parse(c.b)
		q, r, err := bignum.DivMod(a, b)
		if err != nil {
			t.Fatalf("DivMod(%s,%s): %v", c.a, c.b, err)
		}
		if q.String() != c.wantQ || r.String() != c.wantR {
			t.Errorf("DivMod(%s,%s) = (%s,%s), want (%s,%s)",
				c.a, c.b, q.String(), r.String(), c.wantQ, c.wantR)
		}
		// Invariant from spec §3: lhs == (lhs/rhs)*rhs + lhs%rhs
		prod, _ := bignum.Mul(q, b)
		sum, _ := bignum.Add(prod, r)
		if sum.Cmp(a) != 0 {
			t.Errorf("division identity violated for %s/%s", c.a, c.b)
		}
	}

	if _, _, err := bignum.DivMod(bignum.FromInt64(1), bignum.Zero()); err != bignum.ErrDivByZero {
		t.Errorf("DivMod by zero: got %v, want ErrDivByZero", err)
	}
}

func TestShrIsArithmetic(t *testing.T) {
	cases := []struct {
		a    string
		n    int
		want string
	}{
		{"8", 1, "4"},
		{"-8", 1, "-4"},
		{"-1", 3, "-1"},
		{"-9", 1, "-5"},
	}
	for _, c := range cases {
		a, _ := bignum.Parse(c.a)
		got, err := bignum.Shr(a, c.n)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != c.want {
			t.Errorf("Shr(%s,%d) = %s, want %s", c.a, c.n, got.String(), c.want)
		}
	}

	if _, err := bignum.Shr(bignum.FromInt64(1), -1); err != bignum.ErrNegativeShift {
		t.Errorf("negative shift: got %v, want ErrNegativeShift", err)
	}
}

func TestBitwiseTwosComplement(t *testing.T) {
	a, _ := bignum.Parse("-1")
	b, _ := bignum.Parse("2")
	got, err := bignum.And(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != "2" {
		t.Errorf("And(-1,2) = %s, want 2", got.String())
	}
}

func TestParseHex(t *testing.T) {
	v, err := bignum.Parse("0x1F")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "31" {
		t.Errorf("Parse(0x1F) = %s, want 31", v.String())
	}
	v, err = bignum.Parse("-0x10")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "-16" {
		t.Errorf("Parse(-0x10) = %s, want -16", v.String())
	}
}

func TestInt64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 62, -(1 << 62)} {
		bi := bignum.FromInt64(v)
		got, ok := bi.Int64()
		if !ok || got != v {
			t.Errorf("Int64 round trip for %d: got %d, ok=%v", v, got, ok)
		}
	}
}
