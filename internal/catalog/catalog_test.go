package catalog

import (
	"reflect"
	"testing"
)

func TestForTypeReturnsNonEmptyStableLists(t *testing.T) {
	for _, typ := range Types() {
		first := ForType(typ)
		if len(first) == 0 {
			t.Fatalf("ForType(%s) returned empty catalog", typ)
		}
		second := ForType(typ)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("ForType(%s) is not stable across calls", typ)
		}
	}
}

func TestForTypeUnknownYieldsEmptyNotNil(t *testing.T) {
	got := ForType(AnalysisType("radiography"))
	if got == nil || len(got) != 0 {
		t.Fatalf("unknown type should yield empty slice, got %#v", got)
	}
}

func TestForTypeCopiesAreIndependent(t *testing.T) {
	a := ForType(TypeHemogram)
	a[0].Label = "mutated"
	b := ForType(TypeHemogram)
	if b[0].Label == "mutated" {
		t.Fatal("ForType must return an independent copy")
	}
}

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want AnalysisType
		ok   bool
	}{
		{"hemogram", TypeHemogram, true},
		{" Biochemistry ", TypeBiochemistry, true},
		{"URINALYSIS", TypeUrinalysis, true},
		{"cytology", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseType(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseType(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFind(t *testing.T) {
	p, ok := Find(TypeHemogram, "erythrocytes")
	if !ok || p.Unit != "x10^6/uL" {
		t.Fatalf("Find erythrocytes = %#v, %v", p, ok)
	}
	if _, ok := Find(TypeHemogram, "glucose"); ok {
		t.Fatal("glucose should not be a hemogram parameter")
	}
	if p.RefRange() == "" {
		t.Fatal("numeric parameters should render a reference range")
	}
}
