package knowledge

import (
	"reflect"
	"testing"

	"programcheck/internal"
)

func TestParse(t *testing.T) {
	b := Parse("clamo334, PENTH\nAB,CLAMO;;VAVIV-2\r\n")
	want := []string{"CLAMO", "PENTH", "VAVIV"}
	if got := b.Prefixes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("prefixes=%v want %v", got, want)
	}
	if !b.Contains("PENTH") || b.Contains("AB") {
		t.Fatal("contains mismatch")
	}
}

func TestParseEmpty(t *testing.T) {
	b := Parse("")
	if b.Len() != 0 {
		t.Fatalf("len=%d", b.Len())
	}
	if _, _, ok := b.Closest("CLAMO"); ok {
		t.Fatal("closest on empty base should report !ok")
	}
}

func TestClosestTieKeepsFirst(t *testing.T) {
	b := Parse("CLAMA, CLAMI")
	best, dist, ok := b.Closest("CLAMO")
	if !ok || best != "CLAMA" || dist != 1 {
		t.Fatalf("best=%s dist=%d ok=%v", best, dist, ok)
	}

	b = Parse("CLAMI, CLAMA")
	best, _, _ = b.Closest("CLAMO")
	if best != "CLAMI" {
		t.Fatalf("best=%s", best)
	}
}

func TestTokensAndNormalize(t *testing.T) {
	got := Tokens(" clamo ,PENTH\n\n bad token ,CLAMO,x-1,ok2\r\n")
	want := []string{"CLAMO", "PENTH", "OK2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens=%v want %v", got, want)
	}
	if n := Normalize("b1,a2\nb1"); n != "B1\nA2" {
		t.Fatalf("normalize=%q", n)
	}
	if m := Merge("CLAMO", "penth", "CLAMO"); m != "CLAMO\nPENTH" {
		t.Fatalf("merge=%q", m)
	}
}

func TestLearn(t *testing.T) {
	days := []internal.DayData{
		{DayHeader: "Lunes", Programs: []internal.ProgramStatus{
			{Code: "CLAMO334", Status: internal.StatusValid},
			{Code: "NUEVO12", Status: internal.StatusValid},
			{Code: "VAVIV1", Status: internal.StatusRemoved},
			{Code: "XX-1", Status: internal.StatusInvalidFormat},
		}},
		{DayHeader: "Martes", Programs: []internal.ProgramStatus{
			{Code: "NUEVO13", Status: internal.StatusValid},
			{Code: "OTROS9", Status: internal.StatusMissing},
		}},
	}
	blob, added := Learn("CLAMO", days)
	if !reflect.DeepEqual(added, []string{"NUEVO", "OTROS"}) {
		t.Fatalf("added=%v", added)
	}
	if blob != "CLAMO\nNUEVO\nOTROS" {
		t.Fatalf("blob=%q", blob)
	}

	_, added = Learn(blob, days)
	if len(added) != 0 {
		t.Fatalf("second learn added=%v", added)
	}
}
