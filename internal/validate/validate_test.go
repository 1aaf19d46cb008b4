package validate

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestQty(t *testing.T) {
	cases := map[string]int{"3": 3, " 0 ": 0, "-2": 0, "abc": 0, "1000": 99}
	for in, want := range cases {
		if got := Qty(in); got != want {
			t.Errorf("Qty(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestIDs(t *testing.T) {
	got := IDs([]string{"extra_queso", " bacon ", "extra_queso", "bad id", "<script>"})
	if !reflect.DeepEqual(got, []string{"extra_queso", "bacon"}) {
		t.Fatalf("got %v", got)
	}
}

func TestPhone(t *testing.T) {
	for _, ok := range []string{"+57 315 610 0334", "(601) 555-1234"} {
		if _, v := Phone(ok); !v {
			t.Errorf("%q should be valid", ok)
		}
	}
	for _, bad := range []string{"", "12", "call me", "+57 315 610 0334 ext 9"} {
		if _, v := Phone(bad); v {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestClockAndPrice(t *testing.T) {
	if _, ok := Clock("23:59"); !ok {
		t.Error("23:59 should be valid")
	}
	if _, ok := Clock("24:00"); ok {
		t.Error("24:00 should be invalid")
	}
	if Price(-1) || Price(math.NaN()) || !Price(0) {
		t.Error("price checks")
	}
}

func TestQuery(t *testing.T) {
	if q, ok := Query("  jalapeño pizza "); !ok || q != "jalapeño pizza" {
		t.Fatalf("got %q %v", q, ok)
	}
	for _, bad := range []string{"", "<script>", "a;drop", strings.Repeat("x", 41)} {
		if _, ok := Query(bad); ok {
			t.Errorf("%q should be rejected", bad)
		}
	}
}

func TestTextKeepsRunesWhole(t *testing.T) {
	in := strings.Repeat("a", 79) + "ñ"
	got := Text(in, 80)
	if !utf8.ValidString(got) || got != strings.Repeat("a", 79) {
		t.Fatalf("Text cut mid-rune: %q", got)
	}
	if got := Text("  Ana Gómez  ", 80); got != "Ana Gómez" {
		t.Fatalf("short text changed: %q", got)
	}
	if got := Text("Pequeña", 6); got != "Peque" {
		t.Fatalf("Text(Pequeña, 6) = %q", got)
	}
}
