package trigram

import (
	"reflect"
	"testing"
)

func TestOf(t *testing.T) {
	set := Of("abc")
	// "  abc " -> "  a", " ab", "abc", "bc "
	want := []string{"  a", " ab", "abc", "bc "}
	if len(set) != len(want) {
		t.Fatalf("Of(\"abc\") has %d trigrams, want %d: %v", len(set), len(want), set)
	}
	for _, tri := range want {
		if _, ok := set[tri]; !ok {
			t.Errorf("Of(\"abc\") missing trigram %q", tri)
		}
	}
}

func TestQueryOf(t *testing.T) {
	set := QueryOf("abc")
	// "  abc" -> "  a", " ab", "abc"; no trailing boundary.
	want := []string{"  a", " ab", "abc"}
	if len(set) != len(want) {
		t.Fatalf("QueryOf(\"abc\") has %d trigrams, want %d: %v", len(set), len(want), set)
	}
	for _, tri := range want {
		if _, ok := set[tri]; !ok {
			t.Errorf("QueryOf(\"abc\") missing trigram %q", tri)
		}
	}
	if set := QueryOf("   "); len(set) != 0 {
		t.Errorf("QueryOf(\"   \") = %v, want empty set", set)
	}
}

func TestDeterministic(t *testing.T) {
	if !reflect.DeepEqual(Of("karma police"), Of("karma police")) {
		t.Error("Of not deterministic for the same name")
	}
	if !reflect.DeepEqual(QueryOf("karma"), QueryOf("karma")) {
		t.Error("QueryOf not deterministic for the same query")
	}
}

func TestOfNormalizes(t *testing.T) {
	a := Of("Beyoncé")
	b := Of("beyonce")
	if Jaccard(a, b) != 1 {
		t.Errorf("expected identical trigram sets for accented and plain form")
	}
}

func TestOfEmpty(t *testing.T) {
	if set := Of(""); len(set) != 0 {
		t.Errorf("Of(\"\") = %v, want empty set", set)
	}
	if set := Of("   "); len(set) != 0 {
		t.Errorf("Of(\"   \") = %v, want empty set", set)
	}
}

func TestJaccard(t *testing.T) {
	a := Of("prince")
	if got := Jaccard(a, a); got != 1 {
		t.Errorf("Jaccard(a, a) = %v, want 1", got)
	}
	if got := Jaccard(a, Set{}); got != 0 {
		t.Errorf("Jaccard(a, empty) = %v, want 0", got)
	}
	if got := Jaccard(Set{}, Set{}); got != 0 {
		t.Errorf("Jaccard(empty, empty) = %v, want 0", got)
	}

	b := Of("princess")
	sim := Jaccard(a, b)
	if sim <= 0 || sim >= 1 {
		t.Errorf("Jaccard(prince, princess) = %v, want in (0,1)", sim)
	}
	far := Jaccard(a, Of("zzzz"))
	if far >= sim {
		t.Errorf("unrelated name scored %v, not below related %v", far, sim)
	}
}

func TestContainment(t *testing.T) {
	query := QueryOf("purple")
	item := Of("purple rain")
	if got := Containment(query, item); got != 1 {
		t.Errorf("Containment(purple, purple rain) = %v, want 1", got)
	}
	// Not symmetric: the long side is only partly contained in the short one.
	if got := Containment(Of("purple rain"), Of("purple")); got >= 1 {
		t.Errorf("Containment(purple rain, purple) = %v, want < 1", got)
	}
	if got := Containment(Set{}, item); got != 0 {
		t.Errorf("Containment(empty, item) = %v, want 0", got)
	}
}

func TestContainmentPrefixQuery(t *testing.T) {
	// A query that is a plain prefix of the name must be fully contained,
	// even without a word boundary at the cut.
	query := QueryOf("abc")
	item := Of("abcdefg")
	if got := Containment(query, item); got != 1 {
		t.Errorf("Containment(abc, abcdefg) = %v, want 1", got)
	}
	if got := Jaccard(query, item); got >= 1 {
		t.Errorf("Jaccard(abc, abcdefg) = %v, want < 1", got)
	}
}
