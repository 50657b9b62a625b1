package editdist

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"hello", "hello", 0},
		{"hello", "hallo", 1},
		{"hello", "jello", 1},
		{"hello", "hell", 1},
		{"hello", "helloo", 1},
		{"kitten", "sitting", 3},
		{"", "hello", 5},
		{"hello", "", 5},
		{"", "", 0},
		{"beatles", "beatels", 2},
		{"metallica", "metalica", 1},
		// rune-aware, not byte-aware
		{"björk", "bjork", 1},
		{"日本語", "日本", 1},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalizedProperties(t *testing.T) {
	strs := []string{"", "a", "prince", "purple rain", "日本語のタイトル", "motörhead"}
	for _, a := range strs {
		if got := Normalized(a, a); got != 0 {
			t.Errorf("Normalized(%q, %q) = %v, want 0", a, a, got)
		}
		for _, b := range strs {
			ab := Normalized(a, b)
			ba := Normalized(b, a)
			if ab != ba {
				t.Errorf("Normalized not symmetric for (%q, %q): %v != %v", a, b, ab, ba)
			}
			if ab < 0 || ab > 1 {
				t.Errorf("Normalized(%q, %q) = %v outside [0,1]", a, b, ab)
			}
		}
	}
}

func TestNormalizedEmptyPair(t *testing.T) {
	if got := Normalized("", ""); got != 0 {
		t.Errorf("Normalized(\"\", \"\") = %v, want 0", got)
	}
}
