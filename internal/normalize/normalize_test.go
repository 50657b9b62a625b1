package normalize

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Prince", "prince"},
		{"  The   Beatles ", "the beatles"},
		{"Beyoncé", "beyonce"},
		{"Sigur Rós", "sigur ros"},
		{"MOTÖRHEAD", "motorhead"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Name(tt.in); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNameIdempotent(t *testing.T) {
	for _, s := range []string{"Café Tacvba", "AC/DC", "múm"} {
		once := Name(s)
		if twice := Name(once); twice != once {
			t.Errorf("Name not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}
