package searchkey

import (
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a001 连衣裙", "A001连衣裙"},
		{"Café-Nr.9", "CAFENR9"},
		{"  b2/X ", "B2X"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Build(c.in); got != c.want {
			t.Errorf("Build(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildContainsLookup(t *testing.T) {
	key := Build("A001连衣裙")
	for _, needle := range []string{"a001", "连衣裙", "001连"} {
		if !strings.Contains(key, Build(needle)) {
			t.Errorf("key %q should contain %q", key, needle)
		}
	}
}
