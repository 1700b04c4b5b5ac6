package champion

import "testing"

func TestCanonical(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Wukong", "MonkeyKing"},
		{"wukong", "MonkeyKing"},
		{"MonkeyKing", "MonkeyKing"},
		{"Kai'Sa", "Kaisa"},
		{"Dr. Mundo", "DrMundo"},
		{"  Jinx ", "Jinx"},
		{"Briar", "Briar"}, // unknown names pass through
	}
	for _, c := range cases {
		if got := Canonical(c.in); got != c.want {
			t.Errorf("Canonical(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestVariants(t *testing.T) {
	vs := Variants("Wukong")
	if len(vs) == 0 || vs[0] != "MonkeyKing" {
		t.Fatalf("Variants(Wukong) = %v, want canonical form first", vs)
	}
	found := false
	for _, v := range vs {
		if v == "wukong" {
			found = true
		}
	}
	if !found {
		t.Errorf("Variants(Wukong) = %v, want the alias spelling included", vs)
	}

	// No aliases: just the name itself.
	if vs := Variants("Jinx"); len(vs) != 1 || vs[0] != "Jinx" {
		t.Errorf("Variants(Jinx) = %v, want [Jinx]", vs)
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Wukong", "monkeyking") {
		t.Error("Equal(Wukong, monkeyking) = false")
	}
	if Equal("Jinx", "Caitlyn") {
		t.Error("Equal(Jinx, Caitlyn) = true")
	}
}
