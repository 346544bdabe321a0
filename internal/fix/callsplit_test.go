package fix

import (
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
		ok   bool
	}{
		{"", nil, true},
		{"   ", nil, true},
		{"list", []string{"list"}, true},
		{"a, b,c", []string{"a", "b", "c"}, true},
		{"f(x, y), g", []string{"f(x, y)", "g"}, true},
		{"[1, 2], {a = 1; b = 2}", []string{"[1, 2]", "{a = 1; b = 2}"}, true},
		{`"a,b", c`, []string{`"a,b"`, "c"}, true},
		{`"esc\",aped", c`, []string{`"esc\",aped"`, "c"}, true},
		{"',', x", []string{"','", "x"}, true},
		{"a /* x, y */, b", []string{"a /* x, y */", "b"}, true},
		{"a, // c, d\n b", []string{"a", "// c, d\n b"}, true},
		{"a)(b", nil, false},
		{"(a", nil, false},
	}
	for _, tt := range tests {
		got, ok := splitArgs(tt.in)
		if ok != tt.ok {
			t.Errorf("splitArgs(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseCall(t *testing.T) {
	c, ok := parseCall("  List.sortInPlace(list, Nat.compare) ")
	if !ok {
		t.Fatal("expected a call")
	}
	if c.Callee != "List.sortInPlace" || c.Name() != "sortInPlace" {
		t.Fatalf("callee = %q name = %q", c.Callee, c.Name())
	}
	if !reflect.DeepEqual(c.Args, []string{"list", "Nat.compare"}) {
		t.Fatalf("args = %q", c.Args)
	}

	if c, ok := parseCall("size(xs)"); !ok || c.Name() != "size" {
		t.Fatalf("undotted callee: %+v %v", c, ok)
	}
	for _, bad := range []string{"xs", "f(a)(b)", "(f)(a)", "f(a) + 1"} {
		if _, ok := parseCall(bad); ok {
			t.Errorf("parseCall(%q) should fail", bad)
		}
	}
}

func TestSimpleReceiver(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"list", true},
		{"self.items", true},
		{"List.empty()", true},
		{"f(x, y)", true},
		{"xs[0]", true},
		{`"a b"`, true},
		{"42", true},
		{"a + b", false},
		{"-x", false},
		{"x : Nat", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := simpleReceiver(tt.expr); got != tt.want {
			t.Errorf("simpleReceiver(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}
