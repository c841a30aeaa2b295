package blueprint

import "testing"

func TestParsePortPath(t *testing.T) {
	tests := []struct {
		raw  string
		want PortPath
		ok   bool
	}{
		{"ingress", PortPath{RefName: "ingress"}, true},
		{"ingress.out", PortPath{RefName: "ingress", PortName: "out"}, true},
		{"merge.in-0", PortPath{RefName: "merge", PortName: "in-0"}, true},
		{"", PortPath{}, false},
		{".out", PortPath{}, false},
		{"ingress.", PortPath{}, false},
		{"a.b.c", PortPath{}, false},
	}
	for _, tt := range tests {
		got, ok := parsePortPath(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parsePortPath(%q) = %+v, %v; want %+v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPortPathString(t *testing.T) {
	if got := (PortPath{RefName: "ingress"}).String(); got != "ingress" {
		t.Errorf("short path String() = %q", got)
	}
	if got := (PortPath{RefName: "ingress", PortName: "out"}).String(); got != "ingress.out" {
		t.Errorf("qualified path String() = %q", got)
	}
}

func TestResolveInletPrefersDeclaredNames(t *testing.T) {
	shape := StreamletShape{
		Inlets: []Inlet{
			{Name: "in", Schema: fooSchema},
			{Name: "in0", Schema: barSchema},
		},
	}
	in, ok := resolveInlet(shape, "in")
	if !ok || in.Name != "in" {
		t.Fatalf("declared name must win over the positional alias, got %+v", in)
	}
	in, ok = resolveInlet(shape, "in0")
	if !ok || in.Name != "in0" {
		t.Fatalf("declared name must win over the positional alias, got %+v", in)
	}
	if in, ok := resolveInlet(shape, "in1"); !ok || in.Name != "in0" {
		t.Fatalf("in1 must fall back to the second declared inlet, got %+v, %v", in, ok)
	}
}
