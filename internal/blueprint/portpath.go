package blueprint

import "strings"

// PortPath identifies one side of a connection. A short path names only a
// streamlet ref and is resolved against the ref's shape during
// verification; a qualified path names a specific port on the ref.
type PortPath struct {
	RefName  string
	PortName string
}

// Qualified reports whether the path names a specific port.
func (p PortPath) Qualified() bool {
	return p.PortName != ""
}

// String renders the path in its canonical "ref" or "ref.port" form.
func (p PortPath) String() string {
	if p.PortName == "" {
		return p.RefName
	}
	return p.RefName + "." + p.PortName
}

// parsePortPath splits a raw path string into a PortPath. A single segment
// is a short path; two non-empty dot-separated segments are a qualified
// path. Anything else does not parse.
func parsePortPath(raw string) (PortPath, bool) {
	parts := strings.Split(raw, ".")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return PortPath{}, false
		}
		return PortPath{RefName: parts[0]}, true
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return PortPath{}, false
		}
		return PortPath{RefName: parts[0], PortName: parts[1]}, true
	default:
		return PortPath{}, false
	}
}

// resolveInlet finds the inlet a (possibly positional) port name refers to
// within a shape. An empty name is the short form and resolves only when
// the shape has exactly one inlet. Declared names win over the positional
// aliases "in", "in0" and "in1".
func resolveInlet(shape StreamletShape, portName string) (Inlet, bool) {
	if portName == "" {
		return shape.In()
	}
	for _, in := range shape.Inlets {
		if in.Name == portName {
			return in, true
		}
	}
	switch portName {
	case "in":
		return shape.In()
	case "in0":
		return shape.In0()
	case "in1":
		return shape.In1()
	}
	return Inlet{}, false
}

// resolveOutlet finds the outlet a port name refers to within a shape. An
// empty name is the short form; it and the positional alias "out" resolve
// only when the shape has exactly one outlet.
func resolveOutlet(shape StreamletShape, portName string) (Outlet, bool) {
	if portName == "" {
		return shape.Out()
	}
	for _, out := range shape.Outlets {
		if out.Name == portName {
			return out, true
		}
	}
	if portName == "out" {
		return shape.Out()
	}
	return Outlet{}, false
}
