package blueprint

// StreamletRef is a named use of a streamlet class within a blueprint.
// Problems and Verified are derived state populated by Verify.
type StreamletRef struct {
	Name      string
	ClassName string
	Metadata  ConfigTree
	Problems  []Problem
	Verified  *VerifiedStreamlet
}

// VerifiedStreamlet pairs a ref name with its resolved descriptor.
type VerifiedStreamlet struct {
	Name       string
	Descriptor StreamletDescriptor
}

// StreamletConnection is an edge from an outlet to an inlet, declared with
// raw (short or qualified) port paths.
type StreamletConnection struct {
	From     string
	To       string
	Metadata ConfigTree
	Problems []Problem

	resolvedFrom PortPath
	resolvedTo   PortPath
	resolved     bool
}

// VerifiedConnection is a connection with both endpoints fully resolved to
// qualified port paths.
type VerifiedConnection struct {
	From PortPath
	To   PortPath
}

// VerifiedBlueprint is a blueprint whose aggregate problem list is empty:
// every ref carries its resolved descriptor and every connection both of
// its resolved endpoints.
type VerifiedBlueprint struct {
	Streamlets  []VerifiedStreamlet
	Connections []VerifiedConnection
}

// Blueprint is the user-authored declaration of streamlets and
// connections, validated against a catalog of streamlet descriptors. It is
// a value: every edit operation returns a new blueprint and never reports
// errors directly, structural mistakes surface as problems in Verify.
type Blueprint struct {
	Streamlets     []StreamletRef
	Connections    []StreamletConnection
	Descriptors    []StreamletDescriptor
	GlobalProblems []Problem
}

// clone copies the blueprint's slices so edits never alias prior values.
func (b Blueprint) clone() Blueprint {
	out := Blueprint{
		Streamlets:     append([]StreamletRef(nil), b.Streamlets...),
		Connections:    append([]StreamletConnection(nil), b.Connections...),
		Descriptors:    append([]StreamletDescriptor(nil), b.Descriptors...),
		GlobalProblems: append([]Problem(nil), b.GlobalProblems...),
	}
	return out
}

func (b Blueprint) findRef(name string) *StreamletRef {
	for i := range b.Streamlets {
		if b.Streamlets[i].Name == name {
			return &b.Streamlets[i]
		}
	}
	return nil
}

func (b Blueprint) findDescriptor(className string) (StreamletDescriptor, bool) {
	for _, d := range b.Descriptors {
		if d.ClassName == className {
			return d, true
		}
	}
	return StreamletDescriptor{}, false
}

// Define replaces the streamlet descriptor catalog.
func (b Blueprint) Define(descriptors []StreamletDescriptor) Blueprint {
	out := b.clone()
	out.Descriptors = append([]StreamletDescriptor(nil), descriptors...)
	return out
}

// Use appends a streamlet ref. A ref with the same name is replaced in
// place, preserving list order.
func (b Blueprint) Use(ref StreamletRef) Blueprint {
	out := b.clone()
	ref.Problems = nil
	ref.Verified = nil
	for i := range out.Streamlets {
		if out.Streamlets[i].Name == ref.Name {
			out.Streamlets[i] = ref
			return out
		}
	}
	out.Streamlets = append(out.Streamlets, ref)
	return out
}

// UpsertStreamletRef inserts or updates the ref called name. An empty
// className and nil metadata mean "absent": inserting without a class name
// is a no-op, and updating with both absent returns the blueprint
// unchanged. Absent fields of an existing ref are preserved.
func (b Blueprint) UpsertStreamletRef(name, className string, metadata ConfigTree) Blueprint {
	existing := b.findRef(name)
	if existing == nil {
		if className == "" {
			return b
		}
		return b.Use(StreamletRef{Name: name, ClassName: className, Metadata: metadata})
	}
	if className == "" && metadata == nil {
		return b
	}
	updated := *existing
	if className != "" {
		updated.ClassName = className
	}
	if metadata != nil {
		updated.Metadata = metadata
	}
	return b.Use(updated)
}

// Remove drops the ref called name together with every connection that
// references it on either side.
func (b Blueprint) Remove(name string) Blueprint {
	out := b.clone()

	refs := out.Streamlets[:0:0]
	for _, ref := range out.Streamlets {
		if ref.Name != name {
			refs = append(refs, ref)
		}
	}
	out.Streamlets = refs

	conns := out.Connections[:0:0]
	for _, conn := range out.Connections {
		if pathRefName(conn.From) == name || pathRefName(conn.To) == name {
			continue
		}
		conns = append(conns, conn)
	}
	out.Connections = conns
	return out
}

// pathRefName extracts the ref name of a raw port path; malformed paths
// reference nothing.
func pathRefName(raw string) string {
	p, ok := parsePortPath(raw)
	if !ok {
		return ""
	}
	return p.RefName
}

// Connect records a connection from an outlet path to an inlet path. Paths
// may be short or qualified. A connection whose endpoints normalize to the
// same resolved pair as an existing one is not added again.
func (b Blueprint) Connect(from, to string, metadata ...ConfigTree) Blueprint {
	newKey := b.normalizePath(from, false) + "->" + b.normalizePath(to, true)
	for _, conn := range b.Connections {
		key := b.normalizePath(conn.From, false) + "->" + b.normalizePath(conn.To, true)
		if key == newKey {
			return b
		}
	}

	conn := StreamletConnection{From: from, To: to}
	if len(metadata) > 0 {
		conn.Metadata = metadata[0]
	}
	out := b.clone()
	out.Connections = append(out.Connections, conn)
	return out
}

// Disconnect removes every connection whose from or to side matches path
// under normalization. A path that matches nothing is a no-op.
func (b Blueprint) Disconnect(path string) Blueprint {
	asOutlet := b.normalizePath(path, false)
	asInlet := b.normalizePath(path, true)

	out := b.clone()
	conns := out.Connections[:0:0]
	for _, conn := range out.Connections {
		if b.normalizePath(conn.From, false) == asOutlet || b.normalizePath(conn.To, true) == asInlet {
			continue
		}
		conns = append(conns, conn)
	}
	out.Connections = conns
	return out
}

// normalizePath resolves a raw path to its canonical qualified form as far
// as the current catalog allows: positional and short names become declared
// port names. Paths that cannot be resolved normalize to themselves.
func (b Blueprint) normalizePath(raw string, inletSide bool) string {
	p, ok := parsePortPath(raw)
	if !ok {
		return raw
	}
	ref := b.findRef(p.RefName)
	if ref == nil {
		return p.String()
	}
	d, found := b.findDescriptor(ref.ClassName)
	if !found {
		return p.String()
	}
	if inletSide {
		if in, ok := resolveInlet(d.Shape, p.PortName); ok {
			return PortPath{RefName: p.RefName, PortName: in.Name}.String()
		}
	} else {
		if out, ok := resolveOutlet(d.Shape, p.PortName); ok {
			return PortPath{RefName: p.RefName, PortName: out.Name}.String()
		}
	}
	return p.String()
}

// Problems returns the aggregate, deduplicated problem list: global
// problems plus every per-ref and per-connection problem.
func (b Blueprint) Problems() []Problem {
	var all []Problem
	all = append(all, b.GlobalProblems...)
	for _, ref := range b.Streamlets {
		all = append(all, ref.Problems...)
	}
	for _, conn := range b.Connections {
		all = append(all, conn.Problems...)
	}
	return dedupProblems(all)
}

// Verified verifies the blueprint and returns its verified form, or the
// aggregate problem list when verification found anything.
func (b Blueprint) Verified() (*VerifiedBlueprint, []Problem) {
	v := b.Verify()
	if problems := v.Problems(); len(problems) > 0 {
		return nil, problems
	}

	vb := &VerifiedBlueprint{}
	for _, ref := range v.Streamlets {
		vb.Streamlets = append(vb.Streamlets, *ref.Verified)
	}
	for _, conn := range v.Connections {
		vb.Connections = append(vb.Connections, VerifiedConnection{
			From: conn.resolvedFrom,
			To:   conn.resolvedTo,
		})
	}
	return vb, nil
}
