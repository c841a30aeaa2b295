package blueprint

import (
	"regexp"
	"sort"
	"strings"
)

// Verify runs the verification passes and returns a new blueprint with
// per-ref, per-connection and global problems populated. Verifying an
// already verified blueprint produces the same result.
func (b Blueprint) Verify() Blueprint {
	out := b.clone()
	var global []Problem

	if len(out.Descriptors) == 0 {
		global = append(global, EmptyStreamletDescriptors{})
	}
	if len(out.Streamlets) == 0 {
		global = append(global, EmptyStreamlets{})
	}

	for _, d := range out.Descriptors {
		global = append(global, verifyDescriptor(d)...)
	}

	for i := range out.Streamlets {
		verifyRef(&out.Streamlets[i], out.Descriptors)
	}

	for i := range out.Connections {
		out.resolveConnection(&out.Connections[i])
	}

	global = append(global, out.verifyFanIn()...)
	out.verifySchemas()
	global = append(global, out.verifyUnconnectedInlets()...)

	out.GlobalProblems = dedupProblems(global)
	return out
}

// verifyDescriptor checks a descriptor's class name, port names, config
// parameters and volume mounts.
func verifyDescriptor(d StreamletDescriptor) []Problem {
	var problems []Problem

	if !IsValidClassName(d.ClassName) {
		problems = append(problems, InvalidStreamletClassName{ClassName: d.ClassName})
	}
	for _, in := range d.Shape.Inlets {
		if !IsValidPortName(in.Name) {
			problems = append(problems, InvalidInletName{ClassName: d.ClassName, Name: in.Name})
		}
	}
	for _, o := range d.Shape.Outlets {
		if !IsValidPortName(o.Name) {
			problems = append(problems, InvalidOutletName{ClassName: d.ClassName, Name: o.Name})
		}
	}

	problems = append(problems, verifyConfigParameters(d.ConfigParameters)...)
	problems = append(problems, verifyVolumeMounts(d.VolumeMounts)...)
	return problems
}

// verifyConfigParameters checks key uniqueness, validation patterns and
// default values within one descriptor.
func verifyConfigParameters(params []ConfigParameterDescriptor) []Problem {
	var problems []Problem
	seen := make(map[string]struct{}, len(params))

	for _, p := range params {
		if _, dup := seen[p.Key]; dup {
			problems = append(problems, DuplicateConfigParameterKeyFound{Key: p.Key})
			continue
		}
		seen[p.Key] = struct{}{}

		var pattern *regexp.Regexp
		if p.Pattern != "" {
			compiled, err := regexp.Compile(p.Pattern)
			if err != nil {
				problems = append(problems, InvalidValidationPatternConfigParameter{Key: p.Key})
				continue
			}
			pattern = compiled
		}

		if p.DefaultValue != nil {
			if err := validateDefaultValue(p.Kind, *p.DefaultValue, pattern); err != nil {
				problems = append(problems, InvalidDefaultValueInConfigParameter{
					Key:   p.Key,
					Kind:  p.Kind,
					Value: *p.DefaultValue,
				})
			}
		}
	}
	return problems
}

// verifyVolumeMounts checks name and path rules within one descriptor.
func verifyVolumeMounts(mounts []VolumeMountDescriptor) []Problem {
	var problems []Problem
	names := make(map[string]struct{}, len(mounts))
	paths := make(map[string]struct{}, len(mounts))

	for _, m := range mounts {
		if _, dup := names[m.Name]; dup {
			problems = append(problems, DuplicateVolumeMountName{Name: m.Name})
		}
		names[m.Name] = struct{}{}

		if m.Path != "" {
			if _, dup := paths[m.Path]; dup {
				problems = append(problems, DuplicateVolumeMountPath{Path: m.Path})
			}
			paths[m.Path] = struct{}{}
		}

		if !IsValidVolumeMountName(m.Name) {
			problems = append(problems, InvalidVolumeMountName{Name: m.Name})
		}

		switch {
		case m.Path == "":
			problems = append(problems, EmptyVolumeMountPath{Name: m.Name})
		case !strings.HasPrefix(m.Path, "/"):
			problems = append(problems, NonAbsoluteVolumeMountPath{Name: m.Name})
		case containsBacktrack(m.Path):
			problems = append(problems, BacktrackingVolumeMountPath{Name: m.Name})
		}

		switch m.AccessMode {
		case AccessModeReadOnlyMany, AccessModeReadWriteMany, AccessModeReadWriteOnce:
		default:
			problems = append(problems, InvalidVolumeMountAccessMode{Name: m.Name, Mode: m.AccessMode})
		}
	}
	return problems
}

func containsBacktrack(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// verifyRef validates the ref's name and resolves its class against the
// catalog, attaching the verified streamlet on success.
func verifyRef(ref *StreamletRef, catalog []StreamletDescriptor) {
	ref.Problems = nil
	ref.Verified = nil

	if !IsValidRefName(ref.Name) {
		ref.Problems = append(ref.Problems, InvalidStreamletName{Name: ref.Name})
	}
	if !IsValidClassName(ref.ClassName) {
		ref.Problems = append(ref.Problems, InvalidStreamletClassName{RefName: ref.Name, ClassName: ref.ClassName})
		return
	}

	for _, d := range catalog {
		if d.ClassName == ref.ClassName {
			ref.Verified = &VerifiedStreamlet{Name: ref.Name, Descriptor: d}
			return
		}
	}
	ref.Problems = append(ref.Problems, StreamletDescriptorNotFound{RefName: ref.Name, ClassName: ref.ClassName})
}

// resolveConnection resolves both endpoints of a connection, recording
// problems on the connection and the resolved qualified paths on success.
func (b *Blueprint) resolveConnection(conn *StreamletConnection) {
	conn.Problems = nil
	conn.resolved = false

	from, fromProblems := b.resolveOutletPath(conn.From)
	to, toProblems := b.resolveInletPath(conn.To)
	conn.Problems = append(conn.Problems, fromProblems...)
	conn.Problems = append(conn.Problems, toProblems...)

	if len(conn.Problems) == 0 {
		conn.resolvedFrom = from
		conn.resolvedTo = to
		conn.resolved = true
	}
}

// resolveOutletPath resolves the from side of a connection to a qualified
// outlet path. A short path resolves only on a streamlet with exactly one
// outlet; more than one outlet is ambiguous.
func (b *Blueprint) resolveOutletPath(raw string) (PortPath, []Problem) {
	p, ok := parsePortPath(raw)
	if !ok {
		return PortPath{}, []Problem{PortPathNotFound{Path: raw}}
	}
	ref := b.findRef(p.RefName)
	if ref == nil || ref.Verified == nil {
		return PortPath{}, []Problem{PortPathNotFound{Path: raw}}
	}
	shape := ref.Verified.Descriptor.Shape

	if !p.Qualified() || p.PortName == "out" {
		switch len(shape.Outlets) {
		case 0:
			return PortPath{}, []Problem{PortPathNotFound{Path: raw}}
		case 1:
			return PortPath{RefName: p.RefName, PortName: shape.Outlets[0].Name}, nil
		default:
			if out, found := resolveOutlet(shape, p.PortName); found && p.Qualified() {
				// "out" names a declared outlet on this shape.
				return PortPath{RefName: p.RefName, PortName: out.Name}, nil
			}
			return PortPath{}, []Problem{AmbiguousOutlet{RefName: p.RefName}}
		}
	}

	out, found := resolveOutlet(shape, p.PortName)
	if !found {
		return PortPath{}, []Problem{PortPathNotFound{Path: raw}}
	}
	return PortPath{RefName: p.RefName, PortName: out.Name}, nil
}

// resolveInletPath resolves the to side of a connection to a qualified
// inlet path. A short path resolves only on a streamlet with exactly one
// inlet.
func (b *Blueprint) resolveInletPath(raw string) (PortPath, []Problem) {
	p, ok := parsePortPath(raw)
	if !ok {
		return PortPath{}, []Problem{PortPathNotFound{Path: raw}}
	}
	ref := b.findRef(p.RefName)
	if ref == nil || ref.Verified == nil {
		return PortPath{}, []Problem{PortPathNotFound{Path: raw}}
	}

	in, found := resolveInlet(ref.Verified.Descriptor.Shape, p.PortName)
	if !found {
		return PortPath{}, []Problem{PortPathNotFound{Path: raw}}
	}
	return PortPath{RefName: p.RefName, PortName: in.Name}, nil
}

// verifyFanIn reports every inlet that is connected to more than one
// distinct outlet, once per inlet.
func (b *Blueprint) verifyFanIn() []Problem {
	sources := make(map[string]map[string]struct{})
	for _, conn := range b.Connections {
		if !conn.resolved {
			continue
		}
		target := conn.resolvedTo.String()
		if sources[target] == nil {
			sources[target] = make(map[string]struct{})
		}
		sources[target][conn.resolvedFrom.String()] = struct{}{}
	}

	targets := make([]string, 0, len(sources))
	for target := range sources {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	var problems []Problem
	for _, target := range targets {
		if len(sources[target]) < 2 {
			continue
		}
		froms := make([]string, 0, len(sources[target]))
		for from := range sources[target] {
			froms = append(froms, from)
		}
		sort.Strings(froms)
		problems = append(problems, IllegalConnection{Sources: froms, Target: target})
	}
	return problems
}

// verifySchemas checks fingerprint equality for every resolved connection.
func (b *Blueprint) verifySchemas() {
	for i := range b.Connections {
		conn := &b.Connections[i]
		if !conn.resolved {
			continue
		}
		fromRef := b.findRef(conn.resolvedFrom.RefName)
		toRef := b.findRef(conn.resolvedTo.RefName)
		outSchema, okFrom := outletSchema(fromRef, conn.resolvedFrom.PortName)
		inSchema, okTo := inletSchema(toRef, conn.resolvedTo.PortName)
		if !okFrom || !okTo {
			continue
		}
		if !outSchema.Equals(inSchema) {
			conn.Problems = append(conn.Problems, IncompatibleSchema{
				From: conn.resolvedFrom.String(),
				To:   conn.resolvedTo.String(),
			})
		}
	}
}

func outletSchema(ref *StreamletRef, portName string) (Schema, bool) {
	if ref == nil || ref.Verified == nil {
		return Schema{}, false
	}
	for _, o := range ref.Verified.Descriptor.Shape.Outlets {
		if o.Name == portName {
			return o.Schema, true
		}
	}
	return Schema{}, false
}

func inletSchema(ref *StreamletRef, portName string) (Schema, bool) {
	if ref == nil || ref.Verified == nil {
		return Schema{}, false
	}
	for _, in := range ref.Verified.Descriptor.Shape.Inlets {
		if in.Name == portName {
			return in.Schema, true
		}
	}
	return Schema{}, false
}

// verifyUnconnectedInlets reports every inlet of a resolved ref that no
// resolved connection targets. Inlets already covered by an illegal
// connection or a schema mismatch have a resolved connection targeting
// them and are therefore not reported again.
func (b *Blueprint) verifyUnconnectedInlets() []Problem {
	connected := make(map[string]struct{})
	for _, conn := range b.Connections {
		if conn.resolved {
			connected[conn.resolvedTo.String()] = struct{}{}
		}
	}

	var unconnected []UnconnectedInlet
	for _, ref := range b.Streamlets {
		if ref.Verified == nil {
			continue
		}
		for _, in := range ref.Verified.Descriptor.Shape.Inlets {
			target := PortPath{RefName: ref.Name, PortName: in.Name}.String()
			if _, ok := connected[target]; !ok {
				unconnected = append(unconnected, UnconnectedInlet{RefName: ref.Name, Inlet: in.Name})
			}
		}
	}
	if len(unconnected) == 0 {
		return nil
	}
	sort.Slice(unconnected, func(i, j int) bool {
		if unconnected[i].RefName != unconnected[j].RefName {
			return unconnected[i].RefName < unconnected[j].RefName
		}
		return unconnected[i].Inlet < unconnected[j].Inlet
	})
	return []Problem{UnconnectedInlets{Inlets: unconnected}}
}
