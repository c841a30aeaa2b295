package blueprint

import (
	"fmt"
	"strings"
)

// Severity of a verification problem. The core only produces errors.
type Severity string

// SeverityError marks a problem that prevents deployment.
const SeverityError Severity = "error"

// Problem is one finding of the verification engine. The set of variants is
// closed and forms the stable contract with callers: two problems are equal
// iff they have the same variant and payload.
type Problem interface {
	Severity() Severity
	Message() string
}

// errorSeverity is embedded by every variant; all core problems are errors.
type errorSeverity struct{}

func (errorSeverity) Severity() Severity { return SeverityError }

// EmptyStreamlets reports a blueprint that uses no streamlets.
type EmptyStreamlets struct{ errorSeverity }

func (EmptyStreamlets) Message() string {
	return "the blueprint does not use any streamlets"
}

// EmptyStreamletDescriptors reports a blueprint with an empty catalog.
type EmptyStreamletDescriptors struct{ errorSeverity }

func (EmptyStreamletDescriptors) Message() string {
	return "no streamlet descriptors have been defined in the blueprint"
}

// InvalidStreamletName reports a ref name outside the allowed character
// class or length.
type InvalidStreamletName struct {
	errorSeverity
	Name string
}

func (p InvalidStreamletName) Message() string {
	return fmt.Sprintf("streamlet name %q is invalid: names must consist of lowercase alphanumeric characters or '-', must start with an alphanumeric character, and must be at most %d characters", p.Name, MaxRefNameLength)
}

// InvalidStreamletClassName reports a malformed streamlet class name. The
// ref name is empty when the problem was found on a descriptor rather than
// on a ref.
type InvalidStreamletClassName struct {
	errorSeverity
	RefName   string
	ClassName string
}

func (p InvalidStreamletClassName) Message() string {
	if p.RefName == "" {
		return fmt.Sprintf("streamlet descriptor class name %q is invalid", p.ClassName)
	}
	return fmt.Sprintf("streamlet %q has invalid class name %q", p.RefName, p.ClassName)
}

// InvalidInletName reports an inlet name outside the port-name rules.
type InvalidInletName struct {
	errorSeverity
	ClassName string
	Name      string
}

func (p InvalidInletName) Message() string {
	return fmt.Sprintf("streamlet %q has invalid inlet name %q", p.ClassName, p.Name)
}

// InvalidOutletName reports an outlet name outside the port-name rules.
type InvalidOutletName struct {
	errorSeverity
	ClassName string
	Name      string
}

func (p InvalidOutletName) Message() string {
	return fmt.Sprintf("streamlet %q has invalid outlet name %q", p.ClassName, p.Name)
}

// StreamletDescriptorNotFound reports a ref whose class name matches no
// descriptor in the catalog.
type StreamletDescriptorNotFound struct {
	errorSeverity
	RefName   string
	ClassName string
}

func (p StreamletDescriptorNotFound) Message() string {
	return fmt.Sprintf("streamlet %q refers to class %q, which is not defined in the blueprint", p.RefName, p.ClassName)
}

// PortPathNotFound reports a connection endpoint that does not resolve to
// a port.
type PortPathNotFound struct {
	errorSeverity
	Path string
}

func (p PortPathNotFound) Message() string {
	return fmt.Sprintf("port path %q does not resolve to a port of a streamlet in the blueprint", p.Path)
}

// AmbiguousOutlet reports a short outlet path on a streamlet with more
// than one outlet.
type AmbiguousOutlet struct {
	errorSeverity
	RefName string
}

func (p AmbiguousOutlet) Message() string {
	return fmt.Sprintf("streamlet %q has more than one outlet: the outlet must be named explicitly", p.RefName)
}

// IllegalConnection reports two or more distinct outlets fanning in to a
// single inlet.
type IllegalConnection struct {
	errorSeverity
	Sources []string
	Target  string
}

func (p IllegalConnection) Message() string {
	return fmt.Sprintf("inlet %q is connected to more than one outlet: %s", p.Target, strings.Join(p.Sources, ", "))
}

// IncompatibleSchema reports a connection between ports whose schemas have
// different fingerprints.
type IncompatibleSchema struct {
	errorSeverity
	From string
	To   string
}

func (p IncompatibleSchema) Message() string {
	return fmt.Sprintf("outlet %q and inlet %q have incompatible schemas", p.From, p.To)
}

// UnconnectedInlet names one inlet without an incoming connection.
type UnconnectedInlet struct {
	RefName string
	Inlet   string
}

// UnconnectedInlets reports every inlet in the blueprint that is not the
// target of a resolved connection.
type UnconnectedInlets struct {
	errorSeverity
	Inlets []UnconnectedInlet
}

func (p UnconnectedInlets) Message() string {
	names := make([]string, len(p.Inlets))
	for i, u := range p.Inlets {
		names[i] = u.RefName + "." + u.Inlet
	}
	return fmt.Sprintf("unconnected inlets: %s", strings.Join(names, ", "))
}

// DuplicateConfigParameterKeyFound reports a config parameter key used more
// than once within one descriptor.
type DuplicateConfigParameterKeyFound struct {
	errorSeverity
	Key string
}

func (p DuplicateConfigParameterKeyFound) Message() string {
	return fmt.Sprintf("config parameter key %q is defined more than once", p.Key)
}

// InvalidValidationPatternConfigParameter reports a validation pattern that
// does not compile.
type InvalidValidationPatternConfigParameter struct {
	errorSeverity
	Key string
}

func (p InvalidValidationPatternConfigParameter) Message() string {
	return fmt.Sprintf("config parameter %q has a validation pattern that does not compile", p.Key)
}

// InvalidDefaultValueInConfigParameter reports a default value that does
// not parse under the parameter's kind.
type InvalidDefaultValueInConfigParameter struct {
	errorSeverity
	Key   string
	Kind  ConfigParameterKind
	Value string
}

func (p InvalidDefaultValueInConfigParameter) Message() string {
	return fmt.Sprintf("config parameter %q has default value %q, which is not a valid %s", p.Key, p.Value, p.Kind)
}

// DuplicateVolumeMountName reports a volume mount name used more than once
// within one descriptor.
type DuplicateVolumeMountName struct {
	errorSeverity
	Name string
}

func (p DuplicateVolumeMountName) Message() string {
	return fmt.Sprintf("volume mount name %q is used more than once", p.Name)
}

// DuplicateVolumeMountPath reports a volume mount path used more than once
// within one descriptor.
type DuplicateVolumeMountPath struct {
	errorSeverity
	Path string
}

func (p DuplicateVolumeMountPath) Message() string {
	return fmt.Sprintf("volume mount path %q is used more than once", p.Path)
}

// InvalidVolumeMountName reports a volume mount name that is not a
// DNS-1123 label of at most 63 characters.
type InvalidVolumeMountName struct {
	errorSeverity
	Name string
}

func (p InvalidVolumeMountName) Message() string {
	return fmt.Sprintf("volume mount name %q is invalid: names must be DNS-1123 labels of at most %d characters", p.Name, MaxVolumeMountNameLength)
}

// EmptyVolumeMountPath reports a volume mount without a path.
type EmptyVolumeMountPath struct {
	errorSeverity
	Name string
}

func (p EmptyVolumeMountPath) Message() string {
	return fmt.Sprintf("volume mount %q has an empty path", p.Name)
}

// NonAbsoluteVolumeMountPath reports a volume mount path that is not
// absolute.
type NonAbsoluteVolumeMountPath struct {
	errorSeverity
	Name string
}

func (p NonAbsoluteVolumeMountPath) Message() string {
	return fmt.Sprintf("volume mount %q must have an absolute path", p.Name)
}

// BacktrackingVolumeMountPath reports a volume mount path containing a
// ".." segment.
type BacktrackingVolumeMountPath struct {
	errorSeverity
	Name string
}

func (p BacktrackingVolumeMountPath) Message() string {
	return fmt.Sprintf("volume mount %q must not contain '..' in its path", p.Name)
}

// InvalidVolumeMountAccessMode reports an unknown access mode.
type InvalidVolumeMountAccessMode struct {
	errorSeverity
	Name string
	Mode string
}

func (p InvalidVolumeMountAccessMode) Message() string {
	return fmt.Sprintf("volume mount %q has unknown access mode %q", p.Name, p.Mode)
}

// InvalidApplicationID reports an application id that normalized to
// nothing.
type InvalidApplicationID struct {
	errorSeverity
	Raw string
}

func (p InvalidApplicationID) Message() string {
	return InvalidApplicationIDError{Raw: p.Raw}.Error()
}

// problemKey is the structural identity used for deduplication: the variant
// plus its rendered payload.
func problemKey(p Problem) string {
	return fmt.Sprintf("%T|%s", p, p.Message())
}

// dedupProblems removes structurally equal problems, keeping first
// occurrences in order.
func dedupProblems(problems []Problem) []Problem {
	seen := make(map[string]struct{}, len(problems))
	out := make([]Problem, 0, len(problems))
	for _, p := range problems {
		k := problemKey(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}
