package blueprint

import "bytes"

// Schema describes the named, fingerprinted data format carried by a port.
// Two schemas are compatible iff their fingerprints are bytewise equal.
type Schema struct {
	Name        string `yaml:"name" json:"name"`
	Fingerprint []byte `yaml:"fingerprint" json:"fingerprint"`
}

// Equals reports whether the two schemas have equal fingerprints.
func (s Schema) Equals(other Schema) bool {
	return bytes.Equal(s.Fingerprint, other.Fingerprint)
}

// Inlet is a typed input port of a streamlet.
type Inlet struct {
	Name   string `yaml:"name" json:"name"`
	Schema Schema `yaml:"schema" json:"schema"`
}

// Outlet is a typed output port of a streamlet.
type Outlet struct {
	Name   string `yaml:"name" json:"name"`
	Schema Schema `yaml:"schema" json:"schema"`
}

// StreamletShape is the ordered set of inlets and outlets of a streamlet.
type StreamletShape struct {
	Inlets  []Inlet  `yaml:"inlets" json:"inlets"`
	Outlets []Outlet `yaml:"outlets" json:"outlets"`
}

// In returns the sole inlet of the shape.
func (s StreamletShape) In() (Inlet, bool) {
	if len(s.Inlets) == 1 {
		return s.Inlets[0], true
	}
	return Inlet{}, false
}

// In0 returns the first inlet of the shape.
func (s StreamletShape) In0() (Inlet, bool) {
	if len(s.Inlets) > 0 {
		return s.Inlets[0], true
	}
	return Inlet{}, false
}

// In1 returns the second inlet of the shape.
func (s StreamletShape) In1() (Inlet, bool) {
	if len(s.Inlets) > 1 {
		return s.Inlets[1], true
	}
	return Inlet{}, false
}

// Out returns the sole outlet of the shape.
func (s StreamletShape) Out() (Outlet, bool) {
	if len(s.Outlets) == 1 {
		return s.Outlets[0], true
	}
	return Outlet{}, false
}

// ConfigParameterKind enumerates the value grammars a config parameter can use.
type ConfigParameterKind string

const (
	KindString     ConfigParameterKind = "string"
	KindInt        ConfigParameterKind = "int"
	KindBool       ConfigParameterKind = "bool"
	KindDouble     ConfigParameterKind = "double"
	KindDuration   ConfigParameterKind = "duration"
	KindMemorySize ConfigParameterKind = "memorysize"
	KindRegexp     ConfigParameterKind = "regexp"
)

// ConfigParameterDescriptor describes a configuration parameter exposed by a
// streamlet. Pattern is an optional validation regex for string parameters;
// DefaultValue, when present, must parse under the parameter's kind.
type ConfigParameterDescriptor struct {
	Key          string              `yaml:"key" json:"key"`
	Description  string              `yaml:"description,omitempty" json:"description,omitempty"`
	Kind         ConfigParameterKind `yaml:"kind" json:"kind"`
	Pattern      string              `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	DefaultValue *string             `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
}

// Volume mount access modes.
const (
	AccessModeReadOnlyMany  = "ReadOnlyMany"
	AccessModeReadWriteMany = "ReadWriteMany"
	AccessModeReadWriteOnce = "ReadWriteOnce"
)

// VolumeMountDescriptor describes a volume a streamlet expects to be mounted
// into its container at an absolute path.
type VolumeMountDescriptor struct {
	Name       string `yaml:"name" json:"name"`
	Path       string `yaml:"path" json:"path"`
	AccessMode string `yaml:"accessMode" json:"accessMode"`
}

// StreamletDescriptor is the immutable description of a streamlet class:
// its fully qualified class name, runtime tag, container image, shape,
// configuration surface, and volume mounts. Server streamlets expose an
// externally addressable endpoint and get a container port assigned when
// the application descriptor is built.
type StreamletDescriptor struct {
	ClassName        string                      `yaml:"className" json:"className"`
	Runtime          string                      `yaml:"runtime" json:"runtime"`
	Image            string                      `yaml:"image" json:"image"`
	Shape            StreamletShape              `yaml:"shape" json:"shape"`
	ConfigParameters []ConfigParameterDescriptor `yaml:"configParameters,omitempty" json:"configParameters,omitempty"`
	VolumeMounts     []VolumeMountDescriptor     `yaml:"volumeMounts,omitempty" json:"volumeMounts,omitempty"`
	Server           bool                        `yaml:"server,omitempty" json:"server,omitempty"`
	Labels           []string                    `yaml:"labels,omitempty" json:"labels,omitempty"`
}
