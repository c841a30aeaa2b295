package descriptor

import "github.com/streamforge/bpctl/internal/blueprint"

// Constants of the descriptor contract with the downstream operator.
const (
	// MinimumEndpointContainerPort is the base container port for server
	// streamlets; the n-th streamlet ref in the blueprint gets base+n.
	MinimumEndpointContainerPort = 3000

	// DescriptorVersion is the version of the descriptor format itself.
	DescriptorVersion = 1

	// ServerContainerPortKey is the config path under which a server
	// deployment's assigned container port is published to the runtime.
	ServerContainerPortKey = "cloudflow.internal.server.container-port"

	// AgentPrometheus is the conventional agent-path key for the
	// Prometheus JVM agent jar.
	AgentPrometheus = "prometheus"
)

// Savepoint is the canonical name of the durable channel between an
// upstream outlet and all inlets connected to it. It always names the
// outlet side.
type Savepoint struct {
	AppID            string `yaml:"appId" json:"appId"`
	StreamletRefName string `yaml:"streamletRefName" json:"streamletRefName"`
	OutletName       string `yaml:"outletName" json:"outletName"`
}

// Endpoint is the externally addressable port of a server streamlet.
type Endpoint struct {
	AppID            string `yaml:"appId" json:"appId"`
	StreamletRefName string `yaml:"streamletRefName" json:"streamletRefName"`
	ContainerPort    int    `yaml:"containerPort" json:"containerPort"`
}

// Streamlet is a verified streamlet instance carried in the descriptor.
type Streamlet struct {
	Name       string                        `yaml:"name" json:"name"`
	Descriptor blueprint.StreamletDescriptor `yaml:"descriptor" json:"descriptor"`
}

// Connection documents a verified blueprint connection. Orchestrators
// derive topics from savepoints alone; this list is advisory.
type Connection struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// StreamletDeployment is the deployable plan for one streamlet ref.
type StreamletDeployment struct {
	Name          string                            `yaml:"name" json:"name"`
	Runtime       string                            `yaml:"runtime" json:"runtime"`
	Image         string                            `yaml:"image" json:"image"`
	ClassName     string                            `yaml:"className" json:"className"`
	StreamletName string                            `yaml:"streamletName" json:"streamletName"`
	Endpoint      *Endpoint                         `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	SecretName    string                            `yaml:"secretName" json:"secretName"`
	Config        blueprint.ConfigTree              `yaml:"config" json:"config"`
	PortMappings  map[string]Savepoint              `yaml:"portMappings" json:"portMappings"`
	VolumeMounts  []blueprint.VolumeMountDescriptor `yaml:"volumeMounts,omitempty" json:"volumeMounts,omitempty"`
	Replicas      *int                              `yaml:"replicas,omitempty" json:"replicas,omitempty"`
}

// ApplicationDescriptor is the deployable lowering of a verified
// blueprint. Field names are stable and form the contract with the
// downstream operator.
type ApplicationDescriptor struct {
	AppID       string                `yaml:"appId" json:"appId"`
	AppVersion  string                `yaml:"appVersion" json:"appVersion"`
	Streamlets  []Streamlet           `yaml:"streamlets" json:"streamlets"`
	Connections []Connection          `yaml:"connections" json:"connections"`
	Deployments []StreamletDeployment `yaml:"deployments" json:"deployments"`
	AgentPaths  map[string]string     `yaml:"agentPaths" json:"agentPaths"`
	Version     int                   `yaml:"version" json:"version"`
}
