package descriptor

import (
	"fmt"
	"strings"

	"github.com/streamforge/bpctl/internal/blueprint"
)

// InvalidBlueprintError is returned when the builder is invoked with a
// blueprint that did not verify. This is a programming error on the caller
// side, not a verification problem.
type InvalidBlueprintError struct {
	Problems []blueprint.Problem
}

func (e InvalidBlueprintError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid blueprint"
	}
	messages := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		messages[i] = p.Message()
	}
	return fmt.Sprintf("invalid blueprint: %s", strings.Join(messages, "; "))
}

// Build lowers a verified blueprint into an application descriptor. The
// result is a deterministic function of its four inputs: stable names,
// savepoint mappings, endpoint container ports, and secret names all
// derive from the blueprint's declared order.
func Build(appID, appVersion string, verified *blueprint.VerifiedBlueprint, agentPaths map[string]string) (*ApplicationDescriptor, error) {
	if verified == nil || len(verified.Streamlets) == 0 {
		return nil, InvalidBlueprintError{}
	}

	normalizedID, err := blueprint.NormalizeAppID(appID)
	if err != nil {
		return nil, err
	}

	streamlets := make([]Streamlet, 0, len(verified.Streamlets))
	deployments := make([]StreamletDeployment, 0, len(verified.Streamlets))

	for index, s := range verified.Streamlets {
		streamlets = append(streamlets, Streamlet{Name: s.Name, Descriptor: s.Descriptor})
		deployments = append(deployments, buildDeployment(normalizedID, index, s, verified.Connections))
	}

	connections := make([]Connection, 0, len(verified.Connections))
	for _, c := range verified.Connections {
		connections = append(connections, Connection{From: c.From.String(), To: c.To.String()})
	}

	paths := make(map[string]string, len(agentPaths))
	for name, path := range agentPaths {
		paths[name] = path
	}

	return &ApplicationDescriptor{
		AppID:       normalizedID,
		AppVersion:  appVersion,
		Streamlets:  streamlets,
		Connections: connections,
		Deployments: deployments,
		AgentPaths:  paths,
		Version:     DescriptorVersion,
	}, nil
}

// BuildFromBlueprint verifies the blueprint and builds its descriptor,
// failing with InvalidBlueprintError when verification finds problems.
func BuildFromBlueprint(appID, appVersion string, b blueprint.Blueprint, agentPaths map[string]string) (*ApplicationDescriptor, error) {
	verified, problems := b.Verified()
	if len(problems) > 0 {
		return nil, InvalidBlueprintError{Problems: problems}
	}
	return Build(appID, appVersion, verified, agentPaths)
}

// buildDeployment assembles the deployment record for the streamlet ref at
// the given blueprint-declared index.
func buildDeployment(appID string, index int, s blueprint.VerifiedStreamlet, connections []blueprint.VerifiedConnection) StreamletDeployment {
	d := s.Descriptor

	portMappings := make(map[string]Savepoint, len(d.Shape.Inlets)+len(d.Shape.Outlets))
	for _, outlet := range d.Shape.Outlets {
		portMappings[outlet.Name] = Savepoint{
			AppID:            appID,
			StreamletRefName: s.Name,
			OutletName:       outlet.Name,
		}
	}
	for _, c := range connections {
		if c.To.RefName != s.Name {
			continue
		}
		portMappings[c.To.PortName] = Savepoint{
			AppID:            appID,
			StreamletRefName: c.From.RefName,
			OutletName:       c.From.PortName,
		}
	}

	config := blueprint.ConfigTree{}
	var endpoint *Endpoint
	if d.Server {
		port := MinimumEndpointContainerPort + index
		endpoint = &Endpoint{
			AppID:            appID,
			StreamletRefName: s.Name,
			ContainerPort:    port,
		}
		config.Set(ServerContainerPortKey, port)
	}

	return StreamletDeployment{
		Name:          appID + "." + s.Name,
		Runtime:       d.Runtime,
		Image:         d.Image,
		ClassName:     d.ClassName,
		StreamletName: s.Name,
		Endpoint:      endpoint,
		SecretName:    blueprint.SecretName(s.Name),
		Config:        config,
		PortMappings:  portMappings,
		VolumeMounts:  append([]blueprint.VolumeMountDescriptor(nil), d.VolumeMounts...),
	}
}
