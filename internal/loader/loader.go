package loader

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/streamforge/bpctl/internal/blueprint"
	"github.com/streamforge/bpctl/internal/utils/logger"
)

// Expected document header for blueprint files.
const (
	APIVersion    = "bpctl.dev/v1"
	KindBlueprint = "Blueprint"
)

// Document is the on-disk YAML form of a blueprint.
type Document struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
}

// Metadata carries the document name and free-form labels.
type Metadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// Spec declares the streamlet refs and connections of the blueprint.
type Spec struct {
	Streamlets  []StreamletRef `yaml:"streamlets"`
	Connections []Connection   `yaml:"connections,omitempty"`
}

// StreamletRef declares one named use of a streamlet class.
type StreamletRef struct {
	Name      string               `yaml:"name"`
	ClassName string               `yaml:"className"`
	Metadata  blueprint.ConfigTree `yaml:"metadata,omitempty"`
}

// Connection declares an edge between two port paths.
type Connection struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ParseBlueprint decodes a blueprint document and assembles a Blueprint
// against the given descriptor catalog. Unknown YAML keys are ignored;
// missing required header fields are rejected here, before the core sees
// the document.
func ParseBlueprint(data []byte, catalog []blueprint.StreamletDescriptor) (blueprint.Blueprint, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return blueprint.Blueprint{}, fmt.Errorf("failed to parse blueprint YAML: %w", err)
	}

	if doc.APIVersion != APIVersion {
		return blueprint.Blueprint{}, fmt.Errorf("apiVersion must be %q, got %q", APIVersion, doc.APIVersion)
	}
	if doc.Kind != KindBlueprint {
		return blueprint.Blueprint{}, fmt.Errorf("kind must be %q, got %q", KindBlueprint, doc.Kind)
	}
	if doc.Metadata.Name == "" {
		return blueprint.Blueprint{}, fmt.Errorf("metadata.name is required")
	}

	b := blueprint.Blueprint{}.Define(catalog)
	for _, ref := range doc.Spec.Streamlets {
		b = b.Use(blueprint.StreamletRef{
			Name:      ref.Name,
			ClassName: ref.ClassName,
			Metadata:  ref.Metadata,
		})
	}
	for _, conn := range doc.Spec.Connections {
		b = b.Connect(conn.From, conn.To)
	}

	logger.Debug("parsed blueprint",
		zap.String("name", doc.Metadata.Name),
		zap.Int("streamlets", len(doc.Spec.Streamlets)),
		zap.Int("connections", len(doc.Spec.Connections)))
	return b, nil
}

// LoadBlueprint reads and parses a blueprint file.
func LoadBlueprint(path string, catalog []blueprint.StreamletDescriptor) (blueprint.Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return blueprint.Blueprint{}, fmt.Errorf("failed to read blueprint file: %w", err)
	}
	return ParseBlueprint(data, catalog)
}

// catalogFile is the on-disk YAML form of a descriptor catalog.
type catalogFile struct {
	Descriptors []blueprint.StreamletDescriptor `yaml:"descriptors"`
}

// ParseCatalog decodes a descriptor catalog document.
func ParseCatalog(data []byte) ([]blueprint.StreamletDescriptor, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(file.Descriptors) == 0 {
		return nil, fmt.Errorf("catalog contains no streamlet descriptors")
	}
	return file.Descriptors, nil
}

// LoadCatalog reads and parses a descriptor catalog file.
func LoadCatalog(path string) ([]blueprint.StreamletDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	descriptors, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded descriptor catalog",
		zap.String("file", path),
		zap.Int("descriptors", len(descriptors)))
	return descriptors, nil
}
