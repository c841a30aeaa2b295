package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/streamforge/bpctl/internal/blueprint"
)

const catalogYAML = `
descriptors:
  - className: sensors.SensorIngress
    runtime: akka
    image: registry.test/sensors/ingress:0.1.0
    server: true
    shape:
      outlets:
        - name: out
          schema:
            name: sensors.Foo
            fingerprint: !!binary AQID
  - className: sensors.MetricEgress
    runtime: akka
    image: registry.test/sensors/egress:0.1.0
    shape:
      inlets:
        - name: in
          schema:
            name: sensors.Foo
            fingerprint: !!binary AQID
`

const blueprintYAML = `
apiVersion: bpctl.dev/v1
kind: Blueprint
metadata:
  name: sensor-app
spec:
  streamlets:
    - name: ingress
      className: sensors.SensorIngress
    - name: egress
      className: sensors.MetricEgress
  connections:
    - from: ingress.out
      to: egress.in
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeFile(t, "descriptors.yaml", catalogYAML)
	descriptors, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descriptors))
	}
	ingress := descriptors[0]
	if ingress.ClassName != "sensors.SensorIngress" || !ingress.Server {
		t.Errorf("unexpected descriptor %+v", ingress)
	}
	if len(ingress.Shape.Outlets) != 1 {
		t.Fatalf("expected 1 outlet, got %+v", ingress.Shape)
	}
	fp := ingress.Shape.Outlets[0].Schema.Fingerprint
	if len(fp) != 3 || fp[0] != 0x01 || fp[1] != 0x02 || fp[2] != 0x03 {
		t.Errorf("fingerprint not decoded: %v", fp)
	}
}

func TestLoadCatalogEmpty(t *testing.T) {
	path := writeFile(t, "descriptors.yaml", "descriptors: []\n")
	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("expected an empty catalog to be rejected")
	}
}

func TestLoadBlueprint(t *testing.T) {
	catalogPath := writeFile(t, "descriptors.yaml", catalogYAML)
	descriptors, err := LoadCatalog(catalogPath)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	blueprintPath := writeFile(t, "blueprint.yaml", blueprintYAML)
	b, err := LoadBlueprint(blueprintPath, descriptors)
	if err != nil {
		t.Fatalf("LoadBlueprint failed: %v", err)
	}

	if problems := b.Verify().Problems(); len(problems) != 0 {
		t.Fatalf("expected the loaded blueprint to verify, got %v", problems)
	}
}

func TestParseBlueprintRejectsBadHeader(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wrong apiVersion", "apiVersion: other/v2\nkind: Blueprint\nmetadata:\n  name: x\n"},
		{"wrong kind", "apiVersion: bpctl.dev/v1\nkind: Pipeline\nmetadata:\n  name: x\n"},
		{"missing name", "apiVersion: bpctl.dev/v1\nkind: Blueprint\nmetadata: {}\n"},
	}
	for _, tt := range tests {
		if _, err := ParseBlueprint([]byte(tt.doc), nil); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestParseBlueprintIgnoresUnknownKeys(t *testing.T) {
	doc := blueprintYAML + "\nextra: ignored\n"
	b, err := ParseBlueprint([]byte(doc), []blueprint.StreamletDescriptor{})
	if err != nil {
		t.Fatalf("unknown keys must be ignored: %v", err)
	}
	if len(b.Streamlets) != 2 || len(b.Connections) != 1 {
		t.Errorf("unexpected blueprint shape: %d refs, %d connections", len(b.Streamlets), len(b.Connections))
	}
}
