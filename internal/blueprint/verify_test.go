package blueprint

import (
	"reflect"
	"sort"
	"testing"
)

// Test schemas: compatibility is fingerprint equality.
var (
	fooSchema = Schema{Name: "sensors.Foo", Fingerprint: []byte{0x01, 0x02, 0x03}}
	barSchema = Schema{Name: "sensors.Bar", Fingerprint: []byte{0x0a, 0x0b, 0x0c}}
)

func ingressDescriptor() StreamletDescriptor {
	return StreamletDescriptor{
		ClassName: "sensors.SensorIngress",
		Runtime:   "akka",
		Image:     "registry.test/sensors/ingress:0.1.0",
		Server:    true,
		Shape: StreamletShape{
			Outlets: []Outlet{{Name: "out", Schema: fooSchema}},
		},
	}
}

func processorDescriptor() StreamletDescriptor {
	return StreamletDescriptor{
		ClassName: "sensors.MetricProcessor",
		Runtime:   "akka",
		Image:     "registry.test/sensors/processor:0.1.0",
		Shape: StreamletShape{
			Inlets:  []Inlet{{Name: "in", Schema: fooSchema}},
			Outlets: []Outlet{{Name: "out", Schema: fooSchema}},
		},
	}
}

func egressDescriptor() StreamletDescriptor {
	return StreamletDescriptor{
		ClassName: "sensors.MetricEgress",
		Runtime:   "akka",
		Image:     "registry.test/sensors/egress:0.1.0",
		Server:    true,
		Shape: StreamletShape{
			Inlets: []Inlet{{Name: "in", Schema: fooSchema}},
		},
	}
}

func barEgressDescriptor() StreamletDescriptor {
	d := egressDescriptor()
	d.ClassName = "sensors.BarEgress"
	d.Shape.Inlets = []Inlet{{Name: "in", Schema: barSchema}}
	return d
}

func mergeDescriptor() StreamletDescriptor {
	return StreamletDescriptor{
		ClassName: "sensors.MetricMerge",
		Runtime:   "akka",
		Image:     "registry.test/sensors/merge:0.1.0",
		Shape: StreamletShape{
			Inlets: []Inlet{
				{Name: "in-0", Schema: fooSchema},
				{Name: "in-1", Schema: fooSchema},
			},
			Outlets: []Outlet{{Name: "out", Schema: fooSchema}},
		},
	}
}

func testCatalog() []StreamletDescriptor {
	return []StreamletDescriptor{
		ingressDescriptor(),
		processorDescriptor(),
		egressDescriptor(),
		barEgressDescriptor(),
		mergeDescriptor(),
	}
}

// problemKeys renders problems as sorted structural keys so tests can
// compare sets without depending on report order.
func problemKeys(problems []Problem) []string {
	keys := make([]string, len(problems))
	for i, p := range problems {
		keys[i] = problemKey(p)
	}
	sort.Strings(keys)
	return keys
}

func assertSameProblems(t *testing.T, got, want []Problem) {
	t.Helper()
	gotKeys, wantKeys := problemKeys(got), problemKeys(want)
	if !reflect.DeepEqual(gotKeys, wantKeys) {
		t.Fatalf("problems mismatch:\n  got:  %v\n  want: %v", gotKeys, wantKeys)
	}
}

func TestVerifyEmptyBlueprint(t *testing.T) {
	problems := Blueprint{}.Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		EmptyStreamlets{},
		EmptyStreamletDescriptors{},
	})
}

func TestVerifySimpleChain(t *testing.T) {
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "processor", ClassName: "sensors.MetricProcessor"}).
		Connect("ingress.out", "processor.in")

	v := b.Verify()
	if problems := v.Problems(); len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problemKeys(problems))
	}

	verified, problems := b.Verified()
	if len(problems) != 0 {
		t.Fatalf("expected verified blueprint, got %v", problemKeys(problems))
	}
	if len(verified.Streamlets) != 2 {
		t.Fatalf("expected 2 verified streamlets, got %d", len(verified.Streamlets))
	}
	if len(verified.Connections) != 1 {
		t.Fatalf("expected 1 verified connection, got %d", len(verified.Connections))
	}
	conn := verified.Connections[0]
	if conn.From.String() != "ingress.out" || conn.To.String() != "processor.in" {
		t.Errorf("unexpected resolved connection %s -> %s", conn.From, conn.To)
	}
}

func TestVerifyIdempotent(t *testing.T) {
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "merge", ClassName: "sensors.MetricMerge"}).
		Connect("ingress", "merge")

	once := b.Verify()
	twice := once.Verify()
	assertSameProblems(t, twice.Problems(), once.Problems())
	if !reflect.DeepEqual(problemKeys(once.GlobalProblems), problemKeys(twice.GlobalProblems)) {
		t.Error("global problems changed on re-verification")
	}
}

func TestVerifyInvalidRefAndClassNames(t *testing.T) {
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "Bad_Name", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "broken", ClassName: "1sensors.Nope"}).
		Use(StreamletRef{Name: "missing", ClassName: "sensors.Unknown"})

	problems := b.Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		InvalidStreamletName{Name: "Bad_Name"},
		InvalidStreamletClassName{RefName: "broken", ClassName: "1sensors.Nope"},
		StreamletDescriptorNotFound{RefName: "missing", ClassName: "sensors.Unknown"},
	})
}

func TestVerifyShortPaths(t *testing.T) {
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "egress", ClassName: "sensors.MetricEgress"}).
		Connect("ingress", "egress")

	if problems := b.Verify().Problems(); len(problems) != 0 {
		t.Fatalf("short paths should resolve on single-port streamlets, got %v", problemKeys(problems))
	}
}

func TestVerifyAmbiguousShortInlet(t *testing.T) {
	// S5: connecting to a two-inlet merge by short name fails to resolve
	// and both merge inlets stay unconnected.
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "merge", ClassName: "sensors.MetricMerge"}).
		Connect("ingress", "merge")

	problems := b.Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		PortPathNotFound{Path: "merge"},
		UnconnectedInlets{Inlets: []UnconnectedInlet{
			{RefName: "merge", Inlet: "in-0"},
			{RefName: "merge", Inlet: "in-1"},
		}},
	})
}

func TestVerifyPositionalInlets(t *testing.T) {
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "processor", ClassName: "sensors.MetricProcessor"}).
		Use(StreamletRef{Name: "merge", ClassName: "sensors.MetricMerge"}).
		Use(StreamletRef{Name: "egress", ClassName: "sensors.MetricEgress"}).
		Connect("ingress.out", "merge.in0").
		Connect("processor.out", "merge.in1").
		Connect("ingress.out", "processor.in").
		Connect("merge.out", "egress.in")

	v := b.Verify()
	if problems := v.Problems(); len(problems) != 0 {
		t.Fatalf("expected positional inlets to resolve, got %v", problemKeys(problems))
	}

	verified, _ := b.Verified()
	targets := map[string]bool{}
	for _, c := range verified.Connections {
		targets[c.To.String()] = true
	}
	if !targets["merge.in-0"] || !targets["merge.in-1"] {
		t.Errorf("positional inlets must normalize to declared names, got %v", targets)
	}
}

func TestVerifyIllegalFanIn(t *testing.T) {
	// S3: two distinct outlets fanning in to one inlet.
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "proc-a", ClassName: "sensors.MetricProcessor"}).
		Use(StreamletRef{Name: "proc-b", ClassName: "sensors.MetricProcessor"}).
		Use(StreamletRef{Name: "egress", ClassName: "sensors.MetricEgress"}).
		Connect("ingress.out", "proc-a.in").
		Connect("ingress.out", "proc-b.in").
		Connect("proc-a.out", "egress.in").
		Connect("proc-b.out", "egress.in")

	problems := b.Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		IllegalConnection{
			Sources: []string{"proc-a.out", "proc-b.out"},
			Target:  "egress.in",
		},
	})
}

func TestVerifyFanOutIsLegal(t *testing.T) {
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "proc-a", ClassName: "sensors.MetricProcessor"}).
		Use(StreamletRef{Name: "proc-b", ClassName: "sensors.MetricProcessor"}).
		Use(StreamletRef{Name: "egr-a", ClassName: "sensors.MetricEgress"}).
		Use(StreamletRef{Name: "egr-b", ClassName: "sensors.MetricEgress"}).
		Connect("ingress.out", "proc-a.in").
		Connect("ingress.out", "proc-b.in").
		Connect("proc-a.out", "egr-a.in").
		Connect("proc-b.out", "egr-b.in")

	if problems := b.Verify().Problems(); len(problems) != 0 {
		t.Fatalf("fan-out from one outlet must be legal, got %v", problemKeys(problems))
	}
}

func TestVerifyIncompatibleSchema(t *testing.T) {
	// S4: Foo outlet connected to a Bar inlet.
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "egress", ClassName: "sensors.BarEgress"}).
		Connect("ingress.out", "egress.in")

	problems := b.Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		IncompatibleSchema{From: "ingress.out", To: "egress.in"},
	})
}

func TestVerifyUnconnectedInlets(t *testing.T) {
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "egress", ClassName: "sensors.MetricEgress"})

	problems := b.Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		UnconnectedInlets{Inlets: []UnconnectedInlet{{RefName: "egress", Inlet: "in"}}},
	})
}

func TestVerifyDescriptorProblems(t *testing.T) {
	bad := StreamletDescriptor{
		ClassName: "2sensors.Broken",
		Runtime:   "akka",
		Image:     "registry.test/broken:0.1.0",
		Shape: StreamletShape{
			Inlets:  []Inlet{{Name: "In_0", Schema: fooSchema}},
			Outlets: []Outlet{{Name: "out-", Schema: fooSchema}},
		},
		VolumeMounts: []VolumeMountDescriptor{
			{Name: "Data", Path: "relative/path", AccessMode: "ReadWriteSometimes"},
			{Name: "scratch", Path: "/tmp/../etc", AccessMode: AccessModeReadWriteOnce},
			{Name: "empty", Path: "", AccessMode: AccessModeReadOnlyMany},
			{Name: "scratch", Path: "/var/scratch", AccessMode: AccessModeReadOnlyMany},
		},
	}

	b := Blueprint{}.
		Define([]StreamletDescriptor{bad}).
		Use(StreamletRef{Name: "broken", ClassName: "2sensors.Broken"})

	problems := b.Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		InvalidStreamletClassName{ClassName: "2sensors.Broken"},
		InvalidInletName{ClassName: "2sensors.Broken", Name: "In_0"},
		InvalidOutletName{ClassName: "2sensors.Broken", Name: "out-"},
		InvalidVolumeMountName{Name: "Data"},
		NonAbsoluteVolumeMountPath{Name: "Data"},
		InvalidVolumeMountAccessMode{Name: "Data", Mode: "ReadWriteSometimes"},
		BacktrackingVolumeMountPath{Name: "scratch"},
		EmptyVolumeMountPath{Name: "empty"},
		DuplicateVolumeMountName{Name: "scratch"},
		// The ref carries the malformed class name too; it never resolves,
		// so its inlets are not reported as unconnected.
		InvalidStreamletClassName{RefName: "broken", ClassName: "2sensors.Broken"},
	})
}

func TestVerifyAmbiguousOutlet(t *testing.T) {
	splitter := StreamletDescriptor{
		ClassName: "sensors.MetricSplitter",
		Runtime:   "akka",
		Image:     "registry.test/sensors/splitter:0.1.0",
		Shape: StreamletShape{
			Inlets: []Inlet{{Name: "in", Schema: fooSchema}},
			Outlets: []Outlet{
				{Name: "valid", Schema: fooSchema},
				{Name: "invalid", Schema: fooSchema},
			},
		},
	}
	b := Blueprint{}.
		Define(append(testCatalog(), splitter)).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"}).
		Use(StreamletRef{Name: "splitter", ClassName: "sensors.MetricSplitter"}).
		Use(StreamletRef{Name: "egress", ClassName: "sensors.MetricEgress"}).
		Connect("ingress.out", "splitter.in").
		Connect("splitter", "egress.in")

	problems := b.Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		AmbiguousOutlet{RefName: "splitter"},
		UnconnectedInlets{Inlets: []UnconnectedInlet{{RefName: "egress", Inlet: "in"}}},
	})
}

func TestVerifyDuplicateVolumeMountPath(t *testing.T) {
	d := ingressDescriptor()
	d.VolumeMounts = []VolumeMountDescriptor{
		{Name: "first", Path: "/mnt/data", AccessMode: AccessModeReadOnlyMany},
		{Name: "second", Path: "/mnt/data", AccessMode: AccessModeReadOnlyMany},
	}
	b := Blueprint{}.
		Define([]StreamletDescriptor{d}).
		Use(StreamletRef{Name: "ingress", ClassName: "sensors.SensorIngress"})

	problems := b.Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		DuplicateVolumeMountPath{Path: "/mnt/data"},
	})
}

func TestVerifyProblemDeduplication(t *testing.T) {
	// Two refs of a class that is not defined produce two distinct
	// problems; the same ref verified twice produces each problem once.
	b := Blueprint{}.
		Define(testCatalog()).
		Use(StreamletRef{Name: "one", ClassName: "sensors.Unknown"}).
		Use(StreamletRef{Name: "two", ClassName: "sensors.Unknown"})

	problems := b.Verify().Verify().Problems()
	assertSameProblems(t, problems, []Problem{
		StreamletDescriptorNotFound{RefName: "one", ClassName: "sensors.Unknown"},
		StreamletDescriptorNotFound{RefName: "two", ClassName: "sensors.Unknown"},
	})
}
