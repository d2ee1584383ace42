package causal

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/linkscope/backend/pkg/common"
)

func causalEdge(source, target, relType string, weight float64) common.GraphEdge {
	return common.GraphEdge{Source: source, Target: target, RelationshipType: relType, Weight: weight}
}

// confounded builds z -> x, z -> y, x -> m -> y, x -> y, plus one
// non-causal edge that must be filtered out.
func confounded() common.Graph {
	g := common.Graph{
		ID: "causal-test",
		Nodes: []common.GraphNode{
			{ID: "z", EntityID: "z", Label: "Z"},
			{ID: "x", EntityID: "x", Label: "X"},
			{ID: "m", EntityID: "m", Label: "M"},
			{ID: "y", EntityID: "y", Label: "Y"},
			{ID: "noise", EntityID: "noise", Label: "Noise"},
		},
		Edges: []common.GraphEdge{
			causalEdge("z", "x", "causes", 0.8),
			causalEdge("z", "y", "causes", 0.6),
			causalEdge("x", "m", "leads_to", 0.9),
			causalEdge("m", "y", "results_in", 0.5),
			causalEdge("x", "y", "influences", 0.7),
			causalEdge("noise", "x", "mentioned_with", 1.0),
		},
	}
	g.RecomputeDegrees()
	return g
}

func TestBuildFiltersVocabulary(t *testing.T) {
	cg := Build(confounded())

	if len(cg.Edges) != 5 {
		t.Errorf("got %d causal edges, want 5", len(cg.Edges))
	}
	if len(cg.Nodes) != 4 {
		t.Errorf("got %d causal nodes, want 4 (noise excluded)", len(cg.Nodes))
	}
	if !cg.IsValidDAG {
		t.Errorf("expected a valid DAG, cycles: %v", cg.Cycles)
	}
}

func TestBuildStrengthFromConfidence(t *testing.T) {
	conf := 0.9
	g := common.Graph{
		Nodes: []common.GraphNode{
			{ID: "a", EntityID: "a"},
			{ID: "b", EntityID: "b"},
		},
		Edges: []common.GraphEdge{
			{Source: "a", Target: "b", RelationshipType: "causes", Weight: 0.2, Confidence: &conf},
		},
	}

	cg := Build(g)
	if cg.Edges[0].Strength != 0.9 {
		t.Errorf("strength = %f, want confidence 0.9 over weight", cg.Edges[0].Strength)
	}
}

func TestBuildReportsCycles(t *testing.T) {
	g := common.Graph{
		Nodes: []common.GraphNode{
			{ID: "a", EntityID: "a"},
			{ID: "b", EntityID: "b"},
			{ID: "c", EntityID: "c"},
		},
		Edges: []common.GraphEdge{
			causalEdge("a", "b", "causes", 1),
			causalEdge("b", "c", "causes", 1),
			causalEdge("c", "a", "causes", 1),
		},
	}

	cg := Build(g)
	if cg.IsValidDAG {
		t.Fatal("expected IsValidDAG = false")
	}
	if len(cg.Cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cg.Cycles))
	}
	if !reflect.DeepEqual(cg.Cycles[0], []string{"a", "b", "c", "a"}) {
		t.Errorf("cycle = %v, want [a b c a]", cg.Cycles[0])
	}

	if _, err := Ordering(cg); !errors.Is(err, ErrCyclicGraph) {
		t.Errorf("Ordering error = %v, want ErrCyclicGraph", err)
	}
}

func TestFindCausalPaths(t *testing.T) {
	cg := Build(confounded())

	paths := FindCausalPaths(cg, "x", "y", 0)
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}

	// Direct path is stronger than the mediated one and sorts first.
	if !reflect.DeepEqual(paths[0].Nodes, []string{"x", "y"}) {
		t.Errorf("strongest path = %v, want [x y]", paths[0].Nodes)
	}
	if math.Abs(paths[0].Strength-0.7) > 1e-9 {
		t.Errorf("direct strength = %f, want 0.7", paths[0].Strength)
	}
	if !reflect.DeepEqual(paths[1].Nodes, []string{"x", "m", "y"}) {
		t.Errorf("mediated path = %v, want [x m y]", paths[1].Nodes)
	}
	if math.Abs(paths[1].Strength-0.45) > 1e-9 {
		t.Errorf("mediated strength = %f, want 0.9*0.5", paths[1].Strength)
	}
}

func TestFindCausalPathsMissingEndpoint(t *testing.T) {
	cg := Build(confounded())
	if paths := FindCausalPaths(cg, "ghost", "y", 0); len(paths) != 0 {
		t.Errorf("missing endpoint should yield no paths, got %v", paths)
	}
}

func TestFindBackdoorPaths(t *testing.T) {
	cg := Build(confounded())

	paths := FindBackdoorPaths(cg, "x", "y", 0)
	if len(paths) != 1 {
		t.Fatalf("got %d backdoor paths, want 1", len(paths))
	}
	if !reflect.DeepEqual(paths[0].Nodes, []string{"x", "z", "y"}) {
		t.Errorf("backdoor path = %v, want [x z y]", paths[0].Nodes)
	}
	if math.Abs(paths[0].Strength-0.48) > 1e-9 {
		t.Errorf("backdoor strength = %f, want 0.8*0.6", paths[0].Strength)
	}
}

func TestIdentifyConfounders(t *testing.T) {
	cg := Build(confounded())

	confounders := IdentifyConfounders(cg, "x", "y")
	if !reflect.DeepEqual(confounders, []string{"z"}) {
		t.Errorf("confounders = %v, want [z]", confounders)
	}
}

func TestMediatorIsNotConfounder(t *testing.T) {
	cg := Build(confounded())

	for _, c := range IdentifyConfounders(cg, "x", "y") {
		if c == "m" {
			t.Error("mediator m must not be reported as a confounder")
		}
	}
}

func TestCalculateInterventionEffect(t *testing.T) {
	cg := Build(confounded())

	effect := CalculateInterventionEffect(cg, "x", "y")

	if math.Abs(effect.Effect-0.575) > 1e-9 {
		t.Errorf("effect = %f, want mean of 0.7 and 0.45", effect.Effect)
	}
	if math.Abs(effect.ConfidenceLow-0.375) > 1e-9 || math.Abs(effect.ConfidenceHigh-0.775) > 1e-9 {
		t.Errorf("band = [%f, %f], want effect ±0.2", effect.ConfidenceLow, effect.ConfidenceHigh)
	}
	if !reflect.DeepEqual(effect.AdjustedConfounders, []string{"z"}) {
		t.Errorf("adjusted confounders = %v, want [z]", effect.AdjustedConfounders)
	}
	if effect.BackdoorPathCount != 1 {
		t.Errorf("backdoor count = %d, want 1", effect.BackdoorPathCount)
	}
	if !strings.Contains(effect.Explanation, "confounder") {
		t.Errorf("explanation should mention confounders: %q", effect.Explanation)
	}
}

func TestCalculateInterventionEffectNoPath(t *testing.T) {
	cg := Build(confounded())

	effect := CalculateInterventionEffect(cg, "y", "z")
	if effect.Effect != 0 || len(effect.Paths) != 0 {
		t.Errorf("expected no estimable effect, got %+v", effect)
	}
	if !strings.Contains(effect.Explanation, "no estimable effect") {
		t.Errorf("explanation should say there is no effect: %q", effect.Explanation)
	}
}

func TestOrdering(t *testing.T) {
	cg := Build(confounded())

	order, err := Ordering(cg)
	if err != nil {
		t.Fatalf("Ordering() error = %v", err)
	}
	if !reflect.DeepEqual(order, []string{"z", "x", "m", "y"}) {
		t.Errorf("order = %v, want [z x m y]", order)
	}
}
