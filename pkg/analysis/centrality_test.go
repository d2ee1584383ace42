package analysis

import (
	"math"
	"testing"

	"github.com/linkscope/backend/pkg/common"
)

func scoreByEntity(results []common.CentralityResult) map[string]float64 {
	out := make(map[string]float64, len(results))
	for _, r := range results {
		out[r.EntityID] = r.Score
	}
	return out
}

func TestDegreeCentralityChain(t *testing.T) {
	g := chainGraph()

	results := DegreeCentrality(g)
	scores := scoreByEntity(results)

	// B and C (degree 2) outrank A and D (degree 1, score 0.5).
	if scores["B"] != 1.0 || scores["C"] != 1.0 {
		t.Errorf("B=%f C=%f, want 1.0 for both", scores["B"], scores["C"])
	}
	if scores["A"] != 0.5 || scores["D"] != 0.5 {
		t.Errorf("A=%f D=%f, want 0.5 for both", scores["A"], scores["D"])
	}

	if results[0].Rank != 1 {
		t.Errorf("first rank = %d, want 1", results[0].Rank)
	}
	for _, r := range results {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score %f outside [0,1]", r.Score)
		}
	}
}

func TestDegreeCentralityMaxIsOne(t *testing.T) {
	g := diamondGraph()
	scores := scoreByEntity(DegreeCentrality(g))

	foundMax := false
	for _, s := range scores {
		if s == 1.0 {
			foundMax = true
		}
		if s > 1.0 {
			t.Errorf("score %f above 1.0", s)
		}
	}
	if !foundMax {
		t.Error("no node scored 1.0")
	}
}

func TestBetweennessCentralityChain(t *testing.T) {
	g := chainGraph()
	scores := scoreByEntity(BetweennessCentrality(g, BetweennessOptions{}))

	// Endpoints lie on no shortest path between other pairs.
	if scores["A"] != 0 || scores["D"] != 0 {
		t.Errorf("A=%f D=%f, want 0", scores["A"], scores["D"])
	}
	// B sits on A-C and A-D; with n=4 the normalization is 3.
	want := 2.0 / 3.0
	if math.Abs(scores["B"]-want) > 1e-9 {
		t.Errorf("B = %f, want %f", scores["B"], want)
	}
	if math.Abs(scores["B"]-scores["C"]) > 1e-9 {
		t.Errorf("B and C should tie: %f vs %f", scores["B"], scores["C"])
	}
}

func TestBetweennessSampling(t *testing.T) {
	g := chainGraph()
	exact := scoreByEntity(BetweennessCentrality(g, BetweennessOptions{}))
	sampled := scoreByEntity(BetweennessCentrality(g, BetweennessOptions{SampleSize: 4}))

	// Sample covering every node must match the exact computation.
	for id, want := range exact {
		if math.Abs(sampled[id]-want) > 1e-9 {
			t.Errorf("sampled[%s] = %f, want %f", id, sampled[id], want)
		}
	}
}

func TestPageRankSumsToOne(t *testing.T) {
	for _, g := range []common.Graph{chainGraph(), diamondGraph()} {
		results := PageRank(g)
		sum := 0.0
		for _, r := range results {
			sum += r.Score
		}
		if math.Abs(sum-1.0) > 1e-3 {
			t.Errorf("PageRank sum = %f, want 1.0", sum)
		}
	}
}

func TestPageRankDanglingNode(t *testing.T) {
	g := testGraph(
		[]string{"A", "B", "loner"},
		[]common.GraphEdge{edge("A", "B", 1)},
	)
	results := PageRank(g)
	sum := 0.0
	for _, r := range results {
		sum += r.Score
	}
	if math.Abs(sum-1.0) > 1e-3 {
		t.Errorf("PageRank sum with dangling node = %f, want 1.0", sum)
	}
}

func TestEigenvectorCentrality(t *testing.T) {
	g := chainGraph()
	results := EigenvectorCentrality(g)
	scores := scoreByEntity(results)

	maxSeen := 0.0
	for _, s := range scores {
		if s > maxSeen {
			maxSeen = s
		}
		if s < 0 || s > 1 {
			t.Errorf("score %f outside [0,1]", s)
		}
	}
	if math.Abs(maxSeen-1.0) > 1e-9 {
		t.Errorf("max eigenvector score = %f, want 1.0", maxSeen)
	}
}

func TestClosenessCentralityChain(t *testing.T) {
	g := chainGraph()
	scores := scoreByEntity(ClosenessCentrality(g))

	// Interior nodes are closer to everything than the endpoints.
	if scores["B"] <= scores["A"] || scores["C"] <= scores["D"] {
		t.Errorf("interior nodes should outrank endpoints: %v", scores)
	}
}

func TestHITSCentrality(t *testing.T) {
	g := diamondGraph()
	results := HITSCentrality(g)
	if len(results) != 4 {
		t.Fatalf("result count = %d, want 4", len(results))
	}
	for _, r := range results {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score %f outside [0,1]", r.Score)
		}
	}
}

func TestCentralityDispatch(t *testing.T) {
	g := chainGraph()

	for _, metric := range []string{"degree", "betweenness", "pagerank", "eigenvector", "hits", "closeness"} {
		if _, err := Centrality(g, metric); err != nil {
			t.Errorf("Centrality(%q) error = %v", metric, err)
		}
	}

	if _, err := Centrality(g, "nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
