// Package argumentation converts an analysis-of-competing-hypotheses (ACH)
// matrix into a support/attack argument graph and derives an acceptance
// status for each hypothesis.
package argumentation

import (
	"github.com/linkscope/backend/pkg/logger"
)

// Rating symbols as entered in the matrix. NotApplicable cells are excluded
// from the graph entirely.
const (
	RatingStrongSupport = "++"
	RatingSupport       = "+"
	RatingNeutral       = "N"
	RatingAttack        = "-"
	RatingStrongAttack  = "--"
	RatingNotApplicable = "N/A"
)

var ratingStrength = map[string]float64{
	RatingStrongSupport: 2,
	RatingSupport:       1,
	RatingNeutral:       0,
	RatingAttack:        -1,
	RatingStrongAttack:  -2,
}

// Acceptance statuses for hypotheses.
const (
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusUndecided = "undecided"
)

// Hypothesis is one competing explanation under analysis.
type Hypothesis struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Evidence is one piece of evidence rated against the hypotheses.
// Confidence in (0,1] weights its ratings; zero or unset means full
// confidence.
type Evidence struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Rating is one matrix cell: how a piece of evidence bears on a
// hypothesis.
type Rating struct {
	HypothesisID string `json:"hypothesis_id"`
	EvidenceID   string `json:"evidence_id"`
	Symbol       string `json:"symbol"`
}

// Matrix is a full ACH input.
type Matrix struct {
	Hypotheses []Hypothesis `json:"hypotheses"`
	Evidence   []Evidence   `json:"evidence"`
	Ratings    []Rating     `json:"ratings"`
}

// Node is one argument-graph node. Status and NetScore are set on
// hypothesis nodes only.
type Node struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Kind     string  `json:"kind"` // "hypothesis" or "evidence"
	Status   string  `json:"status,omitempty"`
	NetScore float64 `json:"net_score,omitempty"`
}

// Edge runs from evidence to hypothesis. Kind is "support", "attack", or
// "neutral"; Strength is the signed rating value; Weight is the
// confidence-weighted magnitude that feeds the status calculation.
type Edge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Kind     string  `json:"kind"`
	Strength float64 `json:"strength"`
	Weight   float64 `json:"weight"`
}

// Graph is the derived argument graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// BuildFromACHMatrix maps a rating matrix into an argument graph. Ratings
// against unknown hypotheses or evidence, unknown symbols, and N/A cells
// produce no edge.
func BuildFromACHMatrix(m Matrix) *Graph {
	g := &Graph{Nodes: []Node{}, Edges: []Edge{}}

	confidence := map[string]float64{}
	for _, e := range m.Evidence {
		c := e.Confidence
		if c <= 0 || c > 1 {
			c = 1
		}
		confidence[e.ID] = c
		g.Nodes = append(g.Nodes, Node{ID: e.ID, Label: e.Label, Kind: "evidence"})
	}

	hypothesisIndex := map[string]int{}
	for _, h := range m.Hypotheses {
		hypothesisIndex[h.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{ID: h.ID, Label: h.Label, Kind: "hypothesis"})
	}

	for _, r := range m.Ratings {
		if r.Symbol == RatingNotApplicable {
			continue
		}
		strength, known := ratingStrength[r.Symbol]
		if !known {
			logger.Warn("[Argumentation] Skipping unknown rating symbol", "symbol", r.Symbol)
			continue
		}
		conf, evidenceKnown := confidence[r.EvidenceID]
		_, hypothesisKnown := hypothesisIndex[r.HypothesisID]
		if !evidenceKnown || !hypothesisKnown {
			continue
		}

		kind := "neutral"
		if strength > 0 {
			kind = "support"
		} else if strength < 0 {
			kind = "attack"
		}
		g.Edges = append(g.Edges, Edge{
			Source:   r.EvidenceID,
			Target:   r.HypothesisID,
			Kind:     kind,
			Strength: strength,
			Weight:   conf * abs(strength),
		})
	}

	for id, idx := range hypothesisIndex {
		status, net := argumentStatus(g.Edges, id)
		g.Nodes[idx].Status = status
		g.Nodes[idx].NetScore = net
	}
	return g
}

// argumentStatus sums confidence-weighted support and attack into a net
// score. A hypothesis is accepted on a clearly positive net score or on
// unopposed support, rejected on the mirror conditions, and undecided
// otherwise.
func argumentStatus(edges []Edge, hypothesisID string) (string, float64) {
	support, attack := 0.0, 0.0
	for _, e := range edges {
		if e.Target != hypothesisID {
			continue
		}
		switch e.Kind {
		case "support":
			support += e.Weight
		case "attack":
			attack += e.Weight
		}
	}

	net := support - attack
	switch {
	case net > 1 || (support > 0 && attack == 0):
		return StatusAccepted, net
	case net < -1 || (attack > 0 && support == 0):
		return StatusRejected, net
	default:
		return StatusUndecided, net
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
