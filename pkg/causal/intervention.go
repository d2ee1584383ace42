package causal

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCyclicGraph is returned when an operation requires a DAG but the
// causal graph contains cycles.
var ErrCyclicGraph = errors.New("causal graph contains cycles")

const confidenceBand = 0.2

// InterventionEffect is a naive do-calculus-style estimate: the mean
// strength over all discovered causal paths, with a flat confidence band
// and the confounders that adjustment should control for.
type InterventionEffect struct {
	Treatment           string   `json:"treatment"`
	Outcome             string   `json:"outcome"`
	Effect              float64  `json:"effect"`
	ConfidenceLow       float64  `json:"confidence_low"`
	ConfidenceHigh      float64  `json:"confidence_high"`
	Paths               []Path   `json:"paths"`
	AdjustedConfounders []string `json:"adjusted_confounders"`
	BackdoorPathCount   int      `json:"backdoor_path_count"`
	Explanation         string   `json:"explanation"`
}

// CalculateInterventionEffect estimates what intervening on treatment does
// to outcome. No causal path means no estimable effect; the explanation
// says so instead of reporting a zero that looks like a measurement.
func CalculateInterventionEffect(cg *Graph, treatment, outcome string) *InterventionEffect {
	effect := &InterventionEffect{
		Treatment:           treatment,
		Outcome:             outcome,
		Paths:               FindCausalPaths(cg, treatment, outcome, 0),
		AdjustedConfounders: IdentifyConfounders(cg, treatment, outcome),
	}
	effect.BackdoorPathCount = len(FindBackdoorPaths(cg, treatment, outcome, 0))

	if len(effect.Paths) == 0 {
		effect.Explanation = fmt.Sprintf(
			"No directed causal path from %s to %s; an intervention on %s has no estimable effect on %s.",
			treatment, outcome, treatment, outcome)
		return effect
	}

	total := 0.0
	for _, p := range effect.Paths {
		total += p.Strength
	}
	effect.Effect = total / float64(len(effect.Paths))
	effect.ConfidenceLow = clamp01(effect.Effect - confidenceBand)
	effect.ConfidenceHigh = clamp01(effect.Effect + confidenceBand)

	effect.Explanation = fmt.Sprintf(
		"Intervening on %s is estimated to affect %s with strength %.2f, averaged over %d causal path(s).",
		treatment, outcome, effect.Effect, len(effect.Paths))
	if len(effect.AdjustedConfounders) > 0 {
		effect.Explanation += fmt.Sprintf(
			" The estimate should be adjusted for %d confounder(s): %v.",
			len(effect.AdjustedConfounders), effect.AdjustedConfounders)
	}
	if effect.BackdoorPathCount > 0 {
		effect.Explanation += fmt.Sprintf(
			" %d backdoor path(s) transmit spurious association.", effect.BackdoorPathCount)
	}
	return effect
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Ordering returns a topological order of the causal graph via Kahn's
// algorithm. Only defined for a valid DAG.
func Ordering(cg *Graph) ([]string, error) {
	if !cg.IsValidDAG {
		return nil, ErrCyclicGraph
	}

	inDegree := map[string]int{}
	for _, n := range cg.Nodes {
		inDegree[n.ID] = 0
	}
	children := cg.children()
	for _, e := range cg.Edges {
		inDegree[e.Effect]++
	}

	var ready []string
	for id, d := range inDegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(cg.Nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unlocked []string
		for _, e := range children[id] {
			inDegree[e.Effect]--
			if inDegree[e.Effect] == 0 {
				unlocked = append(unlocked, e.Effect)
			}
		}
		sort.Strings(unlocked)
		ready = append(ready, unlocked...)
	}
	return order, nil
}
