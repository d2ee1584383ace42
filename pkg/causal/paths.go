package causal

import "sort"

const defaultMaxPathDepth = 8

// Path is one directed cause-effect chain. Strength is the product of the
// strengths of the traversed edges, so longer chains are naturally weaker.
type Path struct {
	Nodes    []string `json:"nodes"`
	Strength float64  `json:"strength"`
	Length   int      `json:"length"`
}

// FindCausalPaths enumerates every directed path from cause to effect up to
// maxDepth edges, sorted by descending strength. An endpoint absent from
// the causal graph yields an empty result.
func FindCausalPaths(cg *Graph, cause, effect string, maxDepth int) []Path {
	if maxDepth <= 0 {
		maxDepth = defaultMaxPathDepth
	}
	if !cg.hasNode(cause) || !cg.hasNode(effect) {
		return []Path{}
	}

	children := cg.children()
	paths := []Path{}
	visited := map[string]bool{cause: true}
	trail := []string{cause}

	var walk func(id string, strength float64)
	walk = func(id string, strength float64) {
		if id == effect {
			paths = append(paths, Path{
				Nodes:    append([]string{}, trail...),
				Strength: strength,
				Length:   len(trail) - 1,
			})
			return
		}
		if len(trail)-1 >= maxDepth {
			return
		}
		for _, e := range children[id] {
			if visited[e.Effect] {
				continue
			}
			visited[e.Effect] = true
			trail = append(trail, e.Effect)
			walk(e.Effect, strength*e.Strength)
			trail = trail[:len(trail)-1]
			visited[e.Effect] = false
		}
	}
	walk(cause, 1.0)

	sort.Slice(paths, func(i, j int) bool { return paths[i].Strength > paths[j].Strength })
	return paths
}

// FindBackdoorPaths finds paths from treatment to outcome whose first step
// runs backward into a parent of the treatment. Such paths transmit
// spurious association and mark the parents that need adjusting.
func FindBackdoorPaths(cg *Graph, treatment, outcome string, maxDepth int) []Path {
	if maxDepth <= 0 {
		maxDepth = defaultMaxPathDepth
	}
	if !cg.hasNode(treatment) || !cg.hasNode(outcome) {
		return []Path{}
	}

	undirected := map[string][]Edge{}
	for _, e := range cg.Edges {
		undirected[e.Cause] = append(undirected[e.Cause], e)
		undirected[e.Effect] = append(undirected[e.Effect], e)
	}

	paths := []Path{}
	for _, e := range cg.parents()[treatment] {
		visited := map[string]bool{treatment: true, e.Cause: true}
		trail := []string{treatment, e.Cause}

		var walk func(id string, strength float64)
		walk = func(id string, strength float64) {
			if id == outcome {
				paths = append(paths, Path{
					Nodes:    append([]string{}, trail...),
					Strength: strength,
					Length:   len(trail) - 1,
				})
				return
			}
			if len(trail)-1 >= maxDepth {
				return
			}
			for _, next := range undirected[id] {
				other := next.Effect
				if other == id {
					other = next.Cause
				}
				if visited[other] {
					continue
				}
				visited[other] = true
				trail = append(trail, other)
				walk(other, strength*next.Strength)
				trail = trail[:len(trail)-1]
				visited[other] = false
			}
		}
		walk(e.Cause, e.Strength)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i].Strength > paths[j].Strength })
	return paths
}

// IdentifyConfounders returns the common ancestors of treatment and
// outcome, excluding anything that already sits on a directed causal path
// between them (mediators are not confounders). Sorted for determinism.
func IdentifyConfounders(cg *Graph, treatment, outcome string) []string {
	parents := cg.parents()
	treatmentAncestors := ancestors(parents, treatment)
	outcomeAncestors := ancestors(parents, outcome)

	onPath := map[string]bool{}
	for _, p := range FindCausalPaths(cg, treatment, outcome, 0) {
		for _, id := range p.Nodes {
			onPath[id] = true
		}
	}

	var confounders []string
	for id := range treatmentAncestors {
		if outcomeAncestors[id] && !onPath[id] && id != treatment && id != outcome {
			confounders = append(confounders, id)
		}
	}
	sort.Strings(confounders)
	return confounders
}

func ancestors(parents map[string][]Edge, id string) map[string]bool {
	seen := map[string]bool{}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range parents[current] {
			if seen[e.Cause] {
				continue
			}
			seen[e.Cause] = true
			queue = append(queue, e.Cause)
		}
	}
	return seen
}

func (cg *Graph) hasNode(id string) bool {
	for _, n := range cg.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}
