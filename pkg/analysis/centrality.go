package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/linkscope/backend/pkg/common"
)

// Convergence discipline shared by the iterative metrics.
const (
	pageRankDamping = 0.85
	maxIterations   = 100
	epsilon         = 1e-6
)

// ErrUnknownMetric is returned by Centrality for a metric name no
// implementation exists for. Selecting a metric is a caller programming
// error, not a data condition.
var ErrUnknownMetric = errors.New("unknown centrality metric")

// Centrality dispatches by metric name: "degree", "betweenness",
// "pagerank", "eigenvector", "hits", "closeness".
func Centrality(g common.Graph, metric string) ([]common.CentralityResult, error) {
	switch metric {
	case "degree":
		return DegreeCentrality(g), nil
	case "betweenness":
		return BetweennessCentrality(g, BetweennessOptions{}), nil
	case "pagerank":
		return PageRank(g), nil
	case "eigenvector":
		return EigenvectorCentrality(g), nil
	case "hits":
		return HITSCentrality(g), nil
	case "closeness":
		return ClosenessCentrality(g), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
}

// DegreeCentrality scores each node by degree divided by the maximum
// observed degree, so the best-connected node always scores 1.0.
func DegreeCentrality(g common.Graph) []common.CentralityResult {
	maxDegree := 0
	for _, n := range g.Nodes {
		if n.Degree > maxDegree {
			maxDegree = n.Degree
		}
	}

	scores := make(map[string]float64, len(g.Nodes))
	for _, n := range g.Nodes {
		if maxDegree > 0 {
			scores[n.ID] = float64(n.Degree) / float64(maxDegree)
		} else {
			scores[n.ID] = 0
		}
	}
	return rankResults(g, scores)
}

// BetweennessOptions exposes sampling as an explicit performance knob.
// SampleSize 0 computes exact all-pairs betweenness; a positive value runs
// the accumulation from that many source nodes and scales up.
type BetweennessOptions struct {
	SampleSize int
}

// BetweennessCentrality counts, per node, the fraction of shortest paths
// between other node pairs passing through it, with ties split evenly
// across equal-length shortest paths (Brandes accumulation). Scores are
// normalized by (n-1)(n-2)/2.
func BetweennessCentrality(g common.Graph, opts BetweennessOptions) []common.CentralityResult {
	n := len(g.Nodes)
	scores := make(map[string]float64, n)
	for _, node := range g.Nodes {
		scores[node.ID] = 0
	}
	if n < 3 {
		return rankResults(g, scores)
	}

	adj := g.Adjacency()

	roots := make([]string, 0, n)
	for _, node := range g.Nodes {
		roots = append(roots, node.ID)
	}
	scale := 1.0
	if opts.SampleSize > 0 && opts.SampleSize < n {
		step := n / opts.SampleSize
		if step < 1 {
			step = 1
		}
		sampled := make([]string, 0, opts.SampleSize)
		for i := 0; i < n && len(sampled) < opts.SampleSize; i += step {
			sampled = append(sampled, roots[i])
		}
		scale = float64(n) / float64(len(sampled))
		roots = sampled
	}

	for _, s := range roots {
		// Single-source shortest paths with path counting.
		var stack []string
		preds := map[string][]string{}
		sigma := map[string]float64{s: 1}
		dist := map[string]int{s: 0}
		queue := []string{s}

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, nb := range adj[v] {
				d, seen := dist[nb.ID]
				if !seen {
					dist[nb.ID] = dist[v] + 1
					queue = append(queue, nb.ID)
					d = dist[nb.ID]
				}
				if d == dist[v]+1 {
					sigma[nb.ID] += sigma[v]
					preds[nb.ID] = append(preds[nb.ID], v)
				}
			}
		}

		// Dependency accumulation in reverse BFS order.
		delta := map[string]float64{}
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				scores[w] += delta[w]
			}
		}
	}

	// Each unordered pair was counted from both endpoints when running over
	// all roots; halve, then normalize to [0,1].
	norm := float64(n-1) * float64(n-2) / 2.0
	for id := range scores {
		scores[id] = scores[id] * scale / 2.0 / norm
		if scores[id] > 1 {
			scores[id] = 1
		}
	}
	return rankResults(g, scores)
}

// PageRank runs power iteration with damping 0.85 until the largest
// per-node update falls below 1e-6 or 100 iterations elapse. Scores sum to
// approximately 1 over all nodes.
func PageRank(g common.Graph) []common.CentralityResult {
	n := len(g.Nodes)
	scores := make(map[string]float64, n)
	if n == 0 {
		return nil
	}

	adj := g.Adjacency()
	rank := make(map[string]float64, n)
	for _, node := range g.Nodes {
		rank[node.ID] = 1.0 / float64(n)
	}

	for iter := 0; iter < maxIterations; iter++ {
		next := make(map[string]float64, n)
		dangling := 0.0
		for _, node := range g.Nodes {
			if len(adj[node.ID]) == 0 {
				dangling += rank[node.ID]
			}
		}
		base := (1.0-pageRankDamping)/float64(n) + pageRankDamping*dangling/float64(n)
		for _, node := range g.Nodes {
			next[node.ID] = base
		}
		for _, node := range g.Nodes {
			neighbors := adj[node.ID]
			if len(neighbors) == 0 {
				continue
			}
			share := pageRankDamping * rank[node.ID] / float64(len(neighbors))
			for _, nb := range neighbors {
				next[nb.ID] += share
			}
		}

		maxDelta := 0.0
		for id, v := range next {
			if d := math.Abs(v - rank[id]); d > maxDelta {
				maxDelta = d
			}
		}
		rank = next
		if maxDelta < epsilon {
			break
		}
	}

	for id, v := range rank {
		scores[id] = v
	}
	return rankResults(g, scores)
}

// EigenvectorCentrality runs power iteration over the weighted adjacency,
// renormalizing each round, with the shared convergence discipline. Scores
// are scaled so the maximum is 1.
func EigenvectorCentrality(g common.Graph) []common.CentralityResult {
	n := len(g.Nodes)
	if n == 0 {
		return nil
	}

	adj := g.Adjacency()
	vec := make(map[string]float64, n)
	for _, node := range g.Nodes {
		vec[node.ID] = 1.0 / float64(n)
	}

	for iter := 0; iter < maxIterations; iter++ {
		next := make(map[string]float64, n)
		for _, node := range g.Nodes {
			for _, nb := range adj[node.ID] {
				w := nb.Weight
				if w <= 0 {
					w = 1
				}
				next[node.ID] += w * vec[nb.ID]
			}
		}

		var normSq float64
		for _, v := range next {
			normSq += v * v
		}
		norm := math.Sqrt(normSq)
		if norm == 0 {
			break
		}
		maxDelta := 0.0
		for id := range next {
			next[id] /= norm
			if d := math.Abs(next[id] - vec[id]); d > maxDelta {
				maxDelta = d
			}
		}
		vec = next
		if maxDelta < epsilon {
			break
		}
	}

	return rankResults(g, normalizeToMax(vec))
}

// HITSCentrality runs the hubs-and-authorities iteration and reports the
// authority score. With undirected traversal hubs and authorities coincide,
// but the directional edge fields still shape the result.
func HITSCentrality(g common.Graph) []common.CentralityResult {
	n := len(g.Nodes)
	if n == 0 {
		return nil
	}

	out := make(map[string][]string, n)
	in := make(map[string][]string, n)
	for _, e := range g.Edges {
		out[e.Source] = append(out[e.Source], e.Target)
		in[e.Target] = append(in[e.Target], e.Source)
	}

	hub := make(map[string]float64, n)
	auth := make(map[string]float64, n)
	for _, node := range g.Nodes {
		hub[node.ID] = 1
		auth[node.ID] = 1
	}

	for iter := 0; iter < maxIterations; iter++ {
		nextAuth := make(map[string]float64, n)
		for _, node := range g.Nodes {
			for _, src := range in[node.ID] {
				nextAuth[node.ID] += hub[src]
			}
		}
		normalizeVector(nextAuth)

		nextHub := make(map[string]float64, n)
		for _, node := range g.Nodes {
			for _, dst := range out[node.ID] {
				nextHub[node.ID] += nextAuth[dst]
			}
		}
		normalizeVector(nextHub)

		maxDelta := 0.0
		for _, node := range g.Nodes {
			if d := math.Abs(nextAuth[node.ID] - auth[node.ID]); d > maxDelta {
				maxDelta = d
			}
			if d := math.Abs(nextHub[node.ID] - hub[node.ID]); d > maxDelta {
				maxDelta = d
			}
		}
		auth = nextAuth
		hub = nextHub
		if maxDelta < epsilon {
			break
		}
	}

	return rankResults(g, normalizeToMax(auth))
}

// ClosenessCentrality scores each node by the inverse of its average BFS
// distance to the nodes it can reach, scaled by reachable fraction to keep
// disconnected graphs comparable, then normalized to the maximum.
func ClosenessCentrality(g common.Graph) []common.CentralityResult {
	n := len(g.Nodes)
	scores := make(map[string]float64, n)

	for _, node := range g.Nodes {
		dist := bfsDistances(g, node.ID, 0)
		reachable := len(dist) - 1
		if reachable <= 0 {
			scores[node.ID] = 0
			continue
		}
		total := 0
		for _, d := range dist {
			total += d
		}
		closeness := float64(reachable) / float64(total)
		if n > 1 {
			closeness *= float64(reachable) / float64(n-1)
		}
		scores[node.ID] = closeness
	}

	return rankResults(g, normalizeToMax(scores))
}

func normalizeVector(v map[string]float64) {
	var normSq float64
	for _, x := range v {
		normSq += x * x
	}
	norm := math.Sqrt(normSq)
	if norm == 0 {
		return
	}
	for id := range v {
		v[id] /= norm
	}
}

func normalizeToMax(v map[string]float64) map[string]float64 {
	maxVal := 0.0
	for _, x := range v {
		if x > maxVal {
			maxVal = x
		}
	}
	if maxVal == 0 {
		return v
	}
	out := make(map[string]float64, len(v))
	for id, x := range v {
		out[id] = x / maxVal
	}
	return out
}

// rankResults turns a score map into sorted CentralityResults with 1-based
// ranks, using entity ids from the graph. Ties keep a deterministic order
// by id.
func rankResults(g common.Graph, scores map[string]float64) []common.CentralityResult {
	results := make([]common.CentralityResult, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		results = append(results, common.CentralityResult{
			EntityID: n.EntityID,
			Score:    scores[n.ID],
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].EntityID < results[j].EntityID
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}
