// Package analysis implements graph algorithms over common.Graph values:
// path search, centrality, community detection, statistics, and ego-network
// analysis. Every function is pure and safe to call concurrently on
// independent graphs; traversal depth is always bounded.
package analysis

import (
	"container/heap"
	"sort"

	"github.com/linkscope/backend/pkg/common"
)

// DefaultMaxDepth bounds path traversal when the caller passes no limit.
const DefaultMaxDepth = 6

// FindShortestPath runs breadth-first search from source to target over the
// undirected edge set. The first path reaching target is hop-optimal.
// Returns nil when either endpoint is missing or no path exists within
// maxDepth.
func FindShortestPath(g common.Graph, source, target string, maxDepth int) *common.GraphPath {
	if g.Node(source) == nil || g.Node(target) == nil {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if source == target {
		return &common.GraphPath{Nodes: []string{source}, Edges: []common.GraphEdge{}}
	}

	adj := g.Adjacency()

	type queueItem struct {
		id    string
		depth int
	}

	parent := map[string]common.Neighbor{}
	visited := map[string]bool{source: true}
	queue := []queueItem{{id: source, depth: 0}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.depth >= maxDepth {
			continue
		}
		for _, nb := range adj[item.id] {
			if visited[nb.ID] {
				continue
			}
			visited[nb.ID] = true
			parent[nb.ID] = common.Neighbor{ID: item.id, Weight: nb.Weight, Edge: nb.Edge}
			if nb.ID == target {
				return reconstructPath(g, parent, source, target)
			}
			queue = append(queue, queueItem{id: nb.ID, depth: item.depth + 1})
		}
	}

	return nil
}

func reconstructPath(g common.Graph, parent map[string]common.Neighbor, source, target string) *common.GraphPath {
	path := &common.GraphPath{}
	nodes := []string{target}
	var edges []common.GraphEdge

	cur := target
	for cur != source {
		p := parent[cur]
		edges = append(edges, g.Edges[p.Edge])
		path.TotalWeight += p.Weight
		cur = p.ID
		nodes = append(nodes, cur)
	}

	// Reverse into source-first order.
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	path.Nodes = nodes
	path.Edges = edges
	path.Length = len(edges)
	return path
}

// FindAllPaths enumerates simple paths from source to target depth-first, up
// to maxDepth edges per path and at most maxPaths results, sorted ascending
// by length.
func FindAllPaths(g common.Graph, source, target string, maxDepth, maxPaths int) []common.GraphPath {
	if g.Node(source) == nil || g.Node(target) == nil {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxPaths <= 0 {
		maxPaths = 100
	}

	adj := g.Adjacency()
	var paths []common.GraphPath

	onPath := map[string]bool{source: true}
	var nodes []string
	var edges []common.GraphEdge
	var weight float64
	nodes = append(nodes, source)

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if len(paths) >= maxPaths {
			return
		}
		if id == target {
			paths = append(paths, common.GraphPath{
				Nodes:       append([]string(nil), nodes...),
				Edges:       append([]common.GraphEdge(nil), edges...),
				TotalWeight: weight,
				Length:      len(edges),
			})
			return
		}
		if depth >= maxDepth {
			return
		}
		for _, nb := range adj[id] {
			if onPath[nb.ID] {
				continue
			}
			onPath[nb.ID] = true
			nodes = append(nodes, nb.ID)
			edges = append(edges, g.Edges[nb.Edge])
			weight += nb.Weight

			walk(nb.ID, depth+1)

			weight -= nb.Weight
			edges = edges[:len(edges)-1]
			nodes = nodes[:len(nodes)-1]
			onPath[nb.ID] = false
		}
	}
	walk(source, 0)

	sort.SliceStable(paths, func(i, j int) bool { return paths[i].Length < paths[j].Length })
	return paths
}

// WeightedPathOptions configures FindWeightedPath. Maximize searches for the
// heaviest total weight instead of the lightest.
type WeightedPathOptions struct {
	Maximize bool
	MaxDepth int
}

type heapItem struct {
	id    string
	cost  float64
	depth int
}

type pathHeap []heapItem

func (h pathHeap) Len() int           { return len(h) }
func (h pathHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h pathHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x any)        { *h = append(*h, x.(heapItem)) }
func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// FindWeightedPath runs a Dijkstra-style search over a min-heap. In the
// maximize case edge costs are negated, which trades optimality guarantees
// for a useful heaviest-path heuristic; the depth bound keeps it finite.
func FindWeightedPath(g common.Graph, source, target string, opts WeightedPathOptions) *common.GraphPath {
	if g.Node(source) == nil || g.Node(target) == nil {
		return nil
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	adj := g.Adjacency()

	cost := func(w float64) float64 {
		if opts.Maximize {
			return -w
		}
		return w
	}

	dist := map[string]float64{source: 0}
	parent := map[string]common.Neighbor{}
	done := map[string]bool{}

	h := &pathHeap{{id: source, cost: 0, depth: 0}}
	heap.Init(h)

	for h.Len() > 0 {
		item := heap.Pop(h).(heapItem)
		if done[item.id] {
			continue
		}
		done[item.id] = true
		if item.id == target {
			return reconstructPath(g, parent, source, target)
		}
		if item.depth >= maxDepth {
			continue
		}
		for _, nb := range adj[item.id] {
			if done[nb.ID] {
				continue
			}
			next := item.cost + cost(nb.Weight)
			if cur, seen := dist[nb.ID]; !seen || next < cur {
				dist[nb.ID] = next
				parent[nb.ID] = common.Neighbor{ID: item.id, Weight: nb.Weight, Edge: nb.Edge}
				heap.Push(h, heapItem{id: nb.ID, cost: next, depth: item.depth + 1})
			}
		}
	}

	return nil
}

// PathConstraints restricts FindConstrainedPath. RequiredEntities must all
// appear on the returned path; ExcludedEntities may not. An empty
// RelationshipTypes list allows every type.
type PathConstraints struct {
	RequiredEntities  []string
	ExcludedEntities  []string
	RelationshipTypes []string
	MinEdgeWeight     float64
	MaxDepth          int
}

// FindConstrainedPath searches breadth-first with a visited key of
// (node, satisfied-required-set), so a node can be revisited once more
// required entities have been collected. Returns the first path satisfying
// every constraint, or nil.
func FindConstrainedPath(g common.Graph, source, target string, constraints PathConstraints) *common.GraphPath {
	if g.Node(source) == nil || g.Node(target) == nil {
		return nil
	}
	maxDepth := constraints.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	excluded := map[string]bool{}
	for _, id := range constraints.ExcludedEntities {
		excluded[id] = true
	}
	if excluded[source] || excluded[target] {
		return nil
	}

	requiredBit := map[string]uint64{}
	for i, id := range constraints.RequiredEntities {
		if i >= 64 {
			break
		}
		requiredBit[id] = 1 << uint(i)
	}
	var fullMask uint64
	for _, bit := range requiredBit {
		fullMask |= bit
	}

	allowedRel := map[string]bool{}
	for _, t := range constraints.RelationshipTypes {
		allowedRel[t] = true
	}

	adj := g.Adjacency()

	type state struct {
		id   string
		mask uint64
	}
	type queueItem struct {
		state state
		depth int
		nodes []string
		edges []common.GraphEdge
		w     float64
	}

	startMask := requiredBit[source]
	visited := map[state]bool{{id: source, mask: startMask}: true}
	queue := []queueItem{{
		state: state{id: source, mask: startMask},
		nodes: []string{source},
		edges: []common.GraphEdge{},
	}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.state.id == target && item.state.mask == fullMask {
			return &common.GraphPath{
				Nodes:       item.nodes,
				Edges:       item.edges,
				TotalWeight: item.w,
				Length:      len(item.edges),
			}
		}
		if item.depth >= maxDepth {
			continue
		}

		for _, nb := range adj[item.state.id] {
			if excluded[nb.ID] {
				continue
			}
			if nb.Weight < constraints.MinEdgeWeight {
				continue
			}
			edge := g.Edges[nb.Edge]
			if len(allowedRel) > 0 && !allowedRel[edge.RelationshipType] {
				continue
			}

			next := state{id: nb.ID, mask: item.state.mask | requiredBit[nb.ID]}
			if visited[next] {
				continue
			}
			visited[next] = true

			nodes := append(append([]string(nil), item.nodes...), nb.ID)
			edges := append(append([]common.GraphEdge(nil), item.edges...), edge)
			queue = append(queue, queueItem{
				state: next,
				depth: item.depth + 1,
				nodes: nodes,
				edges: edges,
				w:     item.w + nb.Weight,
			})
		}
	}

	return nil
}

// PathsThroughOptions configures FindPathsThrough.
type PathsThroughOptions struct {
	Radius     int
	MaxPaths   int
	Candidates int
	MaxDepth   int
}

// FindPathsThrough finds paths forced through an intermediate node: it picks
// the highest-degree nodes reachable from the intermediate within Radius as
// candidate endpoints, then runs constrained searches requiring the
// intermediate, returning paths sorted by descending total weight.
func FindPathsThrough(g common.Graph, intermediate string, opts PathsThroughOptions) []common.GraphPath {
	if g.Node(intermediate) == nil {
		return nil
	}
	radius := opts.Radius
	if radius <= 0 {
		radius = 2
	}
	maxPaths := opts.MaxPaths
	if maxPaths <= 0 {
		maxPaths = 10
	}
	candidates := opts.Candidates
	if candidates <= 0 {
		candidates = 5
	}

	dist := bfsDistances(g, intermediate, radius)

	type candidate struct {
		id     string
		degree int
	}
	var pool []candidate
	for id := range dist {
		if id == intermediate {
			continue
		}
		if n := g.Node(id); n != nil {
			pool = append(pool, candidate{id: id, degree: n.Degree})
		}
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].degree != pool[j].degree {
			return pool[i].degree > pool[j].degree
		}
		return pool[i].id < pool[j].id
	})
	if len(pool) > candidates {
		pool = pool[:candidates]
	}

	var paths []common.GraphPath
	for i := 0; i < len(pool) && len(paths) < maxPaths; i++ {
		for j := i + 1; j < len(pool) && len(paths) < maxPaths; j++ {
			p := FindConstrainedPath(g, pool[i].id, pool[j].id, PathConstraints{
				RequiredEntities: []string{intermediate},
				MaxDepth:         opts.MaxDepth,
			})
			if p != nil {
				paths = append(paths, *p)
			}
		}
	}

	sort.SliceStable(paths, func(i, j int) bool { return paths[i].TotalWeight > paths[j].TotalWeight })
	return paths
}

// bfsDistances returns hop distances from root for every node reachable
// within maxDepth (0 means unbounded).
func bfsDistances(g common.Graph, root string, maxDepth int) map[string]int {
	adj := g.Adjacency()
	dist := map[string]int{root: 0}
	queue := []string{root}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		d := dist[id]
		if maxDepth > 0 && d >= maxDepth {
			continue
		}
		for _, nb := range adj[id] {
			if _, seen := dist[nb.ID]; seen {
				continue
			}
			dist[nb.ID] = d + 1
			queue = append(queue, nb.ID)
		}
	}
	return dist
}
