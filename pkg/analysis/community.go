package analysis

import (
	"sort"

	"github.com/linkscope/backend/pkg/common"
)

const communityMaxPasses = 50

// CommunityOptions tunes Louvain-style detection. Resolution above 1 favors
// smaller communities; below 1, larger ones. Communities smaller than
// MinCommunitySize are dropped from the output but stay in the modularity
// accounting.
type CommunityOptions struct {
	Resolution       float64
	MinCommunitySize int
}

// CommunityDetection is the output of DetectCommunities: the surviving
// communities plus the modularity of the full partition.
type CommunityDetection struct {
	Communities []common.Community `json:"communities"`
	Modularity  float64            `json:"modularity"`
}

// DetectCommunities runs single-level local modularity optimization. Every
// node starts in its own community; nodes greedily move to the neighboring
// community with the highest positive modularity gain until a full pass
// makes no move or 50 passes elapse.
func DetectCommunities(g common.Graph, opts CommunityOptions) CommunityDetection {
	resolution := opts.Resolution
	if resolution <= 0 {
		resolution = 1.0
	}

	n := len(g.Nodes)
	if n == 0 {
		return CommunityDetection{Communities: []common.Community{}}
	}

	idx := g.NodeIndex()
	adj := make([][]common.Neighbor, n)
	strength := make([]float64, n)
	var totalWeight float64

	for i, e := range g.Edges {
		if e.Source == e.Target {
			continue
		}
		w := e.Weight
		if w <= 0 {
			w = 1e-9
		}
		si, ti := idx[e.Source], idx[e.Target]
		adj[si] = append(adj[si], common.Neighbor{ID: e.Target, Weight: w, Edge: i})
		adj[ti] = append(adj[ti], common.Neighbor{ID: e.Source, Weight: w, Edge: i})
		strength[si] += w
		strength[ti] += w
		totalWeight += w
	}
	if totalWeight == 0 {
		return singletonCommunities(g, opts.MinCommunitySize)
	}
	twoM := 2 * totalWeight

	comm := make([]int, n)
	sumTot := make([]float64, n)
	for i := range comm {
		comm[i] = i
		sumTot[i] = strength[i]
	}

	for pass := 0; pass < communityMaxPasses; pass++ {
		moved := false
		for i := 0; i < n; i++ {
			current := comm[i]

			// Weight from node i into each neighboring community.
			into := map[int]float64{}
			for _, nb := range adj[i] {
				into[comm[idx[nb.ID]]] += nb.Weight
			}

			sumTot[current] -= strength[i]
			comm[i] = -1

			bestComm := current
			bestGain := into[current] - resolution*strength[i]*sumTot[current]/twoM
			for c, w := range into {
				if c == current {
					continue
				}
				gain := w - resolution*strength[i]*sumTot[c]/twoM
				if gain > bestGain {
					bestGain = gain
					bestComm = c
				}
			}

			comm[i] = bestComm
			sumTot[bestComm] += strength[i]
			if bestComm != current {
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	return assembleCommunities(g, idx, comm, strength, totalWeight, resolution, opts.MinCommunitySize)
}

func singletonCommunities(g common.Graph, minSize int) CommunityDetection {
	out := CommunityDetection{Communities: []common.Community{}}
	if minSize > 1 {
		return out
	}
	for i, n := range g.Nodes {
		out.Communities = append(out.Communities, common.Community{
			ID:      i,
			Members: []string{n.ID},
			Size:    1,
		})
	}
	return out
}

func assembleCommunities(
	g common.Graph,
	idx map[string]int,
	comm []int,
	strength []float64,
	totalWeight float64,
	resolution float64,
	minSize int,
) CommunityDetection {
	members := map[int][]string{}
	for i, n := range g.Nodes {
		members[comm[i]] = append(members[comm[i]], n.ID)
	}

	internalWeight := map[int]float64{}
	internalEdges := map[int]int{}
	externalEdges := map[int]int{}
	for _, e := range g.Edges {
		if e.Source == e.Target {
			continue
		}
		cs, ct := comm[idx[e.Source]], comm[idx[e.Target]]
		if cs == ct {
			internalWeight[cs] += e.Weight
			internalEdges[cs]++
		} else {
			externalEdges[cs]++
			externalEdges[ct]++
		}
	}

	commStrength := map[int]float64{}
	for i := range comm {
		commStrength[comm[i]] += strength[i]
	}

	twoM := 2 * totalWeight
	modularity := 0.0
	for c := range members {
		frac := commStrength[c] / twoM
		modularity += 2*internalWeight[c]/twoM - resolution*frac*frac
	}

	ids := make([]int, 0, len(members))
	for c := range members {
		ids = append(ids, c)
	}
	sort.Ints(ids)

	out := CommunityDetection{Communities: []common.Community{}, Modularity: modularity}
	next := 0
	for _, c := range ids {
		group := members[c]
		if len(group) < minSize {
			continue
		}
		sort.Strings(group)
		size := len(group)
		density := 0.0
		if size > 1 {
			density = float64(internalEdges[c]) / (float64(size) * float64(size-1) / 2)
		}
		out.Communities = append(out.Communities, common.Community{
			ID:            next,
			Members:       group,
			Size:          size,
			Density:       density,
			InternalEdges: internalEdges[c],
			ExternalEdges: externalEdges[c],
		})
		next++
	}

	// Largest first.
	sort.SliceStable(out.Communities, func(i, j int) bool {
		return out.Communities[i].Size > out.Communities[j].Size
	})
	for i := range out.Communities {
		out.Communities[i].ID = i
	}
	return out
}
