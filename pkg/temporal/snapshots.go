package temporal

import (
	"fmt"
	"sort"
	"time"

	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/logger"
)

const defaultMaxSnapshots = 50

// SnapshotOptions controls how the time range is sliced. Cumulative
// snapshots include everything mentioned up to each step; windowed
// snapshots include only what was mentioned within the step's interval.
// When Interval is zero it is derived from the range span, and it is
// shrunk automatically if the requested range would otherwise produce more
// than MaxSnapshots steps.
type SnapshotOptions struct {
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Interval     time.Duration `json:"interval,omitempty"`
	Cumulative   bool          `json:"cumulative,omitempty"`
	MaxSnapshots int           `json:"max_snapshots,omitempty"`
}

// Snapshot is the graph as it stood at one point in time, plus the deltas
// against the previous snapshot. Edge deltas use "source->target" keys.
type Snapshot struct {
	Timestamp    time.Time    `json:"timestamp"`
	Graph        common.Graph `json:"graph"`
	NodeCount    int          `json:"node_count"`
	EdgeCount    int          `json:"edge_count"`
	AddedNodes   []string     `json:"added_nodes"`
	RemovedNodes []string     `json:"removed_nodes"`
	AddedEdges   []string     `json:"added_edges"`
	RemovedEdges []string     `json:"removed_edges"`
}

// Snapshots slices the graph across [opts.Start, opts.End]. A node is part
// of a snapshot when one of its dated mentions falls inside the snapshot's
// scope; an edge is part of it when both endpoints are. Mentions without a
// date never place a node in any snapshot.
func Snapshots(g common.Graph, mentions []common.MentionRecord, opts SnapshotOptions) []Snapshot {
	if opts.End.Before(opts.Start) {
		return nil
	}
	if opts.MaxSnapshots <= 0 {
		opts.MaxSnapshots = defaultMaxSnapshots
	}
	span := opts.End.Sub(opts.Start)
	if opts.Interval <= 0 {
		opts.Interval = suggestedInterval(span)
	}
	if steps := int(span/opts.Interval) + 1; steps > opts.MaxSnapshots && opts.MaxSnapshots > 1 {
		opts.Interval = span / time.Duration(opts.MaxSnapshots-1)
		logger.Debug("[Temporal] Shrunk snapshot interval", "interval", opts.Interval)
	}

	dates := mentionDates(mentions)

	var snapshots []Snapshot
	prevNodes := map[string]bool{}
	prevEdges := map[string]bool{}
	for t := opts.Start; !t.After(opts.End); t = t.Add(opts.Interval) {
		windowStart := t.Add(-opts.Interval)
		sub, nodeSet, edgeSet := sliceAt(g, dates, t, windowStart, opts.Cumulative)

		snap := Snapshot{
			Timestamp:    t,
			Graph:        sub,
			NodeCount:    len(sub.Nodes),
			EdgeCount:    len(sub.Edges),
			AddedNodes:   diffKeys(nodeSet, prevNodes),
			RemovedNodes: diffKeys(prevNodes, nodeSet),
			AddedEdges:   diffKeys(edgeSet, prevEdges),
			RemovedEdges: diffKeys(prevEdges, edgeSet),
		}
		snapshots = append(snapshots, snap)
		prevNodes, prevEdges = nodeSet, edgeSet
	}
	return snapshots
}

// mentionDates collects each entity's dated mention timestamps.
func mentionDates(mentions []common.MentionRecord) map[string][]time.Time {
	dates := map[string][]time.Time{}
	for _, m := range mentions {
		if m.Date == nil {
			continue
		}
		dates[m.EntityID] = append(dates[m.EntityID], *m.Date)
	}
	return dates
}

// sliceAt builds the sub-graph active at time t. Cumulative scope is
// (-inf, t]; windowed scope is (windowStart, t].
func sliceAt(
	g common.Graph,
	dates map[string][]time.Time,
	t, windowStart time.Time,
	cumulative bool,
) (common.Graph, map[string]bool, map[string]bool) {
	nodeSet := map[string]bool{}
	sub := common.Graph{
		ID:        fmt.Sprintf("%s@%s", g.ID, t.Format(time.RFC3339)),
		ProjectID: g.ProjectID,
		Metadata:  map[string]any{"snapshot_at": t.Format(time.RFC3339)},
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}

	for _, n := range g.Nodes {
		if !activeAt(dates[n.EntityID], t, windowStart, cumulative) {
			continue
		}
		nodeSet[n.ID] = true
		sub.Nodes = append(sub.Nodes, n)
	}

	edgeSet := map[string]bool{}
	for _, e := range g.Edges {
		if !nodeSet[e.Source] || !nodeSet[e.Target] {
			continue
		}
		edgeSet[e.Source+"->"+e.Target] = true
		sub.Edges = append(sub.Edges, e)
	}
	sub.RecomputeDegrees()
	return sub, nodeSet, edgeSet
}

func activeAt(dates []time.Time, t, windowStart time.Time, cumulative bool) bool {
	for _, d := range dates {
		if d.After(t) {
			continue
		}
		if cumulative || d.After(windowStart) {
			return true
		}
	}
	return false
}

// diffKeys returns the keys of a that are absent from b, sorted.
func diffKeys(a, b map[string]bool) []string {
	diff := []string{}
	for k := range a {
		if !b[k] {
			diff = append(diff, k)
		}
	}
	sort.Strings(diff)
	return diff
}
