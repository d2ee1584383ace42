// Package temporal slices a graph into time-ordered snapshots based on when
// its entities were mentioned, and summarizes how the graph evolved across
// them.
package temporal

import (
	"context"
	"time"

	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/store"
)

// Engine answers temporal queries for a project. Mention records come from
// the data store; everything after the fetch is pure computation.
type Engine struct {
	store store.DataStore
}

type NewEngineParams struct {
	Store store.DataStore
}

func NewEngine(params NewEngineParams) *Engine {
	return &Engine{store: params.Store}
}

// Range describes the dated-mention span of a project and the snapshot
// interval that keeps the snapshot count reasonable for that span.
type Range struct {
	Earliest          time.Time     `json:"earliest"`
	Latest            time.Time     `json:"latest"`
	SpanDays          int           `json:"span_days"`
	SuggestedInterval time.Duration `json:"suggested_interval"`
	MentionCount      int           `json:"mention_count"`
}

const day = 24 * time.Hour

// TemporalRange fetches the project's mentions and derives the earliest and
// latest dated mention plus a suggested snapshot interval. Mentions without
// a date are counted but do not contribute to the span. A project with no
// dated mentions yields a zero Range.
func (e *Engine) TemporalRange(ctx context.Context, projectID int64, entityIDs []string) (*Range, error) {
	mentions, err := e.store.GetMentions(ctx, projectID, entityIDs)
	if err != nil {
		return nil, err
	}
	return rangeOf(mentions), nil
}

func rangeOf(mentions []common.MentionRecord) *Range {
	r := &Range{MentionCount: len(mentions)}
	for _, m := range mentions {
		if m.Date == nil {
			continue
		}
		if r.Earliest.IsZero() || m.Date.Before(r.Earliest) {
			r.Earliest = *m.Date
		}
		if m.Date.After(r.Latest) {
			r.Latest = *m.Date
		}
	}
	if r.Earliest.IsZero() {
		return r
	}
	r.SpanDays = int(r.Latest.Sub(r.Earliest) / day)
	r.SuggestedInterval = suggestedInterval(r.Latest.Sub(r.Earliest))
	return r
}

// suggestedInterval picks daily, weekly, monthly, or quarterly steps so
// longer histories do not explode into hundreds of snapshots.
func suggestedInterval(span time.Duration) time.Duration {
	switch {
	case span <= 30*day:
		return day
	case span <= 365*day:
		return 7 * day
	case span <= 3*365*day:
		return 30 * day
	default:
		return 90 * day
	}
}

// GenerateSnapshots loads the project's graph and mentions and slices them
// into snapshots. See Snapshots for the slicing rules.
func (e *Engine) GenerateSnapshots(ctx context.Context, projectID int64, opts SnapshotOptions) ([]Snapshot, error) {
	g, err := e.store.GetGraph(ctx, projectID)
	if err != nil {
		return nil, err
	}
	entityIDs := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		entityIDs = append(entityIDs, n.EntityID)
	}
	mentions, err := e.store.GetMentions(ctx, projectID, entityIDs)
	if err != nil {
		return nil, err
	}
	return Snapshots(*g, mentions, opts), nil
}
