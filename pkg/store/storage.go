package store

import (
	"context"
	"errors"

	"github.com/linkscope/backend/pkg/common"
)

// ErrGraphNotFound is returned by GetGraph when no graph has been built for
// the project yet.
var ErrGraphNotFound = errors.New("graph not found")

// EntityQuery narrows which entities of a project are fetched. Nil slices
// mean "no restriction".
type EntityQuery struct {
	DocumentIDs []string
	EntityTypes []string
}

// DataStore is the upstream collaborator contract. It supplies the raw
// entity, co-occurrence, mention, and credibility records the graph core is
// built from, and persists built graphs so repeated analysis calls do not
// rebuild from scratch.
//
// The graph core itself performs no I/O; everything behind this interface
// runs before or after the pure analysis functions.
type DataStore interface {
	GetEntities(ctx context.Context, projectID int64, query EntityQuery) ([]common.EntityRecord, error)
	GetCoOccurrences(ctx context.Context, projectID int64, documentIDs []string, minCount int) ([]common.CoOccurrenceRecord, error)
	GetMentions(ctx context.Context, projectID int64, entityIDs []string) ([]common.MentionRecord, error)
	GetCredibilityRatings(ctx context.Context, projectID int64) (map[string]float64, error)

	SaveGraph(ctx context.Context, graph common.Graph) error
	GetGraph(ctx context.Context, projectID int64) (*common.Graph, error)
	InvalidateGraph(ctx context.Context, projectID int64) error
}
