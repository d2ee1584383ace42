package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/logger"
	"github.com/linkscope/backend/pkg/store"

	"golang.org/x/sync/errgroup"
)

// DefaultRelationshipType tags edges derived from plain document
// co-occurrence.
const DefaultRelationshipType = "mentioned_with"

// coOccurrenceWeightDivisor maps a raw co-occurrence count onto [0,1]:
// ten or more shared documents saturate the edge weight at 1.0.
const coOccurrenceWeightDivisor = 10.0

// BuildGraphParams narrows what goes into a built graph.
type BuildGraphParams struct {
	ProjectID       int64
	DocumentIDs     []string
	EntityTypes     []string
	MinCoOccurrence int
}

// BuildGraph fetches the project's entities and pairwise co-occurrence
// counts and assembles them into a Graph: one node per entity, one edge per
// co-occurring pair meeting MinCoOccurrence. Edge weight is
// min(1, count/10). Co-occurrence rows that reference an entity outside the
// fetched set are skipped so the edge-endpoint invariant holds.
func (b *Builder) BuildGraph(ctx context.Context, params BuildGraphParams) (common.Graph, error) {
	minCo := params.MinCoOccurrence
	if minCo < 1 {
		minCo = 1
	}

	var (
		entities      []common.EntityRecord
		coOccurrences []common.CoOccurrenceRecord
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		entities, err = b.store.GetEntities(egCtx, params.ProjectID, store.EntityQuery{
			DocumentIDs: params.DocumentIDs,
			EntityTypes: params.EntityTypes,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch entities: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		coOccurrences, err = b.store.GetCoOccurrences(egCtx, params.ProjectID, params.DocumentIDs, minCo)
		if err != nil {
			return fmt.Errorf("failed to fetch co-occurrences: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return common.Graph{}, err
	}

	now := time.Now().UTC()
	g := common.Graph{
		ID:        fmt.Sprintf("graph-%d-%d", params.ProjectID, now.UnixMilli()),
		ProjectID: params.ProjectID,
		Nodes:     make([]common.GraphNode, 0, len(entities)),
		Edges:     make([]common.GraphEdge, 0, len(coOccurrences)),
		Metadata: map[string]any{
			"min_co_occurrence": minCo,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	known := make(map[string]struct{}, len(entities))
	for _, entity := range entities {
		known[entity.ID] = struct{}{}
		g.Nodes = append(g.Nodes, common.GraphNode{
			ID:            entity.ID,
			EntityID:      entity.ID,
			Label:         entity.Label,
			EntityType:    entity.EntityType,
			DocumentCount: entity.DocumentCount,
			Properties:    entity.Properties,
		})
	}

	skipped := 0
	for _, co := range coOccurrences {
		if co.Count < minCo {
			continue
		}
		if _, ok := known[co.EntityA]; !ok {
			skipped++
			continue
		}
		if _, ok := known[co.EntityB]; !ok {
			skipped++
			continue
		}

		weight := float64(co.Count) / coOccurrenceWeightDivisor
		if weight > 1.0 {
			weight = 1.0
		}
		relType := co.RelationshipType
		if relType == "" {
			relType = DefaultRelationshipType
		}

		g.Edges = append(g.Edges, common.GraphEdge{
			Source:            co.EntityA,
			Target:            co.EntityB,
			RelationshipType:  relType,
			Weight:            weight,
			DocumentIDs:       co.DocumentIDs,
			CoOccurrenceCount: co.Count,
		})
	}

	g.RecomputeDegrees()

	logger.Info("[Graph] Built graph",
		"project_id", params.ProjectID,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
	)
	if skipped > 0 {
		logger.Debug("[Graph] Skipped co-occurrences outside entity set", "count", skipped)
	}

	return g, nil
}
