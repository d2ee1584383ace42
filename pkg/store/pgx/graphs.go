package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/logger"
	"github.com/linkscope/backend/pkg/store"
)

// SaveGraph upserts the project's built graph. One graph per project; a
// rebuild replaces the previous one.
func (s *Store) SaveGraph(ctx context.Context, graph common.Graph) error {
	nodes, err := json.Marshal(graph.Nodes)
	if err != nil {
		return fmt.Errorf("failed to encode graph nodes: %w", err)
	}
	edges, err := json.Marshal(graph.Edges)
	if err != nil {
		return fmt.Errorf("failed to encode graph edges: %w", err)
	}
	metadata, err := json.Marshal(graph.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode graph metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO graphs (project_id, graph_id, nodes, edges, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (project_id) DO UPDATE SET
			graph_id = EXCLUDED.graph_id,
			nodes = EXCLUDED.nodes,
			edges = EXCLUDED.edges,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at`,
		graph.ProjectID, graph.ID, nodes, edges, metadata, graph.CreatedAt, graph.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}

	logger.Debug("[Store] Saved graph", "project_id", graph.ProjectID, "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return nil
}

func (s *Store) GetGraph(ctx context.Context, projectID int64) (*common.Graph, error) {
	var g common.Graph
	var nodes, edges, metadata []byte

	err := s.pool.QueryRow(ctx, `
		SELECT graph_id, nodes, edges, metadata, created_at, updated_at
		FROM graphs WHERE project_id = $1`, projectID).
		Scan(&g.ID, &nodes, &edges, &metadata, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrGraphNotFound
		}
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}

	g.ProjectID = projectID
	if err := json.Unmarshal(nodes, &g.Nodes); err != nil {
		return nil, fmt.Errorf("failed to decode graph nodes: %w", err)
	}
	if err := json.Unmarshal(edges, &g.Edges); err != nil {
		return nil, fmt.Errorf("failed to decode graph edges: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &g.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode graph metadata: %w", err)
		}
	}
	return &g, nil
}

// InvalidateGraph drops the cached graph so the next build starts fresh.
// Invalidating a project without a graph is a no-op.
func (s *Store) InvalidateGraph(ctx context.Context, projectID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM graphs WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to invalidate graph: %w", err)
	}
	return nil
}
