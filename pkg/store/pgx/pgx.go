// Package pgx implements the data store contract on PostgreSQL via pgxpool.
package pgx

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/store"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetEntities(ctx context.Context, projectID int64, query store.EntityQuery) ([]common.EntityRecord, error) {
	sql := `
		SELECT e.id, e.label, e.entity_type, e.document_count, e.properties
		FROM entities e
		WHERE e.project_id = $1`
	args := []any{projectID}

	if len(query.EntityTypes) > 0 {
		args = append(args, query.EntityTypes)
		sql += fmt.Sprintf(" AND e.entity_type = ANY($%d)", len(args))
	}
	if len(query.DocumentIDs) > 0 {
		args = append(args, query.DocumentIDs)
		sql += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM mentions m
			WHERE m.project_id = e.project_id AND m.entity_id = e.id AND m.document_id = ANY($%d)
		)`, len(args))
	}
	sql += " ORDER BY e.id"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var entities []common.EntityRecord
	for rows.Next() {
		var e common.EntityRecord
		var props []byte
		if err := rows.Scan(&e.ID, &e.Label, &e.EntityType, &e.DocumentCount, &props); err != nil {
			return nil, err
		}
		if len(props) > 0 {
			if err := json.Unmarshal(props, &e.Properties); err != nil {
				return nil, fmt.Errorf("failed to decode entity properties: %w", err)
			}
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

func (s *Store) GetCoOccurrences(ctx context.Context, projectID int64, documentIDs []string, minCount int) ([]common.CoOccurrenceRecord, error) {
	sql := `
		SELECT entity_a, entity_b, count, document_ids, relationship_type
		FROM co_occurrences
		WHERE project_id = $1 AND count >= $2`
	args := []any{projectID, minCount}

	if len(documentIDs) > 0 {
		args = append(args, documentIDs)
		sql += fmt.Sprintf(" AND document_ids && $%d", len(args))
	}
	sql += " ORDER BY entity_a, entity_b"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query co-occurrences: %w", err)
	}
	defer rows.Close()

	var records []common.CoOccurrenceRecord
	for rows.Next() {
		var r common.CoOccurrenceRecord
		if err := rows.Scan(&r.EntityA, &r.EntityB, &r.Count, &r.DocumentIDs, &r.RelationshipType); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) GetMentions(ctx context.Context, projectID int64, entityIDs []string) ([]common.MentionRecord, error) {
	sql := `
		SELECT entity_id, document_id, mention_date, source_id
		FROM mentions
		WHERE project_id = $1`
	args := []any{projectID}

	if len(entityIDs) > 0 {
		args = append(args, entityIDs)
		sql += fmt.Sprintf(" AND entity_id = ANY($%d)", len(args))
	}
	sql += " ORDER BY entity_id, document_id"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentions: %w", err)
	}
	defer rows.Close()

	var mentions []common.MentionRecord
	for rows.Next() {
		var m common.MentionRecord
		var sourceID *string
		if err := rows.Scan(&m.EntityID, &m.DocumentID, &m.Date, &sourceID); err != nil {
			return nil, err
		}
		if sourceID != nil {
			m.SourceID = *sourceID
		}
		mentions = append(mentions, m)
	}
	return mentions, rows.Err()
}

func (s *Store) GetCredibilityRatings(ctx context.Context, projectID int64) (map[string]float64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT source_id, score FROM source_credibility WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query credibility ratings: %w", err)
	}
	defer rows.Close()

	ratings := map[string]float64{}
	for rows.Next() {
		var sourceID string
		var score float64
		if err := rows.Scan(&sourceID, &score); err != nil {
			return nil, err
		}
		ratings[sourceID] = score
	}
	return ratings, rows.Err()
}
