package common

import "time"

// EntityRecord is one entity as delivered by the upstream data store.
type EntityRecord struct {
	ID            string         `json:"id"`
	Label         string         `json:"label"`
	EntityType    string         `json:"entity_type"`
	DocumentCount int            `json:"document_count"`
	Properties    map[string]any `json:"properties,omitempty"`
}

// CoOccurrenceRecord counts how often two entities appear in the same
// document. The pair is unordered; EntityA/EntityB carry whatever order the
// store returned.
type CoOccurrenceRecord struct {
	EntityA          string   `json:"entity_a"`
	EntityB          string   `json:"entity_b"`
	Count            int      `json:"count"`
	DocumentIDs      []string `json:"document_ids,omitempty"`
	RelationshipType string   `json:"relationship_type,omitempty"`
}

// MentionRecord is one occurrence of an entity in a document. Date and
// SourceID are optional; scoring and temporal analysis skip mentions that
// lack them.
type MentionRecord struct {
	EntityID   string     `json:"entity_id"`
	DocumentID string     `json:"document_id"`
	Date       *time.Time `json:"date,omitempty"`
	SourceID   string     `json:"source_id,omitempty"`
}
