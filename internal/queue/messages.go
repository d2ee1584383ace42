package queue

// AnalyzeGraphMsg asks the worker to (re)build a project's graph. The
// optional filters narrow which entities and co-occurrences the build
// fetches.
type AnalyzeGraphMsg struct {
	Message         string   `json:"message"`
	ProjectID       int64    `json:"project_id"`
	CorrelationID   string   `json:"correlation_id,omitempty"`
	DocumentIDs     []string `json:"document_ids,omitempty"`
	EntityTypes     []string `json:"entity_types,omitempty"`
	MinCoOccurrence int      `json:"min_co_occurrence,omitempty"`
}

// InvalidateGraphMsg drops a project's stored graph after upstream data
// changed, so the next analyze call rebuilds it.
type InvalidateGraphMsg struct {
	Message       string `json:"message"`
	ProjectID     int64  `json:"project_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// GraphBuiltMsg is published on the pubsub exchange after a successful
// build, so dashboards can refresh.
type GraphBuiltMsg struct {
	ProjectID     int64  `json:"project_id"`
	GraphID       string `json:"graph_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
	NodeCount     int    `json:"node_count"`
	EdgeCount     int    `json:"edge_count"`
}
