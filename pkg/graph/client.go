// Package graph builds relationship graphs from entity and co-occurrence
// records and derives filtered views and subgraphs from them.
//
// Building fetches from the upstream store; filtering and subgraph
// extraction are pure functions that always return a new Graph value.
package graph

import (
	"github.com/linkscope/backend/pkg/store"
)

// Builder constructs project graphs from the upstream data store.
//
// A Builder should be created using NewBuilder.
type Builder struct {
	store store.DataStore
}

// NewBuilderParams defines the configuration for creating a Builder.
type NewBuilderParams struct {
	Store store.DataStore
}

// NewBuilder creates a Builder backed by the given data store.
func NewBuilder(params NewBuilderParams) *Builder {
	return &Builder{store: params.Store}
}
