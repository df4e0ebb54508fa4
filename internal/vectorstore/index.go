// Package vectorstore provides the similarity-search index over embedded
// knowledge-base chunks.
package vectorstore

import (
	"context"
	"time"
)

// Document is one text chunk to index.
type Document struct {
	ID         string
	Text       string
	Source     string
	UploadedAt time.Time
}

// Result is one ranked query hit.
type Result struct {
	Text   string
	Source string
	Score  float64
}

// Index is the vector index collaborator contract: upsert embedded chunks
// and run k-nearest-neighbor queries over them.
type Index interface {
	Upsert(ctx context.Context, docs []Document) error
	Query(ctx context.Context, text string, k int) ([]Result, error)
}
