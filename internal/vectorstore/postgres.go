package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/jmorgan/ikigai-copilot/internal/llm"
)

// upsertConcurrency bounds parallel chunk inserts per Upsert call.
const upsertConcurrency = 4

// PostgresIndex stores chunk embeddings in the knowledge_chunks table and
// ranks by cosine similarity in process. Suitable for the knowledge-base
// sizes this application handles; swap the Index implementation for a
// dedicated vector database beyond that.
type PostgresIndex struct {
	pool     *pgxpool.Pool
	embedder llm.Embedder
}

// NewPostgresIndex creates an index over the given pool and embedder.
func NewPostgresIndex(pool *pgxpool.Pool, embedder llm.Embedder) *PostgresIndex {
	return &PostgresIndex{pool: pool, embedder: embedder}
}

// Upsert embeds the documents and writes them to the chunk table.
func (ix *PostgresIndex) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(upsertConcurrency)
	for i, d := range docs {
		g.Go(func() error {
			_, err := ix.pool.Exec(gctx,
				`INSERT INTO knowledge_chunks (id, content, embedding, source, uploaded_at)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (id) DO UPDATE SET content = $2, embedding = $3, source = $4, uploaded_at = $5`,
				d.ID, d.Text, vectors[i], d.Source, d.UploadedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert chunk %s: %w", d.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Query embeds the query text and returns the k most similar chunks.
func (ix *PostgresIndex) Query(ctx context.Context, text string, k int) ([]Result, error) {
	queryVec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := ix.pool.Query(ctx, `SELECT content, embedding, source FROM knowledge_chunks`)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var content, source string
		var embedding []float32
		if err := rows.Scan(&content, &embedding, &source); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		results = append(results, Result{
			Text:   content,
			Source: source,
			Score:  CosineSimilarity(queryVec, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either vector is zero-length or the dimensions differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
