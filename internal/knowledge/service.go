// Package knowledge ingests uploaded documents into the vector index:
// text extraction by MIME type, paragraph chunking, and chunk upsert with
// source metadata.
package knowledge

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jmorgan/ikigai-copilot/internal/vectorstore"
)

// Service adds uploaded documents to the knowledge base.
type Service struct {
	index vectorstore.Index
}

func NewService(index vectorstore.Index) *Service {
	return &Service{index: index}
}

// AddDocument extracts text from the uploaded buffer, chunks it by
// paragraph, and upserts the chunks under fresh ids. Returns the number of
// chunks stored; a document with no usable chunks stores nothing and is
// not an error.
func (s *Service) AddDocument(ctx context.Context, filename, mimeType string, data []byte) (int, error) {
	raw, err := extractText(mimeType, data)
	if err != nil {
		return 0, err
	}

	chunks := chunkText(raw)
	if len(chunks) == 0 {
		log.Printf("[knowledge] no valid text chunks found in document: %s", filename)
		return 0, nil
	}

	uploadedAt := time.Now().UTC()
	docs := make([]vectorstore.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = vectorstore.Document{
			ID:         uuid.New().String(),
			Text:       chunk,
			Source:     filename,
			UploadedAt: uploadedAt,
		}
	}

	log.Printf("[knowledge] ingesting %d chunks from %s", len(docs), filename)
	if err := s.index.Upsert(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to upsert document chunks: %w", err)
	}
	return len(docs), nil
}
