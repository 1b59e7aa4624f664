package service

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/remiehneppo/research-assistant/types"
	"go.uber.org/zap"
)

// SparseSearcher scores chunks against a query with keyword matching
// (BM25-style term frequency), complementing dense similarity search.
type SparseSearcher interface {
	Search(ctx context.Context, query string, docs []types.DocumentChunk, limit int) ([]types.DocumentChunk, []float64, error)
}

// BleveSparseSearcher runs keyword search over an in-memory bleve index
// built from the given chunks. The index is rebuilt per call, mirroring
// how the session's chunk set changes with every upload; chunk counts per
// document are small enough that this stays cheap.
type BleveSparseSearcher struct {
	logger *zap.Logger
}

func NewBleveSparseSearcher(logger *zap.Logger) *BleveSparseSearcher {
	return &BleveSparseSearcher{logger: logger}
}

func (s *BleveSparseSearcher) Search(ctx context.Context, query string, docs []types.DocumentChunk, limit int) ([]types.DocumentChunk, []float64, error) {
	if len(docs) == 0 {
		return nil, nil, nil
	}
	if limit <= 0 {
		limit = len(docs)
	}

	index, err := bleve.NewMemOnly(buildChunkMapping())
	if err != nil {
		return nil, nil, fmt.Errorf("create keyword index: %w", err)
	}
	defer index.Close()

	byID := make(map[string]types.DocumentChunk, len(docs))
	batch := index.NewBatch()
	for _, doc := range docs {
		byID[doc.ID] = doc
		if err := batch.Index(doc.ID, map[string]interface{}{"content": doc.Content}); err != nil {
			return nil, nil, fmt.Errorf("index chunk %s: %w", doc.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, nil, fmt.Errorf("index chunks: %w", err)
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("content")
	req := bleve.NewSearchRequestOptions(matchQuery, limit, 0, false)

	res, err := index.SearchInContext(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("keyword search: %w", err)
	}

	var hits []types.DocumentChunk
	var scores []float64
	for _, hit := range res.Hits {
		chunk, ok := byID[hit.ID]
		if !ok {
			continue
		}
		hits = append(hits, chunk)
		scores = append(scores, hit.Score)
	}
	return hits, scores, nil
}

func buildChunkMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.DefaultField = "content"

	docMapping := bleve.NewDocumentMapping()
	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.Index = true
	docMapping.AddFieldMappingsAt("content", contentField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
