package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/remiehneppo/research-assistant/types"
	"go.uber.org/zap"
)

const (
	// denseTopK is how many candidates dense similarity search contributes.
	denseTopK = 5
	// finalTopK bounds the retriever's output.
	finalTopK = 5
	// ensemblePoolSize caps the fused candidate pool handed to the reranker.
	ensemblePoolSize = 38

	denseWeight  = 0.7
	sparseWeight = 0.3
	// rrfRankConstant dampens the contribution of lower ranks in
	// reciprocal rank fusion.
	rrfRankConstant = 60
)

// VectorSearcher is the dense side of hybrid retrieval: similarity search
// over the vector index, restricted to one source.
type VectorSearcher interface {
	SearchBySource(ctx context.Context, vector []float32, source string, limit int) ([]types.DocumentChunk, []float32, error)
}

// DocumentReader is the slice of the session repository the retriever
// needs: the chunks of one file and which file is active.
type DocumentReader interface {
	BySource(source string) []types.DocumentChunk
	ActiveFile() string
}

// RerankResult says whether the final ordering came from the cross-encoder
// or from the ensemble fallback, so the degradation is visible in the type
// rather than buried in error handling.
type RerankResult struct {
	Reranked bool
	Docs     []types.DocumentChunk
}

// HybridRetriever combines source-scoped dense similarity search with BM25
// keyword search over the same document's chunks, fuses both rankings, and
// reranks the pool with a cross-encoder. Reranker failure degrades to the
// fused order; every other failure propagates.
type HybridRetriever struct {
	embedder EmbeddingService
	store    VectorSearcher
	sparse   SparseSearcher
	reranker Reranker
	repo     DocumentReader
	logger   *zap.Logger
}

func NewHybridRetriever(
	embedder EmbeddingService,
	store VectorSearcher,
	sparse SparseSearcher,
	reranker Reranker,
	repo DocumentReader,
	logger *zap.Logger,
) *HybridRetriever {
	return &HybridRetriever{
		embedder: embedder,
		store:    store,
		sparse:   sparse,
		reranker: reranker,
		repo:     repo,
		logger:   logger,
	}
}

// Retrieve fills state.Docs with at most finalTopK chunks, all from the
// active file, ordered by descending relevance. state.CurrentFile is
// resolved from the repository when the request did not pin one.
func (r *HybridRetriever) Retrieve(ctx context.Context, state *types.ResearchState) error {
	current := state.CurrentFile
	if current == "" {
		current = r.repo.ActiveFile()
	}
	if current == "" {
		return &types.ConfigurationError{Reason: "no active file specified for retrieval"}
	}
	state.CurrentFile = current

	if r.store == nil {
		return &types.ConfigurationError{Reason: "vector index not available"}
	}

	fileDocs := r.repo.BySource(current)
	if len(fileDocs) == 0 {
		return &types.ConfigurationError{Reason: fmt.Sprintf("no chunks ingested for %s", current)}
	}

	vector, err := r.embedder.EmbedQuery(ctx, state.Query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}

	denseDocs, _, err := r.store.SearchBySource(ctx, vector, current, denseTopK)
	if err != nil {
		return fmt.Errorf("dense retrieval: %w", err)
	}

	sparseDocs, _, err := r.sparse.Search(ctx, state.Query, fileDocs, ensemblePoolSize)
	if err != nil {
		return fmt.Errorf("sparse retrieval: %w", err)
	}

	pool := fuseRankings(denseDocs, sparseDocs)
	result := r.rerank(ctx, state.Query, pool)
	state.Docs = result.Docs
	return nil
}

// fuseRankings merges the dense and sparse ranked lists with weighted
// reciprocal rank fusion, deduplicating by chunk identity, and returns at
// most ensemblePoolSize chunks by descending fused score.
func fuseRankings(dense, sparse []types.DocumentChunk) []types.DocumentChunk {
	type fused struct {
		doc   types.DocumentChunk
		score float64
	}

	scores := make(map[string]*fused)
	var order []string

	accumulate := func(docs []types.DocumentChunk, weight float64) {
		for rank, doc := range docs {
			entry, ok := scores[doc.ID]
			if !ok {
				entry = &fused{doc: doc}
				scores[doc.ID] = entry
				order = append(order, doc.ID)
			}
			entry.score += weight / float64(rank+1+rrfRankConstant)
		}
	}
	accumulate(dense, denseWeight)
	accumulate(sparse, sparseWeight)

	merged := make([]*fused, 0, len(order))
	for _, id := range order {
		merged = append(merged, scores[id])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].score > merged[j].score
	})

	if len(merged) > ensemblePoolSize {
		merged = merged[:ensemblePoolSize]
	}
	out := make([]types.DocumentChunk, len(merged))
	for i, entry := range merged {
		out[i] = entry.doc
	}
	return out
}

// rerank scores the pool with the cross-encoder and keeps the top
// finalTopK. Any reranker failure falls back to the head of the fused pool
// with a logged warning; the failure never reaches the caller.
func (r *HybridRetriever) rerank(ctx context.Context, query string, pool []types.DocumentChunk) RerankResult {
	fallback := func(err error) RerankResult {
		r.logger.Warn("reranker failed, returning ensemble order", zap.Error(err))
		return RerankResult{Reranked: false, Docs: headChunks(pool, finalTopK)}
	}

	if r.reranker == nil {
		return fallback(&types.RerankerUnavailableError{Err: fmt.Errorf("no reranker configured")})
	}
	if len(pool) == 0 {
		return RerankResult{Reranked: true, Docs: nil}
	}

	passages := make([]string, len(pool))
	for i, doc := range pool {
		passages[i] = doc.Content
	}

	scores, err := r.reranker.Rerank(ctx, query, passages)
	if err != nil {
		return fallback(err)
	}

	type scored struct {
		doc   types.DocumentChunk
		score float64
	}
	ranked := make([]scored, len(pool))
	for i, doc := range pool {
		ranked[i] = scored{doc: doc, score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	limit := finalTopK
	if limit > len(ranked) {
		limit = len(ranked)
	}
	docs := make([]types.DocumentChunk, limit)
	for i := 0; i < limit; i++ {
		docs[i] = ranked[i].doc
	}
	return RerankResult{Reranked: true, Docs: docs}
}

func headChunks(docs []types.DocumentChunk, n int) []types.DocumentChunk {
	if len(docs) <= n {
		return docs
	}
	return docs[:n]
}
