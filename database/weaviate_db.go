package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/remiehneppo/research-assistant/config"
	"github.com/remiehneppo/research-assistant/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"
)

const batchSize = 200

// chunkFields are the payload properties stored per indexed chunk. The
// source property backs the equality filter every query uses.
var chunkFields = []graphql.Field{
	{Name: "content"},
	{Name: "source"},
	{Name: "title"},
	{Name: "author"},
	{Name: "year"},
	{Name: "journal"},
	{Name: "volume"},
	{Name: "issue"},
	{Name: "pages"},
	{Name: "doi"},
	{Name: "url"},
	{Name: "creationDate"},
	{Name: "page"},
	{Name: "totalPages"},
	{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
}

// WeaviateStore persists chunk embeddings in a named Weaviate class and
// serves source-filtered similarity search. Vectors are supplied by the
// caller; no server-side vectorizer is configured.
type WeaviateStore struct {
	client *weaviate.Client
	class  string
	logger *zap.Logger
}

// NewWeaviateStore connects to Weaviate, creates the collection class if it
// is absent, and verifies the source filter index.
func NewWeaviateStore(cfg config.WeaviateStoreConfig, logger *zap.Logger) (*WeaviateStore, error) {
	scheme := "http"
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")

	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
	}

	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	store := &WeaviateStore{
		client: client,
		class:  classNameFor(cfg.Collection),
		logger: logger,
	}
	if err := store.ensureClass(context.Background()); err != nil {
		return nil, err
	}
	if err := store.EnsureSourceIndex(context.Background()); err != nil {
		logger.Warn("could not ensure source index", zap.Error(err))
	}
	return store, nil
}

// classNameFor turns a collection name like "research_papers" into a valid
// Weaviate class name ("ResearchPapers").
func classNameFor(collection string) string {
	if collection == "" {
		collection = "research_papers"
	}
	parts := strings.FieldsFunc(collection, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func (s *WeaviateStore) classObject() *models.Class {
	textProps := []string{
		"content", "source", "title", "author", "year", "journal",
		"volume", "issue", "pages", "doi", "url", "creationDate",
	}
	props := make([]*models.Property, 0, len(textProps)+2)
	for _, name := range textProps {
		props = append(props, &models.Property{Name: name, DataType: []string{"text"}})
	}
	props = append(props,
		&models.Property{Name: "page", DataType: []string{"int"}},
		&models.Property{Name: "totalPages", DataType: []string{"int"}},
	)
	return &models.Class{
		Class:           s.class,
		Properties:      props,
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
	}
}

func (s *WeaviateStore) ensureClass(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("get schema: %w", err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.class {
			return nil
		}
	}
	if err := s.client.Schema().ClassCreator().WithClass(s.classObject()).Do(ctx); err != nil {
		return fmt.Errorf("create class %s: %w", s.class, err)
	}
	s.logger.Info("created weaviate class", zap.String("class", s.class))
	return nil
}

// EnsureSourceIndex verifies the source property exists and is filterable,
// creating it when absent. Queries filter on source for every retrieval, so
// this must hold before any search runs.
func (s *WeaviateStore) EnsureSourceIndex(ctx context.Context) error {
	class, err := s.client.Schema().ClassGetter().WithClassName(s.class).Do(ctx)
	if err != nil {
		return fmt.Errorf("get class %s: %w", s.class, err)
	}
	for _, prop := range class.Properties {
		if prop.Name == "source" {
			if prop.IndexFilterable != nil && !*prop.IndexFilterable {
				return fmt.Errorf("source property of %s is not filterable", s.class)
			}
			return nil
		}
	}
	s.logger.Info("creating source property on weaviate class", zap.String("class", s.class))
	filterable := true
	prop := &models.Property{
		Name:            "source",
		DataType:        []string{"text"},
		IndexFilterable: &filterable,
	}
	if err := s.client.Schema().PropertyCreator().WithClassName(s.class).WithProperty(prop).Do(ctx); err != nil {
		return fmt.Errorf("create source property: %w", err)
	}
	return nil
}

// ReInit drops and recreates the collection class.
func (s *WeaviateStore) ReInit(ctx context.Context) error {
	if err := s.client.Schema().ClassDeleter().WithClassName(s.class).Do(ctx); err != nil {
		return fmt.Errorf("delete class %s: %w", s.class, err)
	}
	if err := s.client.Schema().ClassCreator().WithClass(s.classObject()).Do(ctx); err != nil {
		return fmt.Errorf("recreate class %s: %w", s.class, err)
	}
	return nil
}

func chunkProperties(chunk types.DocumentChunk) map[string]interface{} {
	m := chunk.Metadata
	return map[string]interface{}{
		"content":      chunk.Content,
		"source":       m.Source,
		"title":        m.Title,
		"author":       m.Author,
		"year":         m.Year,
		"journal":      m.Journal,
		"volume":       m.Volume,
		"issue":        m.Issue,
		"pages":        m.Pages,
		"doi":          m.DOI,
		"url":          m.URL,
		"creationDate": m.CustomField("creationdate"),
		"page":         m.PageNum,
		"totalPages":   m.TotalPages,
	}
}

// BatchInsertChunks upserts chunks and their embeddings in batches. The
// chunk ID doubles as the Weaviate object ID so dense and sparse results
// can be deduplicated by identity.
func (s *WeaviateStore) BatchInsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("vector count %d does not match chunk count %d", len(vectors), len(chunks))
	}

	total := len(chunks)
	for i := 0; i < total; i += batchSize {
		end := i + batchSize
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			batcher = batcher.WithObjects(&models.Object{
				Class:      s.class,
				ID:         strfmt.UUID(chunks[j].ID),
				Properties: chunkProperties(chunks[j]),
				Vector:     vectors[j],
			})
		}
		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("insert batch %d-%d: %w", i, end, err)
		}
		s.logger.Debug("inserted chunk batch",
			zap.Int("from", i), zap.Int("to", end), zap.Int("total", total))
	}
	return nil
}

// SearchBySource runs dense similarity search restricted to chunks whose
// source equals the given file. An empty collection yields empty results,
// not an error.
func (s *WeaviateStore) SearchBySource(ctx context.Context, vector []float32, source string, limit int) ([]types.DocumentChunk, []float32, error) {
	where := filters.Where().
		WithPath([]string{"source"}).
		WithOperator(filters.Equal).
		WithValueString(source)

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(chunkFields...).
		WithNearVector(nearVector).
		WithWhere(where).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("similarity search: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, nil, fmt.Errorf("similarity search: %s", result.Errors[0].Message)
	}

	return parseChunks(result.Data, s.class)
}

// DeleteSource removes every indexed chunk of one file.
func (s *WeaviateStore) DeleteSource(ctx context.Context, source string) error {
	where := filters.Where().
		WithPath([]string{"source"}).
		WithOperator(filters.Equal).
		WithValueString(source)

	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(s.class).
		WithWhere(where).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("delete source %s: %w", source, err)
	}
	return nil
}

func parseChunks(data map[string]models.JSONObject, class string) ([]types.DocumentChunk, []float32, error) {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil, nil
	}
	items, ok := get[class].([]interface{})
	if !ok {
		return nil, nil, nil
	}

	var chunks []types.DocumentChunk
	var distances []float32
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		chunk := types.DocumentChunk{
			Content: stringField(obj, "content"),
			Metadata: types.DocumentMetadata{
				Source:     stringField(obj, "source"),
				Title:      stringField(obj, "title"),
				Author:     stringField(obj, "author"),
				Year:       stringField(obj, "year"),
				Journal:    stringField(obj, "journal"),
				Volume:     stringField(obj, "volume"),
				Issue:      stringField(obj, "issue"),
				Pages:      stringField(obj, "pages"),
				DOI:        stringField(obj, "doi"),
				URL:        stringField(obj, "url"),
				PageNum:    intField(obj, "page"),
				TotalPages: intField(obj, "totalPages"),
			},
		}
		if cd := stringField(obj, "creationDate"); cd != "" {
			chunk.Metadata.Custom = map[string]string{"creationdate": cd}
		}

		distance := float32(0)
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			if id, ok := additional["id"].(string); ok {
				chunk.ID = id
			}
			if d, ok := additional["distance"].(float64); ok {
				distance = float32(d)
			}
		}
		chunks = append(chunks, chunk)
		distances = append(distances, distance)
	}
	return chunks, distances, nil
}

func stringField(obj map[string]interface{}, key string) string {
	v, _ := obj[key].(string)
	return v
}

func intField(obj map[string]interface{}, key string) int {
	if v, ok := obj[key].(float64); ok {
		return int(v)
	}
	return 0
}
