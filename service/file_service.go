package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/remiehneppo/research-assistant/repository"
	"github.com/remiehneppo/research-assistant/types"
	"github.com/remiehneppo/research-assistant/utils"
	"go.uber.org/zap"
)

// VectorIndexer is the write side of the vector index used at ingestion.
type VectorIndexer interface {
	BatchInsertChunks(ctx context.Context, chunks []types.DocumentChunk, vectors [][]float32) error
}

// FileService turns an uploaded PDF into session chunks and indexed
// vectors: save the file, parse and chunk it, append the chunks to the
// session repository, embed them, and upsert into the vector index. The
// newly ingested file becomes the active one.
type FileService struct {
	uploadDir string
	repo      *repository.DocumentRepository
	store     VectorIndexer
	embedder  EmbeddingService
	pdf       *PDFService
	logger    *zap.Logger
}

func NewFileService(
	uploadDir string,
	repo *repository.DocumentRepository,
	store VectorIndexer,
	embedder EmbeddingService,
	pdf *PDFService,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		uploadDir: uploadDir,
		repo:      repo,
		store:     store,
		embedder:  embedder,
		pdf:       pdf,
		logger:    logger,
	}
}

// UploadFile ingests a multipart upload, streaming progress events on
// status. The source identifier defaults to the original file name.
func (s *FileService) UploadFile(ctx context.Context, req types.UploadRequest, file *multipart.FileHeader, status chan<- types.ProcessingDocumentStatus) (int, error) {
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".pdf" {
		return 0, fmt.Errorf("unsupported file type: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	savedPath, err := utils.SaveUpload(src, s.uploadDir, file.Filename)
	if err != nil {
		return 0, err
	}

	source := req.Source
	if source == "" {
		source = file.Filename
	}
	return s.ingest(ctx, savedPath, source, status)
}

// IngestLocalFile ingests a PDF already on disk. Used by the CLI commands.
func (s *FileService) IngestLocalFile(ctx context.Context, path string, status chan<- types.ProcessingDocumentStatus) (int, error) {
	savedPath, err := utils.CopyFileWithTimestamp(path, s.uploadDir)
	if err != nil {
		return 0, err
	}
	return s.ingest(ctx, savedPath, filepath.Base(path), status)
}

func (s *FileService) ingest(ctx context.Context, path, source string, status chan<- types.ProcessingDocumentStatus) (int, error) {
	chunkChan := make(chan types.DocumentChunk)
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.pdf.ProcessPDF(path, source, chunkChan)
	}()

	var chunks []types.DocumentChunk
	for chunk := range chunkChan {
		chunks = append(chunks, chunk)
		if status != nil {
			status <- types.ProcessingDocumentStatus{
				Status:         "processing",
				Message:        "Processing document",
				Progress:       float64(chunk.Metadata.PageNum) / float64(chunk.Metadata.TotalPages),
				TotalPages:     chunk.Metadata.TotalPages,
				ProcessedPages: chunk.Metadata.PageNum,
			}
		}
	}
	if err := <-errChan; err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	if len(chunks) == 0 {
		return 0, &types.NoDocumentsError{Operation: "ingestion"}
	}

	s.repo.Append(chunks...)

	if s.store == nil {
		return 0, &types.ConfigurationError{Reason: "vector index not available"}
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, contents)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if err := s.store.BatchInsertChunks(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}

	if err := s.repo.SetActiveFile(source); err != nil {
		return 0, err
	}

	s.logger.Info("ingested document",
		zap.String("source", source), zap.Int("chunks", len(chunks)))
	if status != nil {
		status <- types.ProcessingDocumentStatus{
			Status:  "completed",
			Message: "Done processing PDF",
		}
	}
	return len(chunks), nil
}
