package service

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/remiehneppo/research-assistant/types"
	"github.com/remiehneppo/research-assistant/utils"
	"go.uber.org/zap"
)

// DefaultDocumentServiceConfig matches the retrieval chunk budget: 500
// characters per chunk with 50 characters of overlap.
var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MaxChunkSize: 500,
	OverlapSize:  50,
}

// PDFService extracts text from PDF files page by page and splits it into
// overlapping chunks tagged with source metadata. Extraction shells out to
// poppler (pdfinfo, pdftotext) and falls back to tesseract OCR for pages
// with no text layer.
type PDFService struct {
	maxChunkSize int
	overlapSize  int
	logger       *zap.Logger
}

func NewPDFService(config types.DocumentServiceConfig, logger *zap.Logger) *PDFService {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultDocumentServiceConfig.MaxChunkSize
	}
	if config.OverlapSize < 0 || config.OverlapSize >= config.MaxChunkSize {
		config.OverlapSize = DefaultDocumentServiceConfig.OverlapSize
	}
	return &PDFService{
		maxChunkSize: config.MaxChunkSize,
		overlapSize:  config.OverlapSize,
		logger:       logger,
	}
}

// documentInfo is the document-level metadata pdfinfo reports.
type documentInfo struct {
	Pages        int
	Title        string
	Author       string
	CreationDate string
}

// ProcessPDF reads and chunks a PDF file, sending each chunk on c. The
// channel is closed when processing finishes. Pages that fail extraction
// are skipped with a warning; failure to read the document at all is
// returned as an error.
func (s *PDFService) ProcessPDF(filePath, source string, c chan<- types.DocumentChunk) error {
	defer close(c)

	info, err := s.documentInfo(filePath)
	if err != nil {
		return fmt.Errorf("read pdf info: %w", err)
	}
	if info.Title == "" {
		info.Title = utils.FileNameWithoutExt(filePath)
	}
	s.logger.Info("processing pdf",
		zap.String("source", source), zap.Int("pages", info.Pages))

	carry := ""
	for pageNum := 1; pageNum <= info.Pages; pageNum++ {
		text, err := s.extractText(filePath, pageNum)
		if err != nil {
			s.logger.Warn("failed to extract page text",
				zap.Int("page", pageNum), zap.Error(err))
			continue
		}

		text = strings.TrimSpace(carry + " " + s.cleanText(text))
		if text == "" {
			continue
		}

		metadata := types.DocumentMetadata{
			Source:     source,
			Title:      info.Title,
			Author:     info.Author,
			PageNum:    pageNum,
			TotalPages: info.Pages,
		}
		if info.CreationDate != "" {
			metadata.Custom = map[string]string{"creationdate": info.CreationDate}
		}

		chunks := s.createChunks(text, metadata)
		if len(chunks) == 0 {
			carry = ""
			continue
		}

		// The trailing chunk may continue on the next page; hold it back
		// and prepend it so sentences spanning page breaks stay together.
		if pageNum < info.Pages {
			carry = chunks[len(chunks)-1].Content
			chunks = chunks[:len(chunks)-1]
		} else {
			carry = ""
		}
		for _, chunk := range chunks {
			c <- chunk
		}
	}

	return nil
}

// extractText tries pdftotext first and falls back to OCR.
func (s *PDFService) extractText(filePath string, pageNumber int) (string, error) {
	text, err := s.extractTextWithPdftotext(filePath, pageNumber)
	if err != nil || text == "" {
		text, err = s.extractTextWithTesseract(filePath, pageNumber)
		if err != nil {
			return "", fmt.Errorf("failed to extract text: %w", err)
		}
	}
	return text, nil
}

// createChunks splits text into overlapping chunks, preferring sentence
// boundaries, then word boundaries, over hard cuts.
func (s *PDFService) createChunks(text string, metadata types.DocumentMetadata) []types.DocumentChunk {
	newChunk := func(content string) types.DocumentChunk {
		return types.DocumentChunk{
			ID:       uuid.NewString(),
			Content:  content,
			Metadata: metadata,
		}
	}

	if len(text) <= s.maxChunkSize {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []types.DocumentChunk{newChunk(trimmed)}
		}
		return nil
	}

	var chunks []types.DocumentChunk
	currentPos := 0
	for currentPos < len(text) {
		chunkEnd := currentPos + s.maxChunkSize
		if chunkEnd >= len(text) {
			if chunk := strings.TrimSpace(text[currentPos:]); chunk != "" {
				chunks = append(chunks, newChunk(chunk))
			}
			break
		}

		sentenceEnd := chunkEnd
		for i := chunkEnd; i > currentPos; i-- {
			if text[i] == '.' || text[i] == '?' || text[i] == '!' {
				sentenceEnd = i + 1
				break
			}
		}
		if sentenceEnd == chunkEnd {
			for i := chunkEnd; i > currentPos; i-- {
				if text[i] == ' ' {
					sentenceEnd = i
					break
				}
			}
		}

		if chunk := strings.TrimSpace(text[currentPos:sentenceEnd]); chunk != "" {
			chunks = append(chunks, newChunk(chunk))
		}

		next := sentenceEnd - s.overlapSize
		if next <= currentPos {
			next = sentenceEnd
		}
		currentPos = next
	}

	return chunks
}

func (s *PDFService) extractTextWithPdftotext(filePath string, pageNumber int) (string, error) {
	cmd := exec.Command("pdftotext",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-enc", "UTF-8", "-nopgbrk",
		filePath, "-")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext page %d: %w", pageNumber, err)
	}
	if trimmed := strings.TrimSpace(out.String()); trimmed != "" {
		return trimmed, nil
	}
	return "", fmt.Errorf("pdftotext returned nothing at page %d", pageNumber)
}

func (s *PDFService) extractTextWithTesseract(pdfPath string, pageNumber int) (string, error) {
	s.logger.Debug("falling back to OCR", zap.Int("page", pageNumber))

	tempDir, err := os.MkdirTemp("", "research-assistant-ocr-")
	if err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	convertCmd := exec.Command("pdftoppm",
		"-f", strconv.Itoa(pageNumber),
		"-l", strconv.Itoa(pageNumber),
		"-png", pdfPath, filepath.Join(tempDir, "page"))
	if err := convertCmd.Run(); err != nil {
		return "", fmt.Errorf("convert page %d to image: %w", pageNumber, err)
	}

	images, err := filepath.Glob(filepath.Join(tempDir, "page-*.png"))
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("no page image produced for page %d", pageNumber)
	}

	ocrCmd := exec.Command("tesseract",
		images[0], "stdout",
		"-l", "eng",
		"--oem", "3",
		"--psm", "3")
	var out bytes.Buffer
	ocrCmd.Stdout = &out
	if err := ocrCmd.Run(); err != nil {
		return "", fmt.Errorf("run tesseract: %w", err)
	}
	if trimmed := strings.TrimSpace(out.String()); trimmed != "" {
		return trimmed, nil
	}
	return "", fmt.Errorf("ocr returned nothing at page %d", pageNumber)
}

// documentInfo runs pdfinfo and parses page count plus the bibliographic
// fields the citation generator falls back on.
func (s *PDFService) documentInfo(pdfPath string) (documentInfo, error) {
	cmd := exec.Command("pdfinfo", pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return documentInfo{}, fmt.Errorf("run pdfinfo: %w", err)
	}
	info := parsePDFInfo(out.String())
	if info.Pages == 0 {
		return documentInfo{}, fmt.Errorf("unable to determine page count from pdfinfo")
	}
	return info, nil
}

func parsePDFInfo(output string) documentInfo {
	var info documentInfo
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Pages":
			info.Pages, _ = strconv.Atoi(value)
		case "Title":
			info.Title = value
		case "Author":
			info.Author = value
		case "CreationDate":
			info.CreationDate = value
		}
	}
	return info
}

func (s *PDFService) cleanText(text string) string {
	replacements := [][2]string{
		{"\u0000", ""},   // null character
		{"\ufffd", ""},   // unicode replacement character
		{"\u001b", ""},   // escape character
		{"\r", ""},       // carriage return
		{"\f", "\n"},     // form feed to newline
		{"  ", " "},      // collapse double spaces
	}
	cleaned := text
	for _, r := range replacements {
		cleaned = strings.ReplaceAll(cleaned, r[0], r[1])
	}
	return strings.TrimSpace(cleaned)
}
