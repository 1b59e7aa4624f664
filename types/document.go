package types

// DocumentChunk is the unit of retrieval: a bounded span of document text
// with its source metadata. Chunks are created during ingestion and are
// immutable afterwards.
type DocumentChunk struct {
	ID       string           `json:"id"`
	Content  string           `json:"content"`
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentMetadata carries the bibliographic and positional fields attached
// to every chunk. Source is mandatory; everything else is best effort from
// the PDF's own metadata.
type DocumentMetadata struct {
	Source     string            `json:"source"`
	Title      string            `json:"title,omitempty"`
	Author     string            `json:"author,omitempty"`
	Year       string            `json:"year,omitempty"`
	Journal    string            `json:"journal,omitempty"`
	Volume     string            `json:"volume,omitempty"`
	Issue      string            `json:"issue,omitempty"`
	Pages      string            `json:"pages,omitempty"`
	DOI        string            `json:"doi,omitempty"`
	URL        string            `json:"url,omitempty"`
	PageNum    int               `json:"page_num,omitempty"`
	TotalPages int               `json:"total_pages,omitempty"`
	Custom     map[string]string `json:"custom,omitempty"`
}

// CustomField returns a value from the free-form metadata map, or "" when
// the map is nil or the key is absent.
func (m DocumentMetadata) CustomField(key string) string {
	if m.Custom == nil {
		return ""
	}
	return m.Custom[key]
}

// DocumentServiceConfig contains configuration options for PDF processing.
type DocumentServiceConfig struct {
	MaxChunkSize int // Maximum size for text chunks
	OverlapSize  int // Size of overlap between chunks
}

// UploadRequest is the metadata sent alongside an uploaded file.
type UploadRequest struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}
