package types

// DataResponse is the common JSON envelope for all HTTP responses.
type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ResearchResponse is the mode-specific result of one pipeline run. Exactly
// one of the output fields is populated; Error carries the human-readable
// failure message when an executor recorded one.
type ResearchResponse struct {
	Mode               string              `json:"mode"`
	Answer             string              `json:"answer,omitempty"`
	Summary            string              `json:"summary,omitempty"`
	Comparison         string              `json:"comparison,omitempty"`
	ComparisonMetadata *ComparisonMetadata `json:"comparison_metadata,omitempty"`
	Citation           string              `json:"citation,omitempty"`
	TruncationNote     string              `json:"truncation_note,omitempty"`
	Error              string              `json:"error,omitempty"`
}

// DocumentsResponse lists the session's uploaded files and the active one.
type DocumentsResponse struct {
	Files      []string `json:"files"`
	ActiveFile string   `json:"active_file"`
}

type UploadResponse struct {
	OriginalName string `json:"original_name,omitempty"`
	Source       string `json:"source,omitempty"`
	Chunks       int    `json:"chunks,omitempty"`
}

// ProcessingDocumentStatus is streamed to the client while an upload is
// being parsed and indexed.
type ProcessingDocumentStatus struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	Progress       float64 `json:"progress"`
	TotalPages     int     `json:"total_pages"`
	ProcessedPages int     `json:"processed_pages"`
}
