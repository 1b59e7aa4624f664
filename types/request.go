package types

// ResearchRequest is the body of POST /api/v1/research.
type ResearchRequest struct {
	Query             string `json:"query"`
	Mode              string `json:"mode"`
	SummarizationMode string `json:"summarization_mode,omitempty"`
	FocusArea         string `json:"focus_area,omitempty"`
	CitationStyle     string `json:"citation_style,omitempty"`
}

// Params assembles the mode-specific options of the request.
func (r ResearchRequest) Params() ResearchParams {
	return ResearchParams{
		Mode:              r.Mode,
		SummarizationMode: r.SummarizationMode,
		FocusArea:         r.FocusArea,
		CitationStyle:     r.CitationStyle,
	}
}

// SetActiveDocumentRequest selects which uploaded file queries are scoped to.
type SetActiveDocumentRequest struct {
	File string `json:"file"`
}
