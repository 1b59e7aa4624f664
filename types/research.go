package types

// ResearchMode selects which task the pipeline dispatches to after
// retrieval. The string values are part of the client contract and mirror
// the mode names the UI sends.
type ResearchMode string

const (
	ModeStandardQA          ResearchMode = "standard_qa"
	ModeLiteratureReview    ResearchMode = "literature_review"
	ModeComparativeAnalysis ResearchMode = "comparative_analysis"
	ModeGenerateCitations   ResearchMode = "Generate Citations"
)

// ParseResearchMode maps a raw mode string onto a known ResearchMode. An
// empty string is the default (standard Q&A) and counts as known; any other
// unrecognized value also falls through to standard Q&A but reports
// known=false so the caller can log the fallback instead of hiding it.
func ParseResearchMode(raw string) (mode ResearchMode, known bool) {
	switch ResearchMode(raw) {
	case ModeLiteratureReview:
		return ModeLiteratureReview, true
	case ModeComparativeAnalysis:
		return ModeComparativeAnalysis, true
	case ModeGenerateCitations:
		return ModeGenerateCitations, true
	case ModeStandardQA, "":
		return ModeStandardQA, true
	default:
		return ModeStandardQA, false
	}
}

// ResearchParams carries the mode-specific options of one request.
type ResearchParams struct {
	Mode              string `json:"mode"`
	SummarizationMode string `json:"summarization_mode,omitempty"`
	FocusArea         string `json:"focus_area,omitempty"`
	CitationStyle     string `json:"citation_style,omitempty"`
}

// PaperDetail identifies one side of a two-paper comparison.
type PaperDetail struct {
	Title  string `json:"title"`
	Year   string `json:"year"`
	Source string `json:"source"`
}

// ComparisonMetadata is emitted alongside a successful comparison.
type ComparisonMetadata struct {
	PapersCompared int           `json:"papers_compared"`
	FocusArea      string        `json:"focus_area"`
	PaperDetails   []PaperDetail `json:"paper_details"`
}

// ResearchState is the ephemeral per-request record passed through the
// pipeline: constructed fresh per user action, mutated by the retriever and
// exactly one task executor, discarded after the result is rendered. The
// output fields are mutually exclusive; Err captures executor-level
// failures instead of letting them cross the pipeline boundary.
type ResearchState struct {
	Query       string
	CurrentFile string
	Params      ResearchParams

	Docs []DocumentChunk

	Answer             string
	Summary            string
	Comparison         string
	ComparisonMetadata *ComparisonMetadata
	CitationOutput     string
	TruncationNote     string

	Err error
}
