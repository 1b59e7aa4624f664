package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/remiehneppo/research-assistant/types"
	"go.uber.org/zap"
)

const (
	// compareCharLimit bounds each paper's concatenated content in the
	// comparison prompt.
	compareCharLimit        = 6000
	compareTruncationMarker = "\n...[truncated]..."

	noDocumentsComparison = "No documents provided for comparison."
	needTwoComparison     = "Need at least two distinct documents to compare."
)

const comparePromptTemplate = `You are an expert research analyst. Compare two papers.

FOCUS AREA: %s

PAPER 1: %s (%s)
%s

PAPER 2: %s (%s)
%s

Provide structured markdown: Executive Summary, Methodology Comparison, Key Findings, Strengths/Limitations, Contributions, Conclusion.`

// CompareTask builds a structured two-paper comparison from chunks that
// span at least two distinct sources.
type CompareTask struct {
	ai     AIService
	logger *zap.Logger
}

func NewCompareTask(ai AIService, logger *zap.Logger) *CompareTask {
	return &CompareTask{ai: ai, logger: logger}
}

func (t *CompareTask) Name() string { return "compare" }

func (t *CompareTask) Execute(ctx context.Context, state *types.ResearchState) {
	if len(state.Docs) == 0 {
		state.Comparison = noDocumentsComparison
		return
	}

	// Group by source, keeping the order sources first appear in.
	grouped := make(map[string][]types.DocumentChunk)
	var sources []string
	for _, doc := range state.Docs {
		src := doc.Metadata.Source
		if src == "" {
			src = "unknown"
		}
		if _, seen := grouped[src]; !seen {
			sources = append(sources, src)
		}
		grouped[src] = append(grouped[src], doc)
	}

	if len(sources) < 2 {
		state.Comparison = needTwoComparison
		return
	}

	first, second := paperSide(sources[0], grouped[sources[0]]), paperSide(sources[1], grouped[sources[1]])

	focus := state.Params.FocusArea
	promptFocus := focus
	if promptFocus == "" {
		promptFocus = "General comparison"
	}

	prompt := fmt.Sprintf(comparePromptTemplate,
		promptFocus,
		first.title, first.year, first.text,
		second.title, second.year, second.text,
	)

	res, err := t.ai.Invoke(ctx, prompt)
	if err != nil {
		state.Err = &types.LLMInvocationError{Err: err}
		t.logger.Error("comparison failed", zap.Error(err))
		state.Comparison = "Comparison failed: " + err.Error()
		return
	}

	state.Comparison = res
	state.ComparisonMetadata = &types.ComparisonMetadata{
		PapersCompared: 2,
		FocusArea:      focus,
		PaperDetails: []types.PaperDetail{
			{Title: first.title, Year: first.year, Source: first.source},
			{Title: second.title, Year: second.year, Source: second.source},
		},
	}
}

type comparisonSide struct {
	source string
	title  string
	year   string
	text   string
}

func paperSide(source string, chunks []types.DocumentChunk) comparisonSide {
	side := comparisonSide{
		source: source,
		title:  source,
		year:   "Unknown",
	}
	if len(chunks) > 0 {
		if t := chunks[0].Metadata.Title; t != "" {
			side.title = t
		}
		if y := chunks[0].Metadata.Year; y != "" {
			side.year = y
		}
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}
	text := strings.Join(contents, "\n")
	if runes := []rune(text); len(runes) > compareCharLimit {
		text = string(runes[:compareCharLimit]) + compareTruncationMarker
	}
	side.text = text
	return side
}
