package service

import (
	"context"
	"strings"

	"github.com/remiehneppo/research-assistant/types"
	"go.uber.org/zap"
)

const (
	// summaryCharLimit is the combined content length beyond which the
	// text is cut down to its head and tail before prompting.
	summaryCharLimit = 8000
	summaryHeadChars = 4000
	summaryTailChars = 4000
	omissionMarker   = "\n\n...[middle content omitted]...\n\n"

	noDocumentsSummary = "No documents found to summarize."
)

var summaryTemplates = map[string]string{
	"abstract":          "Create a concise abstract (2-3 sentences) focusing on main question, method, findings, significance.\n\nText: {text}",
	"bullet_points":     "Extract key points as bullet points: objective, methodology, key results, limitations, future work.\n\nText: {text}",
	"critical_analysis": "Provide critical analysis (strengths, weaknesses, methodological concerns, contribution significance).\n\nText: {text}",
}

// SummarizeTask produces a mode-specific summary of the retrieved chunks.
// Modes: abstract (default), bullet_points, critical_analysis.
type SummarizeTask struct {
	ai     AIService
	logger *zap.Logger
}

func NewSummarizeTask(ai AIService, logger *zap.Logger) *SummarizeTask {
	return &SummarizeTask{ai: ai, logger: logger}
}

func (t *SummarizeTask) Name() string { return "summarize" }

func (t *SummarizeTask) Execute(ctx context.Context, state *types.ResearchState) {
	if len(state.Docs) == 0 {
		state.Summary = noDocumentsSummary
		return
	}

	template, ok := summaryTemplates[state.Params.SummarizationMode]
	if !ok {
		template = summaryTemplates["abstract"]
	}

	contents := make([]string, len(state.Docs))
	for i, doc := range state.Docs {
		contents[i] = doc.Content
	}
	text := strings.Join(contents, "\n\n")

	if truncated, wasTruncated := truncateMiddle(text, summaryCharLimit, summaryHeadChars, summaryTailChars); wasTruncated {
		text = truncated
		state.TruncationNote = "Document truncated for summarization."
	}

	prompt := strings.Replace(template, "{text}", text, 1)
	if state.Params.FocusArea != "" {
		prompt += "\n\nPay attention to: " + state.Params.FocusArea
	}

	res, err := t.ai.Invoke(ctx, prompt)
	if err != nil {
		state.Err = &types.LLMInvocationError{Err: err}
		t.logger.Error("summarization failed", zap.Error(err))
		// The failure doubles as the summary so the user always sees a
		// readable result.
		state.Summary = "Summarization failed: " + err.Error()
		return
	}
	state.Summary = res
}

// truncateMiddle keeps the first head and last tail characters of text,
// joined by the omission marker, when text exceeds limit.
func truncateMiddle(text string, limit, head, tail int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}
	return string(runes[:head]) + omissionMarker + string(runes[len(runes)-tail:]), true
}
