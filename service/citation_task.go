package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/remiehneppo/research-assistant/types"
)

const noDocumentsCitation = "No documents found for citation generation."

// CitationTask formats a bibliographic citation from the first retrieved
// chunk's metadata. It is deterministic string formatting — no language
// model is involved.
type CitationTask struct{}

func NewCitationTask() *CitationTask {
	return &CitationTask{}
}

func (t *CitationTask) Name() string { return "generate_citations" }

func (t *CitationTask) Execute(ctx context.Context, state *types.ResearchState) {
	if len(state.Docs) == 0 {
		state.CitationOutput = noDocumentsCitation
		return
	}

	style := state.Params.CitationStyle
	if style == "" {
		style = "APA"
	}
	state.CitationOutput = FormatCitation(state.Docs[0].Metadata, style)
}

// FormatCitation renders one citation in the requested style (APA, IEEE,
// MLA, Chicago, or a generic fallback). Missing fields use documented
// fallbacks; the output is whitespace-normalized.
func FormatCitation(meta types.DocumentMetadata, style string) string {
	author := fallbackString(meta.Author, "Unknown Author")
	title := fallbackString(meta.Title, "Untitled")
	journal := fallbackString(meta.Journal, fallbackString(meta.CustomField("journaltitle"), "Unknown Journal"))
	year := fallbackString(meta.Year, fallbackString(meta.CustomField("creationdate"), "n.d."))
	volume := meta.Volume
	issue := meta.Issue
	pages := meta.Pages
	doi := meta.DOI
	url := meta.URL

	volIssue := ""
	switch {
	case volume != "" && issue != "":
		volIssue = fmt.Sprintf("%s(%s)", volume, issue)
	case volume != "":
		volIssue = volume
	case issue != "":
		volIssue = issue
	}

	pagesStr := ""
	if pages != "" {
		pagesStr = ", pp. " + pages
	}

	doiStr := ""
	switch {
	case doi != "" && !strings.HasPrefix(doi, "http"):
		doiStr = " https://doi.org/" + doi
	case doi != "":
		doiStr = " " + doi
	}

	urlStr := ""
	if url != "" && doi == "" {
		urlStr = " " + url
	}

	var citation string
	switch style {
	case "APA":
		citation = fmt.Sprintf("%s (%s). *%s*. *%s*, %s%s.%s%s",
			author, year, title, journal, volIssue, pagesStr, doiStr, urlStr)
	case "IEEE":
		citation = fmt.Sprintf("%s, \"%s,\" *%s*, vol. %s, no. %s, pp. %s, %s.%s%s",
			author, title, journal, volume, issue, pages, year, doiStr, urlStr)
	case "MLA":
		citation = fmt.Sprintf("%s. \"%s.\" *%s*, vol. %s, no. %s, %s, pp. %s.%s%s",
			author, title, journal, volume, issue, year, pages, doiStr, urlStr)
	case "Chicago":
		citation = fmt.Sprintf("%s. \"%s.\" *%s* %s, no. %s (%s): %s.%s%s",
			author, title, journal, volume, issue, year, pages, doiStr, urlStr)
	default:
		citation = fmt.Sprintf("%s (%s). %s. %s.%s%s",
			author, year, title, journal, doiStr, urlStr)
	}

	return strings.Join(strings.Fields(citation), " ")
}

func fallbackString(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
