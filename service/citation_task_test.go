package service

import (
	"context"
	"strings"
	"testing"

	"github.com/remiehneppo/research-assistant/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullMetadata() types.DocumentMetadata {
	return types.DocumentMetadata{
		Source:  "smith2020.pdf",
		Title:   "X",
		Author:  "J. Smith",
		Year:    "2020",
		Journal: "Y",
		Volume:  "3",
		Issue:   "2",
		Pages:   "10-20",
	}
}

func TestFormatCitationAPA(t *testing.T) {
	citation := FormatCitation(fullMetadata(), "APA")

	assert.True(t, strings.HasPrefix(citation, "J. Smith (2020)."), citation)
	assert.Contains(t, citation, "*X*")
	assert.Contains(t, citation, "*Y*")
	assert.Contains(t, citation, "3(2)")
	assert.Contains(t, citation, "pp. 10-20")
}

func TestFormatCitationIsDeterministic(t *testing.T) {
	meta := fullMetadata()
	first := FormatCitation(meta, "APA")
	second := FormatCitation(meta, "APA")
	assert.Equal(t, first, second)
}

func TestFormatCitationFallbacks(t *testing.T) {
	tests := []struct {
		name string
		meta types.DocumentMetadata
		want []string
	}{
		{
			name: "all fields missing",
			meta: types.DocumentMetadata{},
			want: []string{"Unknown Author", "Untitled", "Unknown Journal", "n.d."},
		},
		{
			name: "year from creation date",
			meta: types.DocumentMetadata{
				Custom: map[string]string{"creationdate": "1999"},
			},
			want: []string{"(1999)"},
		},
		{
			name: "journal from journaltitle",
			meta: types.DocumentMetadata{
				Custom: map[string]string{"journaltitle": "Nature"},
			},
			want: []string{"*Nature*"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			citation := FormatCitation(tt.meta, "APA")
			for _, want := range tt.want {
				assert.Contains(t, citation, want)
			}
		})
	}
}

func TestFormatCitationDOIAndURL(t *testing.T) {
	t.Run("bare DOI gets resolver prefix", func(t *testing.T) {
		meta := fullMetadata()
		meta.DOI = "10.1000/xyz"
		citation := FormatCitation(meta, "APA")
		assert.Contains(t, citation, "https://doi.org/10.1000/xyz")
	})

	t.Run("http DOI kept as is", func(t *testing.T) {
		meta := fullMetadata()
		meta.DOI = "https://doi.org/10.1000/xyz"
		citation := FormatCitation(meta, "APA")
		assert.Contains(t, citation, "https://doi.org/10.1000/xyz")
		assert.NotContains(t, citation, "https://doi.org/https://")
	})

	t.Run("URL only without DOI", func(t *testing.T) {
		meta := fullMetadata()
		meta.URL = "https://example.com/paper"
		citation := FormatCitation(meta, "APA")
		assert.Contains(t, citation, "https://example.com/paper")

		meta.DOI = "10.1000/xyz"
		citation = FormatCitation(meta, "APA")
		assert.NotContains(t, citation, "example.com")
	})
}

func TestFormatCitationStyles(t *testing.T) {
	meta := fullMetadata()

	tests := []struct {
		style string
		want  string
	}{
		{style: "IEEE", want: `J. Smith, "X," *Y*, vol. 3, no. 2, pp. 10-20, 2020.`},
		{style: "MLA", want: `J. Smith. "X." *Y*, vol. 3, no. 2, 2020, pp. 10-20.`},
		{style: "Chicago", want: `J. Smith. "X." *Y* 3, no. 2 (2020): 10-20.`},
		{style: "unrecognized", want: `J. Smith (2020). X. Y.`},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCitation(meta, tt.style))
		})
	}
}

func TestFormatCitationNormalizesWhitespace(t *testing.T) {
	meta := types.DocumentMetadata{
		Author: "J.  Smith",
		Title:  "A\ttitle\nwith gaps",
	}
	citation := FormatCitation(meta, "APA")
	assert.NotContains(t, citation, "  ")
	assert.NotContains(t, citation, "\n")
	assert.NotContains(t, citation, "\t")
}

func TestCitationTaskExecute(t *testing.T) {
	task := NewCitationTask()

	t.Run("no documents", func(t *testing.T) {
		state := &types.ResearchState{}
		task.Execute(context.Background(), state)
		assert.Equal(t, "No documents found for citation generation.", state.CitationOutput)
		assert.NoError(t, state.Err)
	})

	t.Run("defaults to APA", func(t *testing.T) {
		state := &types.ResearchState{
			Docs: []types.DocumentChunk{{ID: "c1", Metadata: fullMetadata()}},
		}
		task.Execute(context.Background(), state)
		require.NotEmpty(t, state.CitationOutput)
		assert.Equal(t, FormatCitation(fullMetadata(), "APA"), state.CitationOutput)
	})

	t.Run("uses first chunk metadata", func(t *testing.T) {
		other := fullMetadata()
		other.Author = "Someone Else"
		state := &types.ResearchState{
			Params: types.ResearchParams{CitationStyle: "IEEE"},
			Docs: []types.DocumentChunk{
				{ID: "c1", Metadata: fullMetadata()},
				{ID: "c2", Metadata: other},
			},
		}
		task.Execute(context.Background(), state)
		assert.Contains(t, state.CitationOutput, "J. Smith")
		assert.NotContains(t, state.CitationOutput, "Someone Else")
	})
}
