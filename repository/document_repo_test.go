package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/remiehneppo/research-assistant/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkFor(source, id string) types.DocumentChunk {
	return types.DocumentChunk{
		ID:       id,
		Content:  "content " + id,
		Metadata: types.DocumentMetadata{Source: source},
	}
}

func TestAppendRegistersFiles(t *testing.T) {
	repo := NewDocumentRepository()

	repo.Append(chunkFor("a.pdf", "a1"), chunkFor("a.pdf", "a2"))
	repo.Append(chunkFor("b.pdf", "b1"))

	assert.Equal(t, []string{"a.pdf", "b.pdf"}, repo.Files())
	assert.Equal(t, 3, repo.Count())
}

func TestBySourceFiltersAndKeepsOrder(t *testing.T) {
	repo := NewDocumentRepository()
	repo.Append(chunkFor("a.pdf", "a1"), chunkFor("b.pdf", "b1"), chunkFor("a.pdf", "a2"))

	docs := repo.BySource("a.pdf")
	require.Len(t, docs, 2)
	assert.Equal(t, "a1", docs[0].ID)
	assert.Equal(t, "a2", docs[1].ID)

	assert.Empty(t, repo.BySource("missing.pdf"))
}

func TestSetActiveFile(t *testing.T) {
	repo := NewDocumentRepository()
	repo.Append(chunkFor("a.pdf", "a1"))

	assert.Empty(t, repo.ActiveFile())

	require.NoError(t, repo.SetActiveFile("a.pdf"))
	assert.Equal(t, "a.pdf", repo.ActiveFile())

	err := repo.SetActiveFile("unknown.pdf")
	assert.Error(t, err)
	assert.Equal(t, "a.pdf", repo.ActiveFile(), "failed switch must not change the active file")
}

func TestAppendIgnoresEmptySource(t *testing.T) {
	repo := NewDocumentRepository()
	repo.Append(chunkFor("", "c1"))

	assert.Empty(t, repo.Files())
	assert.Equal(t, 1, repo.Count())
}

func TestConcurrentAccess(t *testing.T) {
	repo := NewDocumentRepository()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			source := fmt.Sprintf("file%d.pdf", i)
			repo.Append(chunkFor(source, fmt.Sprintf("c%d", i)))
		}(i)
		go func() {
			defer wg.Done()
			repo.Files()
			repo.ActiveFile()
			repo.Count()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, repo.Count())
	assert.Len(t, repo.Files(), 10)
}
