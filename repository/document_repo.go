package repository

import (
	"fmt"
	"sync"

	"github.com/remiehneppo/research-assistant/types"
)

// DocumentRepository holds the session document collection: every chunk
// from every uploaded file, the uploaded-file list, and the active file
// queries are scoped to. It grows monotonically within a session and is
// safe for concurrent use.
type DocumentRepository struct {
	mu     sync.RWMutex
	chunks []types.DocumentChunk
	files  []string
	active string
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{}
}

// Append adds chunks to the collection and registers any new source in the
// uploaded-file list.
func (r *DocumentRepository) Append(chunks ...types.DocumentChunk) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, chunk := range chunks {
		r.chunks = append(r.chunks, chunk)
		r.registerFileLocked(chunk.Metadata.Source)
	}
}

func (r *DocumentRepository) registerFileLocked(source string) {
	if source == "" {
		return
	}
	for _, f := range r.files {
		if f == source {
			return
		}
	}
	r.files = append(r.files, source)
}

// BySource returns the chunks belonging to one source, in insertion order.
func (r *DocumentRepository) BySource(source string) []types.DocumentChunk {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []types.DocumentChunk
	for _, chunk := range r.chunks {
		if chunk.Metadata.Source == source {
			out = append(out, chunk)
		}
	}
	return out
}

// Files lists the uploaded file names in upload order.
func (r *DocumentRepository) Files() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.files))
	copy(out, r.files)
	return out
}

// SetActiveFile scopes subsequent retrieval to the named file. The file
// must already be part of the session.
func (r *DocumentRepository) SetActiveFile(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.files {
		if f == name {
			r.active = name
			return nil
		}
	}
	return fmt.Errorf("unknown document: %s", name)
}

// ActiveFile returns the file retrieval is currently scoped to, or "".
func (r *DocumentRepository) ActiveFile() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Count returns the total number of chunks in the session.
func (r *DocumentRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chunks)
}
