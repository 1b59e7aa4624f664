package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "paper.pdf", want: "paper.pdf"},
		{input: "my paper (final).pdf", want: "my_paper__final_.pdf"},
		{input: "../../etc/passwd", want: ".._.._etc_passwd"},
		{input: "paper-v2_draft.pdf", want: "paper-v2_draft.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFileName(tt.input))
	}
}

func TestSaveUpload(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveUpload(strings.NewReader("pdf bytes"), dir, "paper.pdf")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "paper_"), name)
	assert.True(t, strings.HasSuffix(name, ".pdf"), name)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(content))
}

func TestSaveUploadCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := SaveUpload(strings.NewReader("x"), dir, "a.pdf")
	require.NoError(t, err)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestCopyFileWithTimestamp(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "report.pdf")
	require.NoError(t, os.WriteFile(srcPath, []byte("report data"), 0644))

	destDir := t.TempDir()
	destPath, err := CopyFileWithTimestamp(srcPath, destDir)
	require.NoError(t, err)

	content, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, "report data", string(content))
	assert.True(t, strings.HasPrefix(filepath.Base(destPath), "report_"))
}

func TestFileNameWithoutExt(t *testing.T) {
	assert.Equal(t, "paper", FileNameWithoutExt("/tmp/uploads/paper.pdf"))
	assert.Equal(t, "paper.v2", FileNameWithoutExt("paper.v2.pdf"))
	assert.Equal(t, "noext", FileNameWithoutExt("noext"))
}
