package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SanitizeFileName replaces everything outside [A-Za-z0-9._-] so uploaded
// names are safe to use as filesystem paths.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}

// SaveUpload writes an uploaded stream into uploadDir under a timestamped,
// sanitized name and returns the destination path.
func SaveUpload(src io.Reader, uploadDir, originalName string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	name := SanitizeFileName(fmt.Sprintf("%s_%d%s", base, time.Now().Unix(), ext))
	destPath := filepath.Join(uploadDir, name)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy upload: %w", err)
	}
	return destPath, nil
}

// CopyFileWithTimestamp copies a local file into uploadDir with a timestamp
// suffix, returning the destination path. Used by the CLI ingestion
// commands.
func CopyFileWithTimestamp(sourcePath, uploadDir string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("open source file: %w", err)
	}
	defer src.Close()

	return SaveUpload(src, uploadDir, filepath.Base(sourcePath))
}

// FileNameWithoutExt strips the directory and extension from a path.
func FileNameWithoutExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
