// Package storage implements the local blob store holding the original
// source documents (invoices, budget sheets) referenced by expense records.
// Each blob lives in its own id-named folder so the original filename is
// preserved alongside the content.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Blob is a stored document with its original name.
type Blob struct {
	Name    string
	Content []byte
}

// LocalBlobStore stores blobs on the local filesystem under a base directory.
type LocalBlobStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalBlobStore creates the store, making sure the base directory exists.
func NewLocalBlobStore(baseDir string, logger *zap.Logger) (*LocalBlobStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &LocalBlobStore{baseDir: baseDir, logger: logger}, nil
}

// Save writes the content under a fresh id and returns it.
func (s *LocalBlobStore) Save(name string, content []byte) (string, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.baseDir, id)

	if err := s.validatePath(dir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.logger.Error("Failed to create blob folder",
			zap.String("blob_id", id),
			zap.Error(err))
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	path := filepath.Join(dir, sanitizeFileName(name))
	if err := os.WriteFile(path, content, 0644); err != nil {
		s.logger.Error("Failed to write blob",
			zap.String("blob_id", id),
			zap.String("path", path),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Blob saved",
		zap.String("blob_id", id),
		zap.String("name", name),
		zap.Int("size", len(content)))
	return id, nil
}

// Get reads a blob back by id.
func (s *LocalBlobStore) Get(id string) (*Blob, error) {
	dir := filepath.Join(s.baseDir, sanitizeFileName(id))
	if err := s.validatePath(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("blob %s not found: %w", id, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read blob %s: %w", id, err)
		}
		return &Blob{Name: entry.Name(), Content: content}, nil
	}
	return nil, fmt.Errorf("blob %s is empty", id)
}

// Delete removes a blob and its folder. Deleting a missing blob is a no-op.
func (s *LocalBlobStore) Delete(id string) error {
	dir := filepath.Join(s.baseDir, sanitizeFileName(id))
	if err := s.validatePath(dir); err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Error("Failed to delete blob",
			zap.String("blob_id", id),
			zap.Error(err))
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	s.logger.Debug("Blob deleted", zap.String("blob_id", id))
	return nil
}

// validatePath checks that the path stays within the base directory.
func (s *LocalBlobStore) validatePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", path)
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_ ]`)

// sanitizeFileName strips path separators and traversal sequences so a
// user-supplied filename can never escape the blob folder.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	name = unsafeFileChars.ReplaceAllString(name, "")
	if name == "" {
		name = "document"
	}
	return name
}
