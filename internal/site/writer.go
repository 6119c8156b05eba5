package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteFileRequest describes an artifact write routed through an ArtifactWriter.
type WriteFileRequest struct {
	Path        string
	Content     []byte
	ContentType string
}

// ArtifactWriter abstracts output destination specifics for build artifacts.
type ArtifactWriter interface {
	WriteFile(ctx context.Context, req WriteFileRequest) error
	Clean(ctx context.Context) error
}

// NewFilesystemWriter returns an ArtifactWriter that materialises artifacts
// under root. Writes go to a temporary file first and are renamed into place
// so a crashed build never leaves a half-written page behind.
func NewFilesystemWriter(root string) ArtifactWriter {
	return &fsWriter{root: filepath.Clean(root)}
}

type fsWriter struct {
	root string
}

func (w *fsWriter) WriteFile(ctx context.Context, req WriteFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("site: write requires path")
	}

	target, err := w.resolve(req.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("site: ensure dir %s: %w", filepath.Dir(target), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".site-*")
	if err != nil {
		return fmt.Errorf("site: temp file for %s: %w", req.Path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(req.Content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("site: write %s: %w", req.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("site: close %s: %w", req.Path, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("site: finalise %s: %w", req.Path, err)
	}
	return nil
}

func (w *fsWriter) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("site: read output dir: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(w.root, entry.Name())); err != nil {
			return fmt.Errorf("site: remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (w *fsWriter) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("site: artifact path escapes output dir: %s", rel)
	}
	return filepath.Join(w.root, clean), nil
}

type noopWriter struct{}

func (noopWriter) WriteFile(context.Context, WriteFileRequest) error { return nil }

func (noopWriter) Clean(context.Context) error { return nil }
