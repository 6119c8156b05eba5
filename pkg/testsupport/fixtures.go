package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteContentDir materialises an envelope file tree under a fresh temporary
// directory and returns its path. Keys are slash-separated relative paths.
func WriteContentDir(tb testing.TB, files map[string]string) string {
	tb.Helper()

	root := tb.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			tb.Fatalf("write %s: %v", path, err)
		}
	}
	return root
}
