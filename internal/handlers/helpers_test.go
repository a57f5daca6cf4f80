package handlers

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderErrorLogsTemplateFailure(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "static"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	// Parses fine but cannot be executed against the error data
	broken := "{{.Code.Missing}}"
	if err := os.WriteFile(filepath.Join(root, "static", "error.html"), []byte(broken), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	w := httptest.NewRecorder()
	renderError(w, logger, http.StatusNotFound, "404 Not Found", "Post not found", root)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(buf.String(), "error.html") {
		t.Errorf("expected a logged template error, got %q", buf.String())
	}
}
