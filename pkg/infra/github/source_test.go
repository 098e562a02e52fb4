package github_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	githubinfra "github.com/tagship/tagship/pkg/infra/github"
)

// createTestZip builds a zipball shaped like a GitHub source archive: one
// top-level "<owner>-<repo>-<sha>" directory wrapping the tree.
func createTestZip(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"acme-widget-abc123/go.mod":  "module example.com/widget\n",
		"acme-widget-abc123/main.go": "package main\n\nfunc main() {}\n",
	}
	for name, content := range files {
		fw, err := zw.Create(name)
		gt.NoError(t, err)
		_, err = fw.Write([]byte(content))
		gt.NoError(t, err)
	}

	gt.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestSource_Checkout(t *testing.T) {
	zipData := createTestZip(t)

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("GET /repos/acme/widget/zipball/v1.2.3", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/archive.zip", http.StatusFound)
	})
	mux.HandleFunc("GET /archive.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(zipData)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	source := githubinfra.NewSourceWithClient(newTestClient(t, server))
	tree, err := source.Checkout(context.Background(), "acme", "widget", "v1.2.3")
	gt.NoError(t, err)
	defer func() {
		_ = os.RemoveAll(tree.TempDir)
	}()

	// The wrapping archive directory becomes the tree root
	gt.Value(t, filepath.Base(tree.Root)).Equal("acme-widget-abc123")
	gt.Number(t, tree.Files).Equal(2)
	gt.Number(t, tree.Size).Greater(int64(0))

	content, err := os.ReadFile(filepath.Join(tree.Root, "go.mod"))
	gt.NoError(t, err)
	gt.String(t, string(content)).Contains("module example.com/widget")
}

func TestSource_Checkout_DownloadError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widget/zipball/v9.9.9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	source := githubinfra.NewSourceWithClient(newTestClient(t, server))
	_, err := source.Checkout(context.Background(), "acme", "widget", "v9.9.9")
	gt.Error(t, err)
}
