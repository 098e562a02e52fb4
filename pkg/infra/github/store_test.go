package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/gt"

	"github.com/tagship/tagship/pkg/domain/model"
	githubinfra "github.com/tagship/tagship/pkg/infra/github"
)

// newTestClient points a go-github client at a local test server
func newTestClient(t *testing.T, server *httptest.Server) *github.Client {
	t.Helper()
	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	gt.NoError(t, err)
	client.BaseURL = base
	client.UploadURL = base
	return client
}

func releaseTag(t *testing.T, name string) *model.ReleaseTag {
	t.Helper()
	tag, err := model.ParseReleaseTag(name)
	gt.NoError(t, err)
	return tag
}

func TestStore_EnsureRelease_Existing(t *testing.T) {
	var edited *github.RepositoryRelease

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widget/releases/tags/v1.2.3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 7, "tag_name": "v1.2.3"}`)
	})
	mux.HandleFunc("PATCH /repos/acme/widget/releases/7", func(w http.ResponseWriter, r *http.Request) {
		var release github.RepositoryRelease
		if err := json.NewDecoder(r.Body).Decode(&release); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		edited = &release
		fmt.Fprint(w, `{"id": 7, "tag_name": "v1.2.3"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := githubinfra.NewStoreWithClient(newTestClient(t, server))
	id, err := store.EnsureRelease(context.Background(), "acme", "widget", releaseTag(t, "v1.2.3"), true)

	gt.NoError(t, err)
	gt.Value(t, id).Equal(int64(7))

	// A pre-existing release still gets marked as latest
	gt.Value(t, edited).NotNil()
	gt.Value(t, edited.GetMakeLatest()).Equal("true")
}

func TestStore_EnsureRelease_ExistingWithoutLatest(t *testing.T) {
	var editCalled bool

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widget/releases/tags/v1.2.3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 7, "tag_name": "v1.2.3"}`)
	})
	mux.HandleFunc("PATCH /repos/acme/widget/releases/7", func(w http.ResponseWriter, r *http.Request) {
		editCalled = true
		fmt.Fprint(w, `{"id": 7}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := githubinfra.NewStoreWithClient(newTestClient(t, server))
	id, err := store.EnsureRelease(context.Background(), "acme", "widget", releaseTag(t, "v1.2.3"), false)

	gt.NoError(t, err)
	gt.Value(t, id).Equal(int64(7))
	gt.Value(t, editCalled).Equal(false)
}

func TestStore_EnsureRelease_CreatesWhenMissing(t *testing.T) {
	var created *github.RepositoryRelease

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widget/releases/tags/v1.2.3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("POST /repos/acme/widget/releases", func(w http.ResponseWriter, r *http.Request) {
		var release github.RepositoryRelease
		if err := json.NewDecoder(r.Body).Decode(&release); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		created = &release
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 9, "tag_name": "v1.2.3"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := githubinfra.NewStoreWithClient(newTestClient(t, server))
	id, err := store.EnsureRelease(context.Background(), "acme", "widget", releaseTag(t, "v1.2.3"), true)

	gt.NoError(t, err)
	gt.Value(t, id).Equal(int64(9))
	gt.Value(t, created).NotNil()
	gt.Value(t, created.GetTagName()).Equal("v1.2.3")
	gt.Value(t, created.GetMakeLatest()).Equal("true")
}

func TestStore_UploadAsset_ReplacesExisting(t *testing.T) {
	binaryPath := filepath.Join(t.TempDir(), "widget")
	gt.NoError(t, os.WriteFile(binaryPath, []byte("binary-v2"), 0755))

	var deleted []string
	var uploadedName string
	var uploadedBody []byte

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widget/releases/9/assets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 1, "name": "widget-linux-amd64"},
			{"id": 2, "name": "widget-macos-amd64"}
		]`)
	})
	mux.HandleFunc("DELETE /repos/acme/widget/releases/assets/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = append(deleted, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /repos/acme/widget/releases/9/assets", func(w http.ResponseWriter, r *http.Request) {
		uploadedName = r.URL.Query().Get("name")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		uploadedBody = body
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 3, "name": "widget-linux-amd64"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := githubinfra.NewStoreWithClient(newTestClient(t, server))
	err := store.UploadAsset(context.Background(), "acme", "widget", 9, "widget-linux-amd64", binaryPath)

	gt.NoError(t, err)

	// Only the same-named asset is replaced; the second upload's content wins
	gt.Value(t, deleted).Equal([]string{"1"})
	gt.Value(t, uploadedName).Equal("widget-linux-amd64")
	gt.String(t, string(uploadedBody)).Equal("binary-v2")
}

func TestStore_UploadAsset_NoExistingAsset(t *testing.T) {
	binaryPath := filepath.Join(t.TempDir(), "widget.exe")
	gt.NoError(t, os.WriteFile(binaryPath, []byte("exe"), 0755))

	var deleteCalled bool

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widget/releases/9/assets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("DELETE /repos/acme/widget/releases/assets/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleteCalled = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /repos/acme/widget/releases/9/assets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 3}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := githubinfra.NewStoreWithClient(newTestClient(t, server))
	err := store.UploadAsset(context.Background(), "acme", "widget", 9, "widget-windows-amd64.exe", binaryPath)

	gt.NoError(t, err)
	gt.Value(t, deleteCalled).Equal(false)
}
