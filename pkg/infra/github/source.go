package github

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/model"
)

// Source acquires source trees by downloading the tag's zipball from the
// GitHub API and extracting it into a fresh temporary directory.
type Source struct {
	client *github.Client
}

// NewSource creates a source provider authenticated with a token
func NewSource(token string) *Source {
	return &Source{
		client: github.NewClient(nil).WithAuthToken(token),
	}
}

// NewSourceWithClient creates a source provider from a pre-configured client
func NewSourceWithClient(client *github.Client) *Source {
	return &Source{client: client}
}

// Checkout downloads and extracts the source tree for owner/repo at ref.
func (s *Source) Checkout(ctx context.Context, owner, repo, ref string) (*model.SourceTree, error) {
	zipData, err := s.downloadZipball(ctx, owner, repo, ref)
	if err != nil {
		return nil, err
	}

	return s.extractZip(zipData)
}

// downloadZipball downloads the source code zipball for a specific ref
func (s *Source) downloadZipball(ctx context.Context, owner, repo, ref string) ([]byte, error) {
	url, _, err := s.client.Repositories.GetArchiveLink(ctx, owner, repo, github.Zipball, &github.RepositoryContentGetOptions{
		Ref: ref,
	}, 3) // Follow up to 3 redirects
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get zipball download URL",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("ref", ref))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request", goerr.V("url", url.String()))
	}

	// Reuse the API client transport so the download stays authenticated
	httpClient := &http.Client{Transport: s.client.Client().Transport}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download zipball", goerr.V("url", url.String()))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code downloading zipball",
			goerr.V("status", resp.StatusCode), goerr.V("url", url.String()))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read zipball response body")
	}

	return data, nil
}

// extractZip extracts ZIP data to a temporary directory
func (s *Source) extractZip(zipData []byte) (*model.SourceTree, error) {
	tempDir, err := os.MkdirTemp("", "tagship-src-*")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create temporary directory")
	}

	if err := os.Chmod(tempDir, 0700); err != nil {
		return nil, goerr.Wrap(err, "failed to set directory permissions", goerr.V("temp_dir", tempDir))
	}

	zipReader, err := zip.NewReader(bytes.NewReader(zipData), int64(len(zipData)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create zip reader")
	}

	var files int
	var totalSize int64

	for _, file := range zipReader.File {
		if err := extractFile(file, tempDir); err != nil {
			return nil, goerr.Wrap(err, "failed to extract file", goerr.V("file", file.Name))
		}

		if !file.FileInfo().IsDir() {
			files++
			totalSize += int64(file.UncompressedSize64)
		}
	}

	root, err := treeRoot(tempDir)
	if err != nil {
		return nil, err
	}

	return &model.SourceTree{
		TempDir: tempDir,
		Root:    root,
		Files:   files,
		Size:    totalSize,
	}, nil
}

// treeRoot resolves the top-level directory of the extracted tree. GitHub
// zipballs wrap the tree in a single "<owner>-<repo>-<sha>" directory.
func treeRoot(tempDir string) (string, error) {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read extracted tree", goerr.V("temp_dir", tempDir))
	}

	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(tempDir, entries[0].Name()), nil
	}
	return tempDir, nil
}

// extractFile extracts a single file from ZIP to the destination directory
func extractFile(file *zip.File, destDir string) error {
	// Security check: prevent path traversal attacks
	destPath := filepath.Join(destDir, file.Name)
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return goerr.New("invalid file path in archive", goerr.V("file", file.Name))
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(destPath, file.FileInfo().Mode())
	}

	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open file in zip")
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories")
	}

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.FileInfo().Mode())
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file")
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, rc); err != nil {
		return goerr.Wrap(err, "failed to copy file content")
	}

	return nil
}
