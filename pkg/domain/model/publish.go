package model

import "github.com/google/uuid"

// PublishRequest describes one publish run for a pushed release tag.
type PublishRequest struct {
	RunID      string
	Owner      string
	Repo       string
	Tag        *ReleaseTag
	MarkLatest bool
}

// NewPublishRequest creates a request with a fresh run ID.
func NewPublishRequest(owner, repo string, tag *ReleaseTag, markLatest bool) *PublishRequest {
	return &PublishRequest{
		RunID:      uuid.NewString(),
		Owner:      owner,
		Repo:       repo,
		Tag:        tag,
		MarkLatest: markLatest,
	}
}

// SourceTree is a clean source tree checked out at the release tag's commit.
// The temp dir is removed once the matrix entry that owns it finishes.
type SourceTree struct {
	TempDir string // temporary directory owning the tree
	Root    string // top-level directory of the extracted tree
	Files   int
	Size    int64
}

// BuildResult is the output of building one matrix entry.
type BuildResult struct {
	Target     Target
	BinaryPath string
	Size       int64
}

// Stage identifies how far a matrix entry got.
type Stage string

const (
	StageCheckout Stage = "checkout"
	StageBuild    Stage = "build"
	StageUpload   Stage = "upload"
	StageDone     Stage = "done"
)

// EntryResult is the per-platform outcome of one matrix entry. One entry's
// failure never rolls back or suppresses the others.
type EntryResult struct {
	Target    Target
	AssetName string
	Stage     Stage
	Err       error
}

// OK reports whether the entry published its asset.
func (r EntryResult) OK() bool {
	return r.Err == nil
}

// Report is the aggregated outcome of a publish run. Partial success is a
// valid terminal state and stays distinguishable per platform.
type Report struct {
	Request   *PublishRequest
	ReleaseID int64
	Entries   []EntryResult
}

// Succeeded returns the entries that published their asset.
func (r *Report) Succeeded() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Failed returns the entries that did not publish their asset.
func (r *Report) Failed() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}
