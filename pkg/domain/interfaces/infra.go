package interfaces

import (
	"context"

	"github.com/tagship/tagship/pkg/domain/model"
)

// SourceProvider acquires a clean source tree at a given ref.
type SourceProvider interface {
	// Checkout materializes the source tree for owner/repo at ref into a
	// fresh temporary directory. The caller removes the tree when done.
	Checkout(ctx context.Context, owner, repo, ref string) (*model.SourceTree, error)
}

// Builder turns a source tree into a single binary for one target platform.
type Builder interface {
	// Build runs the build toolchain in release mode with dependency
	// versions locked to the source tree's lock manifest. The binary is
	// produced under an output path scoped by runID and target, so
	// concurrent runs never share output files.
	Build(ctx context.Context, runID string, src *model.SourceTree, target model.Target, binaryName string) (*model.BuildResult, error)
}

// ReleaseStore is the remote release record keyed by tag.
type ReleaseStore interface {
	// EnsureRelease returns the ID of the release for the tag, creating it
	// if it does not exist yet. markLatest marks the release as the
	// repository's latest, whether created or pre-existing.
	EnsureRelease(ctx context.Context, owner, repo string, tag *model.ReleaseTag, markLatest bool) (int64, error)

	// UploadAsset attaches the file at binaryPath to the release under
	// assetName. An existing asset with the same name is replaced, never
	// duplicated (last writer wins).
	UploadAsset(ctx context.Context, owner, repo string, releaseID int64, assetName, binaryPath string) error
}

// Notifier posts the outcome of a publish run to an external channel.
type Notifier interface {
	NotifyReport(ctx context.Context, report *model.Report) error
}
