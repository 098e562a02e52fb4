package usecase

import (
	"context"
	"os"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/domain/types"
)

const defaultUploadRetries = 3

type publishUseCase struct {
	source   interfaces.SourceProvider
	builder  interfaces.Builder
	store    interfaces.ReleaseStore
	notifier interfaces.Notifier
	matrix   []model.Target

	// uploadRetries is the number of retries around the upload step only;
	// checkout and build failures are deterministic and never retried.
	// 0 means fail fast.
	uploadRetries uint64
}

// PublishOption configures the publish use case
type PublishOption func(*publishUseCase)

// WithMatrix replaces the default platform matrix
func WithMatrix(targets []model.Target) PublishOption {
	return func(uc *publishUseCase) {
		uc.matrix = targets
	}
}

// WithNotifier sets an optional notifier that receives the final report
func WithNotifier(n interfaces.Notifier) PublishOption {
	return func(uc *publishUseCase) {
		uc.notifier = n
	}
}

// WithUploadRetries sets the retry count of the upload step
func WithUploadRetries(n uint64) PublishOption {
	return func(uc *publishUseCase) {
		uc.uploadRetries = n
	}
}

// NewPublish creates a new instance of PublishUseCase
func NewPublish(source interfaces.SourceProvider, builder interfaces.Builder, store interfaces.ReleaseStore, opts ...PublishOption) interfaces.PublishUseCase {
	uc := &publishUseCase{
		source:        source,
		builder:       builder,
		store:         store,
		matrix:        model.DefaultMatrix,
		uploadRetries: defaultUploadRetries,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Publish runs every matrix entry for the request's tag. Entries run as
// independent tasks and share nothing but the release ID; a failure in one
// never aborts the others.
func (uc *publishUseCase) Publish(ctx context.Context, req *model.PublishRequest) (*model.Report, error) {
	logger := ctxlog.From(ctx)

	logger.Info("Starting publish run",
		"run_id", req.RunID,
		"owner", req.Owner,
		"repo", req.Repo,
		"tag", req.Tag.Name,
		"targets", len(uc.matrix),
	)

	releaseID, err := uc.store.EnsureRelease(ctx, req.Owner, req.Repo, req.Tag, req.MarkLatest)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to ensure release for tag", goerr.V("tag", req.Tag.Name))
	}

	report := &model.Report{
		Request:   req,
		ReleaseID: releaseID,
		Entries:   make([]model.EntryResult, len(uc.matrix)),
	}

	var wg sync.WaitGroup
	for i, target := range uc.matrix {
		wg.Add(1)
		go func(i int, target model.Target) {
			defer wg.Done()
			report.Entries[i] = uc.publishEntry(ctx, req, releaseID, target)
		}(i, target)
	}
	wg.Wait()

	for _, entry := range report.Entries {
		if entry.OK() {
			logger.Info("Published asset",
				"run_id", req.RunID,
				"target", entry.Target.Label(),
				"asset", entry.AssetName,
			)
		} else {
			logger.Error("Failed to publish asset",
				"run_id", req.RunID,
				"target", entry.Target.Label(),
				"stage", entry.Stage,
				"error", entry.Err,
			)
		}
	}

	if uc.notifier != nil {
		if err := uc.notifier.NotifyReport(ctx, report); err != nil {
			logger.Warn("Failed to send publish notification", "error", err)
		}
	}

	return report, nil
}

// publishEntry runs checkout, build and upload for a single matrix entry.
func (uc *publishUseCase) publishEntry(ctx context.Context, req *model.PublishRequest, releaseID int64, target model.Target) model.EntryResult {
	logger := ctxlog.From(ctx)
	result := model.EntryResult{
		Target:    target,
		AssetName: target.AssetName(req.Repo),
	}

	src, err := uc.source.Checkout(ctx, req.Owner, req.Repo, req.Tag.Name)
	if err != nil {
		result.Stage = model.StageCheckout
		result.Err = goerr.Wrap(err, "checkout failed",
			goerr.T(types.ErrTagCheckout), goerr.V("target", target.Label()))
		return result
	}
	defer func() {
		if err := os.RemoveAll(src.TempDir); err != nil {
			logger.Warn("Failed to clean up source tree",
				"temp_dir", src.TempDir,
				"error", err,
			)
		}
	}()

	build, err := uc.builder.Build(ctx, req.RunID, src, target, target.BinaryName(req.Repo))
	if err != nil {
		result.Stage = model.StageBuild
		result.Err = goerr.Wrap(err, "build failed",
			goerr.T(types.ErrTagBuild), goerr.V("target", target.Label()))
		return result
	}

	logger.Debug("Built binary",
		"target", target.Label(),
		"binary", build.BinaryPath,
		"size_bytes", build.Size,
	)

	if err := uc.uploadWithRetry(ctx, req, releaseID, result.AssetName, build.BinaryPath); err != nil {
		result.Stage = model.StageUpload
		result.Err = goerr.Wrap(err, "upload failed",
			goerr.T(types.ErrTagUpload), goerr.V("target", target.Label()))
		return result
	}

	result.Stage = model.StageDone
	return result
}

// uploadWithRetry wraps the upload step in bounded exponential backoff. The
// release store serializes writes per asset name, so a retried upload stays
// last-writer-wins.
func (uc *publishUseCase) uploadWithRetry(ctx context.Context, req *model.PublishRequest, releaseID int64, assetName, binaryPath string) error {
	upload := func() error {
		return uc.store.UploadAsset(ctx, req.Owner, req.Repo, releaseID, assetName, binaryPath)
	}

	if uc.uploadRetries == 0 {
		return upload()
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uc.uploadRetries)
	return backoff.Retry(upload, backoff.WithContext(policy, ctx))
}
