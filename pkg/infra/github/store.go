package github

import (
	"context"
	"net/http"
	"os"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/model"
)

// Store publishes release assets through the GitHub Releases API.
type Store struct {
	client *github.Client
}

// NewStore creates a release store authenticated with a token
func NewStore(token string) *Store {
	return &Store{
		client: github.NewClient(nil).WithAuthToken(token),
	}
}

// NewStoreWithClient creates a release store from a pre-configured client
func NewStoreWithClient(client *github.Client) *Store {
	return &Store{client: client}
}

// EnsureRelease returns the release ID for the tag, creating the release if
// it does not exist. When markLatest is set the release is marked as the
// repository's latest, whether it was just created or already existed (a
// pre-created release or one left by an earlier partial run).
func (s *Store) EnsureRelease(ctx context.Context, owner, repo string, tag *model.ReleaseTag, markLatest bool) (int64, error) {
	release, resp, err := s.client.Repositories.GetReleaseByTag(ctx, owner, repo, tag.Name)
	if err == nil {
		if markLatest {
			_, _, err := s.client.Repositories.EditRelease(ctx, owner, repo, release.GetID(), &github.RepositoryRelease{
				MakeLatest: github.Ptr("true"),
			})
			if err != nil {
				return 0, goerr.Wrap(err, "failed to mark existing release as latest",
					goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("tag", tag.Name))
			}
		}
		return release.GetID(), nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return 0, goerr.Wrap(err, "failed to look up release by tag",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("tag", tag.Name))
	}

	makeLatest := "false"
	if markLatest {
		makeLatest = "true"
	}

	release, _, err = s.client.Repositories.CreateRelease(ctx, owner, repo, &github.RepositoryRelease{
		TagName:    github.Ptr(tag.Name),
		Name:       github.Ptr(tag.Name),
		MakeLatest: github.Ptr(makeLatest),
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create release",
			goerr.V("owner", owner), goerr.V("repo", repo), goerr.V("tag", tag.Name))
	}

	return release.GetID(), nil
}

// UploadAsset attaches the file at binaryPath to the release under
// assetName. Any existing asset with the same name is deleted first, so a
// re-run replaces rather than duplicates (latest wins).
func (s *Store) UploadAsset(ctx context.Context, owner, repo string, releaseID int64, assetName, binaryPath string) error {
	if err := s.deleteExistingAsset(ctx, owner, repo, releaseID, assetName); err != nil {
		return err
	}

	file, err := os.Open(binaryPath)
	if err != nil {
		return goerr.Wrap(err, "failed to open binary for upload", goerr.V("path", binaryPath))
	}
	defer file.Close()

	_, _, err = s.client.Repositories.UploadReleaseAsset(ctx, owner, repo, releaseID, &github.UploadOptions{
		Name: assetName,
	}, file)
	if err != nil {
		return goerr.Wrap(err, "failed to upload release asset",
			goerr.V("asset", assetName), goerr.V("release_id", releaseID))
	}

	return nil
}

func (s *Store) deleteExistingAsset(ctx context.Context, owner, repo string, releaseID int64, assetName string) error {
	opts := &github.ListOptions{PerPage: 100}
	for {
		assets, resp, err := s.client.Repositories.ListReleaseAssets(ctx, owner, repo, releaseID, opts)
		if err != nil {
			return goerr.Wrap(err, "failed to list release assets", goerr.V("release_id", releaseID))
		}

		for _, asset := range assets {
			if asset.GetName() != assetName {
				continue
			}
			if _, err := s.client.Repositories.DeleteReleaseAsset(ctx, owner, repo, asset.GetID()); err != nil {
				return goerr.Wrap(err, "failed to delete existing release asset",
					goerr.V("asset", assetName), goerr.V("asset_id", asset.GetID()))
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return nil
}
