package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/cli/config"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/domain/types"
	execinfra "github.com/tagship/tagship/pkg/infra/exec"
	githubinfra "github.com/tagship/tagship/pkg/infra/github"
	slackinfra "github.com/tagship/tagship/pkg/infra/slack"
	"github.com/tagship/tagship/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPublish() *cli.Command {
	var (
		githubCfg config.GitHub
		buildCfg  config.Build
		pubCfg    config.Publish
		slackCfg  config.Slack
		tagName   string
	)

	flags := append(githubCfg.Flags(), githubCfg.RepoFlags()...)
	flags = append(flags, buildCfg.Flags()...)
	flags = append(flags, pubCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "tag",
		Usage:       "Release tag to publish (vMAJOR.MINOR.PATCH)",
		Required:    true,
		Destination: &tagName,
		Sources:     cli.EnvVars(types.EnvPrefix + "TAG"),
	})

	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Build and upload release binaries for a tag",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			// Reject non-matching tags before any work starts
			tag, err := model.ParseReleaseTag(tagName)
			if err != nil {
				return err
			}

			if err := buildCfg.Load(); err != nil {
				return err
			}

			uc := newPublishUseCase(&githubCfg, &buildCfg, &pubCfg, &slackCfg)
			req := model.NewPublishRequest(githubCfg.Owner, githubCfg.Repo, tag, pubCfg.MarkLatest)

			logger.Info("Publishing release",
				"owner", req.Owner,
				"repo", req.Repo,
				"tag", tag.Name,
			)

			report, err := uc.Publish(ctx, req)
			if err != nil {
				return err
			}

			printReport(report)

			if failed := report.Failed(); len(failed) > 0 {
				return goerr.New("publish finished with failed targets",
					goerr.V("failed", len(failed)),
					goerr.V("succeeded", len(report.Succeeded())),
				)
			}
			return nil
		},
	}
}

// newPublishUseCase wires the infra collaborators into the publish use case
func newPublishUseCase(githubCfg *config.GitHub, buildCfg *config.Build, pubCfg *config.Publish, slackCfg *config.Slack) interfaces.PublishUseCase {
	source := githubinfra.NewSource(githubCfg.Token)
	store := githubinfra.NewStore(githubCfg.Token)
	builder := execinfra.New(buildCfg.Command, buildCfg.OutputDir, buildCfg.Timeout)

	opts := []usecase.PublishOption{
		usecase.WithUploadRetries(pubCfg.UploadRetries),
	}
	if slackCfg.WebhookURL != "" {
		opts = append(opts, usecase.WithNotifier(slackinfra.New(slackCfg.WebhookURL)))
	}

	return usecase.NewPublish(source, builder, store, opts...)
}

func printReport(report *model.Report) {
	fmt.Printf("release %s: %d/%d targets published\n",
		report.Request.Tag.Name,
		len(report.Succeeded()),
		len(report.Entries),
	)

	for _, entry := range report.Entries {
		if entry.OK() {
			color.New(color.FgGreen).Printf("  ok    %-14s %s\n", entry.Target.Label(), entry.AssetName)
		} else {
			color.New(color.FgRed).Printf("  fail  %-14s %s: %v\n", entry.Target.Label(), entry.Stage, entry.Err)
		}
	}
}
