package config

import (
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// GitHub holds release store configuration
type GitHub struct {
	Token string
	Owner string
	Repo  string
}

// Flags returns CLI flags shared by all commands
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub API token used for checkout and asset upload",
			Required:    true,
			Destination: &c.Token,
			Sources:     cli.EnvVars(types.EnvPrefix + "GITHUB_TOKEN"),
		},
	}
}

// RepoFlags returns flags naming the target repository. The serve command
// omits these since the webhook payload carries the repository.
func (c *GitHub) RepoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Repository owner",
			Required:    true,
			Destination: &c.Owner,
			Sources:     cli.EnvVars(types.EnvPrefix + "OWNER"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository name (also the base name of built binaries)",
			Required:    true,
			Destination: &c.Repo,
			Sources:     cli.EnvVars(types.EnvPrefix + "REPO"),
		},
	}
}
