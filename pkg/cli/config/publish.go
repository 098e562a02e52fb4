package config

import (
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Publish holds publish policy configuration
type Publish struct {
	MarkLatest    bool
	UploadRetries uint64
}

// Flags returns CLI flags for publish configuration
func (c *Publish) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "latest",
			Usage:       "Mark the release as the repository's latest",
			Value:       true,
			Destination: &c.MarkLatest,
			Sources:     cli.EnvVars(types.EnvPrefix + "LATEST"),
		},
		&cli.Uint64Flag{
			Name:        "upload-retries",
			Usage:       "Retries with backoff around the upload step (0 disables retry)",
			Value:       3,
			Destination: &c.UploadRetries,
			Sources:     cli.EnvVars(types.EnvPrefix + "UPLOAD_RETRIES"),
		},
	}
}
