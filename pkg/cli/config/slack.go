package config

import (
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Slack holds notification configuration
type Slack struct {
	WebhookURL string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook for publish reports (disabled when empty)",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars(types.EnvPrefix + "SLACK_WEBHOOK_URL"),
		},
	}
}
