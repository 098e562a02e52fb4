package config

import (
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Sentry holds error monitoring configuration
type Sentry struct {
	DSN         string
	Environment string
}

// Flags returns CLI flags for Sentry configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN (disabled when empty)",
			Destination: &c.DSN,
			Sources:     cli.EnvVars(types.EnvPrefix + "SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Destination: &c.Environment,
			Sources:     cli.EnvVars(types.EnvPrefix + "SENTRY_ENV"),
		},
	}
}
