package config

import (
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr          string
	WebhookSecret string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars(types.EnvPrefix + "ADDR"),
		},
		&cli.StringFlag{
			Name:        "webhook-secret",
			Usage:       "Webhook HMAC secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars(types.EnvPrefix + "WEBHOOK_SECRET"),
		},
	}
}
