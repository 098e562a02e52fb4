package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Build holds build collaborator configuration. Precedence is flag over
// config file over built-in default; unset values here are resolved by the
// builder itself.
type Build struct {
	Command   string
	OutputDir string
	Timeout   time.Duration
	FilePath  string
}

// buildFile is the TOML shape of the optional config file
type buildFile struct {
	Build struct {
		Command   string `toml:"command"`
		OutputDir string `toml:"output_dir"`
		Timeout   string `toml:"timeout"`
	} `toml:"build"`
}

// Flags returns CLI flags for build configuration
func (c *Build) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "build-command",
			Usage:       "Build command run per target (default: locked release-mode go build)",
			Destination: &c.Command,
			Sources:     cli.EnvVars(types.EnvPrefix + "BUILD_COMMAND"),
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Usage:       "Directory for built binaries, one subdirectory per target",
			Destination: &c.OutputDir,
			Sources:     cli.EnvVars(types.EnvPrefix + "OUTPUT_DIR"),
		},
		&cli.DurationFlag{
			Name:        "build-timeout",
			Usage:       "Timeout of a single target's build",
			Destination: &c.Timeout,
			Sources:     cli.EnvVars(types.EnvPrefix + "BUILD_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML config file",
			Destination: &c.FilePath,
			Sources:     cli.EnvVars(types.EnvPrefix + "CONFIG"),
		},
	}
}

// Load merges values from the TOML config file into fields not already set
// by flags or environment.
func (c *Build) Load() error {
	if c.FilePath == "" {
		return nil
	}

	data, err := os.ReadFile(c.FilePath)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", c.FilePath))
	}

	var file buildFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.FilePath))
	}

	if c.Command == "" {
		c.Command = file.Build.Command
	}
	if c.OutputDir == "" {
		c.OutputDir = file.Build.OutputDir
	}
	if c.Timeout == 0 && file.Build.Timeout != "" {
		timeout, err := time.ParseDuration(file.Build.Timeout)
		if err != nil {
			return goerr.Wrap(err, "invalid timeout in config file", goerr.V("timeout", file.Build.Timeout))
		}
		c.Timeout = timeout
	}

	return nil
}
