package exec

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/model"
)

// DefaultCommand is the default build collaborator: a Go toolchain release
// build with dependency versions locked to the module's lock manifest.
const DefaultCommand = `go build -trimpath -mod=readonly -ldflags "-s -w" -o "$TAGSHIP_OUTPUT" .`

// DefaultTimeout bounds a single target's build.
const DefaultTimeout = 30 * time.Minute

// Builder runs an external build command once per matrix entry. The target
// platform is passed through GOOS/GOARCH and TAGSHIP_TARGET_* environment
// variables so non-Go toolchains can pick it up too.
type Builder struct {
	command   string
	outputDir string
	timeout   time.Duration
}

// New creates a builder. Empty command, outputDir or zero timeout fall back
// to the defaults.
func New(command, outputDir string, timeout time.Duration) *Builder {
	if command == "" {
		command = DefaultCommand
	}
	if outputDir == "" {
		outputDir = "dist"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Builder{
		command:   command,
		outputDir: outputDir,
		timeout:   timeout,
	}
}

// Build runs the build command in the source root and verifies the binary
// was produced at <outputDir>/<runID>/<target-slug>/<binaryName>. The run ID
// segment keeps near-simultaneous runs for the same repository from racing
// on the same output file.
func (b *Builder) Build(ctx context.Context, runID string, src *model.SourceTree, target model.Target, binaryName string) (*model.BuildResult, error) {
	logger := ctxlog.From(ctx)

	outputPath, err := filepath.Abs(filepath.Join(b.outputDir, runID, target.Slug(), binaryName))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve output path")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", filepath.Dir(outputPath)))
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", b.command)
	cmd.Dir = src.Root
	cmd.Env = append(os.Environ(),
		"GOOS="+target.BuildOS(),
		"GOARCH="+target.Arch,
		"CGO_ENABLED=0",
		"TAGSHIP_TARGET_OS="+target.BuildOS(),
		"TAGSHIP_TARGET_ARCH="+target.Arch,
		"TAGSHIP_OUTPUT="+outputPath,
	)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	logger.Debug("Running build command",
		"target", target.Label(),
		"dir", src.Root,
		"output", outputPath,
	)

	if err := cmd.Run(); err != nil {
		return nil, goerr.Wrap(err, "build command failed",
			goerr.V("target", target.Label()),
			goerr.V("output", tail(output.String(), 4096)),
		)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, goerr.Wrap(err, "build command did not produce a binary",
			goerr.V("target", target.Label()),
			goerr.V("expected", outputPath),
		)
	}

	return &model.BuildResult{
		Target:     target,
		BinaryPath: outputPath,
		Size:       info.Size(),
	}, nil
}

// tail keeps the last n bytes of build output for error reporting.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
