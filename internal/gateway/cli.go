// Package gateway provides access to GitHub pull request data, either through the
// GitHub CLI or directly through the GitHub API. Both speak the same argument list
// and return raw JSON; interpreting the payload is left to the caller.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/naka-gawa/myimpact/internal/apperrors"
)

// Invoker runs a query against the pull request source and returns its raw stdout.
type Invoker interface {
	Invoke(ctx context.Context, args []string) ([]byte, error)
}

// CLIGateway invokes the GitHub CLI as a child process.
type CLIGateway struct {
	locator Locator
	logger  *log.Logger
}

// NewCLIGateway creates a CLIGateway that resolves the binary with locator on every call.
func NewCLIGateway(locator Locator, logger *log.Logger) *CLIGateway {
	return &CLIGateway{
		locator: locator,
		logger:  logger,
	}
}

// Invoke runs the program synchronously and captures stdout and stderr.
func (g *CLIGateway) Invoke(ctx context.Context, args []string) ([]byte, error) {
	path, err := g.locator.Locate()
	if err != nil {
		return nil, err
	}
	g.logger.Printf("Gateway: running %s %s", path, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &apperrors.ToolFailedError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSpawnFailed, err)
	}
	g.logger.Printf("Gateway: received %d bytes", stdout.Len())
	return stdout.Bytes(), nil
}
