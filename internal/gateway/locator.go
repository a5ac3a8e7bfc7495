package gateway

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/naka-gawa/myimpact/internal/apperrors"
)

// DefaultProgram is the name of the GitHub CLI binary.
const DefaultProgram = "gh"

// DefaultCandidates are the well-known install locations checked before PATH lookup.
var DefaultCandidates = []string{
	"/opt/homebrew/bin/gh",
	"/usr/local/bin/gh",
	"/usr/bin/gh",
	"/opt/local/bin/gh",
}

// Locator resolves the path of the external program.
type Locator interface {
	Locate() (string, error)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func() (string, error)

func (f LocatorFunc) Locate() (string, error) { return f() }

// PathLocator checks a fixed list of candidate paths in order and then falls back
// to PATH resolution of Program.
type PathLocator struct {
	Program    string
	Candidates []string

	exists   func(path string) bool
	lookPath func(file string) (string, error)
}

// NewPathLocator creates a PathLocator. An empty program defaults to "gh".
// A nil candidates slice uses DefaultCandidates.
func NewPathLocator(program string, candidates []string) *PathLocator {
	if program == "" {
		program = DefaultProgram
	}
	if candidates == nil {
		candidates = DefaultCandidates
	}
	return &PathLocator{
		Program:    program,
		Candidates: candidates,
		exists:     fileExists,
		lookPath:   exec.LookPath,
	}
}

// Locate returns the first existing candidate, or the PATH match for Program.
func (l *PathLocator) Locate() (string, error) {
	for _, candidate := range l.Candidates {
		if l.exists(candidate) {
			return candidate, nil
		}
	}
	if path, err := l.lookPath(l.Program); err == nil && path != "" {
		return path, nil
	}
	return "", fmt.Errorf("%w (looked for %q)", apperrors.ErrToolNotFound, l.Program)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
