package probe

import (
	"context"
	"errors"
	"os/exec"
)

// ErrToolMissing marks a configuration error: the client binary a strategy
// needs is not installed. Distinct from "service down" so operators can tell
// a broken checker from an unready service.
var ErrToolMissing = errors.New("required client tool not found")

// CommandRunner abstracts subprocess execution so client-binary strategies
// can be tested without pg_isready or mongosh installed.
type CommandRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type systemRunner struct{}

// SystemRunner runs commands via os/exec.
func SystemRunner() CommandRunner { return systemRunner{} }

func (systemRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (systemRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
