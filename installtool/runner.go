package installtool

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// commandRunner runs one installer subprocess. Backends depend on this
// seam instead of os/exec directly so tests can install fake installers.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
	LookPath(name string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 -- command and args come from the fixed backend tables.
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	output := string(out)
	if err != nil {
		message := strings.TrimSpace(output)
		if message == "" {
			message = err.Error()
		}
		return output, fmt.Errorf("installtool: %s failed: %s: %w", name, message, err)
	}
	return output, nil
}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
