package installtool

import (
	"context"
	"fmt"
	"strings"
)

const topLevelScript = `from importlib.metadata import distribution
print(distribution(%q).read_text("top_level.txt") or "")`

// reloadModules discovers the upgraded distribution's top-level modules
// and hands them to the reload hook. Every step is best-effort: an
// upgrade that installed successfully stays successful no matter what
// happens here.
func (t *Tool) reloadModules(ctx context.Context, pkg string) {
	if t.reload == nil {
		return
	}

	modules, err := t.topLevelModules(ctx, pkg)
	if err != nil {
		t.logger.Debug("module discovery after upgrade failed",
			"package", pkg,
			"error", err)
		return
	}
	if err := t.reload(ctx, pkg, modules); err != nil {
		t.logger.Debug("reload hook failed",
			"package", pkg,
			"error", err)
	}
}

func (t *Tool) topLevelModules(ctx context.Context, pkg string) ([]string, error) {
	python, err := lookPython(t.runner)
	if err != nil {
		return nil, err
	}

	output, err := t.runner.Run(ctx, python, "-c", fmt.Sprintf(topLevelScript, pkg))
	if err != nil {
		return nil, err
	}

	var modules []string
	for _, line := range strings.Split(output, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			modules = append(modules, name)
		}
	}
	return modules, nil
}
