package checkrm

import (
	"context"
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/glorpus-work/appmanager/pkg/errors"
)

// TengoExecutor runs .checkrm.tengo scripts in-process. A script sees
// `package`, `operation` and `params` and reports its verdict by
// assigning an int to `exit_code`, or a non-empty string or error to
// `err`.
type TengoExecutor struct {
	modules []string
}

// NewTengoExecutor creates an executor exposing the given stdlib modules.
// With none given, fmt, os, strings, text and times are available.
func NewTengoExecutor(modules ...string) *TengoExecutor {
	if len(modules) == 0 {
		modules = []string{"fmt", "os", "strings", "text", "times"}
	}
	return &TengoExecutor{modules: modules}
}

// Execute runs the script source at path and returns its exit code.
func (e *TengoExecutor) Execute(ctx context.Context, path, name string, params []string) (int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return -1, errors.Wrapf(errors.ErrCheckrmExecution, "read %s: %v", path, err)
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(e.modules...))

	operation := ""
	if len(params) > 0 {
		operation = params[0]
	}
	args := make([]interface{}, len(params))
	for i, p := range params {
		args[i] = p
	}
	vars := map[string]interface{}{
		"package":   name,
		"operation": operation,
		"params":    args,
		"exit_code": 0,
		"err":       "",
	}
	for k, v := range vars {
		if err := script.Add(k, v); err != nil {
			return -1, fmt.Errorf("failed to add %s to script: %w", k, err)
		}
	}

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return -1, fmt.Errorf("%s: %w: %w", path, errors.ErrCheckrmExecution, err)
	}

	if errVar := compiled.Get("err"); errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return 1, fmt.Errorf("%w: %w", errors.ErrCheckrmScript, v)
		case string:
			if v != "" {
				return 1, fmt.Errorf("%w: %s", errors.ErrCheckrmScript, v)
			}
		}
	}

	return compiled.Get("exit_code").Int(), nil
}
