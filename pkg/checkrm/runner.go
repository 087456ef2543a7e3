package checkrm

import (
	"context"
	"fmt"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/go-cmd/cmd"
)

// Result is the classified outcome of one checkrm run.
type Result struct {
	Script Script
	Exit   int
	Output []string
}

// Ran reports whether a script was found and executed.
func (r Result) Ran() bool { return r.Script.Kind != KindNone }

// Blocked reports whether the script vetoed the operation because the
// application is running.
func (r Result) Blocked() bool { return r.Ran() && r.Exit == BlockedExitCode }

// Passed reports a zero exit, or no script at all.
func (r Result) Passed() bool { return !r.Ran() || r.Exit == 0 }

// Runner executes checkrm scripts.
type Runner struct {
	locator Locator
	tengo   *TengoExecutor
}

// NewRunner creates a runner over the given locator.
func NewRunner(locator Locator) *Runner {
	return &Runner{locator: locator, tengo: NewTengoExecutor()}
}

// UpgradeParams are the script arguments for a package upgraded to version.
func UpgradeParams(version string) []string { return []string{"upgrade", version} }

// RemoveParams are the script arguments for a removal.
func RemoveParams() []string { return []string{"remove"} }

// Run locates and executes the script for name and waits for it. A
// missing script yields a passing Result.
func (r *Runner) Run(ctx context.Context, name string, params []string) (Result, error) {
	script := r.locator.Locate(name)
	res := Result{Script: script}

	fields := logger.Fields{"package": name, "script": script.Path, "params": params}
	switch script.Kind {
	case KindNone:
		logger.Debug("no checkrm script", logger.Fields{"package": name})
		return res, nil
	case KindTengo:
		exit, err := r.tengo.Execute(ctx, script.Path, name, params)
		res.Exit = exit
		if err != nil {
			return res, err
		}
	case KindProcess:
		exit, out, err := runProcess(ctx, script.Path, params)
		res.Exit, res.Output = exit, out
		if err != nil {
			return res, err
		}
	}

	fields["exit"] = res.Exit
	logger.Debug("checkrm finished", fields)
	return res, nil
}

// Check runs the script in the background and delivers the outcome to
// reply from that goroutine.
func (r *Runner) Check(ctx context.Context, name string, params []string, reply func(Result, error)) {
	go func() {
		reply(r.Run(ctx, name, params))
	}()
}

func runProcess(ctx context.Context, path string, params []string) (int, []string, error) {
	c := cmd.NewCmdOptions(cmd.Options{Buffered: true}, path, params...)
	statusChan := c.Start()

	select {
	case status := <-statusChan:
		if status.Error != nil {
			return -1, status.Stderr, errors.Wrapf(errors.ErrCheckrmExecution, "%s: %v", path, status.Error)
		}
		if !status.Complete {
			return -1, status.Stderr, fmt.Errorf("%w: %s terminated by signal", errors.ErrCheckrmExecution, path)
		}
		return status.Exit, append(status.Stdout, status.Stderr...), nil
	case <-ctx.Done():
		_ = c.Stop()
		return -1, nil, ctx.Err()
	}
}
