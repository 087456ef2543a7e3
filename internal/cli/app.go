package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/internal/system"
	"github.com/glorpus-work/appmanager/internal/tui"
	"github.com/glorpus-work/appmanager/pkg/backend"
	"github.com/glorpus-work/appmanager/pkg/checkrm"
	"github.com/glorpus-work/appmanager/pkg/config"
	"github.com/glorpus-work/appmanager/pkg/download"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/eventloop"
	"github.com/glorpus-work/appmanager/pkg/localize"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/orchestrator"
	"github.com/glorpus-work/appmanager/pkg/session"
	"github.com/glorpus-work/appmanager/pkg/state"
	"golang.org/x/sync/errgroup"
)

// app is one command invocation's wiring: the worker process, the
// persisted state and the orchestrator running on its event loop.
type app struct {
	cfg     *config.Config
	loop    *eventloop.Loop
	worker  *backend.WorkerClient
	backups *state.BackupStore
	sess    *session.Session
	spinner *tui.Spinner
	orch    *orchestrator.Orchestrator
	stop    context.CancelFunc
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	ctx, stop := context.WithCancel(ctx)

	transport, err := backend.StartProcess(ctx, cfg.Worker.Command, cfg.Worker.Args...)
	if err != nil {
		stop()
		return nil, fmt.Errorf("failed to start backend worker: %w", err)
	}
	worker := backend.NewWorkerClient(ctx, transport)

	backups, err := state.OpenBackupStore(ctx, cfg.BackupDBPath())
	if err != nil {
		_ = worker.Close()
		stop()
		return nil, fmt.Errorf("failed to open backup store: %w", err)
	}

	device := system.New(cfg.Device)
	sess := session.New(device, session.Advanced{
		RedPill:                cfg.Advanced.RedPill,
		IgnoreThirdPartyPolicy: cfg.Advanced.IgnoreThirdPartyPolicy,
		ShowAll:                cfg.Advanced.ShowAll,
	})
	spinner := tui.NewSpinner(os.Stderr, sess)
	dl := download.NewManager(cfg.Settings.HTTPTimeout, "appmanager/"+Version)

	a := &app{
		cfg:     cfg,
		loop:    eventloop.New(),
		worker:  worker,
		backups: backups,
		sess:    sess,
		spinner: spinner,
		stop:    stop,
	}
	a.orch = &orchestrator.Orchestrator{
		Backend:  worker,
		UI:       tui.NewStdTerminal(assumeYes()),
		Progress: spinner,
		Env:      device,
		Checkrm:  checkrm.NewRunner(checkrm.Locator{Dir: cfg.Settings.CheckrmDir, LegacyDir: cfg.Settings.LegacyCheckrmDir}),
		State:    &state.Store{Backup: backups, MarkerPath: cfg.BootMarkerPath()},
		Files:    localize.New(dl, cfg.DownloadDir()),
		Session:  sess,
		Loop:     a.loop,
		Clock:    eventloop.RealClock{},
		Options:  engineOptions(cfg),
		Hooks: orchestrator.Hooks{
			OnEvent: func(e orchestrator.Event) {
				logger.Debug("Workflow step", logger.Fields{"flow": e.Flow, "step": e.Step, "package": e.Package})
			},
			OnPackageList: func(pkgs []*model.PackageRecord) {
				logger.Debug("Package list refreshed", logger.Fields{"packages": len(pkgs)})
			},
		},
	}
	return a, nil
}

func engineOptions(cfg *config.Config) orchestrator.Options {
	return orchestrator.Options{
		DownloadRetries:   cfg.Settings.DownloadRetries,
		SSUInstallDelay:   cfg.Settings.SSUInstallDelay,
		RebootDelay:       cfg.Settings.RebootDelay,
		RebootSettleDelay: cfg.Settings.RebootSettleDelay,
		CleanAfterInstall: cfg.Settings.CleanAfterInstall,
	}
}

// Close stops the worker and closes the backup store.
func (a *app) Close() error {
	a.stop()
	err := a.worker.Close()
	if cerr := a.backups.Close(); err == nil {
		err = cerr
	}
	return err
}

// run starts a workflow on the loop and blocks until it calls done.
// The first interrupt cancels a running operation cooperatively when the
// busy indicator is up; otherwise it aborts the command.
func (a *app) run(ctx context.Context, start func(done func())) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return a.loop.Run(gctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-sigs:
				if a.spinner.Cancel() {
					logger.Warn("Cancelling the current operation")
					continue
				}
				cancel()
				return nil
			}
		}
	})

	a.loop.Post(func() { start(a.loop.Stop) })

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted: %w", err)
		}
		return err
	}
	return nil
}

// await issues an asynchronous backend call and waits for its reply.
func await[T any](ctx context.Context, call func(reply func(T, error))) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	call(func(v T, err error) { ch <- result{v: v, err: err} })

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// awaitErr is await for calls whose reply only carries an error.
func awaitErr(ctx context.Context, call func(reply func(error))) error {
	_, err := await(ctx, func(reply func(struct{}, error)) {
		call(func(err error) { reply(struct{}{}, err) })
	})
	return err
}

// packageList fetches the package list, honouring show-all.
func (a *app) packageList(ctx context.Context) ([]*model.PackageRecord, error) {
	return await(ctx, func(reply func([]*model.PackageRecord, error)) {
		a.worker.PackageList(ctx, !a.sess.ShowAll(), reply)
	})
}

// packageInfo looks up each name. Unknown names fail with
// ErrPackageNotFound.
func (a *app) packageInfo(ctx context.Context, names []string) ([]*model.PackageRecord, error) {
	out := make([]*model.PackageRecord, 0, len(names))
	for _, name := range names {
		p, err := await(ctx, func(reply func(*model.PackageRecord, error)) {
			a.worker.PackageInfo(ctx, name, reply)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get package info for %s: %w", name, err)
		}
		if p == nil {
			return nil, errors.Wrapf(errors.ErrPackageNotFound, "%s", name)
		}
		if p.Name == "" {
			p.Name = name
		}
		out = append(out, p)
	}
	return out, nil
}

// withApp loads the config, wires an app and closes it afterwards.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Debug("Closing backend worker", logger.Fields{"error": err.Error()})
		}
	}()
	return fn(ctx, a)
}
