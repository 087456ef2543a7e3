package orchestrator_test

import (
	"context"
	"testing"

	"github.com/glorpus-work/appmanager/pkg/backend"
	"github.com/glorpus-work/appmanager/pkg/eventloop"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/orchestrator"
	ocmocks "github.com/glorpus-work/appmanager/pkg/orchestrator/mocks"
	"github.com/glorpus-work/appmanager/pkg/session"
	"go.uber.org/mock/gomock"
)

type recordingDevice struct {
	modes []session.DeviceMode
}

func (d *recordingDevice) SetDeviceMode(m session.DeviceMode, done func(error)) {
	d.modes = append(d.modes, m)
	done(nil)
}

type harness struct {
	t        *testing.T
	loop     *eventloop.Loop
	clock    *eventloop.InstantClock
	device   *recordingDevice
	sess     *session.Session
	backend  *ocmocks.MockBackend
	ui       *ocmocks.MockConfirmer
	progress *ocmocks.MockProgress
	env      *ocmocks.MockEnvironment
	checkrm  *ocmocks.MockCheckrm
	state    *ocmocks.MockStateStore
	files    *ocmocks.MockLocalizer
	o        *orchestrator.Orchestrator

	refreshes int
}

func newHarness(t *testing.T) *harness {
	ctrl := gomock.NewController(t)
	h := &harness{
		t:        t,
		loop:     eventloop.New(),
		clock:    &eventloop.InstantClock{},
		device:   &recordingDevice{},
		backend:  ocmocks.NewMockBackend(ctrl),
		ui:       ocmocks.NewMockConfirmer(ctrl),
		progress: ocmocks.NewMockProgress(ctrl),
		env:      ocmocks.NewMockEnvironment(ctrl),
		checkrm:  ocmocks.NewMockCheckrm(ctrl),
		state:    ocmocks.NewMockStateStore(ctrl),
		files:    ocmocks.NewMockLocalizer(ctrl),
	}
	h.sess = session.New(h.device, session.Advanced{})
	h.o = &orchestrator.Orchestrator{
		Backend:  h.backend,
		UI:       h.ui,
		Progress: h.progress,
		Env:      h.env,
		Checkrm:  h.checkrm,
		State:    h.state,
		Files:    h.files,
		Session:  h.sess,
		Loop:     h.loop,
		Clock:    h.clock,
		Options:  orchestrator.DefaultOptions(),
		Hooks: orchestrator.Hooks{
			OnPackageList: func([]*model.PackageRecord) { h.refreshes++ },
		},
	}

	h.progress.EXPECT().Start(gomock.Any()).AnyTimes()
	h.progress.EXPECT().Stop().AnyTimes()
	h.env.EXPECT().SetPrestart(gomock.Any()).AnyTimes()
	return h
}

func (h *harness) run() {
	h.t.Helper()
	h.loop.RunUntilIdle()
}

// snapshots lets backup snapshots and list refreshes happen freely.
func (h *harness) snapshots() {
	h.backend.EXPECT().PackageList(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ bool, reply func([]*model.PackageRecord, error)) {
			reply([]*model.PackageRecord{{Name: "installed", InstalledVersion: "1"}}, nil)
		}).AnyTimes()
	h.state.EXPECT().SaveBackup(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (h *harness) network(ok bool) *gomock.Call {
	return h.env.EXPECT().EnsureNetwork(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, done func(bool)) { done(ok) })
}

func (h *harness) installCheck(res *backend.InstallCheckResult) *gomock.Call {
	return h.backend.EXPECT().InstallCheck(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ string, reply func(*backend.InstallCheckResult, error)) { reply(res, nil) })
}

func (h *harness) packageInfo(fresh func(name string) *model.PackageRecord) *gomock.Call {
	return h.backend.EXPECT().PackageInfo(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, name string, reply func(*model.PackageRecord, error)) { reply(fresh(name), nil) })
}

func (h *harness) freeSpace(n int64) *gomock.Call {
	return h.backend.EXPECT().FreeSpace(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, reply func(int64, error)) { reply(n, nil) })
}

func (h *harness) download(code model.ResultCode) *gomock.Call {
	return h.backend.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ string, reply func(*backend.DownloadResult, error)) {
			reply(&backend.DownloadResult{Code: code}, nil)
		})
}

func (h *harness) install(code model.ResultCode) *gomock.Call {
	return h.backend.EXPECT().Install(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _, _ string, reply func(model.ResultCode, error)) { reply(code, nil) })
}

func (h *harness) annoy(text any, details any) *gomock.Call {
	return h.ui.EXPECT().Annoy(gomock.Any(), text, details, gomock.Any()).
		Do(func(_ context.Context, _ string, _ *model.PackageRecord, done func()) { done() })
}

func (h *harness) confirmInstall(ok bool) *gomock.Call {
	return h.ui.EXPECT().InstallConfirm(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ orchestrator.InstallConfirmation, answer func(bool)) { answer(ok) })
}

func (h *harness) yesNo(ok bool) *gomock.Call {
	return h.ui.EXPECT().YesNo(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ string, answer func(bool)) { answer(ok) })
}

// completion records how often and with what a continuation fired.
type completion struct {
	calls int
	value int
}

func (c *completion) done(n int) {
	c.calls++
	c.value = n
}

func upgradable(name string) *model.PackageRecord {
	return &model.PackageRecord{
		Name:              name,
		InstalledVersion:  "1.0",
		AvailableVersion:  "1.1",
		InstallableStatus: model.StatusAble,
		ThirdPartyPolicy:  model.PolicyCompatible,
		RequiredFreeSpace: 1000,
		DownloadSize:      500,
	}
}

func fresh(name string) *model.PackageRecord {
	p := upgradable(name)
	p.HaveInfo = true
	return p
}

var trusted = &backend.InstallCheckResult{Success: true}
