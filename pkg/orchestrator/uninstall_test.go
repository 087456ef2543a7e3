package orchestrator_test

import (
	"context"
	"testing"

	"github.com/glorpus-work/appmanager/pkg/checkrm"
	"github.com/glorpus-work/appmanager/pkg/i18n"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func installed(name string) *model.PackageRecord {
	return &model.PackageRecord{Name: name, InstalledVersion: "1.0", InstalledSize: 2048}
}

func (h *harness) confirmUninstall(ok bool) *gomock.Call {
	return h.ui.EXPECT().YesNoWithDetails(gomock.Any(), i18n.T(i18n.TitleConfirmUninstall), gomock.Any(), gomock.Not(gomock.Nil()), gomock.Any()).
		Do(func(_ context.Context, _, _ string, _ *model.PackageRecord, answer func(bool)) { answer(ok) })
}

func (h *harness) removeCheck(names ...string) *gomock.Call {
	return h.backend.EXPECT().RemoveCheck(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ string, reply func([]string, error)) { reply(names, nil) })
}

func (h *harness) remove(ok bool) *gomock.Call {
	return h.backend.EXPECT().Remove(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, _ string, reply func(bool, error)) { reply(ok, nil) })
}

func removable(status model.RemovableStatus) func(string) *model.PackageRecord {
	return func(name string) *model.PackageRecord {
		p := installed(name)
		p.RemovableStatus = status
		return p
	}
}

func TestUninstallPackage_Succeeds(t *testing.T) {
	h := newHarness(t)
	h.snapshots()

	h.confirmUninstall(true)
	h.removeCheck("viewer")
	h.checkrm.EXPECT().Check(gomock.Any(), "viewer", checkrm.RemoveParams(), gomock.Any()).
		Do(func(_ context.Context, _ string, _ []string, reply func(checkrm.Result, error)) {
			reply(checkrm.Result{Script: checkrm.Script{Kind: checkrm.KindProcess}}, nil)
		})
	h.packageInfo(removable(model.RemovableAble))
	h.remove(true)
	h.backend.EXPECT().Autoremove(gomock.Any(), gomock.Any()).Do(func(_ context.Context, reply func(error)) { reply(nil) })
	h.annoy(i18n.T(i18n.UninstallSuccessful, "viewer"), gomock.Nil())

	calls := 0
	h.o.UninstallPackage(context.Background(), installed("viewer"), func() { calls++ })
	h.run()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, h.refreshes)
}

func TestUninstallPackage_Declined(t *testing.T) {
	h := newHarness(t)
	h.confirmUninstall(false)

	calls := 0
	h.o.UninstallPackage(context.Background(), installed("viewer"), func() { calls++ })
	h.run()

	assert.Equal(t, 1, calls)
}

func TestUninstallPackage_BlockedByRunningApplication(t *testing.T) {
	h := newHarness(t)
	h.confirmUninstall(true)
	h.removeCheck("viewer", "viewer-plugins")
	gomock.InOrder(
		h.checkrm.EXPECT().Check(gomock.Any(), "viewer", gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, _ string, _ []string, reply func(checkrm.Result, error)) {
				reply(checkrm.Result{Script: checkrm.Script{Kind: checkrm.KindTengo}}, nil)
			}),
		h.checkrm.EXPECT().Check(gomock.Any(), "viewer-plugins", gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, _ string, _ []string, reply func(checkrm.Result, error)) {
				reply(checkrm.Result{Script: checkrm.Script{Kind: checkrm.KindProcess}, Exit: checkrm.BlockedExitCode}, nil)
			}),
	)
	// the notice names the package being removed, not the blocking script
	h.annoy(i18n.T(i18n.ApplicationRunning, "Viewer"), gomock.Nil())

	calls := 0
	p := installed("viewer")
	p.PrettyName = "Viewer"
	h.o.UninstallPackage(context.Background(), p, func() { calls++ })
	h.run()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, h.refreshes)
}

func TestUninstallPackage_NotRemovable(t *testing.T) {
	tests := []struct {
		name   string
		status model.RemovableStatus
		text   string
	}{
		{name: "needed by others", status: model.RemovableNeeded, text: i18n.T(i18n.UninstallNeeded, "viewer")},
		{name: "unable", status: model.RemovableUnable, text: i18n.T(i18n.UninstallFailed, "viewer")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.confirmUninstall(true)
			h.removeCheck()
			h.packageInfo(removable(tt.status))
			h.annoy(tt.text, gomock.Not(gomock.Nil()))

			calls := 0
			h.o.UninstallPackage(context.Background(), installed("viewer"), func() { calls++ })
			h.run()

			assert.Equal(t, 1, calls)
		})
	}
}

func TestUninstallPackage_RemoveFails(t *testing.T) {
	h := newHarness(t)
	h.snapshots()
	h.confirmUninstall(true)
	h.removeCheck()
	h.packageInfo(removable(model.RemovableAble))
	h.remove(false)
	h.annoy(i18n.T(i18n.UninstallFailed, "viewer"), gomock.Not(gomock.Nil()))

	calls := 0
	h.o.UninstallPackage(context.Background(), installed("viewer"), func() { calls++ })
	h.run()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, h.refreshes)
}
