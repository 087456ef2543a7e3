package state

import (
	"context"

	"github.com/glorpus-work/appmanager/pkg/model"
)

// snapshotsKept is how many backup snapshots survive a save.
const snapshotsKept = 5

// Store is what the workflows persist through: backup snapshots and the
// boot marker.
type Store struct {
	Backup     *BackupStore
	MarkerPath string
}

// SaveBackup records the installed packages among pkgs.
func (s *Store) SaveBackup(ctx context.Context, pkgs []*model.PackageRecord) error {
	if _, err := s.Backup.SaveInstalled(ctx, pkgs); err != nil {
		return err
	}
	return s.Backup.Prune(ctx, snapshotsKept)
}

// WriteBootMarker writes m to the configured marker path.
func (s *Store) WriteBootMarker(m BootMarker) error {
	return WriteBootMarker(s.MarkerPath, m)
}
