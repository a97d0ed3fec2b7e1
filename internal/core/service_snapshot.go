package core

import (
	"context"
	"fmt"
	"plantsim/internal/blob"
	"plantsim/pkg/domain"
)

// ExportState encodes the committed state as a snapshot document.
func (s *Service) ExportState(ctx context.Context) ([]byte, error) {
	data, _, err := s.export(ctx)
	return data, err
}

func (s *Service) export(ctx context.Context) ([]byte, int, error) {
	var (
		data []byte
		day  int
	)
	err := s.observe(ctx, opExportState, func(ctx context.Context) error {
		return s.store.View(ctx, func(v TransactionView) error {
			state := v.State()
			day = state.CurrentDay
			var err error
			data, err = domain.EncodeSnapshot(state, s.opts.calendar)
			return err
		})
	})
	return data, day, err
}

// ImportState validates a snapshot document and replaces the committed state
// with it. On any error the current state is unchanged.
func (s *Service) ImportState(ctx context.Context, data []byte) (domain.SimulationState, error) {
	return s.replace(ctx, opImportState, data)
}

func (s *Service) replace(ctx context.Context, op string, data []byte) (domain.SimulationState, error) {
	var imported domain.SimulationState
	_, err := s.run(ctx, op, func(tx Transaction) (auditRef, error) {
		state, err := domain.DecodeSnapshot(data, s.opts.calendar)
		if err != nil {
			return auditRef{}, err
		}
		if err := tx.ReplaceState(state); err != nil {
			return auditRef{}, err
		}
		imported = tx.Snapshot().State()
		return auditRef{Day: imported.CurrentDay}, nil
	})
	if err != nil {
		return domain.SimulationState{}, err
	}
	return imported, nil
}

// ArchiveSnapshot exports the committed state into the blob store.
func (s *Service) ArchiveSnapshot(ctx context.Context, store blob.Store) (blob.Info, error) {
	data, day, err := s.export(ctx)
	if err != nil {
		return blob.Info{}, err
	}
	var info blob.Info
	err = s.observe(ctx, opArchiveSnapshot, func(ctx context.Context) error {
		var err error
		info, err = blob.NewSnapshotArchive(store).Save(ctx, day, s.opts.calendar.Format(day), data)
		return err
	})
	if err != nil {
		return blob.Info{}, err
	}
	s.opts.logger.Info("snapshot archived", "key", info.Key, "day", day, "size_bytes", info.Size, "driver", string(store.Driver()))
	return info, nil
}

// RestoreSnapshot loads an archived snapshot and imports it. An empty key
// selects the most recent snapshot.
func (s *Service) RestoreSnapshot(ctx context.Context, store blob.Store, key string) (domain.SimulationState, error) {
	archive := blob.NewSnapshotArchive(store)
	if key == "" {
		latest, err := archive.Latest(ctx)
		if err != nil {
			return domain.SimulationState{}, err
		}
		key = latest.Key
	}
	data, err := archive.Load(ctx, key)
	if err != nil {
		return domain.SimulationState{}, fmt.Errorf("restore %s: %w", key, err)
	}
	state, err := s.replace(ctx, opRestoreSnapshot, data)
	if err != nil {
		return domain.SimulationState{}, fmt.Errorf("restore %s: %w", key, err)
	}
	s.opts.logger.Info("snapshot restored", "key", key, "day", state.CurrentDay)
	return state, nil
}
