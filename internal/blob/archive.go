package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const (
	// SnapshotPrefix is the key prefix of archived snapshots.
	SnapshotPrefix = "snapshots/"
	// SnapshotContentType is stored with every archived snapshot.
	SnapshotContentType = "application/json"

	metaDay    = "day"
	metaDate   = "date"
	metaSHA256 = "sha256"
)

// SnapshotArchive stores exported plant snapshots under content-addressed keys
// of the form snapshots/day-00005-<sha256 prefix>.json.
type SnapshotArchive struct {
	store Store
}

// NewSnapshotArchive wraps store.
func NewSnapshotArchive(store Store) *SnapshotArchive {
	return &SnapshotArchive{store: store}
}

// Store returns the underlying object store.
func (a *SnapshotArchive) Store() Store { return a.store }

// SnapshotKey returns the archive key for a snapshot of the given day and content.
func SnapshotKey(day int, data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%sday-%05d-%s.json", SnapshotPrefix, day, hex.EncodeToString(sum[:6]))
}

// ParseSnapshotDay extracts the simulation day from an archive key.
func ParseSnapshotDay(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, SnapshotPrefix+"day-")
	if !ok {
		return 0, false
	}
	digits, _, ok := strings.Cut(rest, "-")
	if !ok {
		return 0, false
	}
	day, err := strconv.Atoi(digits)
	if err != nil || day < 0 {
		return 0, false
	}
	return day, true
}

// Save writes data once. Saving identical content for the same day again
// returns the existing object.
func (a *SnapshotArchive) Save(ctx context.Context, day int, date string, data []byte) (Info, error) {
	key := SnapshotKey(day, data)
	sum := sha256.Sum256(data)
	info, err := a.store.Put(ctx, key, bytes.NewReader(data), PutOptions{
		ContentType: SnapshotContentType,
		Metadata: map[string]string{
			metaDay:    strconv.Itoa(day),
			metaDate:   date,
			metaSHA256: hex.EncodeToString(sum[:]),
		},
	})
	if errors.Is(err, ErrExists) {
		return a.store.Head(ctx, key)
	}
	if err != nil {
		return Info{}, fmt.Errorf("archive snapshot: %w", err)
	}
	return info, nil
}

// Load reads an archived snapshot.
func (a *SnapshotArchive) Load(ctx context.Context, key string) ([]byte, error) {
	_, rc, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return data, nil
}

// List returns archived snapshots ordered by day, then key.
func (a *SnapshotArchive) List(ctx context.Context) ([]Info, error) {
	infos, err := a.store.List(ctx, SnapshotPrefix)
	if err != nil {
		return nil, err
	}
	out := infos[:0]
	for _, info := range infos {
		if _, ok := ParseSnapshotDay(info.Key); ok {
			out = append(out, info)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, _ := ParseSnapshotDay(out[i].Key)
		dj, _ := ParseSnapshotDay(out[j].Key)
		if di != dj {
			return di < dj
		}
		if !out[i].LastModified.Equal(out[j].LastModified) {
			return out[i].LastModified.Before(out[j].LastModified)
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// Latest returns the most recent snapshot, or ErrNotFound when the archive is empty.
func (a *SnapshotArchive) Latest(ctx context.Context) (Info, error) {
	infos, err := a.List(ctx)
	if err != nil {
		return Info{}, err
	}
	if len(infos) == 0 {
		return Info{}, fmt.Errorf("%w: no archived snapshots", ErrNotFound)
	}
	return infos[len(infos)-1], nil
}

// Prune deletes all but the newest keep snapshots and reports how many were removed.
func (a *SnapshotArchive) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be >= 0, got %d", keep)
	}
	infos, err := a.List(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := 0; i < len(infos)-keep; i++ {
		ok, err := a.store.Delete(ctx, infos[i].Key)
		if err != nil {
			return removed, fmt.Errorf("prune %s: %w", infos[i].Key, err)
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}
