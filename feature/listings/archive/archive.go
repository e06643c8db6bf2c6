package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"listing-manager/core/storage"
	"listing-manager/feature/listings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const prefix = "listings"

// Archive writes every listing snapshot to an object storage bucket. It
// implements listings.SnapshotSink.
type Archive struct {
	client storage.Client
	bucket string
	// keep is the number of snapshots retained per account; 0 keeps all.
	keep   int
	logger *zap.Logger
}

var _ listings.SnapshotSink = (*Archive)(nil)

// New creates an archive writing to bucket.
func New(client storage.Client, bucket string, keep int, logger *zap.Logger) *Archive {
	return &Archive{client: client, bucket: bucket, keep: keep, logger: logger}
}

// ObjectName returns the object key of a snapshot.
func ObjectName(steamID string, unix int64) string {
	return path.Join(prefix, steamID, strconv.FormatInt(unix, 10)+".json")
}

// SaveSnapshot uploads snap and prunes old snapshots of the account.
func (a *Archive) SaveSnapshot(ctx context.Context, snap *listings.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	name := ObjectName(snap.SteamID, snap.FetchedAt.Unix())
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", name, err)
	}
	a.logger.Debug("Snapshot archived", zap.String("object", name), zap.Int("bytes", len(body)))

	if a.keep > 0 {
		if _, err := a.Prune(ctx, snap.SteamID, a.keep); err != nil {
			return err
		}
	}
	return nil
}

type object struct {
	name string
	unix int64
}

// list returns the snapshot objects of an account, oldest first.
func (a *Archive) list(ctx context.Context, steamID string) ([]object, error) {
	opts := minio.ListObjectsOptions{Prefix: path.Join(prefix, steamID) + "/", Recursive: true}

	var out []object
	for info := range a.client.ListObjects(ctx, a.bucket, opts) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", info.Err)
		}
		base := strings.TrimSuffix(path.Base(info.Key), ".json")
		unix, err := strconv.ParseInt(base, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, object{name: info.Key, unix: unix})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].unix < out[j].unix })
	return out, nil
}

// Latest downloads the newest snapshot of an account, or nil when none exists.
func (a *Archive) Latest(ctx context.Context, steamID string) (*listings.Snapshot, error) {
	objects, err := a.list(ctx, steamID)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, nil
	}

	name := objects[len(objects)-1].name
	rc, err := a.client.GetObject(ctx, a.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download snapshot %s: %w", name, err)
	}
	defer rc.Close()

	var snap listings.Snapshot
	dec := json.NewDecoder(rc)
	dec.UseNumber()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", name, err)
	}
	return &snap, nil
}

// Prune deletes all but the newest keep snapshots of an account and returns
// how many were removed.
func (a *Archive) Prune(ctx context.Context, steamID string, keep int) (int, error) {
	objects, err := a.list(ctx, steamID)
	if err != nil {
		return 0, err
	}
	if len(objects) <= keep {
		return 0, nil
	}

	stale := objects[:len(objects)-keep]
	ch := make(chan minio.ObjectInfo, len(stale))
	for _, o := range stale {
		ch <- minio.ObjectInfo{Key: o.name}
	}
	close(ch)

	var errs error
	failed := 0
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, ch, minio.RemoveObjectsOptions{}) {
		failed++
		errs = errors.Join(errs, fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err))
	}

	removed := len(stale) - failed
	if removed > 0 {
		a.logger.Debug("Pruned archived snapshots", zap.String("steamid", steamID), zap.Int("removed", removed))
	}
	return removed, errs
}
