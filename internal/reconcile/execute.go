package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-sections/pkg/interfaces"
)

// ErrStoreUnavailable reports a plan that needs I/O without an AssetStore.
var ErrStoreUnavailable = errors.New("reconcile: asset store unavailable")

// StoreError describes an AssetStore failure during execution.
type StoreError struct {
	Op   string
	Path string
	// Orphans lists objects uploaded earlier in the same pass. They are not
	// referenced by any persisted payload and are not swept automatically.
	Orphans []string
	Err     error
}

func (e *StoreError) Error() string {
	target := e.Path
	if target == "" {
		target = "<new object>"
	}
	return fmt.Sprintf("asset store %s %s: %v", e.Op, target, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Report summarises what an execution pass changed in the store.
type Report struct {
	Uploaded []interfaces.StoredObject
	Deleted  []string
}

// Execute runs every pending upload in plan order, one at a time, and commits
// the resulting refs. It stops at the first failure; slots not yet committed
// keep their previous ref and no delete is attempted.
func Execute(ctx context.Context, store interfaces.AssetStore, now func() time.Time, plans ...*Plan) (Report, error) {
	var report Report
	if now == nil {
		now = time.Now
	}
	for _, plan := range plans {
		if plan == nil {
			continue
		}
		for i := range plan.Slots {
			slot := &plan.Slots[i].Plan
			if !slot.Pending() {
				continue
			}
			if store == nil {
				return report, ErrStoreUnavailable
			}
			obj, err := store.Upload(ctx, slot.Upload.File, slot.Upload.Folder)
			if err != nil {
				return report, &StoreError{
					Op:      "upload",
					Path:    slot.Upload.File.Name,
					Orphans: uploadedPaths(report.Uploaded),
					Err:     err,
				}
			}
			slot.Commit(obj, now())
			report.Uploaded = append(report.Uploaded, obj)
		}
	}
	return report, nil
}

// ExecuteDeletes retires the objects the settled plans no longer reference.
// Deletes run sequentially; the first failure stops the pass and is returned
// with the paths still awaiting deletion as Orphans.
func ExecuteDeletes(ctx context.Context, store interfaces.AssetStore, plans ...*Plan) ([]string, error) {
	for _, plan := range plans {
		if plan != nil && !plan.Settled() {
			return nil, fmt.Errorf("reconcile: plan %q has pending uploads", plan.Name)
		}
	}
	deletes := Deletes(plans...)
	if len(deletes) == 0 {
		return nil, nil
	}
	if store == nil {
		return nil, ErrStoreUnavailable
	}
	deleted := make([]string, 0, len(deletes))
	for i, del := range deletes {
		if err := store.Delete(ctx, del.Path); err != nil {
			remaining := make([]string, 0, len(deletes)-i)
			for _, rest := range deletes[i:] {
				remaining = append(remaining, rest.Path)
			}
			return deleted, &StoreError{Op: "delete", Path: del.Path, Orphans: remaining, Err: err}
		}
		deleted = append(deleted, del.Path)
	}
	return deleted, nil
}

// Stats counts the operations a plan set implies before execution.
type Stats struct {
	Uploads int
	Deletes int
}

// Summarize reports the pending operation counts for plans.
func Summarize(plans ...*Plan) Stats {
	var stats Stats
	for _, plan := range plans {
		if plan != nil {
			stats.Uploads += len(plan.Uploads())
		}
	}
	stats.Deletes = len(Deletes(plans...))
	return stats
}

func uploadedPaths(objs []interfaces.StoredObject) []string {
	if len(objs) == 0 {
		return nil
	}
	out := make([]string, len(objs))
	for i, obj := range objs {
		out[i] = obj.Path
	}
	return out
}
