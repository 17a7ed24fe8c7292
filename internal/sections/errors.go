package sections

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-sections/internal/reconcile"
)

var (
	// ErrSaveInProgress rejects a Save while another Save on the same synchronizer runs.
	ErrSaveInProgress = errors.New("sections: save already in progress")
	// ErrLoadDuringSave rejects a Load while a Save is in flight.
	ErrLoadDuringSave = errors.New("sections: load rejected while saving")
	// ErrNotLoaded reports a Save attempted before the baseline is known.
	ErrNotLoaded = errors.New("sections: baseline not loaded")
	// ErrCleanupIncomplete reports that the payload was persisted but retired
	// assets could not all be deleted.
	ErrCleanupIncomplete = errors.New("sections: asset cleanup incomplete")
	// ErrTransportRequired reports a synchronizer built without a transport.
	ErrTransportRequired = errors.New("sections: transport is required")
	// ErrSectionRequired reports a definition without a section name.
	ErrSectionRequired = errors.New("sections: section name is required")
	// ErrSlotCountMismatch reports an Assign call whose refs do not line up with the collection.
	ErrSlotCountMismatch = errors.New("sections: resolved slot count mismatch")
	// ErrLocaleRequired reports a workspace lookup without a locale.
	ErrLocaleRequired = errors.New("sections: locale is required")
)

// AssetStoreError is returned when an upload or delete fails.
type AssetStoreError = reconcile.StoreError

// TransportError wraps a fetch or patch failure. Orphans lists objects
// uploaded during the failed save that no persisted payload references.
type TransportError struct {
	Op      string
	Section string
	Locale  string
	Orphans []string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sections: %s %s (%s): %v", e.Op, e.Section, e.Locale, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Orphans extracts the orphaned object paths carried by err, if any.
func Orphans(err error) []string {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return append([]string(nil), transportErr.Orphans...)
	}
	var storeErr *AssetStoreError
	if errors.As(err, &storeErr) {
		return append([]string(nil), storeErr.Orphans...)
	}
	return nil
}
