package snapshot

import "context"

// Repository defines persistence operations for session snapshots.
type Repository interface {
	// FindByName retrieves a snapshot by its name. Returns (nil, nil) when
	// no snapshot with that name exists.
	FindByName(ctx context.Context, name string) (*Snapshot, error)

	// FindAll retrieves all stored snapshots.
	FindAll(ctx context.Context) ([]*Snapshot, error)

	// Save inserts the snapshot or replaces an existing one with the same name.
	Save(ctx context.Context, snap *Snapshot) error

	// Delete removes the snapshot with the given name. Deleting a missing
	// snapshot is not an error.
	Delete(ctx context.Context, name string) error
}
