package coach

import "context"

// Store is the persistence port the Coach writes through after every
// transition. Implementations live in internal/store.
//
// Entry collections are append-only per cycle: AppendEntry tags each entry
// with the cycle it belongs to, and Load returns only the entries of the
// document's current cycle.
type Store interface {
	// Load returns ErrStateNotFound when the user has never saved a state.
	Load(ctx context.Context, userID int) (Snapshot, error)
	Save(ctx context.Context, userID int, doc Document) error
	AppendEntry(ctx context.Context, userID, cycle int, kind EntryKind, e Entry) error
	DeleteEntry(ctx context.Context, userID int, kind EntryKind, id string) error
	AppendCycle(ctx context.Context, userID int, rec CycleRecord) error
	ListCycles(ctx context.Context, userID int) ([]CycleRecord, error)
}
