package dataset

// Store owns the snapshot the engines read from.
// When an override snapshot exists every read returns it until ClearOverride is called.
type Store interface {
	Load() error
	Replace(snap *Snapshot) error
	// Update edits a copy of the snapshot in effect and installs it as the override.
	// Concurrent updates never undo each other.
	Update(fn func(snap *Snapshot) error) error
	ClearOverride() error
	HasOverride() bool
	// Index returns the lookup index of the snapshot currently in effect.
	Index() *Index
}
