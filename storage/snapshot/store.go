// Package snapshotstore serves the dashboard snapshot from a bundled JSON file (or the embedded seed)
// and lets callers persist a replacement snapshot that is read in preference to it.
package snapshotstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/dataset"
)

//go:embed seed.json
var seed []byte

type Options struct {
	// BundledPath is read on Load; the embedded seed is used when empty.
	BundledPath string
	// Bundled takes precedence over BundledPath when set.
	Bundled *dataset.Snapshot
	// OverridePath persists replacement snapshots; overrides only live in memory when empty.
	OverridePath string
}

type Store struct {
	opts   Options
	logger core.Logger

	mu       sync.RWMutex
	bundled  *dataset.Index
	override *dataset.Index
}

var _ dataset.Store = (*Store)(nil) // interface compliance check

func New(logger core.Logger, opts Options) *Store {
	return &Store{opts: opts, logger: logger}
}

// Load reads the bundled snapshot and, if one was persisted, the override snapshot.
func (s *Store) Load() error {
	bundled, err := s.readBundled()
	if err != nil {
		return errors.Wrap(err, "reading bundled snapshot")
	}
	override, err := s.readOverride()
	if err != nil {
		return errors.Wrap(err, "reading override snapshot")
	}

	s.mu.Lock()
	s.bundled = dataset.NewIndex(bundled)
	if override != nil {
		s.override = dataset.NewIndex(override)
	}
	current := s.current()
	s.mu.Unlock()

	s.warnIntegrity(current)
	return nil
}

func (s *Store) readBundled() (*dataset.Snapshot, error) {
	if s.opts.Bundled != nil {
		return s.opts.Bundled, nil
	}
	if s.opts.BundledPath == "" {
		return dataset.Decode(bytes.NewReader(seed))
	}
	f, err := os.Open(s.opts.BundledPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return dataset.Decode(f)
}

func (s *Store) readOverride() (*dataset.Snapshot, error) {
	if s.opts.OverridePath == "" {
		return nil, nil
	}
	f, err := os.Open(s.opts.OverridePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return dataset.Decode(f)
}

// Replace makes snap the override snapshot. It is persisted when an override path is configured.
func (s *Store) Replace(snap *dataset.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	s.mu.Lock()
	ix, err := s.install(snap)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Info("snapshot override replaced")
	s.warnIntegrity(ix)
	return nil
}

// Update applies fn to a copy of the snapshot in effect and installs the copy as the override.
// Updates are serialized, each one starts from the result of the previous one.
// When fn fails the store is left as it was and its error is returned.
func (s *Store) Update(fn func(snap *dataset.Snapshot) error) error {
	s.mu.Lock()
	snap := s.current().Snapshot().Clone()
	if err := fn(snap); err != nil {
		s.mu.Unlock()
		return err
	}
	ix, err := s.install(snap)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Info("snapshot override updated")
	s.warnIntegrity(ix)
	return nil
}

// install persists snap then swaps it in. It must be called with mu held.
func (s *Store) install(snap *dataset.Snapshot) (*dataset.Index, error) {
	if s.opts.OverridePath != "" {
		data, err := json.Marshal(snap)
		if err != nil {
			return nil, errors.Wrap(err, "encoding override snapshot")
		}
		if err = os.MkdirAll(filepath.Dir(s.opts.OverridePath), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating override directory")
		}
		if err = os.WriteFile(s.opts.OverridePath, data, 0o644); err != nil {
			return nil, errors.Wrap(err, "writing override snapshot")
		}
	}
	s.override = dataset.NewIndex(snap)
	return s.override, nil
}

// ClearOverride drops the override snapshot; reads go back to the bundled one.
func (s *Store) ClearOverride() error {
	if s.opts.OverridePath != "" {
		if err := os.Remove(s.opts.OverridePath); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "removing override snapshot")
		}
	}
	s.mu.Lock()
	s.override = nil
	s.mu.Unlock()

	s.logger.Info("snapshot override cleared")
	return nil
}

func (s *Store) HasOverride() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.override != nil
}

func (s *Store) Index() *dataset.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current()
}

// current must be called with mu held.
func (s *Store) current() *dataset.Index {
	if s.override != nil {
		return s.override
	}
	if s.bundled == nil {
		return dataset.NewIndex(nil)
	}
	return s.bundled
}

func (s *Store) warnIntegrity(ix *dataset.Index) {
	for _, issue := range ix.CheckIntegrity() {
		s.logger.Warn("snapshot integrity: "+issue.Message, core.Fields{"kind": issue.Kind})
	}
}
