package inmemrecords

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
)

func (db *DB) QueryExcuses(ctx context.Context, q records.Query) ([]dataset.Excuse, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if err := db.failure(ctx, records.ResourceExcuses); err != nil {
		return nil, err
	}

	excuses := make([]dataset.Excuse, 0, len(db.excuses))
	for _, e := range db.excuses {
		if matches(*e, q) {
			excuses = append(excuses, *e)
		}
	}
	sort.Slice(excuses, func(i, j int) bool { return excuses[i].ID < excuses[j].ID })
	return excuses, nil
}

func (db *DB) GetExcuse(ctx context.Context, id int) (dataset.Excuse, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if err := db.failure(ctx, records.ResourceExcuses); err != nil {
		return dataset.Excuse{}, err
	}

	if e, ok := db.excuses[id]; ok {
		return *e, nil
	}
	return dataset.Excuse{}, records.ErrNotFound
}

func (db *DB) CreateExcuse(ctx context.Context, e dataset.Excuse) (dataset.Excuse, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.failure(ctx, records.ResourceExcuses); err != nil {
		return dataset.Excuse{}, err
	}

	e.ID = db.nextPK(records.ResourceExcuses)
	db.excuses[e.ID] = &e
	return e, nil
}

func (db *DB) UpdateExcuse(ctx context.Context, id int, patch records.Patch) (dataset.Excuse, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.failure(ctx, records.ResourceExcuses); err != nil {
		return dataset.Excuse{}, err
	}

	e, ok := db.excuses[id]
	if !ok {
		return dataset.Excuse{}, records.ErrNotFound
	}
	updated := *e
	if err := applyPatch(&updated, patch); err != nil {
		return dataset.Excuse{}, err
	}
	updated.ID = id
	db.excuses[id] = &updated
	return updated, nil
}

func (db *DB) QueryExcuseReasons(ctx context.Context, q records.Query) ([]dataset.ExcuseReason, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if err := db.failure(ctx, records.ResourceExcuseReasons); err != nil {
		return nil, err
	}

	reasons := make([]dataset.ExcuseReason, 0, len(db.reasons))
	for _, r := range db.reasons {
		if matches(*r, q) {
			reasons = append(reasons, *r)
		}
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i].ID < reasons[j].ID })
	return reasons, nil
}

func (db *DB) GetExcuseReason(ctx context.Context, id int) (dataset.ExcuseReason, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if err := db.failure(ctx, records.ResourceExcuseReasons); err != nil {
		return dataset.ExcuseReason{}, err
	}

	if r, ok := db.reasons[id]; ok {
		return *r, nil
	}
	return dataset.ExcuseReason{}, records.ErrNotFound
}

func (db *DB) QueryExcuseAttachments(ctx context.Context, q records.Query) ([]dataset.ExcuseAttachment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if err := db.failure(ctx, records.ResourceExcuseAttachments); err != nil {
		return nil, err
	}

	atts := make([]dataset.ExcuseAttachment, 0)
	for _, a := range db.attachments {
		if matches(*a, q) {
			atts = append(atts, *a)
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].ID < atts[j].ID })
	return atts, nil
}

func (db *DB) CreateExcuseAttachment(ctx context.Context, a dataset.ExcuseAttachment) (dataset.ExcuseAttachment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.failure(ctx, records.ResourceExcuseAttachments); err != nil {
		return dataset.ExcuseAttachment{}, err
	}

	a.ID = db.nextPK(records.ResourceExcuseAttachments)
	db.attachments[a.ID] = &a
	return a, nil
}

// applyPatch writes the patched fields onto v through its JSON form, the way the remote store merges them.
func applyPatch(v interface{}, patch records.Patch) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return errors.Wrap(err, "encoding patch")
	}
	if err = json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "applying patch")
	}
	return nil
}
