package inmemrecords

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
)

func (db *DB) QueryPenalties(ctx context.Context, q records.Query) ([]dataset.ParentPenalty, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if err := db.failure(ctx, records.ResourcePenalties); err != nil {
		return nil, err
	}

	penalties := make([]dataset.ParentPenalty, 0, len(db.penalties))
	for _, p := range db.penalties {
		if matches(*p, q) {
			penalties = append(penalties, *p)
		}
	}
	sort.Slice(penalties, func(i, j int) bool { return penalties[i].ID < penalties[j].ID })
	return penalties, nil
}

func (db *DB) GetPenalty(ctx context.Context, id int) (dataset.ParentPenalty, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if err := db.failure(ctx, records.ResourcePenalties); err != nil {
		return dataset.ParentPenalty{}, err
	}

	if p, ok := db.penalties[id]; ok {
		return *p, nil
	}
	return dataset.ParentPenalty{}, records.ErrNotFound
}

func (db *DB) UpdatePenalty(ctx context.Context, id int, patch records.Patch) (dataset.ParentPenalty, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.failure(ctx, records.ResourcePenalties); err != nil {
		return dataset.ParentPenalty{}, err
	}

	p, ok := db.penalties[id]
	if !ok {
		return dataset.ParentPenalty{}, records.ErrNotFound
	}
	updated := *p
	if err := applyPatch(&updated, patch); err != nil {
		return dataset.ParentPenalty{}, err
	}
	updated.ID = id
	db.penalties[id] = &updated
	return updated, nil
}

func (db *DB) QueryRewards(ctx context.Context, q records.Query) ([]dataset.Reward, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if err := db.failure(ctx, records.ResourceRewards); err != nil {
		return nil, err
	}

	rewards := make([]dataset.Reward, 0, len(db.rewards))
	for _, r := range db.rewards {
		if matches(r, q) {
			rewards = append(rewards, r)
		}
	}
	return rewards, nil
}

// CreateReward appends r with a fresh sid; rewards are never updated.
func (db *DB) CreateReward(ctx context.Context, r dataset.Reward) (dataset.Reward, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.failure(ctx, records.ResourceRewards); err != nil {
		return dataset.Reward{}, err
	}

	r.ID = uuid.NewString()
	db.rewards = append(db.rewards, r)
	return r, nil
}
