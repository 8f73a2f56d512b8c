// Package penalty reads and settles the fines owed by parents.
package penalty

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
)

type Service struct {
	store  dataset.Store
	remote records.PenaltyClient
	logger core.Logger
}

func NewService(store dataset.Store, remote records.PenaltyClient, logger core.Logger) *Service {
	return &Service{store: store, remote: remote, logger: logger}
}

func (svc *Service) ForStudent(ctx context.Context, studentID int) []dataset.ParentPenalty {
	return svc.query(ctx, records.Where("student_id", studentID))
}

func (svc *Service) ForParent(ctx context.Context, parentID int) []dataset.ParentPenalty {
	return svc.query(ctx, records.Where("parent_id", parentID))
}

// All returns every penalty, or only those matching q.
func (svc *Service) All(ctx context.Context, q records.Query) []dataset.ParentPenalty {
	return svc.query(ctx, q)
}

func (svc *Service) query(ctx context.Context, q records.Query) []dataset.ParentPenalty {
	penalties, err := svc.remote.QueryPenalties(ctx, q)
	if err != nil {
		svc.logger.Error("penalties: query failed", err, core.Fields{"field": q.Field, "value": q.Value})
		return []dataset.ParentPenalty{}
	}
	return penalties
}

// MarkPaid settles a penalty on the remote store. Paying a paid penalty is not an error.
func (svc *Service) MarkPaid(ctx context.Context, id int) (dataset.ParentPenalty, error) {
	p, err := svc.remote.UpdatePenalty(ctx, id, records.Patch{"paid": dataset.Paid})
	if err != nil {
		return dataset.ParentPenalty{}, errors.Wrapf(err, "marking penalty %d paid", id)
	}
	return p, nil
}

// SettleLocally marks a penalty paid in a copy of the current snapshot and installs that copy as the
// store override. The remote store is left untouched.
func (svc *Service) SettleLocally(id int) (dataset.ParentPenalty, error) {
	var settled dataset.ParentPenalty
	err := svc.store.Update(func(snap *dataset.Snapshot) error {
		for i := range snap.Penalties {
			if snap.Penalties[i].ID == id {
				snap.Penalties[i].Paid = dataset.Paid
				settled = snap.Penalties[i]
				return nil
			}
		}
		return errors.Wrapf(records.ErrNotFound, "penalty %d", id)
	})
	if err != nil {
		return dataset.ParentPenalty{}, errors.Wrapf(err, "settling penalty %d", id)
	}
	svc.logger.Info("penalty settled locally", core.Fields{"penalty_id": id})
	return settled, nil
}
