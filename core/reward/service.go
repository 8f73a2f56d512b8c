// Package reward issues and lists student rewards. Rewards are never modified once issued.
package reward

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
)

var ErrUnknownStudent = errors.New("student does not exist")

type (
	// NewReward defaults MonthNumber and Year to the issue date when left zero.
	NewReward struct {
		StudentID    int `json:"student_id" validate:"required"`
		RewardTypeID int `json:"reward_type_id" validate:"required"`
		MonthNumber  int `json:"month_number" validate:"omitempty,min=1,max=12"`
		Year         int `json:"year" validate:"omitempty,min=2000"`
	}

	Service struct {
		store  dataset.Store
		remote records.RewardClient
		logger core.Logger
		now    func() time.Time
	}
)

func NewService(store dataset.Store, remote records.RewardClient, logger core.Logger) *Service {
	return &Service{store: store, remote: remote, logger: logger, now: time.Now}
}

func (svc *Service) ForStudent(ctx context.Context, studentID int) []dataset.Reward {
	rewards, err := svc.remote.QueryRewards(ctx, records.Where("student_id", studentID))
	if err != nil {
		svc.logger.Error("rewards: query failed", err, core.Fields{"student_id": studentID})
		return []dataset.Reward{}
	}
	return rewards
}

func (svc *Service) Issue(ctx context.Context, nr NewReward) (dataset.Reward, error) {
	if _, ok := svc.store.Index().Student(nr.StudentID); !ok {
		return dataset.Reward{}, core.NewValidationError(
			ErrUnknownStudent,
			core.FieldError{Field: "student_id", Error: ErrUnknownStudent.Error()},
		)
	}

	now := svc.now()
	rw := dataset.Reward{
		StudentID:    nr.StudentID,
		RewardTypeID: nr.RewardTypeID,
		MonthNumber:  nr.MonthNumber,
		Year:         nr.Year,
		IssuedAt:     calendar.NewDate(now),
	}
	if rw.MonthNumber == 0 {
		rw.MonthNumber = int(now.Month())
	}
	if rw.Year == 0 {
		rw.Year = now.Year()
	}

	created, err := svc.remote.CreateReward(ctx, rw)
	if err != nil {
		return dataset.Reward{}, errors.Wrap(err, "issuing reward")
	}
	return created, nil
}
