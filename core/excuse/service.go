// Package excuse runs the excuse lifecycle against the remote record store.
// An excuse starts PENDING and an admin moves it to APPROVED or REJECTED; both are terminal.
package excuse

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
)

// Placeholder stands in for an enrichment field whose remote fetch failed.
const Placeholder = "N/A"

// maxInFlight bounds the concurrent remote requests of a single enrichment.
const maxInFlight = 8

var (
	ErrInvalidStatus  = errors.New("status must be APPROVED or REJECTED")
	ErrUnknownStudent = errors.New("student does not exist")
)

// labels are the bilingual status labels written along with each status.
var labels = map[dataset.ExcuseStatus][2]string{
	dataset.ExcusePending:  {"قيد المراجعة", "Pending"},
	dataset.ExcuseApproved: {"مقبول", "Approved"},
	dataset.ExcuseRejected: {"مرفوض", "Rejected"},
}

type (
	NewExcuse struct {
		StudentID     int    `json:"student_id" validate:"required"`
		ReasonID      int    `json:"reason_id" validate:"required"`
		ExcuseDate    string `json:"excuse_date" validate:"required,isodate"`
		Remarks       string `json:"remarks"`
		AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
	}

	// Detail is an excuse with the names a reviewer needs.
	Detail struct {
		dataset.Excuse
		StudentName   string `json:"student_name"`
		Reason        string `json:"reason"`
		AttachmentURL string `json:"attachment_url"`
	}

	Service struct {
		store  dataset.Store
		remote records.ExcuseClient
		logger core.Logger
		now    func() time.Time
	}
)

func NewService(store dataset.Store, remote records.ExcuseClient, logger core.Logger) *Service {
	return &Service{store: store, remote: remote, logger: logger, now: time.Now}
}

// Labels returns the arabic and english labels of status.
func Labels(status dataset.ExcuseStatus) (ar, en string) {
	l := labels[status]
	return l[0], l[1]
}

// Create submits a PENDING excuse, then its attachment when one is given.
// An attachment that cannot be saved is logged and reported as Placeholder.
func (svc *Service) Create(ctx context.Context, ne NewExcuse) (Detail, error) {
	ix := svc.store.Index()
	if _, ok := ix.Student(ne.StudentID); !ok {
		return Detail{}, core.NewValidationError(
			ErrUnknownStudent,
			core.FieldError{Field: "student_id", Error: ErrUnknownStudent.Error()},
		)
	}

	ar, en := Labels(dataset.ExcusePending)
	exc, err := svc.remote.CreateExcuse(ctx, dataset.Excuse{
		StudentID:     ne.StudentID,
		ReasonID:      ne.ReasonID,
		ExcuseDate:    calendar.MustDate(ne.ExcuseDate),
		SubmittedAt:   svc.now().UTC(),
		Remarks:       core.CleanString(ne.Remarks),
		Status:        dataset.ExcusePending,
		StatusLabelAr: ar,
		StatusLabelEn: en,
	})
	if err != nil {
		return Detail{}, errors.Wrap(err, "creating excuse")
	}

	detail := Detail{Excuse: exc, StudentName: ix.StudentName(exc.StudentID, dataset.LangAny)}
	if url := core.CleanString(ne.AttachmentURL); url != "" {
		att, err := svc.remote.CreateExcuseAttachment(ctx, dataset.ExcuseAttachment{ExcuseID: exc.ID, FileURL: url})
		if err != nil {
			// the excuse exists remotely now: failing here would make the caller submit it twice
			svc.logger.Warn("excuses: attachment not saved", err, core.Fields{"excuse_id": exc.ID, "file_url": url})
			detail.AttachmentURL = Placeholder
		} else {
			detail.AttachmentURL = att.FileURL
		}
	}
	detail.Reason = svc.reasonOf(ctx, exc.ReasonID)
	return detail, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Detail, error) {
	exc, err := svc.remote.GetExcuse(ctx, id)
	if err != nil {
		return Detail{}, errors.Wrapf(err, "fetching excuse %d", id)
	}
	details := svc.enrich(ctx, []dataset.Excuse{exc})
	return details[0], nil
}

// Query returns the matching excuses with student name, reason and attachment filled in.
// A failed fetch of the excuses yields an empty list.
func (svc *Service) Query(ctx context.Context, q records.Query) []Detail {
	excuses, err := svc.remote.QueryExcuses(ctx, q)
	if err != nil {
		svc.logger.Error("excuses: query failed", err, core.Fields{"field": q.Field, "value": q.Value})
		return []Detail{}
	}
	return svc.enrich(ctx, excuses)
}

func (svc *Service) enrich(ctx context.Context, excuses []dataset.Excuse) []Detail {
	ix := svc.store.Index()
	details := make([]Detail, len(excuses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for i := range excuses {
		i := i
		details[i] = Detail{Excuse: excuses[i], StudentName: ix.StudentName(excuses[i].StudentID, dataset.LangAny)}
		g.Go(func() error {
			details[i].Reason = svc.reasonOf(ctx, details[i].ReasonID)
			return nil
		})
		g.Go(func() error {
			details[i].AttachmentURL = svc.attachmentOf(ctx, details[i].ID)
			return nil
		})
	}
	_ = g.Wait()
	return details
}

func (svc *Service) reasonOf(ctx context.Context, reasonID int) string {
	r, err := svc.remote.GetExcuseReason(ctx, reasonID)
	if err != nil {
		svc.logger.Warn("excuses: reason unavailable", err, core.Fields{"reason_id": reasonID})
		return Placeholder
	}
	return r.Description
}

func (svc *Service) attachmentOf(ctx context.Context, excuseID int) string {
	atts, err := svc.remote.QueryExcuseAttachments(ctx, records.Where("excuse_id", excuseID))
	if err != nil {
		svc.logger.Warn("excuses: attachment unavailable", err, core.Fields{"excuse_id": excuseID})
		return Placeholder
	}
	if len(atts) == 0 {
		return ""
	}
	return atts[0].FileURL
}

// Reasons lists the excuse reasons, or none when the remote store fails.
func (svc *Service) Reasons(ctx context.Context) []dataset.ExcuseReason {
	reasons, err := svc.remote.QueryExcuseReasons(ctx, records.Query{})
	if err != nil {
		svc.logger.Error("excuses: could not fetch reasons", err)
		return []dataset.ExcuseReason{}
	}
	return reasons
}

// UpdateStatus moves an excuse to APPROVED or REJECTED. The current status is not checked,
// so applying the same status twice succeeds both times.
func (svc *Service) UpdateStatus(ctx context.Context, id int, status dataset.ExcuseStatus) (dataset.Excuse, error) {
	if !status.IsTerminal() {
		return dataset.Excuse{}, core.NewValidationError(
			ErrInvalidStatus,
			core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()},
		)
	}
	ar, en := Labels(status)
	exc, err := svc.remote.UpdateExcuse(ctx, id, records.Patch{
		"status":          status,
		"status_label_ar": ar,
		"status_label_en": en,
	})
	if err != nil {
		return dataset.Excuse{}, errors.Wrapf(err, "updating status of excuse %d", id)
	}
	return exc, nil
}
