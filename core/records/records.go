// Package records describes the remote record store holding excuses, penalties and rewards.
package records

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core/dataset"
)

// Resource names as exposed by the remote store.
const (
	ResourceExcuses           = "excuses"
	ResourceExcuseReasons     = "excuseReasons"
	ResourceExcuseAttachments = "excuseAttachments"
	ResourceRewards           = "rewards"
	ResourcePenalties         = "parentPenalties"
)

var ErrNotFound = errors.New("record not found")

// StatusError is returned for non-2xx responses. Body is kept for logging only.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote records: status %d: %s", e.Code, e.Body)
}

// Query filters a collection on a single field equality. The zero Query matches everything.
type Query struct {
	Field string
	Value string
}

func Where(field string, value interface{}) Query {
	switch v := value.(type) {
	case int:
		return Query{Field: field, Value: strconv.Itoa(v)}
	case string:
		return Query{Field: field, Value: v}
	default:
		return Query{Field: field, Value: fmt.Sprint(v)}
	}
}

func (q Query) IsZero() bool {
	return q.Field == ""
}

func (q Query) Values() url.Values {
	v := make(url.Values)
	if !q.IsZero() {
		v.Set(q.Field, q.Value)
	}
	return v
}

// Patch is a partial update: only the listed fields are written.
type Patch map[string]interface{}

type (
	ExcuseClient interface {
		QueryExcuses(ctx context.Context, q Query) ([]dataset.Excuse, error)
		GetExcuse(ctx context.Context, id int) (dataset.Excuse, error)
		CreateExcuse(ctx context.Context, e dataset.Excuse) (dataset.Excuse, error)
		UpdateExcuse(ctx context.Context, id int, patch Patch) (dataset.Excuse, error)

		QueryExcuseReasons(ctx context.Context, q Query) ([]dataset.ExcuseReason, error)
		GetExcuseReason(ctx context.Context, id int) (dataset.ExcuseReason, error)

		QueryExcuseAttachments(ctx context.Context, q Query) ([]dataset.ExcuseAttachment, error)
		CreateExcuseAttachment(ctx context.Context, a dataset.ExcuseAttachment) (dataset.ExcuseAttachment, error)
	}

	PenaltyClient interface {
		QueryPenalties(ctx context.Context, q Query) ([]dataset.ParentPenalty, error)
		GetPenalty(ctx context.Context, id int) (dataset.ParentPenalty, error)
		UpdatePenalty(ctx context.Context, id int, patch Patch) (dataset.ParentPenalty, error)
	}

	RewardClient interface {
		QueryRewards(ctx context.Context, q Query) ([]dataset.Reward, error)
		CreateReward(ctx context.Context, r dataset.Reward) (dataset.Reward, error)
	}

	// Client is the whole remote record store.
	Client interface {
		ExcuseClient
		PenaltyClient
		RewardClient
	}
)
