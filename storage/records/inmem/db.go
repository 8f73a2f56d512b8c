// Package inmemrecords is an in-memory remote record store, seeded from a snapshot.
// It backs the API in development and the service tests.
package inmemrecords

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
)

type DB struct {
	mu sync.RWMutex

	excuses     map[int]*dataset.Excuse
	reasons     map[int]*dataset.ExcuseReason
	attachments map[int]*dataset.ExcuseAttachment
	penalties   map[int]*dataset.ParentPenalty
	rewards     []dataset.Reward

	pkCount map[string]int

	// Fail, when set, is returned by every operation on the named resources.
	fail map[string]error
}

var _ records.Client = (*DB)(nil) // interface compliance check

// Open copies the remote collections of snap into a new DB.
func Open(snap *dataset.Snapshot) *DB {
	db := &DB{
		excuses:     make(map[int]*dataset.Excuse),
		reasons:     make(map[int]*dataset.ExcuseReason),
		attachments: make(map[int]*dataset.ExcuseAttachment),
		penalties:   make(map[int]*dataset.ParentPenalty),
		pkCount:     make(map[string]int),
		fail:        make(map[string]error),
	}
	if snap == nil {
		return db
	}
	for i := range snap.Excuses {
		e := snap.Excuses[i]
		db.excuses[e.ID] = &e
		db.bumpPK(records.ResourceExcuses, e.ID)
	}
	for i := range snap.ExcuseReasons {
		r := snap.ExcuseReasons[i]
		db.reasons[r.ID] = &r
		db.bumpPK(records.ResourceExcuseReasons, r.ID)
	}
	for i := range snap.ExcuseAttachments {
		a := snap.ExcuseAttachments[i]
		db.attachments[a.ID] = &a
		db.bumpPK(records.ResourceExcuseAttachments, a.ID)
	}
	for i := range snap.Penalties {
		p := snap.Penalties[i]
		db.penalties[p.ID] = &p
		db.bumpPK(records.ResourcePenalties, p.ID)
	}
	db.rewards = append(db.rewards, snap.Rewards...)
	return db
}

func (db *DB) bumpPK(resource string, id int) {
	if id > db.pkCount[resource] {
		db.pkCount[resource] = id
	}
}

func (db *DB) nextPK(resource string) int {
	db.pkCount[resource]++
	return db.pkCount[resource]
}

// FailWith makes every operation on resource return err; a nil err restores normal behavior.
func (db *DB) FailWith(resource string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		delete(db.fail, resource)
		return
	}
	db.fail[resource] = err
}

func (db *DB) failure(ctx context.Context, resource string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.fail[resource]
}

// matches reports whether the field of v tagged `json:"<q.Field>"` has the string form q.Value.
func matches(v interface{}, q records.Query) bool {
	if q.IsZero() {
		return true
	}
	rv := reflect.ValueOf(v)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := strings.SplitN(rt.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != q.Field {
			continue
		}
		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.Int:
			return strconv.FormatInt(fv.Int(), 10) == q.Value
		case reflect.String:
			return fv.String() == q.Value
		default:
			return false
		}
	}
	return false
}
