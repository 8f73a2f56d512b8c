// Package httprecords talks to the remote record store over its resource oriented HTTP API:
//
//	GET    /{resource}              all records
//	GET    /{resource}?field=value  records matching a single field
//	GET    /{resource}/{id}         one record
//	POST   /{resource}              create, the server assigns the id
//	PATCH  /{resource}/{id}         partial update
package httprecords

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/records"
)

const maxErrorBody = 1 << 10

type Client struct {
	baseURL string
	http    *http.Client
}

var _ records.Client = (*Client)(nil) // interface compliance check

// New returns a Client for the store at baseURL. A zero timeout means requests never time out.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint(resource string, id string, q records.Query) string {
	u := c.baseURL + "/" + resource
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	if vals := q.Values(); len(vals) > 0 {
		u += "?" + vals.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, u string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, u)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return records.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &records.StatusError{Code: resp.StatusCode, Body: string(msg)}
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", method, u)
	}
	return nil
}

func (c *Client) query(ctx context.Context, resource string, q records.Query, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.endpoint(resource, "", q), nil, out)
}

func (c *Client) get(ctx context.Context, resource string, id int, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.endpoint(resource, strconv.Itoa(id), records.Query{}), nil, out)
}

func (c *Client) create(ctx context.Context, resource string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, c.endpoint(resource, "", records.Query{}), in, out)
}

func (c *Client) patch(ctx context.Context, resource string, id int, patch records.Patch, out interface{}) error {
	return c.do(ctx, http.MethodPatch, c.endpoint(resource, strconv.Itoa(id), records.Query{}), patch, out)
}

// Excuses

func (c *Client) QueryExcuses(ctx context.Context, q records.Query) ([]dataset.Excuse, error) {
	var excuses []dataset.Excuse
	if err := c.query(ctx, records.ResourceExcuses, q, &excuses); err != nil {
		return nil, err
	}
	return excuses, nil
}

func (c *Client) GetExcuse(ctx context.Context, id int) (dataset.Excuse, error) {
	var e dataset.Excuse
	err := c.get(ctx, records.ResourceExcuses, id, &e)
	return e, err
}

func (c *Client) CreateExcuse(ctx context.Context, e dataset.Excuse) (dataset.Excuse, error) {
	var created dataset.Excuse
	err := c.create(ctx, records.ResourceExcuses, withoutID(e), &created)
	return created, err
}

func (c *Client) UpdateExcuse(ctx context.Context, id int, patch records.Patch) (dataset.Excuse, error) {
	var e dataset.Excuse
	err := c.patch(ctx, records.ResourceExcuses, id, patch, &e)
	return e, err
}

func (c *Client) QueryExcuseReasons(ctx context.Context, q records.Query) ([]dataset.ExcuseReason, error) {
	var reasons []dataset.ExcuseReason
	if err := c.query(ctx, records.ResourceExcuseReasons, q, &reasons); err != nil {
		return nil, err
	}
	return reasons, nil
}

func (c *Client) GetExcuseReason(ctx context.Context, id int) (dataset.ExcuseReason, error) {
	var r dataset.ExcuseReason
	err := c.get(ctx, records.ResourceExcuseReasons, id, &r)
	return r, err
}

func (c *Client) QueryExcuseAttachments(ctx context.Context, q records.Query) ([]dataset.ExcuseAttachment, error) {
	var atts []dataset.ExcuseAttachment
	if err := c.query(ctx, records.ResourceExcuseAttachments, q, &atts); err != nil {
		return nil, err
	}
	return atts, nil
}

func (c *Client) CreateExcuseAttachment(ctx context.Context, a dataset.ExcuseAttachment) (dataset.ExcuseAttachment, error) {
	var created dataset.ExcuseAttachment
	err := c.create(ctx, records.ResourceExcuseAttachments, withoutID(a), &created)
	return created, err
}

// Penalties

func (c *Client) QueryPenalties(ctx context.Context, q records.Query) ([]dataset.ParentPenalty, error) {
	var penalties []dataset.ParentPenalty
	if err := c.query(ctx, records.ResourcePenalties, q, &penalties); err != nil {
		return nil, err
	}
	return penalties, nil
}

func (c *Client) GetPenalty(ctx context.Context, id int) (dataset.ParentPenalty, error) {
	var p dataset.ParentPenalty
	err := c.get(ctx, records.ResourcePenalties, id, &p)
	return p, err
}

func (c *Client) UpdatePenalty(ctx context.Context, id int, patch records.Patch) (dataset.ParentPenalty, error) {
	var p dataset.ParentPenalty
	err := c.patch(ctx, records.ResourcePenalties, id, patch, &p)
	return p, err
}

// Rewards

func (c *Client) QueryRewards(ctx context.Context, q records.Query) ([]dataset.Reward, error) {
	var rewards []dataset.Reward
	if err := c.query(ctx, records.ResourceRewards, q, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func (c *Client) CreateReward(ctx context.Context, r dataset.Reward) (dataset.Reward, error) {
	var created dataset.Reward
	err := c.create(ctx, records.ResourceRewards, withoutID(r), &created)
	return created, err
}

// withoutID encodes v without its `id` so the server assigns one.
func withoutID(v interface{}) map[string]interface{} {
	data, _ := json.Marshal(v)
	m := make(map[string]interface{})
	_ = json.Unmarshal(data, &m)
	if id, ok := m["id"]; ok && (id == float64(0) || id == "") {
		delete(m, "id")
	}
	return m
}
