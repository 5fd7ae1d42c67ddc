package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/listctl"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// Resource is one REST collection, e.g. /api/v1/employees, exposed as a
// listctl.Source. T is the record type, D the draft sent on create and update.
type Resource[T, D any] struct {
	client *Client
	path   string
	keys   pkg.ListKeys
}

var _ listctl.Source[struct{}, struct{}] = (*Resource[struct{}, struct{}])(nil)

// NewResource binds the collection at path. Zero keys mean pkg.DefaultListKeys.
func NewResource[T, D any](c *Client, path string, keys pkg.ListKeys) *Resource[T, D] {
	if keys.Items == "" {
		keys.Items = pkg.DefaultListKeys.Items
	}
	if keys.Pagination == "" {
		keys.Pagination = pkg.DefaultListKeys.Pagination
	}
	return &Resource[T, D]{client: c, path: path, keys: keys}
}

// Path returns the collection path.
func (r *Resource[T, D]) Path() string { return r.path }

// List fetches one page. A response without a pagination block is treated as
// the complete set.
func (r *Resource[T, D]) List(ctx context.Context, q listctl.ListQuery) (listctl.PageEnvelope[T], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("per_page", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		params.Set("searching", q.Search)
	}

	var body map[string]json.RawMessage
	if err := r.client.Do(ctx, http.MethodGet, r.path, params, nil, &body); err != nil {
		return listctl.PageEnvelope[T]{}, err
	}

	env := listctl.PageEnvelope[T]{Items: []T{}}
	if raw, ok := body[r.keys.Items]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &env.Items); err != nil {
			return listctl.PageEnvelope[T]{}, invalidResponse(err)
		}
	}
	if raw, ok := body[r.keys.Pagination]; ok && string(raw) != "null" {
		var meta pkg.PaginationMeta
		if err := json.Unmarshal(raw, &meta); err != nil {
			return listctl.PageEnvelope[T]{}, invalidResponse(err)
		}
		env.Page = meta.Page
		env.PageSize = meta.PerPage
		env.TotalCount = int(meta.TotalCount)
	} else {
		env.Page = q.Page
		env.PageSize = q.PageSize
		env.TotalCount = len(env.Items)
	}
	return env, nil
}

// All fetches the unpaginated lookup list from <path>/all.
func (r *Resource[T, D]) All(ctx context.Context) ([]T, error) {
	var body struct {
		Data []T `json:"data"`
	}
	if err := r.client.Do(ctx, http.MethodGet, r.path+"/all", nil, nil, &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		body.Data = []T{}
	}
	return body.Data, nil
}

// Get fetches one record.
func (r *Resource[T, D]) Get(ctx context.Context, id uint) (T, error) {
	var body struct {
		Data T `json:"data"`
	}
	err := r.client.Do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &body)
	return body.Data, err
}

// Create posts draft to the collection.
func (r *Resource[T, D]) Create(ctx context.Context, draft D) (listctl.Result, error) {
	return r.send(ctx, http.MethodPost, r.path, draft)
}

// Update replaces record id with draft.
func (r *Resource[T, D]) Update(ctx context.Context, id uint, draft D) (listctl.Result, error) {
	return r.send(ctx, http.MethodPut, r.itemPath(id), draft)
}

// Delete removes record id.
func (r *Resource[T, D]) Delete(ctx context.Context, id uint) (listctl.Result, error) {
	return r.send(ctx, http.MethodDelete, r.itemPath(id), nil)
}

// Action posts to <path>/<id>/<name>, for record-level commands like "pay".
func (r *Resource[T, D]) Action(ctx context.Context, id uint, name string) (listctl.Result, error) {
	return r.send(ctx, http.MethodPost, r.itemPath(id)+"/"+name, nil)
}

func (r *Resource[T, D]) send(ctx context.Context, method, path string, body any) (listctl.Result, error) {
	var msg apiMessage
	if err := r.client.Do(ctx, method, path, nil, body, &msg); err != nil {
		return listctl.Result{}, err
	}
	return listctl.Result{Message: msg.Message}, nil
}

func (r *Resource[T, D]) itemPath(id uint) string {
	return r.path + "/" + strconv.FormatUint(uint64(id), 10)
}

func invalidResponse(err error) error {
	return &domain.RequestError{Status: http.StatusOK, Message: "invalid response from server", Err: err}
}
