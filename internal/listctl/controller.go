package listctl

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/hrdash/internal/domain"
)

// CustomAction performs a screen-specific confirmed action, such as marking a
// payroll record paid.
type CustomAction func(ctx context.Context, id uint) (Result, error)

// Messages are the fallbacks shown when the server gives no message of its own.
type Messages struct {
	Created     string
	Updated     string
	Deleted     string
	Done        string
	FetchFailed string
	Failed      string
}

func (m Messages) withDefaults(entity string) Messages {
	if entity == "" {
		entity = "Record"
	}
	if m.Created == "" {
		m.Created = entity + " created successfully"
	}
	if m.Updated == "" {
		m.Updated = entity + " updated successfully"
	}
	if m.Deleted == "" {
		m.Deleted = entity + " deleted successfully"
	}
	if m.Done == "" {
		m.Done = "Done"
	}
	if m.FetchFailed == "" {
		m.FetchFailed = "Failed to load records"
	}
	if m.Failed == "" {
		m.Failed = "Something went wrong, please try again"
	}
	return m
}

func (m Messages) success(action Action) string {
	switch action {
	case ActionCreate:
		return m.Created
	case ActionUpdate:
		return m.Updated
	case ActionDelete:
		return m.Deleted
	default:
		return m.Done
	}
}

// Config configures a Controller. Source is required.
type Config[T, D any] struct {
	// Name identifies the screen in logs and metrics.
	Name string
	// Entity is the singular display name used in default messages.
	Entity    string
	Source    Source[T, D]
	Notifier  Notifier
	Observer  Observer
	Logger    *slog.Logger
	PageSizes PageSizePolicy
	Validator *validator.Validate
	Actions   map[Action]CustomAction
	Messages  Messages
}

// Draft is the in-progress form for a new record (ID 0) or an existing one.
type Draft[D any] struct {
	ID    uint
	Value D
}

// Editing reports whether the draft targets an existing record.
func (d Draft[D]) Editing() bool { return d.ID != 0 }

// View is a consistent snapshot of everything a screen renders.
type View[T, D any] struct {
	Screen       string
	Query        ListQuery
	Status       Status
	Err          error
	Rows         []T
	TotalCount   int
	PageCount    int
	RangeLabel   string
	PageSizes    []int
	Pending      *Pending
	Draft        *Draft[D]
	AddPanelOpen bool
	Creating     bool
}

// Loading reports whether a listing request is outstanding.
func (v View[T, D]) Loading() bool { return v.Status == StatusLoading }

// Failed reports whether the last listing request failed.
func (v View[T, D]) Failed() bool { return v.Status == StatusFailed }

// HasPrev reports whether a previous page exists.
func (v View[T, D]) HasPrev() bool { return v.Query.Page > 1 }

// HasNext reports whether a next page exists.
func (v View[T, D]) HasNext() bool { return v.Query.Page < v.PageCount }

// Pages lists page numbers 1..PageCount.
func (v View[T, D]) Pages() []int {
	pages := make([]int, v.PageCount)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Controller drives one screen: query, listing, drafts, mutations and the
// confirmation gate. It is safe for concurrent use; network calls are made
// without holding its lock.
type Controller[T, D any] struct {
	name   string
	src    Source[T, D]
	notify Notifier
	obs    Observer
	log    *slog.Logger
	msgs   Messages

	mu      sync.Mutex
	query   *QueryState
	fetch   FetchCycle[T]
	draft   *Draft[D]
	addOpen bool

	mut  *MutationWorkflow[D]
	gate *ConfirmGate
}

// New builds a Controller. No request is made until Refresh.
func New[T, D any](cfg Config[T, D]) *Controller[T, D] {
	policy := cfg.PageSizes
	if policy.Default == 0 && len(policy.Allowed) == 0 {
		policy = DefaultPageSizes
	}
	c := &Controller[T, D]{
		name:   cfg.Name,
		src:    cfg.Source,
		notify: cfg.Notifier,
		obs:    cfg.Observer,
		log:    cfg.Logger,
		msgs:   cfg.Messages.withDefaults(cfg.Entity),
		query:  NewQueryState(policy),
		mut:    NewMutationWorkflow[D](cfg.Source, cfg.Validator),
	}
	if c.notify == nil {
		c.notify = nopNotifier{}
	}
	if c.obs == nil {
		c.obs = nopObserver{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	c.log = c.log.With("screen", cfg.Name)

	actions := map[Action]ActionFunc{
		ActionDelete: func(ctx context.Context, id uint) error {
			return c.Remove(ctx, id)
		},
	}
	for name, fn := range cfg.Actions {
		actions[name] = c.customAction(name, fn)
	}
	c.gate = NewConfirmGate(actions)
	return c
}

// Name returns the screen name.
func (c *Controller[T, D]) Name() string { return c.name }

// SetNotifier replaces the notification sink.
func (c *Controller[T, D]) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n == nil {
		n = nopNotifier{}
	}
	c.notify = n
}

func (c *Controller[T, D]) notifier() Notifier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notify
}

// Refresh refetches the current query.
func (c *Controller[T, D]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	t := c.fetch.Begin(c.query.Current())
	c.mu.Unlock()
	return c.run(ctx, t, true)
}

// SetPage moves to page n and fetches it. Out-of-range pages are ignored and
// report false.
func (c *Controller[T, D]) SetPage(ctx context.Context, n int) (bool, error) {
	return c.change(ctx, func(q *QueryState) bool { return q.SetPage(n) })
}

// SetPageSize switches page size, returns to page 1 and fetches.
func (c *Controller[T, D]) SetPageSize(ctx context.Context, n int) (bool, error) {
	return c.change(ctx, func(q *QueryState) bool { return q.SetPageSize(n) })
}

// SetSearch replaces the search term, returns to page 1 and fetches.
func (c *Controller[T, D]) SetSearch(ctx context.Context, term string) (bool, error) {
	return c.change(ctx, func(q *QueryState) bool { return q.SetSearch(term) })
}

// Apply sets search, page size and page together, as submitted by the list
// form, and fetches once if anything changed. A page size equal to the current
// one is left alone; otherwise each part follows the rules of its setter in
// that order.
func (c *Controller[T, D]) Apply(ctx context.Context, search string, pageSize, page int) (bool, error) {
	return c.change(ctx, func(q *QueryState) bool {
		changed := q.SetSearch(search)
		if pageSize > 0 && pageSize != q.Current().PageSize && q.SetPageSize(pageSize) {
			changed = true
		}
		if page > 0 && q.SetPage(page) {
			changed = true
		}
		return changed
	})
}

// change mutates the query and begins the fetch under one lock so that no
// older response can be adopted in between.
func (c *Controller[T, D]) change(ctx context.Context, fn func(*QueryState) bool) (bool, error) {
	c.mu.Lock()
	if !fn(c.query) {
		c.mu.Unlock()
		return false, nil
	}
	t := c.fetch.Begin(c.query.Current())
	c.mu.Unlock()
	return true, c.run(ctx, t, true)
}

// run performs the request behind t. When the server reports a page past the
// end, the query moves to the last page and, if followUp is set, fetches once
// more.
func (c *Controller[T, D]) run(ctx context.Context, t Ticket, followUp bool) error {
	env, err := c.src.List(ctx, t.Query())

	c.mu.Lock()
	applied := c.fetch.Complete(t, env, err)
	var next Ticket
	clamped := false
	if applied && err == nil {
		served := c.fetch.State().Envelope
		c.query.Adopt(served.Page, served.PageSize, served.TotalCount)
		if followUp && c.query.clampPage() {
			next = c.fetch.Begin(c.query.Current())
			clamped = true
		}
	}
	notify := c.notify
	c.mu.Unlock()

	switch {
	case !applied:
		c.obs.FetchDone(c.name, OutcomeStale)
		c.log.Debug("discarded superseded listing response", "page", t.Query().Page, "search", t.Query().Search)
		return nil
	case err != nil:
		c.obs.FetchDone(c.name, OutcomeFailed)
		c.log.Warn("listing request failed", "page", t.Query().Page, "error", err)
		notify.Notify(KindError, domain.UserMessage(err, c.msgs.FetchFailed))
		return err
	}

	c.obs.FetchDone(c.name, OutcomeReady)
	if clamped {
		c.log.Debug("page past the end, moving to last page", "page", next.Query().Page)
		return c.run(ctx, next, false)
	}
	return nil
}

// OpenAddPanel expands the add form, starting an empty draft unless a create
// draft is already in progress.
func (c *Controller[T, D]) OpenAddPanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil || c.draft.Editing() {
		c.draft = &Draft[D]{}
	}
	c.addOpen = true
}

// CloseAddPanel collapses the add form and keeps its draft.
func (c *Controller[T, D]) CloseAddPanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addOpen = false
}

// StartEdit opens a draft for record id seeded with value.
func (c *Controller[T, D]) StartEdit(id uint, value D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = &Draft[D]{ID: id, Value: value}
}

// SetDraft stages form input on the current draft, starting a create draft if
// none is open.
func (c *Controller[T, D]) SetDraft(value D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		c.draft = &Draft[D]{}
	}
	c.draft.Value = value
}

// CancelDraft discards the draft and collapses the add form.
func (c *Controller[T, D]) CancelDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = nil
	c.addOpen = false
}

// Draft returns the open draft, if any.
func (c *Controller[T, D]) Draft() (Draft[D], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return Draft[D]{}, false
	}
	return *c.draft, true
}

// Create stages value as the create draft and submits it. Invalid drafts are
// rejected without contacting the source. On success the draft is discarded,
// the add form collapses and the current page is refetched; on failure the
// draft is kept for correction.
func (c *Controller[T, D]) Create(ctx context.Context, value D) error {
	res, err := c.mut.Create(ctx, value)
	// A rejected duplicate leaves the in-flight request's draft alone.
	if !domain.IsBusy(err) {
		c.mu.Lock()
		c.draft = &Draft[D]{Value: value}
		c.addOpen = true
		c.mu.Unlock()
	}
	return c.settle(ctx, ActionCreate, createKey, res, err)
}

// Update stages value as the edit draft for id and submits it.
func (c *Controller[T, D]) Update(ctx context.Context, id uint, value D) error {
	res, err := c.mut.Update(ctx, id, value)
	if !domain.IsBusy(err) {
		c.mu.Lock()
		c.draft = &Draft[D]{ID: id, Value: value}
		c.mu.Unlock()
	}
	return c.settle(ctx, ActionUpdate, id, res, err)
}

// Remove deletes record id immediately. Screens go through RequestDelete and
// Confirm instead.
func (c *Controller[T, D]) Remove(ctx context.Context, id uint) error {
	res, err := c.mut.Remove(ctx, id)
	return c.settle(ctx, ActionDelete, id, res, err)
}

func (c *Controller[T, D]) customAction(name Action, fn CustomAction) ActionFunc {
	return func(ctx context.Context, id uint) error {
		res, err := c.mut.Run(ctx, id, name, func(ctx context.Context) (Result, error) {
			return fn(ctx, id)
		})
		return c.settle(ctx, name, id, res, err)
	}
}

// settle applies the side effects of a finished mutation.
func (c *Controller[T, D]) settle(ctx context.Context, action Action, key uint, res Result, err error) error {
	c.obs.MutationDone(c.name, action, err)
	notify := c.notifier()

	if err != nil {
		if domain.IsBusy(err) {
			c.log.Debug("mutation rejected, request already in flight", "action", action, "id", key)
			return err
		}
		if domain.IsValidation(err) {
			c.log.Debug("draft failed validation", "action", action, "error", err)
		} else {
			c.log.Warn("mutation failed", "action", action, "id", key, "error", err)
		}
		notify.Notify(KindError, domain.UserMessage(err, c.msgs.Failed))
		return err
	}

	c.mu.Lock()
	if c.draft != nil && c.draft.ID == key {
		c.draft = nil
		c.addOpen = false
	}
	c.mu.Unlock()

	msg := res.Message
	if msg == "" {
		msg = c.msgs.success(action)
	}
	c.log.Info("mutation succeeded", "action", action, "id", key)
	notify.Notify(KindSuccess, msg)

	// The mutation itself succeeded; a failed refetch is reported on its own.
	_ = c.Refresh(ctx)
	return nil
}

// RequestDelete arms the confirmation gate for deleting id.
func (c *Controller[T, D]) RequestDelete(id uint) error {
	return c.gate.RequestDelete(id)
}

// Request arms the confirmation gate for action on id.
func (c *Controller[T, D]) Request(id uint, action Action) error {
	return c.gate.Request(id, action)
}

// Confirm runs the pending action. The gate returns to idle before the action
// starts.
func (c *Controller[T, D]) Confirm(ctx context.Context) error {
	_, err := c.gate.Confirm(ctx)
	return err
}

// Cancel dismisses the pending action without running it.
func (c *Controller[T, D]) Cancel() bool {
	return c.gate.Cancel()
}

// View returns a snapshot for rendering.
func (c *Controller[T, D]) View() View[T, D] {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.fetch.State()
	q := c.query.Current()
	v := View[T, D]{
		Screen:       c.name,
		Query:        q,
		Status:       st.Status,
		Err:          st.Err,
		Rows:         []T{},
		PageCount:    c.query.PageCount(),
		PageSizes:    slices.Clone(c.query.Policy().Allowed),
		AddPanelOpen: c.addOpen,
		Creating:     c.mut.Busy(createKey),
	}
	if st.HasData {
		env := st.Envelope
		rows := env.Items
		// A server that ignores paging sends the whole set; slice it here.
		if len(rows) > env.PageSize {
			rows = Paginate(rows, env.Page, env.PageSize)
		}
		v.Rows = slices.Clone(rows)
		v.TotalCount = env.TotalCount
		v.RangeLabel = RangeLabel(env.Page, env.PageSize, env.TotalCount)
	} else {
		v.RangeLabel = RangeLabel(q.Page, q.PageSize, 0)
	}
	if p, ok := c.gate.Pending(); ok {
		v.Pending = &p
	}
	if c.draft != nil {
		d := *c.draft
		v.Draft = &d
	}
	return v
}

// IsNothingPending reports whether err came from confirming an idle gate.
func IsNothingPending(err error) bool {
	return errors.Is(err, ErrNothingPending)
}
