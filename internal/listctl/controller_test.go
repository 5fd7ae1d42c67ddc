package listctl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/simp-lee/hrdash/internal/domain"
)

type row struct {
	ID   uint
	Name string
}

type rowDraft struct {
	Name string `form:"name" validate:"required"`
}

// fakeSource is an in-memory Source. Listing requests for a page present in
// hold park until that channel is closed.
type fakeSource struct {
	mu           sync.Mutex
	rows         []row
	nextID       uint
	lists        []ListQuery
	creates      int
	listErr      error
	createErr    error
	ignorePaging bool
	hold         map[int]chan struct{}
	started      chan ListQuery
	deletes      int
	// mutating receives a signal when a create or delete starts; the call
	// then parks until release is closed.
	mutating chan struct{}
	release  chan struct{}
}

func (s *fakeSource) park() {
	s.mu.Lock()
	mutating, release := s.mutating, s.release
	s.mu.Unlock()
	if mutating != nil {
		mutating <- struct{}{}
	}
	if release != nil {
		<-release
	}
}

func newFakeSource(n int) *fakeSource {
	s := &fakeSource{hold: map[int]chan struct{}{}}
	for i := 1; i <= n; i++ {
		s.rows = append(s.rows, row{ID: uint(i), Name: fmt.Sprintf("row %02d", i)})
	}
	s.nextID = uint(n + 1)
	return s
}

func (s *fakeSource) List(_ context.Context, q ListQuery) (PageEnvelope[row], error) {
	s.mu.Lock()
	s.lists = append(s.lists, q)
	wait := s.hold[q.Page]
	started := s.started
	s.mu.Unlock()

	if started != nil {
		started <- q
	}
	if wait != nil {
		<-wait
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return PageEnvelope[row]{}, s.listErr
	}
	var matched []row
	for _, r := range s.rows {
		if q.Search == "" || strings.Contains(r.Name, q.Search) {
			matched = append(matched, r)
		}
	}
	items := Paginate(matched, q.Page, q.PageSize)
	if s.ignorePaging {
		items = matched
	}
	return PageEnvelope[row]{Items: items, TotalCount: len(matched), Page: q.Page, PageSize: q.PageSize}, nil
}

func (s *fakeSource) Create(_ context.Context, d rowDraft) (Result, error) {
	s.park()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return Result{}, s.createErr
	}
	s.rows = append(s.rows, row{ID: s.nextID, Name: d.Name})
	s.nextID++
	return Result{Message: "Row created successfully"}, nil
}

func (s *fakeSource) Update(_ context.Context, id uint, d rowDraft) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Name = d.Name
			return Result{Message: "Row updated successfully"}, nil
		}
	}
	return Result{}, domain.NewServerError(404, "Row not found")
}

func (s *fakeSource) Delete(_ context.Context, id uint) (Result, error) {
	s.park()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return Result{}, nil
		}
	}
	return Result{}, domain.NewServerError(404, "Row not found")
}

func (s *fakeSource) listCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lists)
}

type note struct {
	kind Kind
	msg  string
}

type recorder struct {
	mu    sync.Mutex
	notes []note
}

func (r *recorder) Notify(kind Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{kind, msg})
}

func (r *recorder) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

type countingObserver struct {
	mu        sync.Mutex
	fetches   map[FetchOutcome]int
	mutations map[Action]int
}

func (o *countingObserver) FetchDone(_ string, outcome FetchOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fetches[outcome]++
}

func (o *countingObserver) MutationDone(_ string, op Action, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mutations[op]++
}

func newTestController(src *fakeSource) (*Controller[row, rowDraft], *recorder, *countingObserver) {
	rec := &recorder{}
	obs := &countingObserver{fetches: map[FetchOutcome]int{}, mutations: map[Action]int{}}
	c := New(Config[row, rowDraft]{
		Name:     "rows",
		Entity:   "Row",
		Source:   src,
		Notifier: rec,
		Observer: obs,
	})
	return c, rec, obs
}

func rowIDs(rows []row) []uint {
	ids := make([]uint, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestController_RefreshPopulatesView(t *testing.T) {
	src := newFakeSource(25)
	c, _, obs := newTestController(src)

	v := c.View()
	if v.Status != StatusIdle || len(v.Rows) != 0 {
		t.Fatalf("expected idle empty view before refresh, got %+v", v)
	}
	if v.RangeLabel != "Showing 0 to 0 of 0 records" {
		t.Errorf("unexpected empty range label %q", v.RangeLabel)
	}

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	v = c.View()
	if v.Status != StatusReady || len(v.Rows) != 10 || v.TotalCount != 25 || v.PageCount != 3 {
		t.Errorf("unexpected view %+v", v)
	}
	if v.RangeLabel != "Showing 1 to 10 of 25 records" {
		t.Errorf("unexpected range label %q", v.RangeLabel)
	}
	if len(v.PageSizes) != 4 || v.HasPrev() || !v.HasNext() || len(v.Pages()) != 3 {
		t.Errorf("unexpected pager fields: sizes=%v prev=%v next=%v pages=%v", v.PageSizes, v.HasPrev(), v.HasNext(), v.Pages())
	}
	if obs.fetches[OutcomeReady] != 1 {
		t.Errorf("expected one ready fetch, got %v", obs.fetches)
	}
}

func TestController_SetPageOutOfRangeIsNoop(t *testing.T) {
	src := newFakeSource(25)
	c, _, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)
	before := src.listCount()

	for _, n := range []int{0, -1, 4, 1} {
		changed, err := c.SetPage(ctx, n)
		if changed || err != nil {
			t.Errorf("SetPage(%d) = %v, %v; want no-op", n, changed, err)
		}
	}
	if src.listCount() != before {
		t.Error("no-op page changes must not fetch")
	}

	changed, err := c.SetPage(ctx, 3)
	if !changed || err != nil {
		t.Fatalf("SetPage(3) = %v, %v", changed, err)
	}
	if ids := rowIDs(c.View().Rows); len(ids) != 5 || ids[0] != 21 {
		t.Errorf("expected rows 21..25, got %v", ids)
	}
}

func TestController_PageSizeAndSearchResetPage(t *testing.T) {
	src := newFakeSource(60)
	c, _, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)
	_, _ = c.SetPage(ctx, 4)

	if _, err := c.SetPageSize(ctx, 20); err != nil {
		t.Fatal(err)
	}
	v := c.View()
	if v.Query.Page != 1 || v.Query.PageSize != 20 || len(v.Rows) != 20 {
		t.Errorf("expected page 1 of size 20, got query %+v with %d rows", v.Query, len(v.Rows))
	}

	_, _ = c.SetPage(ctx, 2)
	if _, err := c.SetSearch(ctx, " row 1"); err != nil {
		t.Fatal(err)
	}
	v = c.View()
	if v.Query.Page != 1 || v.Query.Search != "row 1" {
		t.Errorf("expected page 1 with trimmed search, got %+v", v.Query)
	}
	if v.TotalCount != 10 {
		t.Errorf("expected 10 matches for 'row 1', got %d", v.TotalCount)
	}

	if changed, _ := c.SetPageSize(ctx, 15); changed {
		t.Error("size 15 is not offered")
	}
}

func TestController_OutOfOrderResponses(t *testing.T) {
	src := newFakeSource(30)
	c, rec, obs := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	release2 := make(chan struct{})
	release3 := make(chan struct{})
	src.mu.Lock()
	src.hold[2] = release2
	src.hold[3] = release3
	src.started = make(chan ListQuery, 4)
	src.mu.Unlock()

	done := make(chan error, 2)
	go func() { _, err := c.SetPage(ctx, 2); done <- err }()
	<-src.started
	go func() { _, err := c.SetPage(ctx, 3); done <- err }()
	<-src.started

	if !c.View().Loading() {
		t.Error("view should be loading while requests are outstanding")
	}

	// The newer request answers first, then the older one arrives late.
	close(release3)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	close(release2)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	v := c.View()
	if v.Query.Page != 3 {
		t.Errorf("expected query to stay on page 3, got %d", v.Query.Page)
	}
	if ids := rowIDs(v.Rows); len(ids) == 0 || ids[0] != 21 {
		t.Errorf("stale page 2 replaced page 3: %v", ids)
	}
	if obs.fetches[OutcomeStale] != 1 {
		t.Errorf("expected one stale fetch, got %v", obs.fetches)
	}
	if len(rec.all()) != 0 {
		t.Errorf("no notifications expected, got %v", rec.all())
	}
}

func TestController_FetchFailureNotifiesOnceAndKeepsRows(t *testing.T) {
	src := newFakeSource(12)
	c, rec, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	src.mu.Lock()
	src.listErr = domain.NewNetworkError(errors.New("connection refused"))
	src.mu.Unlock()

	if err := c.Refresh(ctx); !domain.IsNetworkError(err) {
		t.Fatalf("expected network error, got %v", err)
	}

	v := c.View()
	if !v.Failed() || v.Err == nil {
		t.Errorf("expected failed view, got status %v", v.Status)
	}
	if len(v.Rows) != 10 {
		t.Errorf("last good rows should remain visible, got %d", len(v.Rows))
	}
	notes := rec.all()
	if len(notes) != 1 || notes[0].kind != KindError || notes[0].msg != "Unable to reach the server, please try again" {
		t.Errorf("expected one network notification, got %v", notes)
	}
}

func TestController_CreateSuccess(t *testing.T) {
	src := newFakeSource(3)
	c, rec, obs := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	c.OpenAddPanel()
	if v := c.View(); !v.AddPanelOpen || v.Draft == nil || v.Draft.Editing() {
		t.Fatalf("expected open add panel with create draft, got %+v", v)
	}

	before := src.listCount()
	if err := c.Create(ctx, rowDraft{Name: "new hire"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	v := c.View()
	if v.AddPanelOpen || v.Draft != nil {
		t.Errorf("draft should be discarded and panel collapsed, got open=%v draft=%v", v.AddPanelOpen, v.Draft)
	}
	if src.listCount() != before+1 {
		t.Errorf("expected one refetch after create, got %d", src.listCount()-before)
	}
	if v.TotalCount != 4 {
		t.Errorf("expected 4 rows after refetch, got %d", v.TotalCount)
	}
	notes := rec.all()
	if len(notes) != 1 || notes[0] != (note{KindSuccess, "Row created successfully"}) {
		t.Errorf("unexpected notifications %v", notes)
	}
	if obs.mutations[ActionCreate] != 1 {
		t.Errorf("expected create to be observed, got %v", obs.mutations)
	}
}

func TestController_CreateFailureKeepsDraft(t *testing.T) {
	src := newFakeSource(3)
	src.createErr = domain.NewServerError(409, "Email already exists")
	c, rec, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)
	before := src.listCount()

	err := c.Create(ctx, rowDraft{Name: "dup"})
	if !domain.IsServerError(err) {
		t.Fatalf("expected server error, got %v", err)
	}

	d, ok := c.Draft()
	if !ok || d.Value.Name != "dup" {
		t.Errorf("draft should be kept for correction, got %+v ok=%v", d, ok)
	}
	if !c.View().AddPanelOpen {
		t.Error("add panel should stay open")
	}
	if src.listCount() != before {
		t.Error("failed create must not refetch")
	}
	notes := rec.all()
	if len(notes) != 1 || notes[0] != (note{KindError, "Email already exists"}) {
		t.Errorf("unexpected notifications %v", notes)
	}
}

func TestController_CreateValidationSkipsSource(t *testing.T) {
	src := newFakeSource(0)
	c, rec, _ := newTestController(src)

	err := c.Create(context.Background(), rowDraft{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if src.creates != 0 {
		t.Error("invalid draft reached the source")
	}
	notes := rec.all()
	if len(notes) != 1 || notes[0].msg != "name is required" {
		t.Errorf("expected 'name is required', got %v", notes)
	}
}

func TestController_EditAndUpdate(t *testing.T) {
	src := newFakeSource(3)
	c, rec, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	c.StartEdit(2, rowDraft{Name: "row 02"})
	if d, ok := c.Draft(); !ok || !d.Editing() || d.ID != 2 {
		t.Fatalf("expected edit draft for 2, got %+v", d)
	}

	if err := c.Update(ctx, 2, rowDraft{Name: "renamed"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Draft(); ok {
		t.Error("edit draft should be discarded after success")
	}
	if got := c.View().Rows[1].Name; got != "renamed" {
		t.Errorf("refetched row name = %q, want renamed", got)
	}

	c.StartEdit(3, rowDraft{Name: "row 03"})
	c.CancelDraft()
	if _, ok := c.Draft(); ok {
		t.Error("cancel should discard the draft")
	}

	if err := c.Update(ctx, 99, rowDraft{Name: "ghost"}); err == nil {
		t.Fatal("expected update of missing row to fail")
	}
	if d, ok := c.Draft(); !ok || d.ID != 99 {
		t.Error("failed update should keep its draft")
	}
	if last := rec.all()[len(rec.all())-1]; last != (note{KindError, "Row not found"}) {
		t.Errorf("unexpected last notification %v", last)
	}
}

func TestController_DeleteThroughGate(t *testing.T) {
	src := newFakeSource(5)
	c, rec, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	if err := c.Confirm(ctx); !IsNothingPending(err) {
		t.Errorf("confirm on idle gate: expected ErrNothingPending, got %v", err)
	}

	_ = c.RequestDelete(1)
	_ = c.RequestDelete(4)
	if p := c.View().Pending; p == nil || p.ID != 4 {
		t.Fatalf("expected pending delete of 4, got %+v", p)
	}

	if err := c.Confirm(ctx); err != nil {
		t.Fatal(err)
	}
	v := c.View()
	if v.Pending != nil {
		t.Error("gate should be idle after confirm")
	}
	for _, id := range rowIDs(v.Rows) {
		if id == 4 {
			t.Error("row 4 should be gone")
		}
	}
	if v.TotalCount != 4 {
		t.Errorf("expected 4 rows, got %d", v.TotalCount)
	}
	notes := rec.all()
	if len(notes) != 1 || notes[0] != (note{KindSuccess, "Row deleted successfully"}) {
		t.Errorf("expected default delete message, got %v", notes)
	}

	_ = c.RequestDelete(2)
	if !c.Cancel() {
		t.Error("cancel should report the pending delete")
	}
	if c.View().TotalCount != 4 {
		t.Error("cancelled delete must not remove anything")
	}
}

func TestController_ConfirmTwiceDeletesOnce(t *testing.T) {
	src := newFakeSource(5)
	c, rec, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	_ = c.RequestDelete(3)
	if err := c.Confirm(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Confirm(ctx); !IsNothingPending(err) {
		t.Errorf("second confirm: expected ErrNothingPending, got %v", err)
	}
	if src.deletes != 1 {
		t.Errorf("expected one delete request, got %d", src.deletes)
	}
	if notes := rec.all(); len(notes) != 1 {
		t.Errorf("expected a single notification, got %v", notes)
	}
}

func TestController_ConcurrentConfirmsOfSameRowDeleteOnce(t *testing.T) {
	src := newFakeSource(5)
	c, rec, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	src.mu.Lock()
	src.mutating = make(chan struct{}, 1)
	src.release = make(chan struct{})
	src.mu.Unlock()

	_ = c.RequestDelete(3)
	done := make(chan error, 1)
	go func() { done <- c.Confirm(ctx) }()
	<-src.mutating

	// The gate was disarmed by the first confirm; arm it again for the same row.
	_ = c.RequestDelete(3)
	if err := c.Confirm(ctx); !domain.IsBusy(err) {
		t.Errorf("expected busy rejection while the first delete runs, got %v", err)
	}

	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	src.mu.Lock()
	deletes := src.deletes
	src.mu.Unlock()
	if deletes != 1 {
		t.Errorf("expected one delete request, got %d", deletes)
	}
	notes := rec.all()
	if len(notes) != 1 || notes[0] != (note{KindSuccess, "Row deleted successfully"}) {
		t.Errorf("expected one success notification, got %v", notes)
	}
}

func TestController_DeleteRefetchesSameQuery(t *testing.T) {
	src := newFakeSource(30)
	c, _, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)
	_, _ = c.SetPageSize(ctx, 5)
	_, _ = c.SetSearch(ctx, "row 1")
	if ok, err := c.SetPage(ctx, 2); !ok || err != nil {
		t.Fatalf("SetPage(2) = %v, %v", ok, err)
	}
	want := ListQuery{Page: 2, PageSize: 5, Search: "row 1"}
	if got := c.View().Query; got != want {
		t.Fatalf("query = %+v, want %+v", got, want)
	}

	_ = c.RequestDelete(17)
	before := src.listCount()
	if err := c.Confirm(ctx); err != nil {
		t.Fatal(err)
	}

	src.mu.Lock()
	refetches := append([]ListQuery(nil), src.lists[before:]...)
	src.mu.Unlock()
	if len(refetches) != 1 || refetches[0] != want {
		t.Fatalf("expected one refetch of %+v, got %+v", want, refetches)
	}
	v := c.View()
	if got := rowIDs(v.Rows); fmt.Sprint(got) != "[15 16 18 19]" {
		t.Errorf("rows after delete = %v", got)
	}
	if v.TotalCount != 9 {
		t.Errorf("expected 9 matching rows, got %d", v.TotalCount)
	}
}

func TestController_BusyCreateKeepsInFlightDraft(t *testing.T) {
	src := newFakeSource(1)
	c, _, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	src.mu.Lock()
	src.mutating = make(chan struct{}, 1)
	src.release = make(chan struct{})
	src.mu.Unlock()

	c.OpenAddPanel()
	c.SetDraft(rowDraft{Name: "typed"})

	done := make(chan error, 1)
	go func() { done <- c.Create(ctx, rowDraft{Name: "first"}) }()
	<-src.mutating

	if err := c.Create(ctx, rowDraft{Name: "second"}); !domain.IsBusy(err) {
		t.Fatalf("expected busy rejection, got %v", err)
	}
	if d, ok := c.Draft(); !ok || d.Value.Name != "typed" {
		t.Errorf("rejected create must not replace the draft, got %+v ok=%v", d, ok)
	}

	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, ok := c.Draft(); ok {
		t.Error("draft should be discarded after the create succeeds")
	}
	if src.creates != 1 {
		t.Errorf("expected one create request, got %d", src.creates)
	}
}

func TestController_BusyUpdateKeepsDraft(t *testing.T) {
	src := newFakeSource(3)
	c, _, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	block := make(chan struct{})
	entered := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := c.mut.Run(ctx, 2, ActionUpdate, func(context.Context) (Result, error) {
			close(entered)
			<-block
			return Result{}, nil
		})
		done <- err
	}()
	<-entered

	c.StartEdit(2, rowDraft{Name: "row 02"})
	if err := c.Update(ctx, 2, rowDraft{Name: "clobber"}); !domain.IsBusy(err) {
		t.Fatalf("expected busy rejection, got %v", err)
	}
	if d, ok := c.Draft(); !ok || d.Value.Name != "row 02" {
		t.Errorf("rejected update must not replace the draft, got %+v", d)
	}
	close(block)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestController_DeleteLastRowOnLastPageMovesBack(t *testing.T) {
	src := newFakeSource(21)
	c, _, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)
	_, _ = c.SetPage(ctx, 3)

	_ = c.RequestDelete(21)
	if err := c.Confirm(ctx); err != nil {
		t.Fatal(err)
	}

	v := c.View()
	if v.Query.Page != 2 || v.PageCount != 2 {
		t.Errorf("expected to land on page 2 of 2, got page %d of %d", v.Query.Page, v.PageCount)
	}
	if len(v.Rows) != 10 {
		t.Errorf("expected a full page 2, got %d rows", len(v.Rows))
	}
}

func TestController_CustomAction(t *testing.T) {
	src := newFakeSource(2)
	var paid []uint
	c := New(Config[row, rowDraft]{
		Name:   "rows",
		Source: src,
		Actions: map[Action]CustomAction{
			"pay": func(_ context.Context, id uint) (Result, error) {
				paid = append(paid, id)
				return Result{Message: "Payroll marked as paid"}, nil
			},
		},
	})
	rec := &recorder{}
	c.SetNotifier(rec)
	ctx := context.Background()

	if err := c.Request(1, "pay"); err != nil {
		t.Fatal(err)
	}
	if err := c.Confirm(ctx); err != nil {
		t.Fatal(err)
	}
	if len(paid) != 1 || paid[0] != 1 {
		t.Errorf("expected pay on 1, got %v", paid)
	}
	if notes := rec.all(); len(notes) != 1 || notes[0].msg != "Payroll marked as paid" {
		t.Errorf("unexpected notifications %v", notes)
	}
	if err := c.Request(1, "archive"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestController_SlicesUnpagedResponse(t *testing.T) {
	src := newFakeSource(25)
	src.ignorePaging = true
	c, _, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)
	_, _ = c.SetPage(ctx, 2)

	ids := rowIDs(c.View().Rows)
	if len(ids) != 10 || ids[0] != 11 {
		t.Errorf("expected rows 11..20 from full set, got %v", ids)
	}
}

func TestController_ApplyFetchesOnce(t *testing.T) {
	src := newFakeSource(40)
	c, _, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)
	before := src.listCount()

	changed, err := c.Apply(ctx, "", 10, 3)
	if !changed || err != nil {
		t.Fatalf("Apply = %v, %v", changed, err)
	}
	if src.listCount() != before+1 {
		t.Errorf("expected a single fetch, got %d", src.listCount()-before)
	}
	if c.View().Query.Page != 3 {
		t.Errorf("expected page 3, got %d", c.View().Query.Page)
	}

	changed, _ = c.Apply(ctx, "", 10, 3)
	if changed {
		t.Error("re-applying the current query must not fetch")
	}
}

func TestController_ConcurrentUse(t *testing.T) {
	src := newFakeSource(50)
	c, _, _ := newTestController(src)
	ctx := context.Background()
	_ = c.Refresh(ctx)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				_, _ = c.SetPage(ctx, i%5+1)
			case 1:
				_, _ = c.SetSearch(ctx, fmt.Sprintf("row %d", i%3))
			case 2:
				_ = c.View()
			case 3:
				_ = c.Refresh(ctx)
			}
		}(i)
	}
	wg.Wait()

	_ = c.Refresh(ctx)
	v := c.View()
	if v.Status != StatusReady {
		t.Errorf("expected ready after settling, got %v", v.Status)
	}
	if v.Query.Page < 1 || v.Query.Page > v.PageCount {
		t.Errorf("page %d outside 1..%d", v.Query.Page, v.PageCount)
	}
}
