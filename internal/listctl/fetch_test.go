package listctl

import (
	"context"
	"errors"
	"testing"
)

func TestFetchCycle_InitialState(t *testing.T) {
	var f FetchCycle[int]
	st := f.State()
	if st.Status != StatusIdle || st.HasData {
		t.Errorf("expected idle without data, got %+v", st)
	}
}

func TestFetchCycle_CompleteApplies(t *testing.T) {
	var f FetchCycle[int]
	q := ListQuery{Page: 1, PageSize: 10}
	tk := f.Begin(q)
	if f.State().Status != StatusLoading {
		t.Fatalf("expected loading after Begin")
	}

	if !f.Complete(tk, PageEnvelope[int]{Items: []int{1, 2}, TotalCount: 2, Page: 1, PageSize: 10}, nil) {
		t.Fatal("current ticket should apply")
	}
	st := f.State()
	if st.Status != StatusReady || !st.HasData || len(st.Envelope.Items) != 2 {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestFetchCycle_StaleTicketDiscarded(t *testing.T) {
	var f FetchCycle[string]
	older := f.Begin(ListQuery{Page: 1, PageSize: 10})
	newer := f.Begin(ListQuery{Page: 2, PageSize: 10})

	if !f.Complete(newer, PageEnvelope[string]{Items: []string{"new"}, TotalCount: 11, Page: 2, PageSize: 10}, nil) {
		t.Fatal("newer ticket should apply")
	}
	if f.Complete(older, PageEnvelope[string]{Items: []string{"old"}, TotalCount: 11, Page: 1, PageSize: 10}, nil) {
		t.Fatal("older ticket must be discarded")
	}
	if f.Complete(older, PageEnvelope[string]{}, errors.New("boom")) {
		t.Fatal("older failure must be discarded too")
	}

	st := f.State()
	if st.Status != StatusReady || st.Envelope.Items[0] != "new" {
		t.Errorf("stale response leaked into state: %+v", st)
	}
	if f.Current(older) || !f.Current(newer) {
		t.Error("Current reports the wrong ticket")
	}
}

func TestFetchCycle_FailureKeepsLastGoodData(t *testing.T) {
	var f FetchCycle[int]
	tk := f.Begin(ListQuery{Page: 1, PageSize: 10})
	f.Complete(tk, PageEnvelope[int]{Items: []int{7}, TotalCount: 1, Page: 1, PageSize: 10}, nil)

	boom := errors.New("boom")
	tk = f.Begin(ListQuery{Page: 1, PageSize: 10})
	f.Complete(tk, PageEnvelope[int]{}, boom)

	st := f.State()
	if st.Status != StatusFailed || !errors.Is(st.Err, boom) {
		t.Errorf("expected failed with boom, got %+v", st)
	}
	if !st.HasData || len(st.Envelope.Items) != 1 || st.Envelope.Items[0] != 7 {
		t.Errorf("last good page lost: %+v", st.Envelope)
	}

	tk = f.Begin(ListQuery{Page: 1, PageSize: 10})
	f.Complete(tk, PageEnvelope[int]{Items: []int{8}, TotalCount: 1}, nil)
	if st := f.State(); st.Err != nil || st.Status != StatusReady {
		t.Errorf("error should clear on success, got %+v", st)
	}
}

func TestFetchCycle_NormalizesEnvelope(t *testing.T) {
	var f FetchCycle[int]
	tk := f.Begin(ListQuery{Page: 3, PageSize: 20})
	f.Complete(tk, PageEnvelope[int]{TotalCount: -5}, nil)

	env := f.State().Envelope
	if env.Page != 1 {
		t.Errorf("missing page should default to 1, got %d", env.Page)
	}
	if env.PageSize != 20 {
		t.Errorf("missing page size should default to requested 20, got %d", env.PageSize)
	}
	if env.Items == nil || env.TotalCount != 0 {
		t.Errorf("expected empty items and zero total, got %+v", env)
	}
}

type staticLister struct {
	env PageEnvelope[int]
	err error
	got ListQuery
}

func (l *staticLister) List(_ context.Context, q ListQuery) (PageEnvelope[int], error) {
	l.got = q
	return l.env, l.err
}

func TestFetchCycle_Load(t *testing.T) {
	var f FetchCycle[int]
	l := &staticLister{env: PageEnvelope[int]{Items: []int{1}, TotalCount: 1, Page: 1, PageSize: 5}}
	q := ListQuery{Page: 1, PageSize: 5, Search: "x"}

	tk, applied := f.Load(context.Background(), l, q)
	if !applied {
		t.Fatal("expected Load to apply")
	}
	if tk.Query() != q || l.got != q {
		t.Errorf("query not passed through: ticket %+v lister %+v", tk.Query(), l.got)
	}
}

func TestStatus_String(t *testing.T) {
	for s, want := range map[Status]string{
		StatusIdle:    "idle",
		StatusLoading: "loading",
		StatusReady:   "ready",
		StatusFailed:  "failed",
		Status(42):    "unknown",
	} {
		if s.String() != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
