package listctl

import "context"

// PageEnvelope is one page of a listing as reported by the server. Page and
// PageSize echo what the server actually served, which may differ from what
// was asked for.
type PageEnvelope[T any] struct {
	Items      []T
	TotalCount int
	Page       int
	PageSize   int
}

// Result is the outcome of a successful mutation.
type Result struct {
	Message string
}

// Lister fetches one page of records.
type Lister[T any] interface {
	List(ctx context.Context, q ListQuery) (PageEnvelope[T], error)
}

// Mutator creates, updates and deletes records from a draft D.
type Mutator[D any] interface {
	Create(ctx context.Context, draft D) (Result, error)
	Update(ctx context.Context, id uint, draft D) (Result, error)
	Delete(ctx context.Context, id uint) (Result, error)
}

// Source is the remote collection a Controller manages.
type Source[T, D any] interface {
	Lister[T]
	Mutator[D]
}

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notifier receives user-facing messages.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind Kind, message string)

// Notify calls f.
func (f NotifierFunc) Notify(kind Kind, message string) { f(kind, message) }

type nopNotifier struct{}

func (nopNotifier) Notify(Kind, string) {}

// FetchOutcome labels how a listing request ended.
type FetchOutcome string

const (
	OutcomeReady  FetchOutcome = "ready"
	OutcomeFailed FetchOutcome = "failed"
	OutcomeStale  FetchOutcome = "stale"
)

// Observer is told about every fetch and mutation outcome.
type Observer interface {
	FetchDone(screen string, outcome FetchOutcome)
	MutationDone(screen string, op Action, err error)
}

type nopObserver struct{}

func (nopObserver) FetchDone(string, FetchOutcome)   {}
func (nopObserver) MutationDone(string, Action, error) {}
