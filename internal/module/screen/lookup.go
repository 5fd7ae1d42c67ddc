package screen

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LookupFunc loads the choices of a lookup.
type LookupFunc func(ctx context.Context) ([]Option, error)

// Lookups loads select options shared by several screens, such as the
// employee list. Concurrent loads of the same lookup share one request.
type Lookups struct {
	mu      sync.RWMutex
	sources map[string]LookupFunc
	group   singleflight.Group
}

// NewLookups returns an empty registry.
func NewLookups() *Lookups {
	return &Lookups{sources: make(map[string]LookupFunc)}
}

// Register adds or replaces the lookup called name.
func (l *Lookups) Register(name string, fn LookupFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources[name] = fn
}

// Load returns the options of one lookup.
func (l *Lookups) Load(ctx context.Context, name string) ([]Option, error) {
	l.mu.RLock()
	fn, ok := l.sources[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown lookup %q", name)
	}

	v, err, _ := l.group.Do(name, func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return nil, err
	}
	// Callers may share the slice; hand each its own copy.
	opts := v.([]Option)
	return append([]Option(nil), opts...), nil
}

// LoadAll loads several lookups concurrently. It fails if any of them fails.
func (l *Lookups) LoadAll(ctx context.Context, names []string) (map[string][]Option, error) {
	out := make(map[string][]Option, len(names))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			opts, err := l.Load(ctx, name)
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			mu.Lock()
			out[name] = opts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterOptions ranks options whose label fuzzily matches q, best match
// first. An empty q returns opts unchanged.
func FilterOptions(opts []Option, q string) []Option {
	q = strings.TrimSpace(q)
	if q == "" {
		return opts
	}
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(q, labels)
	sort.Stable(ranks)

	out := make([]Option, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, opts[r.OriginalIndex])
	}
	return out
}

// OptionsFrom builds options from records.
func OptionsFrom[T any](items []T, value func(T) string, label func(T) string) []Option {
	out := make([]Option, len(items))
	for i, it := range items {
		out[i] = Option{Value: value(it), Label: label(it)}
	}
	return out
}
