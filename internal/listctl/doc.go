// Package listctl implements the paginated entity controller shared by every
// dashboard screen.
//
// A Controller composes five parts:
//   - Pager: Paginate and PageCount, pure slice and count helpers
//   - QueryState: page, page size and search term with reset rules
//   - FetchCycle: one listing round-trip at a time is authoritative; results of
//     superseded requests are discarded by generation
//   - MutationWorkflow: validated create/update/delete with a per-record busy guard
//   - ConfirmGate: a single pending destructive action awaiting confirmation
//
// The package knows nothing about HTTP or templates. Data arrives through a
// Source and user-facing messages leave through a Notifier.
package listctl
