package shared

import (
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/noelruault/lazylinode/internal/linode"
)

// RenderKind is the state a list view renders in. Exactly one applies.
type RenderKind int

const (
	RenderLoading RenderKind = iota
	RenderError
	RenderEmpty
	RenderRows
)

func (k RenderKind) String() string {
	switch k {
	case RenderLoading:
		return "loading"
	case RenderError:
		return "error"
	case RenderEmpty:
		return "empty"
	case RenderRows:
		return "rows"
	default:
		return fmt.Sprintf("RenderKind(%d)", int(k))
	}
}

// FetchState is the explicit fetch lifecycle of a list.
type FetchState int

const (
	NotFetched FetchState = iota
	FirstLoad
	Refreshing
	Fetched
)

// ListProps are the inputs of a list view.
type ListProps[T any] struct {
	Records []T
	Loading bool
	// LastUpdated is the time of the last successful fetch; zero means
	// the list was never fetched.
	LastUpdated time.Time
	// Errors is nil when there is no error to show.
	Errors linode.APIErrors

	UpdateOrAdd func(record T) tea.Cmd
	OpenDrawer  func(id int) tea.Cmd
}

// FetchState derives the fetch lifecycle from Loading and LastUpdated.
func (p ListProps[T]) FetchState() FetchState {
	switch {
	case p.Loading && p.LastUpdated.IsZero():
		return FirstLoad
	case p.Loading:
		return Refreshing
	case p.LastUpdated.IsZero():
		return NotFetched
	default:
		return Fetched
	}
}

// Placeholder is a single full-width row standing in for the records.
type Placeholder struct {
	Kind    RenderKind
	ColSpan int
	Message string
}

// Row is one record row. Rows are keyed by position, so reordering records
// without changing their count reuses keys.
type Row[T any] struct {
	Key    string
	Index  int
	Record T

	UpdateOrAdd func(record T) tea.Cmd
	OpenDrawer  func(id int) tea.Cmd
}

// Content is the outcome of render-state selection.
type Content[T any] struct {
	Kind        RenderKind
	Placeholder Placeholder
	Rows        []Row[T]
}

// ListView selects what a resource table shows.
type ListView[T any] struct {
	KeyPrefix    string
	ColSpan      int
	EmptyMessage string
}

// Select picks the render state for p. The first matching rule wins:
// first load, error, empty after a fetch, then one row per record.
func (v ListView[T]) Select(p ListProps[T]) Content[T] {
	if p.Loading && p.LastUpdated.IsZero() {
		return Content[T]{Kind: RenderLoading, Placeholder: Placeholder{Kind: RenderLoading, ColSpan: v.ColSpan}}
	}

	if p.Errors != nil {
		return Content[T]{Kind: RenderError, Placeholder: Placeholder{
			Kind:    RenderError,
			ColSpan: v.ColSpan,
			Message: linode.ErrorStringOrDefault(p.Errors),
		}}
	}

	if len(p.Records) == 0 && !p.LastUpdated.IsZero() {
		return Content[T]{Kind: RenderEmpty, Placeholder: Placeholder{
			Kind:    RenderEmpty,
			ColSpan: v.ColSpan,
			Message: v.EmptyMessage,
		}}
	}

	rows := make([]Row[T], len(p.Records))
	for i, record := range p.Records {
		rows[i] = Row[T]{
			Key:         fmt.Sprintf("%s-row-%d", v.KeyPrefix, i),
			Index:       i,
			Record:      record,
			UpdateOrAdd: p.UpdateOrAdd,
			OpenDrawer:  p.OpenDrawer,
		}
	}
	return Content[T]{Kind: RenderRows, Rows: rows}
}

// PropsEqual reports whether next would render the same as prev: records
// deeply equal and the same LastUpdated, Loading and Errors. Callbacks are
// not compared.
func PropsEqual[T any](prev, next ListProps[T]) bool {
	return cmp.Equal(prev.Records, next.Records) &&
		prev.LastUpdated.Equal(next.LastUpdated) &&
		prev.Loading == next.Loading &&
		cmp.Equal(prev.Errors, next.Errors)
}

// Memo caches the output of render and recomputes it only when the props
// change under PropsEqual.
type Memo[T any, R any] struct {
	render  func(ListProps[T]) R
	prev    ListProps[T]
	out     R
	valid   bool
	renders int
}

// NewMemo wraps render.
func NewMemo[T any, R any](render func(ListProps[T]) R) *Memo[T, R] {
	return &Memo[T, R]{render: render}
}

// Render returns the cached output for props equal to the previous call,
// and renders afresh otherwise.
func (m *Memo[T, R]) Render(p ListProps[T]) R {
	if m.valid && PropsEqual(m.prev, p) {
		return m.out
	}
	m.out = m.render(p)
	// Snapshot the slices so in-place edits by the caller still register
	// as a change on the next call.
	m.prev = p
	m.prev.Records = slices.Clone(p.Records)
	m.prev.Errors = slices.Clone(p.Errors)
	m.valid = true
	m.renders++
	return m.out
}

// Renders counts how many times the wrapped render actually ran.
func (m *Memo[T, R]) Renders() int {
	return m.renders
}
