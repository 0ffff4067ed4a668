/*
page.go - Pagination types and the two-source page merge

PURPOSE:
  Defines the Page/PageRequest types used by every paginated query, and the
  merge algorithm that combines two independently paginated result sets into
  a single logically consistent page.

WHY A DEDICATED MERGE:
  A manager's expense listing is the union of two store queries (their own
  expenses, their reports' expenses). Naively concatenating two
  already-limited pages under-fills or duplicates near page boundaries.
  Instead each source is fetched as a candidate set covering [0, offset+size)
  of that source, merged with two cursors on the shared sort order, and
  re-sliced to exactly the requested window.

ORDERING CONTRACT:
  Both candidate slices MUST already be sorted ascending by the same rule the
  `less` comparator implements. The canonical rule across the codebase is
  record id ascending, which is stable and source-independent.

TOTAL-COUNT SEMANTICS:
  TotalItems of a merged page is totalA + totalB; the two sources are
  disjoint by construction (an expense is owned by exactly one user, and a
  user is never their own manager). Paginating 0..last therefore covers
  A ∪ B exactly once.

SEE ALSO:
  - expense/service.go: ListForManager uses MergePaginated
  - store/sqlite/sqlite.go: Candidate-set queries (ListExpenses* with window)
*/
package core

// =============================================================================
// PAGE REQUEST
// =============================================================================

// PageRequest identifies one page of a result set. Number is zero-based.
type PageRequest struct {
	Number int
	Size   int
}

// Offset returns the index of the first item of the requested page.
func (r PageRequest) Offset() int {
	return r.Number * r.Size
}

// Window returns how many items, from position 0, a candidate set must
// cover so the requested page can be sliced out of it.
func (r PageRequest) Window() int {
	return r.Offset() + r.Size
}

// =============================================================================
// PAGE
// =============================================================================

// Page is one slice of a larger result set, with the totals pagination
// UIs need.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int64
	TotalPages int
}

// NewPage builds a page from pre-sliced items and the full result count.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	return Page[T]{
		Items:      items,
		Number:     req.Number,
		Size:       req.Size,
		TotalItems: total,
		TotalPages: pageCount(total, req.Size),
	}
}

func pageCount(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// =============================================================================
// TWO-SOURCE MERGE
// =============================================================================

// MergePaginated combines two sorted candidate slices into the requested
// page of their union.
//
// a and b must each be sorted ascending by the `less` rule and must cover
// the first req.Window() items of their source (fewer only when the source
// is exhausted). totalA and totalB are the full counts of each source.
func MergePaginated[T any](a, b []T, totalA, totalB int64, req PageRequest, less func(x, y T) bool) Page[T] {
	window := req.Window()
	merged := make([]T, 0, min(window, len(a)+len(b)))

	i, j := 0, 0
	for len(merged) < window && (i < len(a) || j < len(b)) {
		switch {
		case i >= len(a):
			merged = append(merged, b[j])
			j++
		case j >= len(b):
			merged = append(merged, a[i])
			i++
		case less(b[j], a[i]):
			merged = append(merged, b[j])
			j++
		default:
			merged = append(merged, a[i])
			i++
		}
	}

	offset := req.Offset()
	if offset > len(merged) {
		offset = len(merged)
	}
	end := offset + req.Size
	if end > len(merged) {
		end = len(merged)
	}

	return NewPage(merged[offset:end], req, totalA+totalB)
}
