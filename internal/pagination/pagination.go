// Package pagination implements cursor-based slicing over any ordered,
// key-addressable collection (a Paginable — in practice an
// internal/ordmap.Map). Ported directly from
// original_source/hify-server/src/graphql/pagination.rs's paginate: same
// argument validation order (after/before and first/last are each
// mutually exclusive, a count is always required), same "after" vs
// "before" slicing direction, same has-more-pages computation.
package pagination

import "github.com/pkg/errors"

// Paginable is the minimal shape pagination needs from an ordered
// collection: its length, and the dense sorted index of a given key (the
// same API internal/ordmap.Map[K,V] already exposes).
type Paginable[K comparable] interface {
	Len() int
	IndexOf(k K) (int, bool)
}

// Args is the cursor-pagination request, mirroring the original's
// PaginationInput: after/before and first/last are each mutually
// exclusive, and a cursor always requires its matching count.
type Args struct {
	After  *string
	Before *string
	First  *int
	Last   *int
}

// Edge pairs one item with the cursor that addresses it.
type Edge[K comparable, V any] struct {
	Cursor string
	Key    K
	Node   V
}

// Page is the sliced result: the selected edges plus whether more data
// exists on either side.
type Page[K comparable, V any] struct {
	Edges           []Edge[K, V]
	HasNextPage     bool
	HasPreviousPage bool
}

// direction mirrors the original's internal Direction enum.
type direction int

const (
	dirAfter direction = iota
	dirBefore
)

// Paginate slices coll according to args. at(i) returns the (key, value)
// at sorted position i; encodeCursor/decodeCursor convert a key to/from
// its opaque string cursor form (callers typically pass K.String and a
// ParseXID function).
func Paginate[K comparable, V any](
	args Args,
	coll Paginable[K],
	at func(i int) (K, V),
	encodeCursor func(K) string,
	decodeCursor func(string) (K, error),
) (Page[K, V], error) {
	hasAfter, hasBefore := args.After != nil, args.Before != nil
	hasFirst, hasLast := args.First != nil, args.Last != nil

	var (
		cursorStr *string
		count     int
		dir       direction
	)

	switch {
	case !hasAfter && !hasBefore && !hasFirst && !hasLast:
		return Page[K, V]{}, errors.New("pagination: please provide pagination parameters")

	case hasAfter && hasBefore:
		return Page[K, V]{}, errors.New("pagination: cannot provide both 'after' and 'before' parameters at once")

	case hasFirst && hasLast:
		return Page[K, V]{}, errors.New("pagination: cannot provide both 'first' and 'last' parameters at once")

	case (!hasAfter && hasBefore && !hasFirst && !hasLast) || (hasAfter && !hasBefore && !hasFirst && !hasLast):
		return Page[K, V]{}, errors.New("pagination: please provide a number of elements to get")

	case !hasAfter && hasBefore && !hasLast:
		return Page[K, V]{}, errors.New("pagination: specifying a 'before' parameter requires the 'last' parameter as well")

	case !hasAfter && hasBefore && !hasFirst && hasLast:
		cursorStr, count, dir = args.Before, *args.Last, dirBefore

	case hasAfter && !hasBefore && !hasFirst:
		return Page[K, V]{}, errors.New("pagination: specifying an 'after' parameter requires the 'first' parameter as well")

	case hasAfter && !hasBefore && hasFirst && !hasLast:
		cursorStr, count, dir = args.After, *args.First, dirAfter

	case !hasAfter && !hasBefore && hasFirst && !hasLast:
		cursorStr, count, dir = nil, *args.First, dirAfter

	default: // (!hasAfter && !hasBefore && !hasFirst && hasLast)
		return Page[K, V]{}, errors.New("pagination: please provide a cursor to paginate from")
	}

	if count < 0 {
		return Page[K, V]{}, errors.New("pagination: invalid count number provided")
	}

	index := 0
	if cursorStr != nil {
		key, err := decodeCursor(*cursorStr)
		if err != nil {
			return Page[K, V]{}, errors.Wrap(err, "pagination: failed to decode provided cursor")
		}
		i, ok := coll.IndexOf(key)
		if !ok {
			return Page[K, V]{}, errors.New("pagination: provided cursor was not found")
		}
		index = i
	}

	startAt := index
	if dir == dirBefore {
		if index >= count {
			startAt = index - count
		} else {
			startAt = 0
		}
	}

	page := Page[K, V]{
		HasPreviousPage: index > 0,
		HasNextPage:     index+count < coll.Len(),
	}

	switch dir {
	case dirAfter:
		end := startAt + count
		if end > coll.Len() {
			end = coll.Len()
		}
		for i := startAt; i < end; i++ {
			k, v := at(i)
			page.Edges = append(page.Edges, Edge[K, V]{Cursor: encodeCursor(k), Key: k, Node: v})
		}
	case dirBefore:
		// The count items strictly before the cursor, ascending, bounded by
		// the same start_at the original computes (index-count, or 0 if
		// that would be negative).
		end := index
		if end > coll.Len() {
			end = coll.Len()
		}
		for i := startAt; i < end; i++ {
			k, v := at(i)
			page.Edges = append(page.Edges, Edge[K, V]{Cursor: encodeCursor(k), Key: k, Node: v})
		}
	}

	return page, nil
}
