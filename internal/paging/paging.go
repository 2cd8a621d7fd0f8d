// Package paging holds the limit/offset pagination shared by list endpoints.
package paging

const (
	DefaultLimit = 6
	MaxLimit     = 100
)

// Params selects a window of a listing.
type Params struct {
	Limit  int
	Offset int
}

// Normalize clamps p to valid bounds, applying DefaultLimit when unset.
func (p Params) Normalize() Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}

	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if p.Offset < 0 {
		p.Offset = 0
	}

	return p
}

// Window returns the bounds of p within a listing of n items.
func (p Params) Window(n int) (int, int) {
	start := min(p.Offset, n)
	end := min(start+p.Limit, n)

	return start, end
}

// Page is one window of a listing and the total number of matches.
type Page[T any] struct {
	Items []T
	Count int
}
