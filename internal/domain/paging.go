package domain

// Paging bounds shared by every list endpoint.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ClampPage returns skip and limit clamped into range. A non-positive limit
// selects DefaultLimit.
func ClampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return skip, limit
}
