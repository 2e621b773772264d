package pagination

// DefaultPage is used whenever the requested page is missing or malformed.
const DefaultPage = 1

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Page wraps one page of results. It carries no total count: the discovery
// queries never run a COUNT(*), so callers cannot derive the number of pages
// from a response.
type Page[T any] struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Items []T `json:"items"`
}

// NormalizePage enforces the default page for non-positive input.
func NormalizePage(page int) int {
	if page <= 0 {
		return DefaultPage
	}
	return page
}

// NormalizeLimit enforces the fallback and maximum limits. A non-positive
// fallback selects DefaultLimit.
func NormalizeLimit(limit, fallback int) int {
	if fallback <= 0 {
		fallback = DefaultLimit
	}
	if limit <= 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns params with page and limit defaults applied.
func (p Params) Normalize(fallbackLimit int) Params {
	return Params{
		Page:  NormalizePage(p.Page),
		Limit: NormalizeLimit(p.Limit, fallbackLimit),
	}
}

// Offset converts the normalized page/limit pair into a row offset.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * NormalizeLimit(p.Limit, 0)
}

// Slice applies page/limit to an already ranked list. Requesting a page past
// the end yields an empty (non-nil) items slice, never an error.
func Slice[T any](items []T, params Params, fallbackLimit int) Page[T] {
	normalized := params.Normalize(fallbackLimit)

	start := (normalized.Page - 1) * normalized.Limit
	if start > len(items) {
		start = len(items)
	}
	end := start + normalized.Limit
	if end > len(items) {
		end = len(items)
	}

	page := make([]T, end-start)
	copy(page, items[start:end])

	return Page[T]{
		Page:  normalized.Page,
		Limit: normalized.Limit,
		Items: page,
	}
}
