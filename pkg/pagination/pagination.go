package pagination

import "github.com/joramcars/dealership-web/pkg/types"

const (
	// DefaultLimit is the page size of back-office collections when none is given.
	DefaultLimit = 20
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
	// MaxPage bounds page numbers accepted from query strings.
	MaxPage = 10000
)

// Params holds page-number pagination inputs forwarded to the dealership API.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the params into the accepted ranges.
func (p Params) Normalize() Params {
	return Params{Page: NormalizePage(p.Page), Limit: NormalizeLimit(p.Limit)}
}

// Meta describes one returned page of total rows.
func (p Params) Meta(total int) types.PageMeta {
	return types.PageMeta{Total: total, Page: p.Page, Limit: p.Limit}
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

// Pages returns how many pages of limit rows hold total rows.
func Pages(total, limit int) int {
	limit = NormalizeLimit(limit)
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
