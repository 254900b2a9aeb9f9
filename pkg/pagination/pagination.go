package pagination

import "math"

const (
	// DefaultSize is the standard page size when one is not provided.
	DefaultSize = 10
	// MaxSize caps how many rows any paged query can request.
	MaxSize = 100
)

// Params holds offset pagination inputs from controllers or services.
// Page is zero-based.
type Params struct {
	Page int
	Size int
}

// Normalize clamps page and size to their allowed ranges.
func Normalize(p Params) Params {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

// Offset converts the normalized params into a SQL offset.
func Offset(p Params) int {
	p = Normalize(p)
	return p.Page * p.Size
}

// Page describes one page of results plus its position in the full set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

// NewPage assembles a Page from a slice of rows and the total row count.
func NewPage[T any](content []T, params Params, total int64) Page[T] {
	params = Normalize(params)
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(params.Size)))
	}
	return Page[T]{
		Content:       content,
		PageNumber:    params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          params.Page >= totalPages-1,
	}
}
