package library

import (
	"context"

	"github.com/clauseflow/clauseflow/pkg/pagination"
)

// System defines the public contract for reference library operations.
type System interface {
	Source

	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error)
	Find(ctx context.Context, code string) (*Entry, error)
	Import(ctx context.Context, cmd ImportCommand) (ImportResult, error)
}

// ImportResult summarizes a bulk cache refresh.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}
