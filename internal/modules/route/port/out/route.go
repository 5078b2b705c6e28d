package out

import (
	"context"

	"qrnav/internal/modules/route/domain"
)

// TableSource loads the authored instruction table.
type TableSource interface {
	Load(ctx context.Context) (domain.Table, error)
	Describe() string
}

type TableIndexProjector interface {
	Reset(ctx context.Context) error
	UpsertEntry(ctx context.Context, entry domain.Entry) error
	ListEntries(ctx context.Context) ([]domain.Entry, error)
}
