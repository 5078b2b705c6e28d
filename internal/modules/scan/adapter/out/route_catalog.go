package out

import (
	"context"

	routein "qrnav/internal/modules/route/port/in"
	scanout "qrnav/internal/modules/scan/port/out"
)

// RouteCatalog answers "is this a checkpoint" from the route table.
type RouteCatalog struct {
	routes routein.Usecase
}

func NewRouteCatalog(routes routein.Usecase) scanout.Catalog {
	return &RouteCatalog{routes: routes}
}

func (c *RouteCatalog) Known(ctx context.Context, checkpointID string) bool {
	return c.routes.IsCheckpoint(ctx, checkpointID)
}
