package out

import (
	"context"

	"qrnav/internal/modules/navigate/domain"
	navout "qrnav/internal/modules/navigate/port/out"
	"qrnav/internal/modules/route/dto"
	routein "qrnav/internal/modules/route/port/in"
)

type RouteResolver struct {
	routes routein.Usecase
}

func NewRouteResolver(routes routein.Usecase) navout.Resolver {
	return &RouteResolver{routes: routes}
}

func (r *RouteResolver) Resolve(ctx context.Context, trigger domain.Trigger) (domain.Guidance, error) {
	out, err := r.routes.Resolve(ctx, dto.ResolveInput{CheckpointID: trigger.CheckpointID, DestinationID: trigger.DestinationID})
	if err != nil {
		return domain.Guidance{}, err
	}
	return domain.Guidance{
		Kind:          domain.GuidanceKind(out.Kind),
		CheckpointID:  out.CheckpointID,
		DestinationID: out.DestinationID,
		Text:          out.Text,
		MediaRef:      out.MediaRef,
		ObservedAt:    trigger.ObservedAt,
	}, nil
}

func (r *RouteResolver) Destinations(ctx context.Context) []string {
	return r.routes.Destinations(ctx)
}

func (r *RouteResolver) HasDestination(ctx context.Context, destinationID string) bool {
	return r.routes.IsDestination(ctx, destinationID)
}
