package in

import (
	"context"

	"qrnav/internal/modules/navigate/dto"
	navin "qrnav/internal/modules/navigate/port/in"
)

type CLIHandler struct {
	usecase navin.Usecase
}

func NewCLIHandler(usecase navin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Follow starts navigating to destination and reports every display change
// until ctx ends, limit guidance lines were shown (0 means no limit) or the
// scanner stops. A capture failure is returned.
func (h CLIHandler) Follow(ctx context.Context, destination string, limit int, emit func(dto.DisplayOutput)) error {
	started, err := h.usecase.SelectDestination(ctx, dto.SelectInput{DestinationID: destination})
	if err != nil {
		return err
	}
	emit(started)
	events := h.usecase.Events()
	shown := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !h.usecase.Accept(ev.RunID) {
				continue
			}
			switch ev.Kind {
			case dto.EventGuidance:
				emit(h.usecase.Dispatch(ctx, ev.Guidance))
				shown++
				if limit > 0 && shown >= limit {
					return nil
				}
			case dto.EventStopped:
				return ev.Err
			}
		}
	}
}

func (h CLIHandler) Close() error {
	return h.usecase.Close()
}
