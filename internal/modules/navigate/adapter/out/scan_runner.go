package out

import (
	"context"

	"qrnav/internal/modules/navigate/domain"
	navout "qrnav/internal/modules/navigate/port/out"
	"qrnav/internal/modules/scan/dto"
	scanin "qrnav/internal/modules/scan/port/in"
)

// ScanRunner drives the scan module on behalf of a navigation run.
type ScanRunner struct {
	scan scanin.Usecase
}

func NewScanRunner(scan scanin.Usecase) navout.ScanRunner {
	return &ScanRunner{scan: scan}
}

func (r *ScanRunner) Run(ctx context.Context, gate navout.Gate, sink navout.Sink) error {
	return r.scan.Run(ctx, gate, scanSink{sink: sink})
}

func (r *ScanRunner) ResetCooldown(ctx context.Context) {
	r.scan.ResetCooldown(ctx)
}

type scanSink struct {
	sink navout.Sink
}

func (s scanSink) Preview(ctx context.Context, frame dto.FrameOutput) {
	s.sink.Preview(ctx, frame.Image)
}

func (s scanSink) Trigger(ctx context.Context, trigger dto.TriggerOutput) {
	s.sink.Trigger(ctx, domain.Trigger{
		CheckpointID:  trigger.CheckpointID,
		DestinationID: trigger.DestinationID,
		ObservedAt:    trigger.ObservedAt,
	})
}
