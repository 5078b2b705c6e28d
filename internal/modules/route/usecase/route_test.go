package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	routeout "qrnav/internal/modules/route/adapter/out"
	"qrnav/internal/modules/route/domain"
	"qrnav/internal/modules/route/dto"
	"qrnav/internal/modules/route/service"
	"qrnav/internal/modules/route/usecase"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestResolveWithBuiltInTable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	svc := service.NewRouteService(routeout.NewYAMLTableSource(filepath.Join(dir, "routes.yaml")), nil)
	uc := usecase.NewInteractor(svc)
	if _, err := uc.Reindex(context.Background()); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	out, err := uc.Resolve(context.Background(), dto.ResolveInput{CheckpointID: "Checkpoint 1", DestinationID: "Kitchen"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out.Kind != string(domain.OutcomeResolved) || out.Text != "Go right for 5 meters" || out.MediaRef != "right.mp4" {
		t.Fatalf("unexpected resolve output: %+v", out)
	}
	if !uc.IsCheckpoint(context.Background(), "Checkpoint 2") || uc.IsCheckpoint(context.Background(), "Lobby") {
		t.Fatalf("checkpoint membership is wrong")
	}
	if got := uc.Destinations(context.Background()); len(got) != 3 || got[0] != "Kitchen" {
		t.Fatalf("unexpected destinations: %v", got)
	}
	if !uc.IsDestination(context.Background(), "Washroom") || uc.IsDestination(context.Background(), "Checkpoint 1") {
		t.Fatalf("destination membership is wrong")
	}
}

func TestReindexProjectsYAMLIntoSQLite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	routes := filepath.Join(dir, "routes.yaml")
	content := `schema_version: 1
destinations: [Lobby]
instructions:
  - checkpoint: Door
    destination: Lobby
    text: Walk ahead
    media: straight.gif
  - checkpoint: Door
    destination: Stairs
    text: Turn left
`
	if err := os.WriteFile(routes, []byte(content), 0o644); err != nil {
		t.Fatalf("write routes: %v", err)
	}
	projector, err := routeout.NewSQLiteTableProjector(filepath.Join(dir, ".qrnav", "qrnav.db"), fixedClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	uc := usecase.NewInteractor(service.NewRouteService(routeout.NewYAMLTableSource(routes), projector))

	summary, err := uc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if summary.Instructions != 2 || summary.Destinations != 2 || summary.Source != routes {
		t.Fatalf("unexpected reindex summary: %+v", summary)
	}
	listed, err := uc.ListInstructions(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].DestinationID != "Lobby" || listed[1].MediaRef != "" {
		t.Fatalf("unexpected indexed rows: %+v", listed)
	}

	// reindexing again must not duplicate rows
	if _, err := uc.Reindex(context.Background()); err != nil {
		t.Fatalf("second reindex: %v", err)
	}
	listed, err = uc.ListInstructions(context.Background())
	if err != nil {
		t.Fatalf("list after reindex: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 rows after reindex, got %d", len(listed))
	}

	out, _ := uc.Resolve(context.Background(), dto.ResolveInput{CheckpointID: "Checkpoint 1", DestinationID: "Kitchen"})
	if out.Kind != string(domain.OutcomeUnknownPair) {
		t.Fatalf("sample data must be replaced by the authored table, got %s", out.Kind)
	}
}

func TestReindexRejectsBrokenTable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	routes := filepath.Join(dir, "routes.yaml")
	if err := os.WriteFile(routes, []byte("instructions:\n  - checkpoint: A\n    destination: B\n"), 0o644); err != nil {
		t.Fatalf("write routes: %v", err)
	}
	uc := usecase.NewInteractor(service.NewRouteService(routeout.NewYAMLTableSource(routes), nil))
	if _, err := uc.Reindex(context.Background()); err == nil {
		t.Fatalf("instruction without text should fail")
	}
	// the previous table keeps serving
	out, _ := uc.Resolve(context.Background(), dto.ResolveInput{CheckpointID: "Checkpoint 2", DestinationID: "Hall"})
	if out.Text != "Turn left and go 4 meters" {
		t.Fatalf("expected built-in table to remain active, got %+v", out)
	}
}
