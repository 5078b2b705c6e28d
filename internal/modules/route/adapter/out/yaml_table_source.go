package out

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"qrnav/internal/modules/route/domain"
	routeout "qrnav/internal/modules/route/port/out"
)

type routeFile struct {
	SchemaVersion int              `yaml:"schema_version"`
	Destinations  []string         `yaml:"destinations"`
	Instructions  []instructionRow `yaml:"instructions"`
}

type instructionRow struct {
	Checkpoint  string `yaml:"checkpoint"`
	Destination string `yaml:"destination"`
	Text        string `yaml:"text"`
	Media       string `yaml:"media"`
}

// YAMLTableSource reads routes.yaml. A missing file yields the built-in
// sample table.
type YAMLTableSource struct {
	path string
}

func NewYAMLTableSource(path string) routeout.TableSource {
	return &YAMLTableSource{path: path}
}

func (s *YAMLTableSource) Describe() string {
	if _, err := os.Stat(s.path); err != nil {
		return "built-in"
	}
	return s.path
}

func (s *YAMLTableSource) Load(_ context.Context) (domain.Table, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultTable(), nil
		}
		return domain.Table{}, fmt.Errorf("read routes: %w", err)
	}
	var file routeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return domain.Table{}, fmt.Errorf("decode routes %s: %w", s.path, err)
	}
	if file.SchemaVersion != 0 && file.SchemaVersion != domain.SchemaVersion {
		return domain.Table{}, fmt.Errorf("unsupported routes schema_version %d", file.SchemaVersion)
	}
	entries := make([]domain.Entry, 0, len(file.Instructions))
	for _, row := range file.Instructions {
		entries = append(entries, domain.Entry{
			Key:         domain.Key{CheckpointID: row.Checkpoint, DestinationID: row.Destination},
			Instruction: domain.Instruction{Text: row.Text, MediaRef: row.Media},
		})
	}
	return domain.NewTable(file.Destinations, entries)
}

// WriteYAMLTable renders table in the routes.yaml layout.
func WriteYAMLTable(path string, table domain.Table) error {
	file := routeFile{SchemaVersion: domain.SchemaVersion, Destinations: table.Destinations()}
	for _, e := range table.Entries() {
		file.Instructions = append(file.Instructions, instructionRow{
			Checkpoint:  e.CheckpointID,
			Destination: e.DestinationID,
			Text:        e.Text,
			Media:       e.MediaRef,
		})
	}
	raw, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode routes: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write routes: %w", err)
	}
	return nil
}
