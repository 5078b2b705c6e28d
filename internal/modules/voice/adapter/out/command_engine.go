package out

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"qrnav/internal/modules/voice/domain"
	voiceout "qrnav/internal/modules/voice/port/out"
)

// CommandEngine runs a text-to-speech program once per announcement with
// the text as its last argument, e.g. ["espeak", "-s", "150"].
type CommandEngine struct {
	argv []string
}

func NewCommandEngine(argv []string) voiceout.Engine {
	return &CommandEngine{argv: append([]string(nil), argv...)}
}

func (e *CommandEngine) Speak(ctx context.Context, text string) error {
	if len(e.argv) == 0 {
		return fmt.Errorf("speech command is not configured")
	}
	cmdPath, err := exec.LookPath(e.argv[0])
	if err != nil {
		return err
	}
	args := append(append([]string(nil), e.argv[1:]...), text)
	cmd := exec.CommandContext(ctx, cmdPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", filepath.Base(cmdPath), err, msg)
		}
		return fmt.Errorf("%s: %w", filepath.Base(cmdPath), err)
	}
	return nil
}

func (e *CommandEngine) Describe(context.Context) (domain.Metadata, error) {
	if len(e.argv) == 0 {
		return domain.Metadata{}, fmt.Errorf("speech command is not configured")
	}
	path, err := exec.LookPath(e.argv[0])
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("speech command unavailable: %w", err)
	}
	return domain.Metadata{Engine: "command", Name: path}, nil
}

func (e *CommandEngine) Close() error { return nil }
