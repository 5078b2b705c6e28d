package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-plugin"

	voicerpc "qrnav/internal/modules/voice/adapter/out/rpc"
)

type server struct {
	argv   []string
	dryRun bool
}

func newServer() *server {
	argv := []string{"espeak"}
	if runtime.GOOS == "darwin" {
		argv = []string{"say"}
	}
	if custom := strings.Fields(os.Getenv("QRNAV_ESPEAK_COMMAND")); len(custom) > 0 {
		argv = custom
	}
	return &server{argv: argv, dryRun: os.Getenv("QRNAV_SPEECH_DRY_RUN") != ""}
}

func (s *server) GetMetadata(_ context.Context, _ *voicerpc.Empty) (*voicerpc.Metadata, error) {
	return &voicerpc.Metadata{
		Name:    "espeak",
		Version: "1.0.0",
		Voices:  []string{"default"},
	}, nil
}

func (s *server) Speak(ctx context.Context, in *voicerpc.SpeakRequest) (*voicerpc.SpeakResponse, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}
	started := time.Now()
	if s.dryRun {
		// stderr ends up in the host log
		fmt.Fprintf(os.Stderr, "speak: %s\n", text)
		return &voicerpc.SpeakResponse{}, nil
	}
	args := append([]string(nil), s.argv[1:]...)
	if in.Voice != "" && in.Voice != "default" && s.argv[0] == "espeak" {
		args = append(args, "-v", in.Voice)
	}
	cmd := exec.CommandContext(ctx, s.argv[0], append(args, text)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", s.argv[0], err, strings.TrimSpace(string(out)))
	}
	return &voicerpc.SpeakResponse{DurationMS: time.Since(started).Milliseconds()}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: voicerpc.HandshakeConfig,
		Plugins:         voicerpc.PluginMap(newServer()),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
