package out

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	voicerpc "qrnav/internal/modules/voice/adapter/out/rpc"
	"qrnav/internal/modules/voice/domain"
	voiceout "qrnav/internal/modules/voice/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 10 * time.Second
)

// PluginEngine speaks through an external plugin binary. The plugin process
// is started on first use and kept until Close; a broken connection is
// dropped and restarted on the next call.
type PluginEngine struct {
	binary string
	logger hclog.Logger

	mu     sync.Mutex
	client *plugin.Client
	speech voicerpc.SpeechClient
}

func NewPluginEngine(binary string, logger hclog.Logger) voiceout.Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginEngine{binary: binary, logger: logger.Named("speech-plugin")}
}

func (e *PluginEngine) Speak(ctx context.Context, text string) error {
	speech, err := e.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := speech.Speak(callCtx, &voicerpc.SpeakRequest{Text: text}); err != nil {
		e.dropIfExited()
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

func (e *PluginEngine) Describe(ctx context.Context) (domain.Metadata, error) {
	speech, err := e.connect()
	if err != nil {
		return domain.Metadata{}, err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := speech.GetMetadata(callCtx)
	if err != nil {
		e.dropIfExited()
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Engine: "plugin", Name: meta.Name, Version: meta.Version}, nil
}

func (e *PluginEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		e.client.Kill()
		e.client = nil
		e.speech = nil
	}
	return nil
}

func (e *PluginEngine) connect() (voicerpc.SpeechClient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.speech != nil {
		return e.speech, nil
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  voicerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          voicerpc.PluginMap(nil),
		Cmd:              exec.Command(e.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           e.logger,
	})
	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start speech plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(voicerpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense speech plugin: %w", err)
	}
	typed, ok := raw.(voicerpc.SpeechClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("speech plugin rpc client type mismatch")
	}
	e.client, e.speech = client, typed
	return typed, nil
}

func (e *PluginEngine) dropIfExited() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil && e.client.Exited() {
		e.logger.Warn("speech plugin exited, restarting on next call")
		e.client.Kill()
		e.client, e.speech = nil, nil
	}
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
