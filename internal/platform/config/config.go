package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds resolved paths plus the settings read from qrnav.yaml.
//
// Environment overrides (also read from <data>/.env):
//   - QRNAV_CAMERA_SOURCE: ffmpeg | frames
//   - QRNAV_CAMERA_DEVICE: capture device, e.g. /dev/video0
//   - QRNAV_COOLDOWN: checkpoint cooldown, e.g. 3s
//   - QRNAV_VOICE_ENABLED: true | false
//   - QRNAV_VOICE_ENGINE: none | command | plugin
//   - QRNAV_LOG_LEVEL: trace | debug | info | warn | error
type Config struct {
	DataDir      string
	StateDir     string
	DBPath       string
	LogPath      string
	SettingsPath string
	Settings     Settings
}

type Settings struct {
	Camera CameraSettings `yaml:"camera"`
	Scan   ScanSettings   `yaml:"scan"`
	Routes RouteSettings  `yaml:"routes"`
	Media  MediaSettings  `yaml:"media"`
	Voice  VoiceSettings  `yaml:"voice"`
	Log    LogSettings    `yaml:"log"`
}

type CameraSettings struct {
	Source   string        `yaml:"source"`
	Device   string        `yaml:"device"`
	Format   string        `yaml:"format"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	FrameDir string        `yaml:"frame_dir"`
	Interval time.Duration `yaml:"interval"`
	Loop     bool          `yaml:"loop"`
}

type ScanSettings struct {
	Cooldown time.Duration `yaml:"cooldown"`
}

type RouteSettings struct {
	Path string `yaml:"path"`
}

type MediaSettings struct {
	Dir           string        `yaml:"dir"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	Size          int           `yaml:"size"`
}

type VoiceSettings struct {
	Enabled   bool          `yaml:"enabled"`
	Engine    string        `yaml:"engine"`
	Command   []string      `yaml:"command"`
	Plugin    string        `yaml:"plugin"`
	QueueSize int           `yaml:"queue_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

type LogSettings struct {
	Level string `yaml:"level"`
}

const (
	CameraSourceFFmpeg = "ffmpeg"
	CameraSourceFrames = "frames"

	VoiceEngineNone    = "none"
	VoiceEngineCommand = "command"
	VoiceEnginePlugin  = "plugin"
)

func Defaults() Settings {
	return Settings{
		Camera: CameraSettings{
			Source:   CameraSourceFFmpeg,
			Device:   "/dev/video0",
			Format:   "v4l2",
			Width:    640,
			Height:   480,
			FrameDir: "frames",
			Interval: 100 * time.Millisecond,
		},
		Scan:   ScanSettings{Cooldown: 3 * time.Second},
		Routes: RouteSettings{Path: "routes.yaml"},
		Media: MediaSettings{
			Dir:           "media",
			FrameInterval: 50 * time.Millisecond,
			Size:          100,
		},
		Voice: VoiceSettings{
			Engine:    VoiceEngineCommand,
			Command:   []string{"espeak"},
			QueueSize: 4,
			Timeout:   10 * time.Second,
		},
		Log: LogSettings{Level: "info"},
	}
}

// New resolves paths for dataDir with default settings.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	stateDir := filepath.Join(dataDir, ".qrnav")
	return Config{
		DataDir:      dataDir,
		StateDir:     stateDir,
		DBPath:       filepath.Join(stateDir, "qrnav.db"),
		LogPath:      filepath.Join(stateDir, "qrnav.log"),
		SettingsPath: filepath.Join(dataDir, "qrnav.yaml"),
		Settings:     Defaults(),
	}, nil
}

// Load builds a Config from defaults, the settings file (optional unless an
// explicit path is given) and environment overrides.
func Load(dataDir, settingsPath string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	explicit := settingsPath != ""
	if explicit {
		cfg.SettingsPath = settingsPath
	}

	raw, err := os.ReadFile(cfg.SettingsPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg.Settings); err != nil {
			return Config{}, fmt.Errorf("decode settings %s: %w", cfg.SettingsPath, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read settings: %w", err)
	}

	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg.Settings); err != nil {
		return Config{}, err
	}

	cfg.Settings.Routes.Path = cfg.resolve(cfg.Settings.Routes.Path)
	cfg.Settings.Media.Dir = cfg.resolve(cfg.Settings.Media.Dir)
	cfg.Settings.Camera.FrameDir = cfg.resolve(cfg.Settings.Camera.FrameDir)
	if cfg.Settings.Voice.Plugin != "" {
		cfg.Settings.Voice.Plugin = cfg.resolve(cfg.Settings.Voice.Plugin)
	}

	if err := cfg.Settings.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(c.DataDir, path))
}

func (s Settings) Validate() error {
	switch s.Camera.Source {
	case CameraSourceFFmpeg, CameraSourceFrames:
	default:
		return fmt.Errorf("unknown camera source %q", s.Camera.Source)
	}
	if s.Camera.Source == CameraSourceFFmpeg && (s.Camera.Width <= 0 || s.Camera.Height <= 0) {
		return fmt.Errorf("camera width and height must be positive")
	}
	if s.Camera.Interval < 0 {
		return fmt.Errorf("camera interval must not be negative")
	}
	if s.Scan.Cooldown <= 0 {
		return fmt.Errorf("scan cooldown must be positive")
	}
	if s.Media.FrameInterval <= 0 {
		return fmt.Errorf("media frame interval must be positive")
	}
	if s.Media.Size <= 0 {
		return fmt.Errorf("media size must be positive")
	}
	switch s.Voice.Engine {
	case VoiceEngineNone:
	case VoiceEngineCommand:
		if len(s.Voice.Command) == 0 {
			return fmt.Errorf("voice command is required for the command engine")
		}
	case VoiceEnginePlugin:
		if s.Voice.Plugin == "" {
			return fmt.Errorf("voice plugin path is required for the plugin engine")
		}
	default:
		return fmt.Errorf("unknown voice engine %q", s.Voice.Engine)
	}
	if s.Voice.QueueSize <= 0 {
		return fmt.Errorf("voice queue size must be positive")
	}
	return nil
}

func applyEnv(s *Settings) error {
	if v := os.Getenv("QRNAV_CAMERA_SOURCE"); v != "" {
		s.Camera.Source = v
	}
	if v := os.Getenv("QRNAV_CAMERA_DEVICE"); v != "" {
		s.Camera.Device = v
	}
	if v := os.Getenv("QRNAV_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QRNAV_COOLDOWN: %w", err)
		}
		s.Scan.Cooldown = d
	}
	if v := os.Getenv("QRNAV_VOICE_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QRNAV_VOICE_ENABLED: %w", err)
		}
		s.Voice.Enabled = b
	}
	if v := os.Getenv("QRNAV_VOICE_ENGINE"); v != "" {
		s.Voice.Engine = strings.ToLower(v)
	}
	if v := os.Getenv("QRNAV_LOG_LEVEL"); v != "" {
		s.Log.Level = v
	}
	return nil
}
