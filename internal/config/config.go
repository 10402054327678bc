package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Fade curve names accepted by FadeCurve
const (
	FadeLinear     = "linear"
	FadeSmoothstep = "smoothstep"
)

// GridSizes is the enumerated set of snap grid sizes in seconds
var GridSizes = []float64{0.25, 0.5, 1, 2, 4}

// Config holds application configuration
type Config struct {
	AssetDirectories []string `json:"asset_directories" yaml:"asset_directories"`
	DataDir          string   `json:"data_dir" yaml:"data_dir"`
	ExportDir        string   `json:"export_dir" yaml:"export_dir"`
	LogLevel         string   `json:"log_level" yaml:"log_level"`

	SampleRate       int     `json:"sample_rate" yaml:"sample_rate"`
	Channels         int     `json:"channels" yaml:"channels"`
	HistoryDepth     int     `json:"history_depth" yaml:"history_depth"`
	LookaheadSeconds float64 `json:"lookahead_seconds" yaml:"lookahead_seconds"`
	FrameIntervalMs  int     `json:"frame_interval_ms" yaml:"frame_interval_ms"`

	GridSize        float64 `json:"grid_size" yaml:"grid_size"`
	SnapEnabled     bool    `json:"snap_enabled" yaml:"snap_enabled"`
	FadeCurve       string  `json:"fade_curve" yaml:"fade_curve"`
	NormalizeGain   float64 `json:"normalize_gain" yaml:"normalize_gain"`
	PixelsPerSecond float64 `json:"pixels_per_second" yaml:"pixels_per_second"`

	Theme            string `json:"theme" yaml:"theme"`
	SidebarCollapsed bool   `json:"sidebar_collapsed" yaml:"sidebar_collapsed"`
	KeyBindings      KeyMap `json:"key_bindings" yaml:"key_bindings"`
}

// KeyMap defines keyboard shortcuts for the focused editor
type KeyMap struct {
	PlayPause   string `json:"play_pause" yaml:"play_pause"`
	GoToStart   string `json:"go_to_start" yaml:"go_to_start"`
	GoToEnd     string `json:"go_to_end" yaml:"go_to_end"`
	Undo        string `json:"undo" yaml:"undo"`
	Redo        string `json:"redo" yaml:"redo"`
	Cut         string `json:"cut" yaml:"cut"`
	Copy        string `json:"copy" yaml:"copy"`
	Paste       string `json:"paste" yaml:"paste"`
	Delete      string `json:"delete" yaml:"delete"`
	Split       string `json:"split" yaml:"split"`
	SeekForward string `json:"seek_forward" yaml:"seek_forward"`
	SeekBack    string `json:"seek_back" yaml:"seek_back"`
	JumpForward string `json:"jump_forward" yaml:"jump_forward"`
	JumpBack    string `json:"jump_back" yaml:"jump_back"`
	ZoomIn      string `json:"zoom_in" yaml:"zoom_in"`
	ZoomOut     string `json:"zoom_out" yaml:"zoom_out"`
	ToggleSnap  string `json:"toggle_snap" yaml:"toggle_snap"`
	Export      string `json:"export" yaml:"export"`
	Quit        string `json:"quit" yaml:"quit"`
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		AssetDirectories: []string{},
		DataDir:          "./data",
		ExportDir:        "./exports",
		LogLevel:         "info",
		SampleRate:       44100,
		Channels:         2,
		HistoryDepth:     20,
		LookaheadSeconds: 60,
		FrameIntervalMs:  33,
		GridSize:         1,
		SnapEnabled:      true,
		FadeCurve:        FadeLinear,
		NormalizeGain:    1.5,
		PixelsPerSecond:  10,
		Theme:            "dark",
		KeyBindings: KeyMap{
			PlayPause:   " ",
			GoToStart:   "home",
			GoToEnd:     "end",
			Undo:        "ctrl+z",
			Redo:        "ctrl+y",
			Cut:         "ctrl+x",
			Copy:        "ctrl+c",
			Paste:       "ctrl+v",
			Delete:      "delete",
			Split:       "s",
			SeekForward: "right",
			SeekBack:    "left",
			JumpForward: "shift+right",
			JumpBack:    "shift+left",
			ZoomIn:      "+",
			ZoomOut:     "-",
			ToggleSnap:  "g",
			Export:      "ctrl+e",
			Quit:        "ctrl+q",
		},
	}
}

// Validate clamps values that would break the engine back into range
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels < 1 || c.Channels > 2 {
		return fmt.Errorf("channels must be 1 or 2, got %d", c.Channels)
	}
	if c.HistoryDepth <= 0 {
		c.HistoryDepth = 20
	}
	if c.LookaheadSeconds <= 0 {
		c.LookaheadSeconds = 60
	}
	if c.FrameIntervalMs <= 0 {
		c.FrameIntervalMs = 33
	}
	if !IsGridSize(c.GridSize) {
		c.GridSize = 1
	}
	switch c.FadeCurve {
	case FadeLinear, FadeSmoothstep:
	default:
		c.FadeCurve = FadeLinear
	}
	if c.PixelsPerSecond <= 0 {
		c.PixelsPerSecond = 10
	}
	return nil
}

// IsGridSize reports whether size is one of GridSizes
func IsGridSize(size float64) bool {
	for _, g := range GridSizes {
		if g == size {
			return true
		}
	}
	return false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig reads and unmarshals configuration from file.
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return GetDefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so missing keys keep sane values
	config := GetDefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// SaveConfig marshals and saves configuration to file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads config from path or creates default if not exists
func LoadOrCreate(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return config, nil
}

// ApplyEnv loads an optional .env file and applies TIMELINE_* overrides.
// A missing env file is not an error.
func ApplyEnv(config *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	config.DataDir = envStr("TIMELINE_DATA_DIR", config.DataDir)
	config.ExportDir = envStr("TIMELINE_EXPORT_DIR", config.ExportDir)
	config.LogLevel = envStr("TIMELINE_LOG_LEVEL", config.LogLevel)
	config.SampleRate = envInt("TIMELINE_SAMPLE_RATE", config.SampleRate)
	config.Channels = envInt("TIMELINE_CHANNELS", config.Channels)
	config.HistoryDepth = envInt("TIMELINE_HISTORY_DEPTH", config.HistoryDepth)
	config.LookaheadSeconds = envFloat("TIMELINE_LOOKAHEAD", config.LookaheadSeconds)
	config.FadeCurve = envStr("TIMELINE_FADE_CURVE", config.FadeCurve)
	if dirs := os.Getenv("TIMELINE_ASSET_DIRS"); dirs != "" {
		config.AssetDirectories = filepath.SplitList(dirs)
	}

	return config.Validate()
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	if path := os.Getenv("TIMELINE_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "timeline", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(home, ".config", "timeline", "config.json")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
