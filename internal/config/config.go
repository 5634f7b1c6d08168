// Package config manages the persistent screencap configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xurtis/screencap/internal/logger"
	"gopkg.in/yaml.v3"
)

// CodecConfig holds the candidate priority lists used to pick concrete
// ffmpeg formats and encoders. Each list is ordered most preferred first;
// listing order in ffmpeg's own output never influences the choice.
type CodecConfig struct {
	Containers    []string `json:"containers" yaml:"containers"`
	ScreenInputs  []string `json:"screen_inputs" yaml:"screen_inputs"`
	AudioInputs   []string `json:"audio_inputs" yaml:"audio_inputs"`
	VideoEncoders []string `json:"video_encoders" yaml:"video_encoders"`
	AudioEncoders []string `json:"audio_encoders" yaml:"audio_encoders"`
}

// Config is the application configuration.
type Config struct {
	LogLevel      string      `json:"log_level" yaml:"log_level"`
	Framerate     int         `json:"framerate" yaml:"framerate"`
	PictureDir    string      `json:"picture_dir" yaml:"picture_dir"`
	VideoDir      string      `json:"video_dir" yaml:"video_dir"`
	RegionBackend string      `json:"region_backend" yaml:"region_backend"`
	ServerPort    int         `json:"server_port" yaml:"server_port"`
	Codecs        CodecConfig `json:"codecs" yaml:"codecs"`
}

// Manager handles configuration loading and persistence.
type Manager struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

// NewManager creates a configuration manager backed by configFile, or by
// ~/.config/screencap/config.yaml when configFile is empty. A missing file
// is created with defaults.
func NewManager(configFile string) (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := configFile
	if configPath == "" {
		configPath = filepath.Join(homeDir, ".config", "screencap", "config.yaml")
	}

	m := &Manager{configPath: configPath}

	if err := m.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logger.WithComponent("config").Info().
			Str("path", m.configPath).
			Msg("Config file not found, creating new config")
		m.config = Defaults()
		if err := m.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return m, nil
}

// Defaults returns the default configuration. The codec candidate lists
// mirror what a stock desktop ffmpeg build is expected to carry, hardware
// encoders first.
func Defaults() *Config {
	return &Config{
		LogLevel:      "info",
		Framerate:     30,
		RegionBackend: "tools",
		ServerPort:    8080,
		Codecs: CodecConfig{
			Containers:    []string{"matroska", "mp4"},
			ScreenInputs:  []string{"x11grab"},
			AudioInputs:   []string{"pulse"},
			VideoEncoders: []string{"h264_nvenc", "h264_qsv", "libx264", "h264"},
			AudioEncoders: []string{"aac", "libvo_aac"},
		},
	}
}

// load reads the configuration from disk, filling unset candidate lists
// and directories from the defaults.
func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	defaults := Defaults()
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.Framerate <= 0 {
		cfg.Framerate = defaults.Framerate
	}
	if cfg.RegionBackend == "" {
		cfg.RegionBackend = defaults.RegionBackend
	}
	if cfg.ServerPort == 0 {
		cfg.ServerPort = defaults.ServerPort
	}
	if len(cfg.Codecs.Containers) == 0 {
		cfg.Codecs.Containers = defaults.Codecs.Containers
	}
	if len(cfg.Codecs.ScreenInputs) == 0 {
		cfg.Codecs.ScreenInputs = defaults.Codecs.ScreenInputs
	}
	if len(cfg.Codecs.AudioInputs) == 0 {
		cfg.Codecs.AudioInputs = defaults.Codecs.AudioInputs
	}
	if len(cfg.Codecs.VideoEncoders) == 0 {
		cfg.Codecs.VideoEncoders = defaults.Codecs.VideoEncoders
	}
	if len(cfg.Codecs.AudioEncoders) == 0 {
		cfg.Codecs.AudioEncoders = defaults.Codecs.AudioEncoders
	}

	m.mu.Lock()
	m.config = &cfg
	m.mu.Unlock()

	logger.WithComponent("config").Info().
		Str("path", m.configPath).
		Msg("Config loaded")
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return Defaults()
	}
	cfg := *m.config
	return &cfg
}

// Save writes the current configuration to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	if cfg == nil {
		cfg = Defaults()
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logger.WithComponent("config").Debug().
		Str("path", m.configPath).
		Msg("Config saved")
	return nil
}

// GetConfigPath returns the path of the backing config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}
