// Package config loads and saves GoStego settings as YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/xob0t/GoStego/pkg/lsb"
)

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Address        string `yaml:"address"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	OpenBrowser    bool   `yaml:"open_browser"`
	// MaxImagePixels rejects uploads whose header declares more pixels,
	// before any pixel data is decoded.
	MaxImagePixels int `yaml:"max_image_pixels"`
	// MaxAssets and MaxAssetBytes bound the in-memory upload store.
	MaxAssets     int   `yaml:"max_assets"`
	MaxAssetBytes int64 `yaml:"max_asset_bytes"`
}

// CoverConfig holds defaults for `gostego generate`.
type CoverConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Color  string `yaml:"color"`
	Noise  int    `yaml:"noise"`
	Font   string `yaml:"font"`
}

// TextConfig controls how text payloads cross the file boundary.
type TextConfig struct {
	// Charset is "utf-8" (bytes pass through) or "latin1".
	Charset string `yaml:"charset"`
}

// Config is the full settings file.
type Config struct {
	LogLevel        string       `yaml:"log_level"`
	MaxPayloadBytes int          `yaml:"max_payload_bytes"`
	OutputFormat    string       `yaml:"output_format"`
	Server          ServerConfig `yaml:"server"`
	Cover           CoverConfig  `yaml:"cover"`
	Text            TextConfig   `yaml:"text"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		MaxPayloadBytes: lsb.DefaultMaxPayload,
		OutputFormat:    "png",
		Server: ServerConfig{
			Address:        ":8080",
			MaxUploadBytes: 50 << 20,
			MaxImagePixels: 64 << 20,
			MaxAssets:      32,
			MaxAssetBytes:  256 << 20,
		},
		Cover: CoverConfig{
			Width:  1280,
			Height: 720,
			Color:  "random",
			Noise:  2,
		},
		Text: TextConfig{Charset: "utf-8"},
	}
}

// Load reads filename over the defaults. A missing file is not an error
// when filename is empty.
func Load(filename string) (*Config, error) {
	conf := Default()
	if filename == "" {
		return conf, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return conf, nil
}

// Save writes c to filename as YAML.
func Save(filename string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.OutputFormat {
	case "png", "bmp":
	default:
		return fmt.Errorf("output_format %q: use png or bmp", c.OutputFormat)
	}
	switch strings.ToLower(c.Text.Charset) {
	case "", "utf-8", "utf8", "latin1", "iso-8859-1":
	default:
		return fmt.Errorf("text.charset %q: use utf-8 or latin1", c.Text.Charset)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Server.MaxImagePixels <= 0 {
		return fmt.Errorf("server.max_image_pixels must be positive")
	}
	if c.Server.MaxAssets <= 0 || c.Server.MaxAssetBytes <= 0 {
		return fmt.Errorf("server.max_assets and server.max_asset_bytes must be positive")
	}
	return nil
}

// Decoder returns an lsb decoder bounded by MaxPayloadBytes.
func (c *Config) Decoder() lsb.Decoder {
	return lsb.Decoder{MaxPayload: c.MaxPayloadBytes}
}
