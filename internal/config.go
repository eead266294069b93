package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Workspace WorkspaceConfig   `yaml:"workspace"`
	Markers   MarkerConfig      `yaml:"markers"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Workspace.Validate(); err != nil {
		return err
	}
	return c.Markers.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the optional HTTP inspection server configuration.
// Port 0 disables the HTTP surface; the MCP stdio transport is always active.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Enabled reports whether the HTTP inspection API should be served.
func (c *HTTPConfig) Enabled() bool {
	return c.Port > 0
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Min(0), validation.Max(65535)),
	)
}

// WorkspaceConfig holds the agent workspace layout: the root directory,
// the long-term memory file, and the daily-note directory. MemoryFile
// and NotesDir are paths relative to Root.
type WorkspaceConfig struct {
	Root       string `yaml:"root"`
	MemoryFile string `yaml:"memory_file"`
	NotesDir   string `yaml:"notes_dir"`
}

// Validate validates the workspace configuration.
func (c *WorkspaceConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.MemoryFile, validation.Required),
		validation.Field(&c.NotesDir, validation.Required),
	); err != nil {
		return err
	}
	if filepath.IsAbs(c.MemoryFile) {
		return fmt.Errorf("workspace: memory_file must be relative to root: %s", c.MemoryFile)
	}
	if filepath.IsAbs(c.NotesDir) {
		return fmt.Errorf("workspace: notes_dir must be relative to root: %s", c.NotesDir)
	}
	return nil
}

// MarkerConfig holds the literal tokens that open and close a TODO line.
type MarkerConfig struct {
	Pending string `yaml:"pending"`
	Done    string `yaml:"done"`
}

// Validate validates the marker configuration.
func (c *MarkerConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Pending, validation.Required),
		validation.Field(&c.Done, validation.Required),
	); err != nil {
		return err
	}
	if c.Pending == c.Done {
		return fmt.Errorf("markers: pending and done tokens must differ")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 0,
			},
		},
		Workspace: WorkspaceConfig{
			Root:       "./workspace",
			MemoryFile: "memory.md",
			NotesDir:   "daily",
		},
		Markers: MarkerConfig{
			Pending: "[ ]",
			Done:    "[x]",
		},
	}
}
