// Package settings persists the tool's Perforce and stream choices between
// runs, and reads the Perforce connection the editor itself last used.
package settings

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// DirName is the sub-directory of the project's Saved directory.
	DirName = "UnrealP4Migrate"
	// FileName is the settings file name.
	FileName = "unrealp4migrate_settings.json"
)

// Stream listing modes for StreamOption.
const (
	StreamOptionChildren = "children"
	StreamOptionAll      = "all"
)

// ErrNotFound is returned when a settings file does not exist.
var ErrNotFound = errors.New("settings file not found")

// Settings are the values remembered between runs. Keys mirror the JSON file.
type Settings struct {
	Port         string `mapstructure:"port" json:"port"`
	User         string `mapstructure:"user" json:"user"`
	Client       string `mapstructure:"client" json:"client"`
	StreamOption string `mapstructure:"stream_option" json:"stream_option" validate:"omitempty,oneof=children all"`
	Stream       string `mapstructure:"stream" json:"stream" validate:"omitempty,startswith=//"`
	DryRun       bool   `mapstructure:"dry_run" json:"dry_run"`
	RemapKey     string `mapstructure:"remap_key" json:"remap_key"`
	RemapValue   string `mapstructure:"remap_value" json:"remap_value"`
}

// Connection is the subset of settings needed to talk to Perforce.
type Connection struct {
	Port   string `validate:"required"`
	User   string `validate:"required"`
	Client string `validate:"required"`
}

var validate = validator.New()

// Dir returns the settings directory for a project's Saved directory.
func Dir(savedDir string) string {
	return filepath.Join(savedDir, DirName)
}

// Path returns the settings file path for a project's Saved directory.
func Path(savedDir string) string {
	return filepath.Join(Dir(savedDir), FileName)
}

// Load reads settings from path. Empty connection fields fall back to the
// P4PORT, P4USER and P4CLIENT environment variables.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.Wrapf(ErrNotFound, "%s", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, errors.Wrapf(err, "failed to load settings from %s", path)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Wrapf(err, "failed to decode settings from %s", path)
	}

	s.ApplyEnvironment()
	return s, nil
}

// ApplyEnvironment fills empty connection fields from P4PORT, P4USER and
// P4CLIENT.
func (s *Settings) ApplyEnvironment() {
	env := viper.New()
	_ = env.BindEnv("port", "P4PORT")
	_ = env.BindEnv("user", "P4USER")
	_ = env.BindEnv("client", "P4CLIENT")

	if s.Port == "" {
		s.Port = env.GetString("port")
	}
	if s.User == "" {
		s.User = env.GetString("user")
	}
	if s.Client == "" {
		s.Client = env.GetString("client")
	}
}

// Save writes settings to path as JSON, creating the directory if needed.
func Save(path string, s Settings) error {
	if err := Validate(s); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create settings directory")
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("port", s.Port)
	v.Set("user", s.User)
	v.Set("client", s.Client)
	v.Set("stream_option", s.StreamOption)
	v.Set("stream", s.Stream)
	v.Set("dry_run", s.DryRun)
	v.Set("remap_key", s.RemapKey)
	v.Set("remap_value", s.RemapValue)

	if err := v.WriteConfigAs(path); err != nil {
		return errors.Wrap(err, "failed to write settings to disk")
	}
	return nil
}

// Validate checks field formats. Connection fields may be empty.
func Validate(s Settings) error {
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(err, "invalid settings")
	}
	return nil
}

// Connection returns the Perforce connection fields.
func (s Settings) Connection() Connection {
	return Connection{Port: s.Port, User: s.User, Client: s.Client}
}

// Validate checks that every connection field is set.
func (c Connection) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "incomplete Perforce connection")
	}
	return nil
}

// Merge returns s with every empty string field taken from fallback.
func (s Settings) Merge(fallback Settings) Settings {
	pick := func(v, fb string) string {
		if v != "" {
			return v
		}
		return fb
	}
	s.Port = pick(s.Port, fallback.Port)
	s.User = pick(s.User, fallback.User)
	s.Client = pick(s.Client, fallback.Client)
	s.StreamOption = pick(s.StreamOption, fallback.StreamOption)
	s.Stream = pick(s.Stream, fallback.Stream)
	s.RemapKey = pick(s.RemapKey, fallback.RemapKey)
	s.RemapValue = pick(s.RemapValue, fallback.RemapValue)
	return s
}
