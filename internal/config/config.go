package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/pdesaulniers/vscode-teal/internal/parser"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Parser names the syntax backend, "teal" or "lua".
	Parser   string `json:"parser" toml:"parser"`
	LogLevel int    `json:"log_level" toml:"log_level"`
	LogFile  string `json:"log_file" toml:"log_file"`

	Hover         bool `json:"hover" toml:"hover"`
	SignatureHelp bool `json:"signature_help" toml:"signature_help"`
}

var defaultConfig = Config{
	Parser:        parser.BackendTeal,
	LogLevel:      0,
	Hover:         true,
	SignatureHelp: true,
}

func Default() Config {
	return defaultConfig
}

// Load overlays v, typically LSP initializationOptions, on the defaults.
func Load(v any) (Config, error) {
	return Merge(defaultConfig, v)
}

// Merge overlays v on base. Only fields present in v overwrite.
func Merge(base Config, v any) (Config, error) {
	cfg := base
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFromJSON reads JSON from r into a Config.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := defaultConfig

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode JSON config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFromTOML reads the file at path into a Config. Keys not in the file
// keep their defaults.
func LoadFromTOML(path string) (Config, error) {
	cfg := defaultConfig

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := parser.Validate(c.Parser); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.LogLevel < 0 {
		return fmt.Errorf("%w: negative log level %d", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}
