package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/hashcheck/algorithm"
	"github.com/byte4ever/hashcheck/detector"
	"github.com/byte4ever/hashcheck/digester"
	"github.com/byte4ever/hashcheck/record"
)

// EnvPath names the environment variable consulted when no config
// path is given explicitly.
const EnvPath = "HASHCHECK_CONFIG"

// ErrInvalid is returned for a config file that cannot be decoded or
// holds unusable values.
var ErrInvalid = errors.New("invalid configuration")

// Config holds user settings. Zero values mean "use the default".
type Config struct {
	// Algorithm is the initial selection.
	Algorithm string `yaml:"algorithm"`

	// RecordHeader is the comment line template.
	RecordHeader string `yaml:"record_header"`

	// RecordName is the suggested record file name template.
	RecordName string `yaml:"record_name"`

	// Lengths replaces the detection table when non-empty.
	Lengths map[int]string `yaml:"lengths"`
}

// Default returns the built-in settings.
func Default() Config {
	lengths := make(map[int]string)
	for ln, al := range detector.DefaultTable() {
		lengths[ln] = al.String()
	}

	return Config{
		Algorithm:    algorithm.Default().String(),
		RecordHeader: record.DefaultHeader,
		RecordName:   record.DefaultName,
		Lengths:      lengths,
	}
}

// Load reads the config file at path. An empty path falls back to
// $HASHCHECK_CONFIG, and then to Default.
func Load(path string) (Config, error) {
	const errCtx = "loading config"

	if path == "" {
		path = os.Getenv(EnvPath)
	}

	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path from CLI flag or env
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, digester.Classify(err))
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return cfg, nil
}

// Parse decodes YAML settings, fills defaults for missing keys and
// validates the result.
func Parse(data []byte) (Config, error) {
	const errCtx = "parsing config"

	var cfg Config

	err := yaml.UnmarshalWithOptions(
		data, &cfg, yaml.DisallowUnknownField(),
	)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w: %w", errCtx, ErrInvalid, err)
	}

	def := Default()

	if cfg.Algorithm == "" {
		cfg.Algorithm = def.Algorithm
	}

	if cfg.RecordHeader == "" {
		cfg.RecordHeader = def.RecordHeader
	}

	if cfg.RecordName == "" {
		cfg.RecordName = def.RecordName
	}

	if len(cfg.Lengths) == 0 {
		cfg.Lengths = def.Lengths
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return cfg, nil
}

// Validate checks the algorithm names and the length table.
func (cfg Config) Validate() error {
	const errCtx = "validating config"

	if _, err := cfg.DefaultAlgorithm(); err != nil {
		return fmt.Errorf("%s: %w: %w", errCtx, ErrInvalid, err)
	}

	if _, err := cfg.Table(); err != nil {
		return fmt.Errorf("%s: %w: %w", errCtx, ErrInvalid, err)
	}

	return nil
}

// DefaultAlgorithm returns the configured initial selection.
func (cfg Config) DefaultAlgorithm() (algorithm.Algorithm, error) {
	al, err := algorithm.Parse(cfg.Algorithm)
	if err != nil {
		return "", fmt.Errorf("algorithm: %w", err)
	}

	return al, nil
}

// Table returns the detection table. An empty Lengths map yields
// the default table.
func (cfg Config) Table() (detector.Table, error) {
	if len(cfg.Lengths) == 0 {
		return detector.DefaultTable(), nil
	}

	tb := make(detector.Table, len(cfg.Lengths))

	for ln, name := range cfg.Lengths {
		al, err := algorithm.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("lengths[%d]: %w", ln, err)
		}

		tb[ln] = al
	}

	if err := tb.Validate(); err != nil {
		return nil, err
	}

	return tb, nil
}

// Format returns the record templates.
func (cfg Config) Format() record.Format {
	return record.Format{
		Header: cfg.RecordHeader,
		Name:   cfg.RecordName,
	}
}
