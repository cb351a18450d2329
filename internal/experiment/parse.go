package experiment

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Errors returned by ParseConfig for documents that decode but cannot be used.
var (
	ErrEmptyConfig       = errors.New("config is empty")
	ErrMultipleDocuments = errors.New("multiple YAML documents are not supported")
)

// ParseConfig decodes exactly one YAML document into a Config. Unknown fields are errors so
// that a misspelled bonus or targets key is not silently ignored.
func ParseConfig(data []byte) (Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config: %w", ErrEmptyConfig)
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	var next yaml.Node
	switch err := decoder.Decode(&next); {
	case errors.Is(err, io.EOF):
		return cfg, nil
	case err != nil:
		return Config{}, fmt.Errorf("parse config: %w", err)
	default:
		return Config{}, fmt.Errorf("parse config: %w", ErrMultipleDocuments)
	}
}
